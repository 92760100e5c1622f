package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

type supplyInfo struct {
	Lock          string `json:"lock"`
	LockName      string `json:"lock_name"`
	InitialSupply uint64 `json:"initial_supply"`
	Supply        uint64 `json:"supply"`
	LatestHash    string `json:"latest_hash"`
}

var url string

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Print the number of keys issued through the oracle.",
	Run:   supplyRun,
}

func init() {
	rootCmd.AddCommand(supplyCmd)
	supplyCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the oracle.")
}

func supplyRun(cmd *cobra.Command, args []string) {
	var info supplyInfo
	if err := call(http.MethodGet, fmt.Sprintf("%s/v1/supply", url), nil, &info); err != nil {
		log.Fatal(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Lock:    %s (%s)\n", info.Lock, info.LockName)
	fmt.Fprintf(out, "Initial: %d\n", info.InitialSupply)
	fmt.Fprintf(out, "Supply:  %d\n", info.Supply)
}
