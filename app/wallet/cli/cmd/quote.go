package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/lockedfyi/oracle/foundation/oracle/curve"
	"github.com/spf13/cobra"
)

type priceInfo struct {
	Supply   uint64 `json:"supply"`
	KeyIndex uint64 `json:"key_index"`
	Price    string `json:"price"`
	Decimal  string `json:"decimal"`
}

var quoteSupply uint64

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print the price of the next key.",
	Long: `Print the price of the next key. Without --supply the oracle is asked
for the price at its current supply. With --supply the default curve is
evaluated locally.`,
	Run: quoteRun,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the oracle.")
	quoteCmd.Flags().Uint64VarP(&quoteSupply, "supply", "s", 0, "Price the key following this supply.")
}

func quoteRun(cmd *cobra.Command, args []string) {
	if cmd.Flags().Changed("supply") {
		price, err := curve.Price(quoteSupply)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Key %d: %s (%s)\n", quoteSupply+1, curve.ToDecimal(price), price.Dec())
		return
	}

	var info priceInfo
	if err := call(http.MethodGet, fmt.Sprintf("%s/v1/price", url), nil, &info); err != nil {
		log.Fatal(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Key %d: %s (%s)\n", info.KeyIndex, info.Decimal, info.Price)
}
