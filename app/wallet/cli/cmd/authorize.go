package cmd

import (
	"crypto/ecdsa"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
	"github.com/spf13/cobra"
)

var (
	privateURL string
	buyer      string
	recipient  string
	referrer   string
	price      string
	nonce      uint64
	data       []byte
)

type hookStatus struct {
	Supply  uint64 `json:"supply"`
	NextKey uint64 `json:"next_key"`
}

type receipt struct {
	KeyIndex      uint64 `json:"key_index"`
	RequiredPrice string `json:"required_price"`
	NextKeyPrice  string `json:"next_key_price"`
	Supply        uint64 `json:"supply"`
	Decimal       string `json:"decimal"`
}

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Sign a key purchase with the lock key and ask the oracle to authorize it.",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		if err := authorizeWithDetails(cmd.OutOrStdout(), privateKey); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(authorizeCmd)
	authorizeCmd.Flags().StringVarP(&privateURL, "url", "u", "http://localhost:9080", "Url of the oracle hook.")
	authorizeCmd.Flags().StringVarP(&buyer, "buyer", "b", "", "Account paying for the key.")
	authorizeCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Account receiving the key, defaults to the buyer.")
	authorizeCmd.Flags().StringVarP(&referrer, "referrer", "f", "", "Account that referred the buyer.")
	authorizeCmd.Flags().StringVarP(&price, "price", "v", "0", "Offered price in token units.")
	authorizeCmd.Flags().Uint64VarP(&nonce, "nonce", "n", 0, "Index of the key being issued, asked from the oracle when zero.")
	authorizeCmd.Flags().BytesHexVarP(&data, "data", "d", nil, "Data passed through from the lock.")
}

func authorizeWithDetails(out io.Writer, privateKey *ecdsa.PrivateKey) error {
	to := recipient
	if to == "" {
		to = buyer
	}

	offered, err := uint256.FromDecimal(price)
	if err != nil {
		return fmt.Errorf("price %q: %w", price, err)
	}

	p, err := database.NewPurchase(database.Account(buyer), database.Account(to), database.Account(referrer), offered, data)
	if err != nil {
		return err
	}

	// Ask the oracle which key is next when no nonce was given.
	n := nonce
	if n == 0 {
		var st hookStatus
		if err := call(http.MethodGet, fmt.Sprintf("%s/v1/hook/status", privateURL), nil, &st); err != nil {
			return fmt.Errorf("hook status: %w", err)
		}
		n = st.NextKey
	}

	sp, err := p.Sign(n, privateKey)
	if err != nil {
		return err
	}

	var rcpt receipt
	if err := call(http.MethodPost, fmt.Sprintf("%s/v1/hook/authorize", privateURL), sp, &rcpt); err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	fmt.Fprintf(out, "Authorized key %d at %s, supply %d, next key %s\n", rcpt.KeyIndex, rcpt.Decimal, rcpt.Supply, rcpt.NextKeyPrice)

	return nil
}
