// This program is the wallet used by the lock operator to sign purchase
// authorizations and query the price oracle.
package main

import "github.com/lockedfyi/oracle/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
