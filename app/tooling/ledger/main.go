// This program provides command line access to a ledger node and to the
// proof of work rule.
package main

import "github.com/ardanlabs/powledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
