// Command snap is the SNAP peer CLI: generate an identity, serve it
// over HTTP, or send a one-off request to another peer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{Use: "snap"}
	root.AddCommand(keygenCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(sendCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
