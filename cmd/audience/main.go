// Command audience lists and evaluates the audiences in a configuration file.
//
// Usage:
//
//	audience list -c audiences.yaml
//	audience eval -c audiences.yaml -d data.json [audience...]
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(stdout io.Writer, args []string) error {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	return cmd.Execute()
}
