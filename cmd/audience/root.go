package main

import (
	"io"

	"github.com/ezachrisen/audience"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	config  string
	verbose bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "audience",
		Short: "List and evaluate audiences",
		Long: `audience works with the audience definitions used to gate rules.

An audience is a named boolean expression, or a list of subexpressions joined
with "and" or "or". Expressions are evaluated with CEL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)

	cmd.PersistentFlags().StringVarP(&g.config, "config", "c", "audiences.yaml", "audience configuration file (YAML or JSON)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log evaluation details to stderr")

	cmd.AddCommand(newListCmd(g), newEvalCmd(g))
	return cmd
}

// logger returns a development logger when verbose is set, otherwise a
// logger that discards everything.
func (g *globalFlags) logger() (*zap.Logger, error) {
	if !g.verbose {
		return zap.NewNop(), nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, errors.Wrap(err, "creating logger")
	}
	return l, nil
}

func (g *globalFlags) loadConfig() (audience.Config, error) {
	return audience.LoadConfig(g.config)
}
