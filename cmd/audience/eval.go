package main

import (
	"fmt"
	"os"

	"github.com/ezachrisen/audience"
	"github.com/ezachrisen/audience/cel"
	"github.com/ezachrisen/audience/telemetry"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type evalFlags struct {
	data     string
	parallel int
}

func newEvalCmd(g *globalFlags) *cobra.Command {
	f := &evalFlags{}

	cmd := &cobra.Command{
		Use:   "eval [audience...]",
		Short: "Evaluate audiences against a data file",
		Long: `Evaluate the named audiences, or all audiences if none are named.

The data file (YAML or JSON) holds the facts the expressions refer to. If the
configuration has no schema section, the schema is inferred from the data
and the configured attributes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluate(cmd, g, f, args)
		},
	}

	cmd.Flags().StringVarP(&f.data, "data", "d", "", "data file (YAML or JSON)")
	cmd.Flags().IntVarP(&f.parallel, "parallel", "p", 8, "maximum number of audiences evaluated at once")
	return cmd
}

func evaluate(cmd *cobra.Command, g *globalFlags, f *evalFlags, names []string) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	data, err := loadData(f.data)
	if err != nil {
		return err
	}

	schema, err := evalSchema(cfg, data)
	if err != nil {
		return err
	}

	evaluator, err := cel.NewEvaluator(schema)
	if err != nil {
		return errors.Wrap(err, "creating evaluator")
	}

	tracker, err := telemetry.NewOTelTracker()
	if err != nil {
		return err
	}

	l, err := g.logger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	r := audience.New(cfg, evaluator,
		audience.WithLogger(audience.NewZapLogger(l)),
		audience.WithTracker(tracker),
	)

	if len(names) == 0 {
		names = r.Audiences()
	}
	for _, name := range names {
		if _, ok := cfg.Audiences[name]; !ok {
			return errors.Errorf("audience %q does not exist", name)
		}
	}

	ctx := cel.WithFacts(cmd.Context(), data)
	results := make([]bool, len(names))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(f.parallel, 1))
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			results[i] = r.Evaluate(ctx, name)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resultTable(r, names, results))
	return nil
}

// loadData reads the facts file. An empty path means no facts.
func loadData(path string) (map[string]any, error) {
	data := map[string]any{}
	if path == "" {
		return data, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading data file")
	}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, errors.Wrapf(err, "parsing data file %s", path)
	}
	return data, nil
}

// evalSchema returns the schema declared in the configuration, or one
// inferred from the data and the configured attributes.
func evalSchema(cfg audience.Config, data map[string]any) (audience.Schema, error) {
	if len(cfg.Types) > 0 {
		return cfg.Schema()
	}

	all := map[string]any{}
	for k, v := range data {
		all[k] = v
	}
	for k, v := range cfg.DefaultOptions.Attributes {
		all[k] = v
	}
	for _, def := range cfg.Audiences {
		for k, v := range def.Options.Attributes {
			all[k] = v
		}
	}
	return audience.InferSchema(all), nil
}

func resultTable(r *audience.Resolver, names []string, results []bool) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Audience", "Expression", "Result"})
	for i, name := range names {
		expr, ok := r.Expression(name)
		if !ok {
			expr = "(invalid)"
		}
		tw.AppendRow(table.Row{name, expr, matched(results[i])})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 60},
	})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func matched(b bool) string {
	if b {
		return "MATCH"
	}
	return "no match"
}
