package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"DCADashboard/internal/config"
	"DCADashboard/internal/logger"
	"DCADashboard/internal/report"
	"DCADashboard/internal/strategy"
)

func newReportCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		threshold float64
		ceiling   float64
		format    string
		style     string
		width     int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Collect once and print the dashboard",
		Example: `  dashboard report
  dashboard report --threshold 5 --ceiling 60
  dashboard report --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			switch format {
			case "terminal", "md", "json":
			default:
				return fmt.Errorf("invalid format: %s (valid: terminal, md, json)", format)
			}

			// Progress goes to stderr so stdout stays pipeable.
			logCfg := cfg.Log
			logCfg.Output = "stderr"
			log, err := logger.New(&logCfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			comps := build(cmd.Context(), cfg, log, nil)
			defer comps.Close()

			snap, err := comps.collector.Collect(cmd.Context())
			if err != nil {
				return err
			}

			p := cfg.Params()
			if threshold > 0 {
				p.Threshold = strategy.ThresholdFromPercent(threshold)
			}
			if ceiling > 0 {
				p.Ceiling = ceiling
			}
			eval := strategy.Evaluate(snap, p)

			var out string
			switch format {
			case "json":
				b, err := json.MarshalIndent(eval, "", "  ")
				if err != nil {
					return err
				}
				out = string(b) + "\n"
			case "md":
				out, err = report.Markdown(eval)
			default:
				out, err = report.Render(eval, style, width)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(os.Stdout, out)
			return err
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "deviation threshold in percent (default from config)")
	cmd.Flags().Float64Var(&ceiling, "ceiling", 0, "allocation ceiling in percent (default from config)")
	cmd.Flags().StringVar(&format, "format", "terminal", "output format: terminal, md, json")
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style for terminal output: dark, light, notty")
	cmd.Flags().IntVar(&width, "width", 120, "word wrap width for terminal output")
	return cmd
}
