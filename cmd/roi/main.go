// Command roi runs channel return scenarios from the terminal.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/channel-roi/internal/config"
	"github.com/AngelCh415/channel-roi/internal/finance"
	"github.com/AngelCh415/channel-roi/internal/ingest"
	"github.com/AngelCh415/channel-roi/internal/metrics"
	"github.com/AngelCh415/channel-roi/internal/models"
	"github.com/AngelCh415/channel-roi/internal/report"
	"github.com/AngelCh415/channel-roi/internal/scenario"
	"github.com/AngelCh415/channel-roi/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var channelsFile string

	root := &cobra.Command{
		Use:           "roi",
		Short:         "Channel IRR, payback and ROI projections",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&channelsFile, "channels", "", "YAML/JSON channel table (default: CHANNELS_FILE or built-in)")

	root.AddCommand(newRunCmd(&channelsFile), newIRRCmd(), newChannelsCmd(&channelsFile))
	return root
}

func newRunCmd(channelsFile *string) *cobra.Command {
	var (
		in   scenario.RunInput
		view string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Project every channel and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			table, err := loadTable(cmd, cfg, *channelsFile)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
			m := metrics.New()
			runner := scenario.NewRunner(logger, m, scenario.OptionsFromConfig(cfg))
			svc := scenario.NewService(runner, store.NewMemoryStore(), table, scenario.DefaultsFromConfig(cfg), m)

			rep, err := svc.Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd, report.Render(rep, report.ParseView(view)))
		},
	}
	f := cmd.Flags()
	f.IntVar(&in.TimeHorizon, "time-horizon", 0, "months projected for every channel (default: TIME_HORIZON)")
	f.StringVar(&view, "view", "full", "full, simple or board")
	f.BoolVar(&in.MonteCarlo, "monte-carlo", false, "also run the Monte Carlo sweep")
	f.IntVar(&in.Iterations, "iterations", 0, "Monte Carlo trials per channel (default: MC_ITERATIONS)")
	f.Uint64Var(&in.Seed, "seed", 0, "Monte Carlo seed, 0 for random")
	return cmd
}

func newIRRCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "irr -- CF0 CF1 ...",
		Short: "Solve the periodic IRR of a cash-flow series",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flows := make([]float64, 0, len(args))
			for _, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("cash flow %q: %w", a, err)
				}
				flows = append(flows, v)
			}
			rate, err := finance.IRR(flows)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "undefined:", err)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "periodic %.6f  annualized %.4f\n", rate, finance.Annualize(rate))
			return nil
		},
	}
}

func newChannelsCmd(channelsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "Print the channel table in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			table, err := loadTable(cmd, cfg, *channelsFile)
			if err != nil {
				return err
			}
			return printJSON(cmd, table)
		},
	}
}

// loadTable prefers --channels over CHANNELS_URL and CHANNELS_FILE.
func loadTable(cmd *cobra.Command, cfg config.Config, file string) (models.ChannelTable, error) {
	if file != "" {
		cfg.ChannelsFile, cfg.ChannelsURL = file, ""
	}
	quiet := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	return ingest.NewLoader(ingest.NewHTTPClient(cfg.HTTPTimeout()), quiet, cfg).Load(cmd.Context())
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
