package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagegen/pagegen/internal/adapter"
	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/ui"
)

func providersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect and test the supported AI providers",
	}
	cmd.AddCommand(providersListCmd())
	cmd.AddCommand(providersTestCmd())
	return cmd
}

func providersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported providers and their known models",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range provider.All() {
				p, _ := provider.Lookup(id)
				fmt.Printf("%-11s %s\n", id, p.DisplayName)
				for _, m := range p.KnownModels {
					fmt.Printf("             %s\n", m)
				}
			}
			return nil
		},
	}
}

func providersTestCmd() *cobra.Command {
	var (
		delay time.Duration
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "test [model...]",
		Short: "Probe model connectivity with the current credentials",
		Long: "Sends a minimal chat request to each model sequentially, spacing calls to stay\n" +
			"under provider rate limits. Without arguments, probes the configured model;\n" +
			"with --all, probes one representative model per provider.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			st := store.Load()

			models := args
			if len(models) == 0 {
				if all {
					for _, id := range provider.All() {
						p, _ := provider.Lookup(id)
						if len(p.KnownModels) > 0 {
							models = append(models, p.KnownModels[0])
						}
					}
				} else {
					models = []string{st.Model}
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ui.PrintMiniBanner(version)
			transport := adapter.NewTransport()
			results := transport.Sweep(ctx, models, st, provider.OSEnv(), delay, func(r adapter.ProbeResult) {
				detail := ""
				if r.Err != nil {
					detail = r.Err.Error()
				}
				ui.PrintProbe(string(r.Provider), r.Model, r.OK, r.Latency, detail)
			})

			failed := 0
			for _, r := range results {
				if !r.OK {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d probes failed", failed, len(results))
			}
			ui.PrintSuccess(fmt.Sprintf("all %d probes passed", len(results)))
			return nil
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", adapter.DefaultProbeDelay, "delay between sequential probes")
	cmd.Flags().BoolVar(&all, "all", false, "probe one representative model per provider")
	return cmd
}
