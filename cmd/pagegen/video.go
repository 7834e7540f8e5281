package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pagegen/pagegen/internal/adapter"
	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/settings"
	"github.com/pagegen/pagegen/internal/ui"
	"github.com/pagegen/pagegen/internal/video"
)

func videoCmd() *cobra.Command {
	var (
		file       string
		rawPrompt  string
		model      string
		duration   int
		promptOnly bool
	)

	cmd := &cobra.Command{
		Use:   "video [content]",
		Short: "Generate a short product video from page content",
		Long: "Derives a video prompt from the product content with the configured chat model,\n" +
			"submits it to the selected video model and polls until the clip is ready.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			st := store.Load()
			if model != "" {
				st.VideoModel = model
			}
			if duration > 0 {
				st.VideoDuration = duration
			}

			var content string
			if rawPrompt == "" {
				content, err = readContent(args, file)
				if err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			env := provider.OSEnv()
			transport := adapter.NewTransport()

			if promptOnly {
				prompter := video.NewChatPrompter(transport, st, env)
				p, err := prompter.VideoPrompt(ctx, content)
				if err != nil {
					ui.PrintError(err.Error())
					return err
				}
				fmt.Println(p)
				return nil
			}

			cfg := video.ConfigFromSettings(st)
			rc, err := resolveVideoRoute(st, cfg.Model, env)
			if err != nil {
				ui.PrintError(err.Error())
				return err
			}

			ui.PrintInfo("submitting video job to " + cfg.Model)
			orch := video.NewOrchestrator(transport,
				video.WithPrompter(video.NewChatPrompter(transport, st, env)),
			)

			attempt := 0
			result, err := orch.Run(ctx, video.Request{
				PageContent: content,
				Prompt:      rawPrompt,
				Config:      cfg,
				Resolved:    rc,
			}, func(r video.Result) {
				attempt++
				ui.PrintVideoTick(attempt, string(r.Status), r.Progress)
			})
			if err != nil {
				ui.PrintError(err.Error())
				if result.Prompt != "" {
					ui.PrintWarn("generated prompt kept for retry:")
					fmt.Println(result.Prompt)
				}
				return err
			}

			switch result.Type {
			case video.TypeVideo:
				ui.PrintSuccess("video ready")
				fmt.Println(result.VideoURL)
			case video.TypeText:
				ui.PrintWarn("model answered with text instead of a video:")
				fmt.Println(result.Content)
			}

			if _, err := store.Update(func(s *settings.Settings) { s.TouchUsage("video") }); err != nil {
				ui.PrintWarn("could not record usage: " + err.Error())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read content from a file")
	cmd.Flags().StringVarP(&rawPrompt, "prompt", "p", "", "use this video prompt directly, skipping prompt generation")
	cmd.Flags().StringVarP(&model, "model", "m", "", "video model (overrides settings)")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "clip duration in seconds")
	cmd.Flags().BoolVar(&promptOnly, "prompt-only", false, "print the generated video prompt and exit")
	return cmd
}

// resolveVideoRoute resolves credentials for the video model, which may
// live with a different provider than the chat model.
func resolveVideoRoute(st settings.Settings, model string, env provider.Env) (provider.ResolvedConfig, error) {
	id := st.Provider
	if p, ok := provider.ForModel(model); ok {
		id = p.ID
	}
	return provider.ResolveConfig(id, st.APIMode, env, st.BaseURL, st.APIKey)
}
