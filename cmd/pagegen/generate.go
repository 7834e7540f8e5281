package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pagegen/pagegen/internal/adapter"
	"github.com/pagegen/pagegen/internal/prompt"
	"github.com/pagegen/pagegen/internal/settings"
	"github.com/pagegen/pagegen/internal/ui"
	"github.com/pagegen/pagegen/internal/wordpress"
)

func generateCmd() *cobra.Command {
	var (
		file      string
		language  string
		format    string
		webSearch bool
		publish   bool
	)

	cmd := &cobra.Command{
		Use:   "generate [content]",
		Short: "Generate an SEO blog article from product content",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(args, file)
			if err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			st := store.Load()
			if language != "" {
				st.OutputLanguage = language
			}
			if format != "" {
				st.OutputFormat = format
			}
			if cmd.Flags().Changed("web-search") {
				st.EnableWebSearch = webSearch
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			article, err := runGenerate(ctx, store, st, content)
			if err != nil {
				ui.PrintError(err.Error())
				if e, ok := err.(*adapter.Error); ok && e.Hint != "" {
					ui.PrintWarn(e.Hint)
				}
				return err
			}

			fmt.Println(article)

			if _, err := store.Update(func(s *settings.Settings) { s.TouchUsage("text") }); err != nil {
				ui.PrintWarn("could not record usage: " + err.Error())
			}

			if publish {
				return publishArticle(ctx, st, article)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read content from a file")
	cmd.Flags().StringVarP(&language, "language", "l", "", "output language (overrides settings)")
	cmd.Flags().StringVar(&format, "format", "", "output format: markdown, html, json, plain")
	cmd.Flags().BoolVar(&webSearch, "web-search", false, "allow the model to search the web")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish the article to WordPress as a draft")
	return cmd
}

// runGenerate builds the request from settings and executes it.
func runGenerate(ctx context.Context, store *settings.Store, st settings.Settings, content string) (string, error) {
	system := st.SystemPrompt
	if system == "" {
		system = prompt.BuildSystemPrompt(st.OutputLanguage, st.OutputFormat, string(st.ReasoningEffort), st.EnableWebSearch)
	}
	if st.OutputFormat == "json" {
		tmpl := store.LoadTemplate()
		if tmpl.Content != "" {
			system += "\n\nUse this exact JSON structure:\n" + tmpl.Content
		}
	}

	req, rc, err := adapter.Build(content, st, adapter.AIConfig{
		SystemPrompt:    system,
		ReasoningEffort: st.ReasoningEffort,
		EnableWebSearch: st.EnableWebSearch,
	})
	if err != nil {
		return "", err
	}

	transport := adapter.NewTransport()
	raw, err := transport.SendChat(ctx, req, rc)
	if err != nil {
		return "", err
	}
	return adapter.InterpretChat(raw, req.Model)
}

// publishArticle sends the article to the configured WordPress site as a
// draft. The first non-empty line becomes the title.
func publishArticle(ctx context.Context, st settings.Settings, article string) error {
	if st.WordpressAPIURL == "" {
		return fmt.Errorf("no WordPress site configured, run: pagegen settings set wordpress_api_url=<url>")
	}

	client := wordpress.NewClient(st.WordpressAPIURL, st.WordpressUsername, st.WordpressPassword)
	title := articleTitle(article)
	result, err := client.CreatePost(ctx, wordpress.Post{
		Title:   title,
		Content: article,
	})
	if err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("draft created: %s (post %d)", result.Link, result.ID))
	return nil
}

func articleTitle(article string) string {
	for _, line := range strings.Split(article, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return line
		}
	}
	return "Generated article"
}
