package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagegen/pagegen/internal/settings"
)

var settingsDir string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pagegen",
		Short:         "Generate SEO articles and product videos from page content",
		Long:          "pagegen turns product page content into SEO blog articles and short promo videos,\nusing whichever AI provider is configured: direct with your own key, or through a relay.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&settingsDir, "settings-dir", "", "settings directory (default ~/.pagegen)")

	cmd.AddCommand(generateCmd())
	cmd.AddCommand(videoCmd())
	cmd.AddCommand(providersCmd())
	cmd.AddCommand(settingsCmd())
	return cmd
}

// openStore opens the settings store at the configured directory.
func openStore() (*settings.Store, error) {
	dir := settingsDir
	if dir == "" {
		dir = settings.DefaultDir()
	}
	return settings.NewStore(dir)
}

// readContent resolves the input content: an explicit argument, a file,
// or stdin when piped.
func readContent(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("no input: pass content as an argument, --file, or pipe it on stdin")
}
