package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/security"
	"github.com/pagegen/pagegen/internal/settings"
	"github.com/pagegen/pagegen/internal/ui"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change the persisted settings",
	}
	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsSetCmd())
	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			st := store.Load()
			if st.APIKey != "" {
				st.APIKey = security.MaskKey(st.APIKey)
			}
			if st.WordpressPassword != "" {
				st.WordpressPassword = "***"
			}
			data, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value [key=value...]",
		Short: "Change settings fields",
		Long: "Supported keys: model, provider, api_mode, api_key, base_url, output_language,\n" +
			"output_format, reasoning_effort, web_search, system_prompt, company_name, brand_name, brand_url,\n" +
			"video_model, video_duration, video_width, video_height, video_style, video_sound,\n" +
			"wordpress_api_url, wordpress_username, wordpress_password",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			st := store.Load()
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid assignment %q, expected key=value", arg)
				}
				if err := applySetting(&st, key, value); err != nil {
					return err
				}
			}
			if err := store.Save(st); err != nil {
				return err
			}
			ui.PrintSuccess("settings updated")
			return nil
		},
	}
}

// applySetting maps one key=value assignment onto the settings record.
func applySetting(st *settings.Settings, key, value string) error {
	switch key {
	case "model":
		st.Model = value
	case "provider":
		id := provider.ID(strings.ToLower(value))
		if _, ok := provider.Lookup(id); !ok {
			return fmt.Errorf("unknown provider %q", value)
		}
		st.Provider = id
	case "api_mode":
		switch provider.Mode(value) {
		case provider.ModeInternal, provider.ModeCustom:
			st.APIMode = provider.Mode(value)
		default:
			return fmt.Errorf("api_mode must be %q or %q", provider.ModeInternal, provider.ModeCustom)
		}
	case "api_key":
		st.APIKey = value
	case "base_url":
		st.BaseURL = value
	case "output_language":
		st.OutputLanguage = value
	case "output_format":
		st.OutputFormat = value
	case "reasoning_effort":
		switch settings.ReasoningEffort(value) {
		case settings.EffortLow, settings.EffortMedium, settings.EffortHigh:
			st.ReasoningEffort = settings.ReasoningEffort(value)
		default:
			return fmt.Errorf("reasoning_effort must be low, medium or high")
		}
	case "web_search":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("web_search must be true or false")
		}
		st.EnableWebSearch = b
	case "company_name":
		st.CompanyName = value
	case "brand_name":
		st.BrandName = value
	case "brand_url":
		st.BrandURL = value
	case "system_prompt":
		st.SystemPrompt = value
	case "video_model":
		st.VideoModel = value
	case "video_duration":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("video_duration must be a positive integer")
		}
		st.VideoDuration = n
	case "video_width":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("video_width must be a positive integer")
		}
		st.VideoWidth = n
	case "video_height":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("video_height must be a positive integer")
		}
		st.VideoHeight = n
	case "video_style":
		st.VideoStyle = value
	case "video_sound":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("video_sound must be true or false")
		}
		st.VideoSound = b
	case "wordpress_api_url":
		st.WordpressAPIURL = value
	case "wordpress_username":
		st.WordpressUsername = value
	case "wordpress_password":
		st.WordpressPassword = value
	default:
		return fmt.Errorf("unknown settings key %q", key)
	}
	return nil
}
