package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/oai-jats/format/jats"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage per-journal plugin settings",
	Long: `Show and change the JATS plugin settings of a journal.

Journals are named by ID or path.

Examples:
  oai-jats settings get jlh
  oai-jats settings set jlh forceJatsTemplate true
  oai-jats settings form jlh`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <journal>",
	Short: "Show a journal's settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		contextID, err := e.parseContextID(args[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(e.settings.Settings(contextID), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <journal> <key> <value>",
	Short: "Change a journal setting",
	Long: `Change a journal setting. Values "true" and "false" are stored as
booleans, numbers as numbers, anything else as a string.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		contextID, err := e.parseContextID(args[0])
		if err != nil {
			return err
		}
		if err := e.settings.UpdateSetting(contextID, args[1], parseSettingValue(args[2])); err != nil {
			return fmt.Errorf("updating %s: %w", args[1], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s for journal %d\n", args[1], args[2], contextID)
		return nil
	},
}

var settingsFormAction string

var settingsFormCmd = &cobra.Command{
	Use:   "form <journal> [key=value...]",
	Short: "Render the settings form, or submit it with values",
	Long: `Render the plugin settings form for a journal. When form values are
given they are submitted first, as if the form had been saved.

Examples:
  oai-jats settings form jlh
  oai-jats settings form jlh forceJatsTemplate=1
  oai-jats settings form jlh forceJatsTemplate=`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		contextID, err := e.parseContextID(args[0])
		if err != nil {
			return err
		}

		form := e.plugin.SettingsForm(contextID)
		if len(args) > 1 {
			values := url.Values{}
			for _, pair := range args[1:] {
				k, v, _ := strings.Cut(pair, "=")
				values.Add(k, v)
			}
			form.ReadInputData(values)
			if err := form.Execute(); err != nil {
				return err
			}
		} else {
			form.InitData()
		}

		html, err := form.Fetch(settingsFormAction)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), html)
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable <journal>",
	Short: "Enable the JATS format for a journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <journal>",
	Short: "Disable the JATS format for a journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], false)
	},
}

func setEnabled(cmd *cobra.Command, journal string, enabled bool) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	contextID, err := e.parseContextID(journal)
	if err != nil {
		return err
	}
	if enabled && !e.plugin.CanEnable() || !enabled && !e.plugin.CanDisable() {
		return fmt.Errorf("%s cannot be changed", jats.PluginName)
	}
	if err := e.plugin.SetEnabled(contextID, enabled); err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s for journal %d\n", e.plugin.DisplayName(), state, contextID)
	return nil
}

func parseSettingValue(s string) *structpb.Value {
	if b, err := strconv.ParseBool(s); err == nil {
		return structpb.NewBoolValue(b)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return structpb.NewNumberValue(f)
	}
	return structpb.NewStringValue(s)
}

func init() {
	settingsFormCmd.Flags().StringVar(&settingsFormAction, "action", "", "Form action URL")
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsFormCmd)
}
