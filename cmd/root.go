// Package cmd provides CLI commands for oai-jats.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var configFile string

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "oai-jats",
	Short: "Serve journal articles as JATS XML over OAI-PMH",
	Long: `oai-jats exposes a journal site's articles in the OAI-PMH "jats" metadata format.

For each article it locates the uploaded JATS XML (a galley file first, then
production-ready files), or synthesizes one from the article metadata, and
rewrites the front matter with the journal's current metadata.

The journal site is read from a YAML snapshot; see the host_file and
files_dir configuration keys.

Examples:
  oai-jats record 12
  oai-jats record oai:journals.example.org:article/12 --pretty
  oai-jats list-records --user manager
  oai-jats validate article.xml
  oai-jats settings set 1 forceJatsTemplate true`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.oaijats/config.yaml)")
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(listRecordsCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(templateCmd)
}
