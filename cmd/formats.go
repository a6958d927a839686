package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List metadata formats (OAI ListMetadataFormats)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		if asXML {
			return writeResponse(cmd.OutOrStdout(), e.dispatcher.ListMetadataFormats())
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", e.plugin.DisplayName(), e.plugin.Name())
		fmt.Fprintf(out, "  %s\n", e.plugin.Description())
		f := e.plugin.Format()
		fmt.Fprintf(out, "  prefix:    %s\n", f.Prefix())
		fmt.Fprintf(out, "  schema:    %s\n", f.Schema())
		fmt.Fprintf(out, "  namespace: %s\n", f.Namespace())
		fmt.Fprintln(out, "  enabled for:")
		for _, j := range e.snapshot.Journals {
			state := "disabled"
			if e.plugin.Enabled(j.ID) {
				state = "enabled"
			}
			fmt.Fprintf(out, "    %d %-20s %s\n", j.ID, j.Path, state)
		}

		for _, other := range e.dispatcher.Registry.List() {
			if other.Prefix() == f.Prefix() {
				continue
			}
			fmt.Fprintf(out, "%s (%s)\n", other.Description(), other.Prefix())
			fmt.Fprintf(out, "  schema:    %s\n", other.Schema())
			fmt.Fprintf(out, "  namespace: %s\n", other.Namespace())
		}
		return nil
	},
}

var asXML bool

func init() {
	formatsCmd.Flags().BoolVar(&asXML, "xml", false, "Print the OAI-PMH response")
	formatsCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print XML output")
}
