package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/oai-jats/format/jats"
)

var metadataPrefix string

var recordCmd = &cobra.Command{
	Use:   "record <article-id|oai-identifier>",
	Short: "Disseminate one article (OAI GetRecord)",
	Long: `Answer an OAI-PMH GetRecord request for one article.

The requester is anonymous unless --user, --remote-addr or --remote-host
describe it. Subscription content is only disseminated to editorial roles
and to requests from a subscribed institution's network.

Examples:
  oai-jats record 12
  oai-jats record oai:journals.example.org:article/12 --pretty
  oai-jats record 12 --user manager
  oai-jats record 12 -m oai_dc
  oai-jats record 12 --remote-addr 128.180.2.44 --remote-host lib.lehigh.edu`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

var listRecordsCmd = &cobra.Command{
	Use:   "list-records",
	Short: "Disseminate every article (OAI ListRecords)",
	Long: `Answer an OAI-PMH ListRecords request covering the whole site.

Records are built concurrently (see the concurrency configuration key).
Articles that cannot be disseminated are left out and logged.`,
	Args: cobra.NoArgs,
	RunE: runListRecords,
}

func addActorFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&actorRoles, "user", "u", nil, "Requester roles (e.g. manager, sub_editor, reader)")
	cmd.Flags().IntVar(&actorUserID, "user-id", 0, "Requester user ID")
	cmd.Flags().StringVar(&actorRemoteAddr, "remote-addr", "", "Requester IP address")
	cmd.Flags().StringVar(&actorRemoteHost, "remote-host", "", "Requester host name")
	cmd.Flags().StringVarP(&metadataPrefix, "metadata-prefix", "m", jats.MetadataPrefix, "OAI metadata prefix")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print XML output")
}

func init() {
	addActorFlags(recordCmd)
	addActorFlags(listRecordsCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	articleID, err := e.parseArticleID(args[0])
	if err != nil {
		return err
	}

	resp, err := e.dispatcher.GetRecord(cmd.Context(), e.dispatcher.Identifier(articleID), metadataPrefix, actorFromFlags())
	if err != nil {
		return fmt.Errorf("getting record %d: %w", articleID, err)
	}
	return writeResponse(cmd.OutOrStdout(), resp)
}

func runListRecords(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	resp, err := e.dispatcher.ListRecords(cmd.Context(), metadataPrefix, actorFromFlags())
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}
	return writeResponse(cmd.OutOrStdout(), resp)
}
