package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/oai-jats/format/jats"
)

var templateMerge bool

var templateCmd = &cobra.Command{
	Use:   "template <article-id|oai-identifier>",
	Short: "Print the JATS document synthesized for an article",
	Long: `Print the JATS document built from an article's metadata, as used when
no uploaded JATS file qualifies or the journal forces the template.

With --merge the journal's current metadata is merged into it, which is
what record prints inside the metadata element.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		articleID, err := e.parseArticleID(args[0])
		if err != nil {
			return err
		}
		rec, err := e.snapshot.Record(articleID)
		if err != nil {
			return err
		}

		doc := jats.BuildTemplate(rec)
		if templateMerge {
			router, err := jats.NewRouter(e.cfg.BaseURL)
			if err != nil {
				return err
			}
			opts := jats.MergeOptions{Router: router, Directory: e.snapshot}
			if err := jats.Merge(doc, rec, opts); err != nil {
				return fmt.Errorf("merging article %d: %w", articleID, err)
			}
		}

		s, err := jats.SerializeArticle(doc)
		if err != nil {
			return err
		}
		return writeXML(cmd.OutOrStdout(), s)
	},
}

func init() {
	templateCmd.Flags().BoolVar(&templateMerge, "merge", false, "Merge current metadata into the template")
	templateCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print XML output")
}
