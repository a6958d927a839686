package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/oai-jats/format/jats"
)

var (
	validateInput   string
	validateArticle string
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a JATS XML file before uploading it",
	Long: `Check that a JATS XML file would be picked up as an article's JATS
document and that its front matter elements are in schema order.

With --article, the article's metadata is merged into the file first and
the merged result is checked instead.

Input defaults to stdin.

Examples:
  oai-jats validate article.xml
  oai-jats validate article.xml --article 12 --verbose
  cat article.xml | oai-jats validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Input file (default: stdin)")
	validateCmd.Flags().StringVarP(&validateArticle, "article", "a", "", "Merge this article's metadata before checking")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show the checked document")
}

func runValidate(cmd *cobra.Command, args []string) (err error) {
	if len(args) == 1 {
		validateInput = args[0]
	}

	// Determine input source
	var input io.Reader
	var inputName string

	if validateInput != "" {
		f, openErr := os.Open(validateInput)
		if openErr != nil {
			return fmt.Errorf("opening input file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing input file: %w", cerr)
			}
		}()
		input = f
		inputName = validateInput
	} else {
		input = os.Stdin
		inputName = "stdin"
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(input); err != nil {
		return fmt.Errorf("parsing %s: %w", inputName, err)
	}

	if validateArticle != "" {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		articleID, err := e.parseArticleID(validateArticle)
		if err != nil {
			return err
		}
		rec, err := e.snapshot.Record(articleID)
		if err != nil {
			return err
		}
		router, err := jats.NewRouter(e.cfg.BaseURL)
		if err != nil {
			return err
		}
		opts := jats.MergeOptions{Router: router, Directory: e.snapshot}
		if err := jats.Merge(doc, rec, opts); err != nil {
			return fmt.Errorf("merging article %d: %w", articleID, err)
		}
	}

	violations, err := jats.CheckDocument(doc)
	if err != nil {
		return fmt.Errorf("validation failed: %s: %w", inputName, err)
	}

	out := cmd.OutOrStdout()
	if validateVerbose {
		s, err := jats.SerializeArticle(doc)
		if err != nil {
			return err
		}
		pretty = true
		if err := writeXML(out, s); err != nil {
			return err
		}
	}

	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(out, "✗ %s\n", v)
		}
		return fmt.Errorf("validation failed: %d element order problems in %s", len(violations), inputName)
	}

	fmt.Fprintf(out, "✓ Valid: %s is a usable JATS document\n", inputName)
	return nil
}
