package cli

import (
	"errors"

	"swf-translator/internal/graph"

	"github.com/spf13/cobra"
)

func glossaryImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "glossary-import <file.json>",
		Short: "Load glossary terms into Neo4j",
		Long: `Reads a JSON array of {"source", "target", "category", "related"} objects
and upserts them as Term nodes. The gemini provider adds every term found
in a batch to its prompt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := loadConfig(cmd)
			if cfg.Neo4jURI == "" {
				return errors.New("NEO4J_URI is required for glossary-import")
			}

			terms, err := graph.LoadTermsFile(args[0])
			if err != nil {
				return err
			}

			driver, err := connectNeo4j(ctx, cfg)
			if err != nil {
				return err
			}
			r := &resources{neo4j: driver}
			defer r.close(ctx)

			glossary := graph.NewGlossary(driver)
			if err := glossary.EnsureSchema(ctx); err != nil {
				return err
			}
			return glossary.UpsertTerms(ctx, terms)
		},
	}
}
