package cli

import (
	"context"
	"fmt"

	"swf-translator/internal/corpus"
	"swf-translator/internal/script"
	"swf-translator/internal/textutil"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func gatherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gather",
		Short: "Collect all displayable strings into the corpus file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := loadConfig(cmd)
			mode, err := script.ParseMode(cfg.Mode)
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("dir")

			return runGather(ctx, gatherOptions{
				Dir:        dir,
				CorpusPath: cfg.CorpusPath,
				Mode:       mode,
				Workers:    cfg.WorkerCount,
			})
		},
	}

	cmd.Flags().String("dir", ".", "Directory exported by the decompiler")
	return cmd
}

type gatherOptions struct {
	Dir        string
	CorpusPath string
	Mode       script.Mode
	Workers    int
}

// runGather writes a corpus mapping every unique extracted string to itself.
func runGather(ctx context.Context, opts gatherOptions) error {
	files, err := parseFiles(ctx, opts.Dir, opts.Mode, opts.Workers)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	var unique []string
	for _, f := range files {
		log.Info().Str("file", f.Entry.Path).Int("strings", len(f.Result.Texts)).Msg("Gathered")
		for _, s := range f.Result.Texts {
			if !seen[s] {
				seen[s] = true
				unique = append(unique, s)
			}
		}
	}

	c := corpus.FromStrings(unique)
	if err := c.Save(opts.CorpusPath); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	log.Info().
		Int("files", len(files)).
		Int("unique_strings", len(unique)).
		Int("chars", textutil.CharCount(unique)).
		Str("corpus", opts.CorpusPath).
		Str("mode", string(opts.Mode)).
		Msg("Gather complete")
	return nil
}
