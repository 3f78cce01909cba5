package cli

import (
	"context"
	"fmt"

	"swf-translator/internal/corpus"
	"swf-translator/internal/filewalker"
	"swf-translator/internal/script"
	"swf-translator/internal/textutil"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the corpus translations back into the exported files",
		Long: `Re-parses every file with the same mode used by gather, maps each extracted
string through the corpus and rewrites the file. Strings missing from the
corpus keep their original text and make the command exit with status 1
after all files are written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg := loadConfig(cmd)
			mode, err := script.ParseMode(cfg.Mode)
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("dir")
			output, _ := cmd.Flags().GetString("output")

			return runExport(ctx, exportOptions{
				Dir:        dir,
				Output:     output,
				CorpusPath: cfg.CorpusPath,
				Mode:       mode,
				Workers:    cfg.WorkerCount,
			})
		},
	}

	cmd.Flags().String("dir", ".", "Directory exported by the decompiler")
	cmd.Flags().StringP("output", "o", "", "Write files under this directory instead of in place")
	return cmd
}

type exportOptions struct {
	Dir        string
	Output     string
	CorpusPath string
	Mode       script.Mode
	Workers    int
}

func runExport(ctx context.Context, opts exportOptions) error {
	c, err := corpus.Load(opts.CorpusPath)
	if err != nil {
		return err
	}

	files, err := parseFiles(ctx, opts.Dir, opts.Mode, opts.Workers)
	if err != nil {
		return err
	}

	missing, written := 0, 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		translations := make([]string, len(f.Result.Texts))
		for i, s := range f.Result.Texts {
			tran, ok := c.Get(s)
			if !ok {
				log.Warn().Str("file", f.Entry.Path).Str("text", textutil.Truncate(s, 30)).Msg("No translation found, keeping original")
				tran = s
				missing++
			}
			translations[i] = tran
		}

		data, err := f.Entry.Parser.Reconstruct(f.Result, translations)
		if err != nil {
			return err
		}

		dest, err := filewalker.OutputPath(opts.Dir, opts.Output, f.Entry.Path)
		if err != nil {
			return err
		}
		if opts.Output == "" && string(data) == f.Result.Source {
			log.Debug().Str("file", f.Entry.Path).Msg("Unchanged")
			continue
		}
		if err := filewalker.WriteAtomic(dest, data); err != nil {
			return err
		}
		written++

		log.Info().
			Str("input", f.Entry.Path).
			Str("output", dest).
			Int("strings", len(translations)).
			Msg("File exported")
	}

	log.Info().
		Int("files", len(files)).
		Int("written", written).
		Int("missing", missing).
		Msg("Export complete")

	if missing > 0 {
		return fmt.Errorf("%w: %d strings kept their original text", ErrMissingTranslations, missing)
	}
	return nil
}
