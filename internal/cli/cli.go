package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"swf-translator/internal/config"
	"swf-translator/internal/filewalker"
	"swf-translator/internal/graph"
	"swf-translator/internal/parser"
	"swf-translator/internal/script"
	"swf-translator/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrMissingTranslations is returned by export when some strings had no
// entry in the corpus. All files are still written.
var ErrMissingTranslations = errors.New("missing translations")

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swf-translator",
		Short: "Extract, translate and re-insert the text of decompiled Flash games",
		Long: `Works on a directory exported by the JPEXS decompiler (ActionScript .as
files and plain text .txt files):

  gather     collect every displayable string into a corpus file
  translate  fill the corpus with machine translations
  export     write the corpus translations back into the files`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("mode", "", "String inclusion mode: heuristic or strict (default from SWF_MODE)")
	rootCmd.PersistentFlags().String("corpus", "", "Corpus file (default from SWF_CORPUS_PATH)")

	rootCmd.AddCommand(gatherCmd())
	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(glossaryImportCmd())
	rootCmd.AddCommand(memoryIngestCmd())

	return rootCmd
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		cfg.Mode = v
	}
	if v, _ := cmd.Flags().GetString("corpus"); v != "" {
		cfg.CorpusPath = v
	}
	return cfg
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// connectPostgres opens and pings a pool.
func connectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

// connectNeo4j opens a driver when NEO4J_URI is set; otherwise it returns nil.
func connectNeo4j(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	if cfg.Neo4jURI == "" {
		return nil, nil
	}
	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}

type parsedFile struct {
	Entry  filewalker.FileEntry
	Result *parser.ParseResult
}

// parseFiles walks dir and parses every supported file on a worker pool.
// Files come back in walk order; any parse failure fails the whole call.
func parseFiles(ctx context.Context, dir string, mode script.Mode, workers int) ([]parsedFile, error) {
	w := filewalker.NewWalker(mode)
	entries, err := w.Walk(dir)
	if err != nil {
		return nil, fmt.Errorf("walk input directory: %w", err)
	}

	parsePool := worker.NewPool[filewalker.FileEntry, *parser.ParseResult](workers,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.ParseResult, error) {
			return w.ParseFile(entry)
		},
	)

	var errs []error
	files := make([]parsedFile, 0, len(entries))
	for _, task := range parsePool.Execute(ctx, entries) {
		if task.Err != nil {
			log.Error().Err(task.Err).Str("file", task.Input.Path).Msg("Parse failed")
			errs = append(errs, task.Err)
			continue
		}
		files = append(files, parsedFile{Entry: task.Input, Result: task.Result})
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("parse files: %w", errors.Join(errs...))
	}
	return files, nil
}
