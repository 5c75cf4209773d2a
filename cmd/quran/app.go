package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
	"github.com/taiwoajasa245/quran-reader-api/internal/reader"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
	"github.com/taiwoajasa245/quran-reader-api/pkg/config"
	"github.com/taiwoajasa245/quran-reader-api/pkg/logger"
)

// app holds what every subcommand needs, built once flags are parsed.
type app struct {
	statePath string
	apiBase   string
	verbose   bool

	cfg     *config.Config
	log     *zap.Logger
	client  *quran.Client
	service *reader.Service
	store   *readingstate.Store
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "quran-reader-state.json"
	}
	return filepath.Join(dir, "quran-reader", "state.json")
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.log, err = logger.New("development", level)
	if err != nil {
		return err
	}

	base := a.apiBase
	if base == "" {
		base = cfg.QuranAPIBase
	}
	a.client = quran.New(quran.Options{
		BaseURL:  base,
		Timeout:  cfg.QuranAPITimeout,
		CacheTTL: cfg.QuranCacheTTL,
		Logger:   a.log.Named("quran"),
	})
	a.service = reader.NewService(a.client, reader.Options{
		Languages: cfg.TranslationLanguages,
		Logger:    a.log.Named("reader"),
	})

	kv, err := readingstate.OpenFileKV(a.statePath)
	if err != nil {
		return fmt.Errorf("open reading state: %w", err)
	}
	a.store = readingstate.NewStore(kv, "", a.log.Named("readingstate"))
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "quran",
		Short:             "Read the Quran in the terminal",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.statePath, "state", defaultStatePath(), "reading state file")
	root.PersistentFlags().StringVar(&a.apiBase, "api", "", "corpus API base URL (default $QURAN_API_BASE)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log corpus requests")

	root.AddCommand(
		newChaptersCmd(a),
		newReadCmd(a),
		newSectionCmd(a),
		newSearchCmd(a),
		newBookmarkCmd(a),
		newRecentCmd(a),
		newResumeCmd(a),
		newPageForCmd(a),
	)
	return root
}
