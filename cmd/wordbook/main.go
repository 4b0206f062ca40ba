package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/japaniel/wordbook/pkg/config"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/ingest"
	"github.com/japaniel/wordbook/pkg/reading"
	"github.com/japaniel/wordbook/pkg/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries flag values and the per-run logger between cobra hooks.
type app struct {
	configPath  string
	jsonPath    string
	csvPath     string
	sqlitePath  string
	verbose     bool
	bodyFile    string
	issueNumber string
	issueURL    string

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "wordbook",
		Short: "Upsert vocabulary entries from GitHub issue-form submissions",
		Long: `wordbook reads one issue-form submission and adds or updates the matching
entry in the word list, then rewrites data/words.json and data/words.csv.

The submission is read from ISSUE_BODY, ISSUE_NUMBER and ISSUE_URL unless
--body-file, --issue-number or --issue-url is given. On success the single
word "added" or "updated" is printed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			logCfg := zap.NewProductionConfig()
			if a.verbose {
				logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			a.logger, err = logCfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runIngest,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultFile, "Path to the YAML config file")
	pf.StringVar(&a.jsonPath, "json", "", "Path to the JSON word list (overrides config)")
	pf.StringVar(&a.csvPath, "csv", "", "Path to the CSV export (overrides config)")
	pf.StringVar(&a.sqlitePath, "sqlite", "", "Path to the SQLite mirror; empty disables it (overrides config)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Apply one issue-form submission to the word list (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runIngest,
	}
	for _, c := range []*cobra.Command{rootCmd, ingestCmd} {
		c.Flags().StringVar(&a.bodyFile, "body-file", "", "Read the issue body from a file (- for stdin) instead of ISSUE_BODY")
		c.Flags().StringVar(&a.issueNumber, "issue-number", "", "Issue number (overrides ISSUE_NUMBER)")
		c.Flags().StringVar(&a.issueURL, "issue-url", "", "Issue URL (overrides ISSUE_URL)")
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Rewrite the JSON, CSV and SQLite outputs from the stored word list",
		Args:  cobra.NoArgs,
		RunE:  a.runExport,
	}

	rootCmd.AddCommand(ingestCmd, exportCmd)
	return rootCmd
}

func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	optional := !cmd.Flags().Changed("config")
	cfg, err := config.Load(a.configPath, optional)
	if err != nil {
		return nil, err
	}
	if a.jsonPath != "" {
		cfg.Data.JSON = a.jsonPath
	}
	if a.csvPath != "" {
		cfg.Data.CSV = a.csvPath
	}
	if cmd.Flags().Changed("sqlite") {
		cfg.Data.SQLite = a.sqlitePath
	}
	return cfg, nil
}

// newIngester wires the sinks. The returned func releases the SQLite mirror.
func (a *app) newIngester(cfg *config.Config) (*ingest.Ingester, func(), error) {
	js := store.NewJSONStore(cfg.Data.JSON)
	sinks := []ingest.Sink{js, store.NewCSVExport(cfg.Data.CSV)}
	cleanup := func() {}

	if cfg.Data.SQLite != "" {
		var reader db.Reader
		if cfg.Reading {
			analyzer, err := reading.NewAnalyzer()
			if err != nil {
				return nil, nil, fmt.Errorf("create analyzer: %w", err)
			}
			reader = analyzer
		}
		mirror, err := db.Open(cfg.Data.SQLite, reader)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, mirror)
		cleanup = func() {
			if err := mirror.Close(); err != nil {
				a.logger.Warn("close sqlite mirror", zap.Error(err))
			}
		}
	}

	ig := ingest.NewIngester(js, a.logger, sinks...)
	labels, err := cfg.FieldLabels()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	ig.Labels = labels
	return ig, cleanup, nil
}

func (a *app) runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	sub := ingest.Submission{Body: cfg.IssueBody, Number: cfg.IssueNumber, URL: cfg.IssueURL}
	if a.bodyFile != "" {
		body, err := readBody(cmd.InOrStdin(), a.bodyFile)
		if err != nil {
			return err
		}
		sub.Body = body
	}
	if a.issueNumber != "" {
		sub.Number = a.issueNumber
	}
	if a.issueURL != "" {
		sub.URL = a.issueURL
	}

	ig, cleanup, err := a.newIngester(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := ig.Ingest(cmd.Context(), sub)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), status)
	return nil
}

func (a *app) runExport(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	ig, cleanup, err := a.newIngester(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := ig.Export(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d words\n", n)
	return nil
}

func readBody(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read issue body: %w", err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
