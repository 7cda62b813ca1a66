// Package main provides the CLI entrypoint for quizlet.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ceylinesp/quizlet/internal/config"
	"github.com/ceylinesp/quizlet/internal/console"
	"github.com/ceylinesp/quizlet/internal/dataset"
	apperrors "github.com/ceylinesp/quizlet/internal/errors"
	"github.com/ceylinesp/quizlet/internal/generator"
	"github.com/ceylinesp/quizlet/internal/logger"
	"github.com/ceylinesp/quizlet/internal/model"
	"github.com/ceylinesp/quizlet/internal/round"
	"github.com/ceylinesp/quizlet/internal/stats"
	"github.com/ceylinesp/quizlet/internal/statsui"
	"github.com/ceylinesp/quizlet/internal/store"
	"github.com/ceylinesp/quizlet/internal/tui"
)

const (
	defaultHistoryWindow = 5
	defaultMissedTop     = 10
)

var (
	drillDataset   string
	drillDelimiter string
	drillSize      int
	drillDirection string
	drillModality  string
	drillThreshold int
	drillPlain     bool
	logLevel       string

	historySince  string
	historyLast   int
	historyWindow int
	historyAll    bool
	historyPlain  bool

	importSheet string
	resetYes    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()
	rootCmd := &cobra.Command{
		Use:           "quizlet",
		Short:         "Vocabulary drills that focus on your weakest words",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	rootCmd.PersistentFlags().StringVar(&drillDataset, "dataset", defaults.DatasetPath, "word pair file")
	rootCmd.PersistentFlags().StringVar(&drillDelimiter, "delimiter", defaults.Delimiter, `field delimiter: ",", ";" or "auto"`)
	rootCmd.PersistentFlags().IntVar(&drillSize, "size", defaults.Size, "number of weakest words per round")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&drillDirection, "direction", defaults.Direction, "term-to-translation or translation-to-term")
	rootCmd.Flags().StringVar(&drillModality, "modality", defaults.Modality, "mixed, written or choice")
	rootCmd.Flags().IntVar(&drillThreshold, "threshold", defaults.Threshold, "correct answers that retire a word from the round")
	rootCmd.Flags().BoolVar(&drillPlain, "plain", false, "use the line-based interface")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newWeakestCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// resolveConfig layers the config file and environment under the flags.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv(".env")
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load environment: %w", err)
	}
	for _, layer := range []config.FileConfig{fileCfg, envCfg} {
		applyStringConfig(cmd, "dataset", &drillDataset, layer.Drill.Dataset)
		applyStringConfig(cmd, "delimiter", &drillDelimiter, layer.Drill.Delimiter)
		applyIntConfig(cmd, "size", &drillSize, layer.Drill.Size)
		applyStringConfig(cmd, "direction", &drillDirection, layer.Drill.Direction)
		applyStringConfig(cmd, "modality", &drillModality, layer.Drill.Modality)
		applyIntConfig(cmd, "threshold", &drillThreshold, layer.Drill.Threshold)
		applyStringConfig(cmd, "log-level", &logLevel, layer.Log.Level)
	}

	cfg := model.Config{
		DatasetPath: drillDataset,
		Delimiter:   drillDelimiter,
		Size:        drillSize,
		Direction:   drillDirection,
		Modality:    drillModality,
		Threshold:   drillThreshold,
		LogLevel:    logLevel,
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// setupLogging installs the default logger. With toFile the output goes to
// the state log so it does not corrupt the TUI.
func setupLogging(ctx context.Context, cfg model.Config, toFile bool) (context.Context, func()) {
	level, _ := logger.ParseLevel(cfg.LogLevel)
	opts := []logger.Option{logger.WithLevel(level)}
	cleanup := func() {}
	if toFile {
		f, err := logger.OpenFile(config.DefaultLogPath())
		if err != nil {
			logErrf("%v; logging to stderr\n", err)
		} else {
			opts = append(opts, logger.WithOutput(f))
			cleanup = func() {
				if cerr := f.Close(); cerr != nil {
					// Best-effort close of the log file.
					_ = cerr
				}
			}
		}
	}
	l := logger.New(opts...)
	logger.SetDefault(l)
	return logger.NewContext(ctx, l), cleanup
}

func datasetFile(cfg model.Config) (dataset.File, error) {
	format, err := dataset.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return dataset.File{}, err
	}
	path := cfg.DatasetPath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return dataset.File{Path: path, Format: format}, nil
}

func loadDataset(cfg model.Config) (dataset.File, *dataset.Dataset, error) {
	file, err := datasetFile(cfg)
	if err != nil {
		return dataset.File{}, nil, err
	}
	ds, err := file.Load()
	if err != nil {
		return file, nil, noticeError(err)
	}
	return file, ds, nil
}

func noticeError(err error) error {
	return fmt.Errorf("%s", apperrors.Notice(err))
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	plain := drillPlain || !isTerminal()
	ctx, closeLog := setupLogging(cmd.Context(), cfg, !plain)
	defer closeLog()

	file, ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	logErrf("Loaded %d word pairs successfully!\n", ds.Len())

	selection, err := stats.SelectWeakest(ds.Pairs, ds.Accuracy, cfg.Size)
	if err != nil {
		return noticeError(err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	direction, _ := model.ParseDirection(cfg.Direction)
	mode, _ := model.ParseModalityMode(cfg.Modality)
	engine := round.New(ds, generator.New(),
		round.WithDirection(direction),
		round.WithThreshold(cfg.Threshold),
		round.WithModalityMode(mode),
		round.WithPersister(file),
		round.WithRecorder(st),
		round.WithDatasetPath(file.Path),
	)

	if plain {
		return console.New(os.Stdin, cmd.OutOrStdout()).Run(ctx, engine, selection)
	}

	m, err := tui.NewModel(ctx, engine, st, file.Path, selection)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	for _, notice := range m.Notices() {
		logErrln(notice)
	}
	if engine.State() == round.StateComplete {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), engine.Report()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate(config.DefaultConfig())), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show accuracy for every word",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	_, ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	if err := stats.RenderAccuracyReport(cmd.OutOrStdout(), ds.Pairs, ds.Accuracy); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newWeakestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weakest",
		Short: "Show the words the next round will drill",
		Args:  cobra.NoArgs,
		RunE:  runWeakestCmd,
	}
}

func runWeakestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	_, ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	selection, err := stats.SelectWeakest(ds.Pairs, ds.Accuracy, cfg.Size)
	if err != nil {
		return noticeError(err)
	}
	if err := stats.RenderSelection(cmd.OutOrStdout(), selection, ds.Accuracy); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Zero all accuracy counters",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the reset")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to reset counters without --yes")
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	file, ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	ds.Accuracy.Reset()
	if err := file.Save(ds); err != nil {
		return noticeError(err)
	}
	logErrf("Reset counters for %d words in %s\n", ds.Len(), file.Path)
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Merge word pairs from a spreadsheet into the dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importSheet, "sheet", "", "sheet name (default: first sheet)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	file, err := datasetFile(cfg)
	if err != nil {
		return err
	}
	ds, err := file.Load()
	if err != nil {
		if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			return noticeError(err)
		}
		ds = dataset.New(nil)
	}

	rows, err := dataset.ImportXLSX(args[0], importSheet)
	if err != nil {
		return noticeError(err)
	}
	added := dataset.Merge(ds, rows)
	if err := file.Save(ds); err != nil {
		return noticeError(err)
	}
	logErrf("Imported %d new word pairs (%d rows read) into %s\n", added, len(rows), file.Path)
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past rounds",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&historyWindow, "window", defaultHistoryWindow, "moving average window for the trend")
	cmd.Flags().BoolVar(&historyAll, "all", false, "include rounds of every dataset")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print instead of opening the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if historyWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	filter := model.RoundFilter{Last: historyLast}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if !historyAll {
		file, err := datasetFile(cfg)
		if err != nil {
			return err
		}
		filter.DatasetPath = file.Path
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain || !isTerminal() {
		report, err := stats.BuildHistoryReport(cmd.Context(), st, filter, defaultMissedTop)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		out := cmd.OutOrStdout()
		if err := stats.RenderRounds(out, report.Rounds, historyWindow); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderMostMissed(out, report.MostMissed); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	m := statsui.NewModel(st, statsui.Config{Filter: filter, Window: historyWindow})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
