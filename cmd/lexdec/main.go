// Package main provides the CLI entrypoint for lexdec.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LauraLarens/Thesis-project/internal/config"
	"github.com/LauraLarens/Thesis-project/internal/dataset"
	"github.com/LauraLarens/Thesis-project/internal/mixedmodel"
	"github.com/LauraLarens/Thesis-project/internal/model"
	"github.com/LauraLarens/Thesis-project/internal/norms"
	"github.com/LauraLarens/Thesis-project/internal/participant"
	"github.com/LauraLarens/Thesis-project/internal/stats"
	"github.com/LauraLarens/Thesis-project/internal/store"
)

const (
	defaultWorkers    = 4
	defaultPredictors = "zipf,length,is_word,is_complex"
	defaultSubset     = "all"
)

var (
	dataStimuli      string
	dataNorms        string
	dataParticipants string
	dataWorkers      int

	runDBPath  string
	runNoPlots bool

	fitPredictors string
	fitSubset     string
	fitNoPlots    bool

	exportDBPath string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lexdec",
		Short:         "Lexical-decision reaction-time analysis pipeline",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRunCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dataStimuli, "stimuli", "", "stimulus list CSV (spelling, length, morph, is_word)")
	rootCmd.PersistentFlags().StringVar(&dataNorms, "norms", "", "frequency norm CSV (Word, Zipf)")
	rootCmd.PersistentFlags().StringVar(&dataParticipants, "participants", "", "directory of per-participant CSV files")
	rootCmd.PersistentFlags().IntVar(&dataWorkers, "workers", defaultWorkers, "parallel participant-file loaders")

	rootCmd.Flags().StringVar(&runDBPath, "db", "", "also export results to this SQLite file")
	rootCmd.Flags().BoolVar(&runNoPlots, "no-plots", false, "skip diagnostic plots")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newFitCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// defaultFits mirrors the analysis plan: a full-data model plus per-type
// models that leave out the predictor collinear within that type.
func defaultFits() []struct {
	Name string
	Spec mixedmodel.Spec
} {
	return []struct {
		Name string
		Spec mixedmodel.Spec
	}{
		{
			Name: "all",
			Spec: mixedmodel.Spec{
				Predictors: []mixedmodel.Predictor{mixedmodel.ZipfFrequency, mixedmodel.Length, mixedmodel.IsWordBinary, mixedmodel.IsComplex},
				Subset:     mixedmodel.All,
			},
		},
		{
			Name: "words",
			Spec: mixedmodel.Spec{
				Predictors: []mixedmodel.Predictor{mixedmodel.ZipfFrequency, mixedmodel.Length, mixedmodel.IsComplex},
				Subset:     mixedmodel.WordsOnly,
			},
		},
		{
			Name: "pseudowords",
			Spec: mixedmodel.Spec{
				Predictors: []mixedmodel.Predictor{mixedmodel.Length, mixedmodel.IsComplex},
				Subset:     mixedmodel.PseudowordsOnly,
			},
		},
	}
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	stimuli, combined, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if err := stats.RenderSummary(out, stats.Summarize(combined)); err != nil {
		return err
	}
	if err := stats.RenderTypeSummaries(out, stats.SummarizeStimuli(stimuli)); err != nil {
		return err
	}

	var st *store.Store
	if runDBPath != "" {
		st, err = store.Open(runDBPath)
		if err != nil {
			return fmt.Errorf("failed to open export db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close export db: %v\n", cerr)
			}
		}()
		ctx := context.Background()
		if err := st.ExportCombined(ctx, combined); err != nil {
			return fmt.Errorf("failed to export combined dataset: %w", err)
		}
		if err := st.ExportTypeSummaries(ctx, stats.SummarizeStimuli(stimuli)); err != nil {
			return fmt.Errorf("failed to export summaries: %w", err)
		}
	}

	for _, fit := range defaultFits() {
		m, err := mixedmodel.Fit(combined, fit.Spec)
		if err != nil {
			// Fit failures are scoped to the single model; earlier output stands.
			logErrf("fit %s failed: %v\n", fit.Name, err)
			continue
		}
		if err := m.Render(out); err != nil {
			return err
		}
		if !runNoPlots {
			if err := renderDiagnostics(out, m); err != nil {
				return err
			}
		}
		if st != nil {
			if err := st.ExportModel(context.Background(), fit.Name, m); err != nil {
				return fmt.Errorf("failed to export model %s: %w", fit.Name, err)
			}
		}
	}
	return nil
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print dataset summaries without fitting models",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	stimuli, combined, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, stats.Summarize(combined)); err != nil {
		return err
	}
	return stats.RenderTypeSummaries(out, stats.SummarizeStimuli(stimuli))
}

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit one mixed-effects model",
		Args:  cobra.NoArgs,
		RunE:  runFitCmd,
	}
	cmd.Flags().StringVar(&fitPredictors, "predictors", defaultPredictors, "comma-separated fixed effects (zipf, length, is_word, is_complex)")
	cmd.Flags().StringVar(&fitSubset, "subset", defaultSubset, "record subset: all, words, or pseudowords")
	cmd.Flags().BoolVar(&fitNoPlots, "no-plots", false, "skip diagnostic plots")
	return cmd
}

func runFitCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "predictors", &fitPredictors, fileCfg.Fit.Predictors)
	applyStringConfig(cmd, "subset", &fitSubset, fileCfg.Fit.Subset)

	spec, err := parseFitSpec(fitPredictors, fitSubset)
	if err != nil {
		return err
	}
	_, combined, err := loadDataset(cmd)
	if err != nil {
		return err
	}

	m, err := mixedmodel.Fit(combined, spec)
	if err != nil {
		var convErr *model.ConvergenceError
		if errors.As(err, &convErr) {
			return fmt.Errorf("fit did not converge: %w", err)
		}
		return err
	}
	out := cmd.OutOrStdout()
	if err := m.Render(out); err != nil {
		return err
	}
	if fitNoPlots {
		return nil
	}
	return renderDiagnostics(out, m)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the combined dataset and summaries to SQLite",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportDBPath, "db", config.DefaultDBPath(), "SQLite output path")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	stimuli, combined, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(exportDBPath)
	if err != nil {
		return fmt.Errorf("failed to open export db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close export db: %v\n", cerr)
		}
	}()
	ctx := context.Background()
	if err := st.ExportCombined(ctx, combined); err != nil {
		return fmt.Errorf("failed to export combined dataset: %w", err)
	}
	if err := st.ExportTypeSummaries(ctx, stats.SummarizeStimuli(stimuli)); err != nil {
		return fmt.Errorf("failed to export summaries: %w", err)
	}
	logErrf("Wrote %d combined records to %s\n", len(combined), exportDBPath)
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
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
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

// loadDataset runs the load/annotate/merge stages shared by every command.
func loadDataset(cmd *cobra.Command) ([]model.StimulusEntry, []model.CombinedRecord, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "stimuli", &dataStimuli, fileCfg.Data.Stimuli)
	applyStringConfig(cmd, "norms", &dataNorms, fileCfg.Data.Norms)
	applyStringConfig(cmd, "participants", &dataParticipants, fileCfg.Data.Participants)
	applyIntConfig(cmd, "workers", &dataWorkers, fileCfg.Data.Workers)

	cfg := model.DataConfig{
		StimulusPath:   dataStimuli,
		NormsPath:      dataNorms,
		ParticipantDir: dataParticipants,
		Workers:        dataWorkers,
	}
	if err := validateDataConfig(cfg); err != nil {
		return nil, nil, err
	}

	stimuli, err := norms.LoadStimuli(cfg.StimulusPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load stimuli: %w", err)
	}
	normTable, err := norms.LoadNorms(cfg.NormsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load norms: %w", err)
	}
	stimuli = norms.Annotate(norms.AttachFrequencies(stimuli, normTable))

	paths, err := participant.ListFiles(cfg.ParticipantDir)
	if err != nil {
		return nil, nil, err
	}
	responses, err := participant.LoadAllParallel(context.Background(), paths, cfg.Workers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load participant files: %w", err)
	}

	combined := dataset.Merge(responses, stimuli)
	logErrf("Loaded %d stimuli, %d participant files, %d valid responses\n", len(stimuli), len(paths), len(responses))
	return stimuli, combined, nil
}

func validateDataConfig(cfg model.DataConfig) error {
	if cfg.StimulusPath == "" {
		return fmt.Errorf("--stimuli is required (flag or [data] stimuli in %s)", config.DefaultConfigPath())
	}
	if cfg.NormsPath == "" {
		return fmt.Errorf("--norms is required (flag or [data] norms in %s)", config.DefaultConfigPath())
	}
	if cfg.ParticipantDir == "" {
		return fmt.Errorf("--participants is required (flag or [data] participants in %s)", config.DefaultConfigPath())
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("--workers must be >= 1")
	}
	return nil
}

func parseFitSpec(predictors, subset string) (mixedmodel.Spec, error) {
	var spec mixedmodel.Spec
	for _, part := range strings.Split(predictors, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pred, err := mixedmodel.ParsePredictor(part)
		if err != nil {
			return mixedmodel.Spec{}, err
		}
		spec.Predictors = append(spec.Predictors, pred)
	}
	parsed, err := mixedmodel.ParseSubset(subset)
	if err != nil {
		return mixedmodel.Spec{}, err
	}
	spec.Subset = parsed
	return spec, nil
}

func renderDiagnostics(out io.Writer, m *mixedmodel.Model) error {
	width := stats.TerminalPlotWidth()
	if err := stats.Histogram(out, "Residuals", m.Residuals, 0, width); err != nil {
		return err
	}
	if err := stats.QQPlot(out, "Normal Q-Q", m.Residuals, width, 0); err != nil {
		return err
	}
	labels := make([]string, len(m.RandomIntercepts))
	values := make([]float64, len(m.RandomIntercepts))
	for i, ri := range m.RandomIntercepts {
		labels[i] = ri.ParticipantID
		values[i] = ri.Estimate
	}
	return stats.RandomInterceptPlot(out, "Random Intercepts", labels, values, width)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Changed
	}
	if f := cmd.PersistentFlags().Lookup(name); f != nil {
		return f.Changed
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil {
		return f.Changed
	}
	return false
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lexdec configuration
# Uncomment a value to enable it. CLI flags override config values.

[data]
# stimuli = "stimuli.csv"          # Stimulus list (spelling, length, morph, is_word)
# norms = "subtlex_zipf.csv"       # Frequency norms (Word, Zipf)
# participants = "participants/"   # Directory of per-participant CSV files
# workers = %d                      # Parallel participant-file loaders

[fit]
# predictors = %q                  # Default fixed effects for 'fit'
# subset = %q                      # Default subset for 'fit'
`,
		defaultWorkers,
		defaultPredictors,
		defaultSubset,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
