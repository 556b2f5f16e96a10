package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/reviewtour/internal/cache"
	"github.com/dshills/reviewtour/internal/config"
	"github.com/dshills/reviewtour/internal/gitctx"
	"github.com/dshills/reviewtour/internal/output"
	"github.com/dshills/reviewtour/internal/redact"
	"github.com/dshills/reviewtour/internal/relatedness"
	"github.com/dshills/reviewtour/internal/report"
	"github.com/dshills/reviewtour/internal/restructure"
	"github.com/dshills/reviewtour/internal/slicing"
	"github.com/dshills/reviewtour/internal/tour"
	"github.com/dshills/reviewtour/internal/tourfile"
)

// Shared tour flags
var (
	flagPaths         string
	flagExclude       string
	flagContextLines  int
	flagMaxDiffBytes  int
	flagFormat        string
	flagOut           string
	flagSeparator     string
	flagRelations     string
	flagSaveTours     string
	flagNoRestructure bool
	flagNoTrace       bool
	flagNoCache       bool
	flagNoRedact      bool
	flagVerbose       bool
)

func addTourFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPaths, "paths", "", "Include file path globs (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in diff")
	cmd.Flags().IntVar(&flagMaxDiffBytes, "max-diff-bytes", 0, "Maximum diff size in bytes per commit")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, yaml, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagSeparator, "separator", "", "Separator between merged tour descriptions")
	cmd.Flags().StringVar(&flagRelations, "relations", "", "Relation priority for related stops (comma-separated)")
	cmd.Flags().StringVar(&flagSaveTours, "save-tours", "", "Also write the final tours as a tour document to this path")
	cmd.Flags().BoolVar(&flagNoRestructure, "no-restructure", false, "Keep one tour per commit")
	cmd.Flags().BoolVar(&flagNoTrace, "no-trace", false, "Keep stops in their own commit's line numbering")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Do not read or write the diff cache")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction of diffs (use with caution)")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log pipeline details to stderr")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagSeparator != "" {
		m["separator"] = flagSeparator
	}
	if flagRelations != "" {
		m["relations"] = flagRelations
	}
	if flagContextLines > 0 {
		m["contextLines"] = fmt.Sprintf("%d", flagContextLines)
	}
	if flagMaxDiffBytes > 0 {
		m["maxDiffBytes"] = fmt.Sprintf("%d", flagMaxDiffBytes)
	}
	return m
}

func buildDiffOpts(cfg config.Config) gitctx.DiffOptions {
	opts := gitctx.DiffOptions{
		ContextLines: cfg.ContextLines,
		MaxDiffBytes: cfg.MaxDiffBytes,
		Include:      cfg.Include,
		Exclude:      cfg.Exclude,
	}
	if flagPaths != "" {
		opts.Include = splitComma(flagPaths)
	}
	if flagExclude != "" {
		opts.Exclude = append(append([]string(nil), opts.Exclude...), splitComma(flagExclude)...)
	}
	return opts
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// tourSettings is the validated, effective configuration of one run.
type tourSettings struct {
	cfg       config.Config
	diffOpts  gitctx.DiffOptions
	relations []relatedness.RelationType
	logger    *slog.Logger
}

// loadSettings resolves configuration and rejects values that can only be
// usage errors before any git work starts.
func loadSettings() (tourSettings, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return tourSettings{}, err
	}
	if _, err := output.GetWriter(cfg.Format); err != nil {
		return tourSettings{}, err
	}
	kinds, err := relatedness.ParseRelationTypes(cfg.Relations)
	if err != nil {
		return tourSettings{}, fmt.Errorf("relations: %w", err)
	}
	if _, err := relatedness.StopRelations(kinds, func(tour.Stop) int { return 0 }); err != nil {
		return tourSettings{}, fmt.Errorf("relations: %w", err)
	}
	return tourSettings{
		cfg:       cfg,
		diffOpts:  buildDiffOpts(cfg),
		relations: kinds,
		logger:    newLogger(os.Stderr),
	}, nil
}

func openCache(cfg config.Config) (*cache.Cache, error) {
	c, err := cache.New(cfg.Cache.Enabled && !flagNoCache, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return c, nil
}

// diffFilter rewrites fetched diffs before they are parsed and cached. key
// is part of the cache key so differently filtered diffs never collide.
type diffFilter struct {
	key   string
	apply func(string) string
}

func redactor(cfg config.Config) diffFilter {
	if flagNoRedact || !cfg.Privacy.RedactSecrets {
		return diffFilter{key: "raw", apply: func(diff string) string { return diff }}
	}
	paths := cfg.Privacy.RedactPaths
	return diffFilter{
		key:   "redact=" + strings.Join(paths, ","),
		apply: func(diff string) string { return redact.Diff(diff, paths) },
	}
}

// fetchCommits loads the diff of every commit, at most limit at a time,
// keeping the input order.
func fetchCommits(ctx context.Context, infos []gitctx.CommitInfo, opts gitctx.DiffOptions, c *cache.Cache, limit int, filter diffFilter, logger *slog.Logger) ([]slicing.Commit, error) {
	commits := make([]slicing.Commit, len(infos))
	if limit <= 0 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	optKey := opts.CacheKey()
	for i, info := range infos {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := cache.Key{SHA: info.SHA, Options: optKey, Filter: filter.key}
			files, ok := c.Get(key)
			if ok {
				logger.Debug("diff cache hit", "sha", info.SHA, "files", len(files))
			} else {
				diff, err := gitctx.CommitDiff(info.SHA, opts)
				if err != nil {
					return err
				}
				files = slicing.ParseDiff(filter.apply(diff))
				if files == nil {
					files = []slicing.FileDiff{}
				}
				if err := c.Put(key, files); err != nil {
					logger.Warn("caching diff failed", "sha", info.SHA, "error", err)
				}
			}
			commits[i] = slicing.Commit{SHA: info.SHA, Subject: info.Subject, Files: files}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}

// buildFromHistory runs the whole pipeline for commits resolved from git.
func buildFromHistory(cmd *cobra.Command, s tourSettings, inputs report.InputInfo, resolve func() ([]gitctx.CommitInfo, error)) {
	start := time.Now()

	meta, err := gitctx.GetRepoMeta()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	infos, err := resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	c, err := openCache(s.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if flagNoRedact {
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
	commits, err := fetchCommits(cmd.Context(), infos, s.diffOpts, c, s.cfg.Concurrency, redactor(s.cfg), s.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	gitMs := time.Since(start).Milliseconds()
	if len(commits) == 0 {
		fmt.Fprintln(os.Stderr, "No commits to review.")
	}

	slicer := &slicing.Slicer{
		HiddenPrefixes: s.cfg.HiddenPrefixes,
		NoTrace:        flagNoTrace,
		Logger:         s.logger,
	}
	tours := slicer.Slice(commits)

	inputs.PathsIncluded = s.diffOpts.Include
	inputs.PathsExcluded = s.diffOpts.Exclude
	repo := report.RepoInfo{Root: meta.Root, Head: meta.Head, Branch: meta.Branch}
	emit(s, repo, inputs, tours, gitMs, start)
}

// emit restructures tours, builds the report and writes it out.
func emit(s tourSettings, repo report.RepoInfo, inputs report.InputInfo, tours []tour.Tour, gitMs int64, start time.Time) {
	inputTours := len(tour.DropEmpty(tours))

	restructureStart := time.Now()
	restructured := false
	if !flagNoRestructure {
		engine := restructure.New(
			restructure.WithSeparator(s.cfg.Separator),
			restructure.WithLogger(s.logger),
		)
		if out, changed := engine.Restructure(tours); changed {
			tours, restructured = out, true
		}
	}
	tours = tour.DropEmpty(tours)
	restructureMs := time.Since(restructureStart).Milliseconds()
	s.logger.Debug("tours ready", "input", inputTours, "output", len(tours), "stops", tour.StopCount(tours), "restructured", restructured)

	r, err := report.Build(report.Options{
		Version:    version,
		Repo:       repo,
		Inputs:     inputs,
		Relations:  s.relations,
		InputTours: inputTours,
	}, tours, restructured)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	r.Timing = report.Timing{
		GitMs:         gitMs,
		RestructureMs: restructureMs,
		TotalMs:       time.Since(start).Milliseconds(),
	}

	if flagSaveTours != "" {
		if err := saveTours(flagSaveTours, tours); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving tours: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
	}

	if err := output.WriteReport(r, s.cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
}

func saveTours(path string, tours []tour.Tour) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating tour file: %w", err)
	}
	if err := tourfile.Encode(f, tours); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// usageError reports a configuration problem and marks the run as a usage
// error.
func usageError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exitCode = ExitUsageError
}

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Build review tours",
	Long:  "Build review tours from git history or from a tour document. Use subcommands to choose the source.",
}

var (
	flagMergeBase bool
)

var tourRangeCmd = &cobra.Command{
	Use:   "range <revRange>",
	Short: "Build tours for a revision range (e.g., origin/main..HEAD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			usageError(err)
			return nil
		}
		inputs := report.InputInfo{Mode: "range", Range: args[0]}
		buildFromHistory(cmd, s, inputs, func() ([]gitctx.CommitInfo, error) {
			return gitctx.ListCommits(args[0], flagMergeBase)
		})
		return nil
	},
}

var tourCommitsCmd = &cobra.Command{
	Use:   "commits <sha>...",
	Short: "Build tours for explicit commits, given oldest first",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			usageError(err)
			return nil
		}
		inputs := report.InputInfo{Mode: "commits", Commits: args}
		buildFromHistory(cmd, s, inputs, func() ([]gitctx.CommitInfo, error) {
			return gitctx.ResolveCommits(args)
		})
		return nil
	},
}

var tourFileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Restructure the tours of a tour document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			usageError(err)
			return nil
		}
		start := time.Now()
		tours, err := tourfile.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, os.ErrNotExist) {
				exitCode = ExitUsageError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}
		// Repository metadata is optional here; documents can be read anywhere.
		var repo report.RepoInfo
		if meta, err := gitctx.GetRepoMeta(); err == nil {
			repo = report.RepoInfo{Root: meta.Root, Head: meta.Head, Branch: meta.Branch}
		}
		emit(s, repo, report.InputInfo{Mode: "file", File: args[0]}, tours, 0, start)
		return nil
	},
}

func init() {
	tourCmd.AddCommand(tourRangeCmd)
	tourCmd.AddCommand(tourCommitsCmd)
	tourCmd.AddCommand(tourFileCmd)

	for _, cmd := range []*cobra.Command{
		tourRangeCmd,
		tourCommitsCmd,
		tourFileCmd,
	} {
		addTourFlags(cmd)
	}

	tourRangeCmd.Flags().BoolVar(&flagMergeBase, "merge-base", true, "Use merge base for branch comparisons")
}
