package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/config"
	"github.com/patternforge/patternforge/internal/langregistry"
	"github.com/patternforge/patternforge/internal/logger"
	"github.com/patternforge/patternforge/internal/metrics"
	"github.com/patternforge/patternforge/internal/processor"
	"github.com/patternforge/patternforge/internal/profiler"
	"github.com/patternforge/patternforge/internal/rulecache"
	"github.com/patternforge/patternforge/internal/rules"
	"github.com/patternforge/patternforge/internal/structure"
	"github.com/patternforge/patternforge/internal/telemetry"
	"github.com/patternforge/patternforge/internal/worker"
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan files for rule matches",
	Long: `Analyze the given file paths, compile the configured rule
catalog, and report every surviving pattern match as JSON.

Enumerating a directory tree is left to the caller (a shell glob, find,
or another tool) - scan takes explicit file paths, not trees.

Examples:
  # Scan a handful of files with the embedded default rules
  patternforge scan main.go internal/server/handler.go

  # Scan with a custom rules directory layered on the defaults
  patternforge scan --rules-dir ./rules $(find ./src -name '*.go')

  # Write matches to a file instead of stdout
  patternforge scan -o matches.json main.go`,

	RunE: runScan,
}

var (
	scanRulesDir         string
	scanInheritFrom      []string
	scanOutput           string
	scanWorkers          int
	scanNoParallel       bool
	scanConfidence       []string
	scanUniqueTagsOnly   bool
	scanAllowAllTagsInBF bool
	scanTreatAsCode      bool
	scanEnclosingSymbol  bool
	scanFileTimeoutMS    int
	scanNoCache          bool
	scanCPUProfile       string
	scanMemProfile       string
	scanPprofAddr        string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanRulesDir, "rules-dir", "", "directory of custom JSON/YAML rules layered on the embedded defaults")
	scanCmd.Flags().StringSliceVar(&scanInheritFrom, "inherit-from", nil, "parent catalog sources (local paths or HTTPS URLs), lowest priority first")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write matches to this file instead of stdout")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "worker pool size for parallel scanning (0 = GOMAXPROCS)")
	scanCmd.Flags().BoolVar(&scanNoParallel, "no-parallel", false, "disable concurrent file scanning")
	scanCmd.Flags().StringSliceVar(&scanConfidence, "confidence", nil, "accepted confidences: low, medium, high (default medium,high)")
	scanCmd.Flags().BoolVar(&scanUniqueTagsOnly, "unique-tags-only", false, "report only one witness match per tag")
	scanCmd.Flags().BoolVar(&scanAllowAllTagsInBF, "allow-all-tags-in-build-files", false, "accept every tag in build-type files even under --unique-tags-only")
	scanCmd.Flags().BoolVar(&scanTreatAsCode, "treat-everything-as-code", false, "disable comment-scope filtering entirely")
	scanCmd.Flags().BoolVar(&scanEnclosingSymbol, "enclosing-symbol", false, "populate each match's enclosing function/type name")
	scanCmd.Flags().IntVar(&scanFileTimeoutMS, "file-timeout-ms", 0, "abort a single file's analysis after this many milliseconds (0 disables)")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "bypass the compiled-catalog cache")
	scanCmd.Flags().StringVar(&scanCPUProfile, "cpu-profile", "", "write a CPU profile to this file")
	scanCmd.Flags().StringVar(&scanMemProfile, "mem-profile", "", "write a heap profile to this file on exit")
	scanCmd.Flags().StringVar(&scanPprofAddr, "pprof-addr", "", "serve net/http/pprof on this address while scanning (e.g. :6060)")
}

func runScan(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyScanFlags(cmd, cfg)

	if scanCPUProfile != "" || scanMemProfile != "" || scanPprofAddr != "" {
		prof, err := profiler.New(profiler.Config{
			CPUProfile: scanCPUProfile,
			MemProfile: scanMemProfile,
			HTTPAddr:   scanPprofAddr,
		})
		if err != nil {
			return fmt.Errorf("starting profiler: %w", err)
		}
		defer func() {
			if err := prof.Stop(); err != nil {
				logger.Error("stopping profiler: %v", err)
			}
		}()
	}

	if len(args) == 0 {
		return fmt.Errorf("scan requires at least one file path")
	}
	paths := args

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	tracer := telemetry.New(cfg.Telemetry.Enabled, cfg.Telemetry.ServiceName)
	ctx, end := tracer.Start(ctx, "scan")
	defer end()

	catalog, compiled, err := buildCatalog(ctx, cfg, tracer)
	if err != nil {
		return err
	}

	opts := processor.Options{
		ConfidenceFilter:         cfg.Processor.ToConfidenceFilter(),
		AllowAllTagsInBuildFiles: cfg.Processor.AllowAllTagsInBuildFiles,
		UniqueTagsOnly:           cfg.Processor.UniqueTagsOnly,
		UniqueTagExceptions:      rules.UniqueTagExceptions(cfg.Processor.UniqueTagExceptions),
		ContextLines:             cfg.Processor.ContextLines,
		TreatEverythingAsCode:    cfg.Processor.TreatEverythingAsCode,
		FileTimeoutMS:            cfg.Processor.FileTimeoutMS,
	}
	ip := processor.NewInstrumented(processor.New(catalog, compiled, opts))
	ip.UpdateRuntimeMetrics()

	var tagFilter *rules.TagFilter
	if cfg.Processor.UniqueTagsOnly {
		tagFilter = rules.NewTagFilter()
	}

	files, skipped, err := discoverFiles(paths)
	if err != nil {
		return err
	}
	logger.Debug("discovered %d file(s), skipped %d unrecognized", len(files), skipped)
	metrics.AddCounter(metrics.MetricFilesSkipped, int64(skipped))

	// TagFilter.Record/AllSeen hold no internal locking: tags-only mode
	// always scans sequentially, regardless of Processor.Parallel.
	parallel := cfg.Processor.Parallel && tagFilter == nil
	results, err := scanFiles(ctx, files, ip, cfg, tagFilter, parallel)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	ip.UpdateRuntimeMetrics()

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "scan stats: %+v\n", ip.Stats())
	}

	return writeResults(cfg, results)
}

func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("rules-dir") {
		cfg.Rules.RulesDir = scanRulesDir
	}
	if cmd.Flags().Changed("inherit-from") {
		cfg.Rules.InheritFrom = scanInheritFrom
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.File = scanOutput
	}
	if cmd.Flags().Changed("workers") {
		cfg.Processor.Workers = scanWorkers
	}
	if scanNoParallel {
		cfg.Processor.Parallel = false
	}
	if cmd.Flags().Changed("confidence") {
		cfg.Processor.ConfidenceFilter = scanConfidence
	}
	if cmd.Flags().Changed("unique-tags-only") {
		cfg.Processor.UniqueTagsOnly = scanUniqueTagsOnly
	}
	if cmd.Flags().Changed("allow-all-tags-in-build-files") {
		cfg.Processor.AllowAllTagsInBuildFiles = scanAllowAllTagsInBF
	}
	if cmd.Flags().Changed("treat-everything-as-code") {
		cfg.Processor.TreatEverythingAsCode = scanTreatAsCode
	}
	if cmd.Flags().Changed("enclosing-symbol") {
		cfg.Processor.EnclosingSymbol = scanEnclosingSymbol
	}
	if cmd.Flags().Changed("file-timeout-ms") {
		cfg.Processor.FileTimeoutMS = scanFileTimeoutMS
	}
	if scanNoCache {
		cfg.Cache.Enabled = false
	}
	if isVerbose() {
		cfg.Output.Verbose = true
	}
	if isQuiet() {
		cfg.Output.Quiet = true
	}
}

// buildCatalog loads and compiles the rule catalog configured by cfg,
// consulting the compiled-catalog cache when enabled.
func buildCatalog(ctx context.Context, cfg *config.Config, tracer *telemetry.Tracer) (*rules.Catalog, []*compiler.ConvertedRule, error) {
	ctx, end := tracer.Start(ctx, "compile_catalog")
	defer end()

	var (
		loadedRules []rules.Rule
		catalog     *rules.Catalog
		err         error
	)

	if len(cfg.Rules.InheritFrom) > 0 {
		hl := rules.NewHierarchicalLoader(cfg.Rules.RulesDir, cfg.Rules.RemoteRPS)
		catalog, _, err = hl.LoadWithInheritance(ctx, rules.InheritConfig{
			InheritFrom: cfg.Rules.InheritFrom,
			Disable:     cfg.Rules.Disabled,
			Enable:      cfg.Rules.Enabled,
		})
		if err != nil {
			tracer.RecordError(ctx, err)
			return nil, nil, fmt.Errorf("loading rule catalog: %w", err)
		}
	} else {
		l := rules.NewLoader(cfg.Rules.RulesDir)
		loadedRules, _, err = l.Load()
		if err != nil {
			tracer.RecordError(ctx, err)
			return nil, nil, fmt.Errorf("loading rule catalog: %w", err)
		}
		catalog, _ = rules.NewCatalog(loadedRules)
	}

	key := catalogCacheKey(cfg, catalog)

	if cfg.Cache.Enabled {
		if cache, err := rulecache.Open(rulecache.Options{
			Dir:        cfg.Cache.Dir,
			MaxSizeMB:  cfg.Cache.MaxSizeMB,
			GCInterval: cfg.Cache.GCInterval,
		}); err == nil {
			defer cache.Close()
			defer func() {
				metrics.SetGauge(metrics.MetricCacheSize, float64(cache.Stats().SizeBytes))
			}()
			if clauses, _, ok := cache.Get(key, cfg.Cache.TTL); ok {
				metrics.IncCounter(metrics.MetricCacheHits)
				return catalog, clauses, nil
			}
			metrics.IncCounter(metrics.MetricCacheMisses)
			compiled, violations := compiler.CompileCatalog(catalog.Rules())
			_ = cache.Put(key, compiled, violations)
			return catalog, compiled, nil
		}
	}

	compiled, _ := compiler.CompileCatalog(catalog.Rules())
	return catalog, compiled, nil
}

// catalogCacheKey derives a stable cache key from the catalog's rule IDs
// and the overrides that shape compilation, so a changed rules-dir or
// inherit-from chain invalidates the cache without a raw-bytes hash of
// every contributing source.
func catalogCacheKey(cfg *config.Config, catalog *rules.Catalog) string {
	ids := make([]string, 0, len(catalog.Rules()))
	for _, r := range catalog.Rules() {
		ids = append(ids, r.ID)
	}
	payload, _ := json.Marshal(struct {
		RuleIDs     []string `json:"rule_ids"`
		InheritFrom []string `json:"inherit_from"`
		Enabled     []string `json:"enabled"`
		Disabled    []string `json:"disabled"`
	}{ids, cfg.Rules.InheritFrom, cfg.Rules.Enabled, cfg.Rules.Disabled})
	return rulecache.Key(payload)
}

// discoverFiles resolves the explicit file paths given on argv. It is not
// a directory walker: enumerating a tree, following globs, and excluding
// paths are scope the library leaves to its caller (spec.md §1 non-goals).
// Each path must name a regular file; unrecognized extensions are counted
// as skipped rather than analyzed.
func discoverFiles(paths []string) ([]string, int, error) {
	var files []string
	var skipped int
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, 0, fmt.Errorf("%s is a directory: patternforge scans explicit file paths, not trees", p)
		}
		if _, ok := langregistry.FromFileName(p); ok {
			files = append(files, p)
		} else {
			skipped++
		}
	}
	return files, skipped, nil
}

func scanFiles(ctx context.Context, files []string, scanner worker.FileScanner, cfg *config.Config, tagFilter *rules.TagFilter, parallel bool) ([]processor.MatchRecord, error) {
	var all []processor.MatchRecord

	scanOne := func(path string) (processor.FileResult, error) {
		content, err := os.ReadFile(path) //nolint:gosec // path comes from a caller-supplied scan root
		if err != nil {
			return processor.FileResult{}, fmt.Errorf("reading %s: %w", path, err)
		}
		lang, _ := langregistry.FromFileName(path)
		var symbols processor.SymbolLookup
		if cfg.Processor.EnclosingSymbol {
			symbols = structure.BuildIndex(string(content), lang)
		}
		return scanner.AnalyzeFile(ctx, string(content), processor.FileMetadata{Name: filepath.Base(path), Path: path}, lang, tagFilter, symbols)
	}

	if !parallel {
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return all, err
			}
			result, err := scanOne(path)
			if err != nil {
				return all, err
			}
			all = append(all, result.Matches...)
		}
		return all, nil
	}

	pool := worker.NewPool(worker.Config{Workers: cfg.Processor.Workers})
	pool.Start()

	tasks := make([]*worker.FileTask, 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path) //nolint:gosec // path comes from a caller-supplied scan root
		if err != nil {
			pool.Stop()
			return all, fmt.Errorf("reading %s: %w", path, err)
		}
		lang, _ := langregistry.FromFileName(path)
		var symbols processor.SymbolLookup
		if cfg.Processor.EnclosingSymbol {
			symbols = structure.BuildIndex(string(content), lang)
		}
		task := worker.NewFileTask(string(content), processor.FileMetadata{Name: filepath.Base(path), Path: path}, lang, scanner, tagFilter, symbols)
		tasks = append(tasks, task)
		if err := pool.Submit(task); err != nil {
			pool.Stop()
			return all, err
		}
	}

	for i := 0; i < len(tasks); i++ {
		select {
		case <-pool.Results():
		case <-ctx.Done():
			pool.Stop()
			return all, ctx.Err()
		}
	}
	pool.Stop()
	logger.Debug("worker pool finished: %s", pool.Stats())

	for _, task := range tasks {
		all = append(all, task.Result().Matches...)
	}
	return all, nil
}

func writeResults(cfg *config.Config, results []processor.MatchRecord) error {
	var (
		data []byte
		err  error
	)
	if cfg.Output.Pretty {
		data, err = json.MarshalIndent(results, "", "  ")
	} else {
		data, err = json.Marshal(results)
	}
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	outputPath := cfg.Output.File
	if err := WriteOutput(string(data)+"\n", outputPath); err != nil {
		return err
	}

	// WriteOutput already reports the file path it wrote to; a stdout
	// report only needs the match count, and only when neither quiet nor
	// already mixed into the JSON itself.
	if !cfg.Output.Quiet && outputPath != "" {
		fmt.Fprintf(os.Stderr, "%d match(es) found\n", len(results))
	}
	return nil
}
