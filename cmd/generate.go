package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mspro-labs/fdc-seed/internal/catalog"
	"mspro-labs/fdc-seed/internal/config"
	"mspro-labs/fdc-seed/internal/db"
	"mspro-labs/fdc-seed/internal/fdc"
	"mspro-labs/fdc-seed/internal/logger"
	"mspro-labs/fdc-seed/internal/queries"
	"mspro-labs/fdc-seed/internal/seeder"
)

type generateFlags struct {
	out         string
	queriesPath string
	configPath  string
	limit       int
	mode        string
	dataTypes   string
	sleepMS     int
	pageSize    int
	useCache    bool
	dryRun      bool
}

// runPlan is the fully resolved input of a generate run.
type runPlan struct {
	Out       string
	Queries   []string
	Mode      catalog.Mode
	DataTypes []string
	PageSize  int
	Limit     int
	Sleep     time.Duration
	UseCache  bool
	DryRun    bool
}

// newGenerateCmd builds the generate command bound to flags.
func newGenerateCmd(flags *generateFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Search FDC and write the default food catalog",
		Long: `Runs every query against FoodData Central, picks the first usable result per
query, merges with the existing output file and writes it back.

Examples:
  fdc-seed generate --out FoodTrackingApp/default_all.json
  fdc-seed generate --out default_all.json --queries foods.txt --mode refresh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, *flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.out, "out", "", "Output JSON path (e.g. FoodTrackingApp/default_all.json)")
	f.StringVar(&flags.queriesPath, "queries", "", "Optional text file of search queries (one per line, # for comments)")
	f.StringVar(&flags.configPath, "config", "", "Optional YAML run profile")
	f.IntVar(&flags.limit, "limit", 300, "Max number of foods to include")
	f.StringVar(&flags.mode, "mode", string(catalog.ModeOverwrite), "Write mode: overwrite, append or refresh")
	f.StringVar(&flags.dataTypes, "data-types", "Foundation,SR Legacy", "Comma-separated FDC dataType list (e.g. Foundation,SR Legacy,Branded)")
	f.IntVar(&flags.sleepMS, "sleep-ms", 120, "Delay between API calls in milliseconds")
	f.IntVar(&flags.pageSize, "page-size", 5, "Candidates requested per query")
	f.BoolVar(&flags.useCache, "cache", false, "Reuse and store search responses in the local cache (FDC_CACHE_DB)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Run and merge without writing the output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func init() {
	rootCmd.AddCommand(newGenerateCmd(&generateFlags{}))
}

func runGenerate(cmd *cobra.Command, flags generateFlags) error {
	log := logger.Get()

	// 1. Resolve flags, profile and env
	plan, err := resolvePlan(cmd, flags)
	if err != nil {
		return err
	}
	appCfg, err := config.GetAppConfig()
	if err != nil {
		return err
	}
	if err := appCfg.RequireAPIKey(); err != nil {
		return err
	}
	if err := catalog.EnsureDir(plan.Out); err != nil {
		return err
	}

	// 2. Build the searcher, with the cache when asked
	client := fdc.NewClient(appCfg.APIKey, appCfg.BaseURL, appCfg.HTTPTimeout, plan.Sleep)
	var searcher fdc.Searcher = client
	if plan.UseCache {
		database, err := db.Connect(appCfg.CacheDBPath)
		if err != nil {
			log.Warn("search cache unavailable, continuing without it", zap.Error(err))
		} else {
			defer database.Close()
			searcher = fdc.NewCachedClient(client, database)
		}
	}

	log.Info("starting generate",
		zap.Int("queries", len(plan.Queries)),
		zap.Strings("data_types", plan.DataTypes),
		zap.String("mode", string(plan.Mode)),
	)
	return executePlan(cmd.Context(), cmd.OutOrStdout(), plan, searcher)
}

// resolvePlan applies precedence: explicit flag, then profile, then flag default.
func resolvePlan(cmd *cobra.Command, flags generateFlags) (runPlan, error) {
	profile := &config.RunProfile{}
	if flags.configPath != "" {
		p, err := config.LoadRunProfile(flags.configPath)
		if err != nil {
			return runPlan{}, err
		}
		profile = p
	}
	changed := cmd.Flags().Changed

	limit := flags.limit
	if !changed("limit") && profile.Limit != 0 {
		limit = profile.Limit
	}
	modeName := flags.mode
	if !changed("mode") && profile.Mode != "" {
		modeName = profile.Mode
	}
	pageSize := flags.pageSize
	if !changed("page-size") && profile.PageSize != 0 {
		pageSize = profile.PageSize
	}
	sleepMS := flags.sleepMS
	if !changed("sleep-ms") && profile.SleepMS != nil {
		sleepMS = *profile.SleepMS
	}
	dataTypes := splitList(flags.dataTypes)
	if !changed("data-types") && len(profile.DataTypes) > 0 {
		dataTypes = splitList(strings.Join(profile.DataTypes, ","))
	}

	if strings.TrimSpace(flags.out) == "" {
		return runPlan{}, config.NewConfigError("--out is required", nil)
	}
	mode, err := catalog.ParseMode(modeName)
	if err != nil {
		return runPlan{}, config.NewConfigError("bad --mode", err)
	}
	if limit < 1 {
		return runPlan{}, config.NewConfigError(fmt.Sprintf("--limit must be at least 1, got %d", limit), nil)
	}
	if pageSize < 1 {
		return runPlan{}, config.NewConfigError(fmt.Sprintf("--page-size must be at least 1, got %d", pageSize), nil)
	}
	if sleepMS < 0 {
		return runPlan{}, config.NewConfigError(fmt.Sprintf("--sleep-ms must not be negative, got %d", sleepMS), nil)
	}
	if len(dataTypes) == 0 {
		return runPlan{}, config.NewConfigError("--data-types must name at least one data type", nil)
	}

	var qs []string
	switch {
	case flags.queriesPath != "":
		qs, err = queries.Load(flags.queriesPath, limit)
		if err != nil {
			return runPlan{}, err
		}
	case len(profile.Queries) > 0:
		qs = queries.FromList(profile.Queries, limit)
	default:
		qs, _ = queries.Load("", limit)
	}

	return runPlan{
		Out:       flags.out,
		Queries:   qs,
		Mode:      mode,
		DataTypes: dataTypes,
		PageSize:  pageSize,
		Limit:     limit,
		Sleep:     time.Duration(sleepMS) * time.Millisecond,
		UseCache:  flags.useCache,
		DryRun:    flags.dryRun,
	}, nil
}

// executePlan runs the pipeline, merges with the existing file and writes it.
func executePlan(ctx context.Context, w io.Writer, plan runPlan, searcher fdc.Searcher) error {
	log := logger.Get()

	generated, stats, err := seeder.Run(ctx, searcher, seeder.Options{
		Queries:   plan.Queries,
		DataTypes: plan.DataTypes,
		PageSize:  plan.PageSize,
		Limit:     plan.Limit,
	})
	if err != nil {
		return fmt.Errorf("generate interrupted: %w", err)
	}

	existing, err := catalog.LoadExisting(plan.Out)
	if err != nil {
		return err
	}
	final := catalog.Merge(existing, catalog.Entries(generated), plan.Mode)

	if plan.DryRun {
		fmt.Fprintf(w, "Dry run: would write %d foods to %s (mode=%s)\n", len(final), plan.Out, plan.Mode)
		return nil
	}
	if err := catalog.Write(plan.Out, final); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	log.Info("wrote foods",
		zap.Int("count", len(final)),
		zap.Int("searched", stats.Searched),
		zap.Int("picked", stats.Picked),
		zap.Int("failed", stats.Failed),
		zap.Int("unmatched", stats.Unmatched),
		zap.String("path", plan.Out),
		zap.String("mode", string(plan.Mode)),
	)
	fmt.Fprintf(w, "Wrote %d foods to %s (mode=%s)\n", len(final), plan.Out, plan.Mode)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
