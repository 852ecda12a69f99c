package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickcrawford/wpmarkdown/internal/cache"
	"github.com/rickcrawford/wpmarkdown/internal/config"
	"github.com/rickcrawford/wpmarkdown/internal/export"
	"github.com/rickcrawford/wpmarkdown/internal/filter"
	"github.com/rickcrawford/wpmarkdown/internal/images"
	"github.com/rickcrawford/wpmarkdown/internal/output"
	"github.com/rickcrawford/wpmarkdown/internal/stats"
	"github.com/rickcrawford/wpmarkdown/internal/templates"
	"github.com/rickcrawford/wpmarkdown/internal/translator"
	"github.com/rickcrawford/wpmarkdown/internal/wxr"
)

var cfgFile string

// rootCmd converts an export when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "wpmarkdown",
	Short: "Convert a WordPress export into Markdown files",
	Long: `wpmarkdown reads a WordPress export (WXR) file and writes every post and
page as a Markdown file with YAML frontmatter, downloading attached and
embedded images next to each post.

Configure via config.yml, environment variables (WPMD_ prefix), or CLI flags.`,
	RunE: runConvert,
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a WordPress export into Markdown files (default command)",
	RunE:  runConvert,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yml)")
	rootCmd.AddCommand(convertCmd)

	for _, c := range []*cobra.Command{rootCmd, convertCmd} {
		f := c.Flags()
		f.String("input", "", "path to the WordPress export file (overrides config)")
		f.String("output", "", "output directory (overrides config)")
		f.Bool("post-folders", true, "write each post to <slug>/index.md")
		f.Bool("prefix-date", false, "prefix post folders/files with the post date")
		f.Bool("year-folders", false, "organize posts into year folders")
		f.Bool("month-folders", false, "organize posts into month folders")
		f.Bool("save-attached-images", true, "download images attached to posts")
		f.Bool("save-scraped-images", true, "download images referenced in post content")
		f.Bool("drafts", false, "include draft posts")
		f.StringSlice("post-types", nil, "post types to export (default: post,page)")
		f.StringSlice("include", nil, "only export posts whose link matches one of these regexes")
		f.StringSlice("exclude", nil, "skip posts whose link matches one of these regexes")
		f.Int("concurrency", 0, "posts converted in parallel (overrides config)")
		f.String("cache-dir", "", "cache directory for downloaded images")
		f.String("template-dir", "", "directory containing <post type>.mustache templates")
		f.String("tiktoken-encoding", "", "report token counts using this TikToken encoding")
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyConvertFlags copies explicitly set flags over the loaded config.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if v, _ := f.GetString("input"); v != "" {
		cfg.Input = v
	}
	if v, _ := f.GetString("output"); v != "" {
		cfg.Output.Dir = v
	}
	bools := map[string]*bool{
		"post-folders":         &cfg.Output.PostFolders,
		"prefix-date":          &cfg.Output.PrefixDate,
		"year-folders":         &cfg.Output.YearFolders,
		"month-folders":        &cfg.Output.MonthFolders,
		"save-attached-images": &cfg.Images.SaveAttached,
		"save-scraped-images":  &cfg.Images.SaveScraped,
		"drafts":               &cfg.Export.Drafts,
	}
	for name, dst := range bools {
		if f.Changed(name) {
			*dst, _ = f.GetBool(name)
		}
	}
	if v, _ := f.GetStringSlice("post-types"); len(v) > 0 {
		cfg.Export.PostTypes = v
	}
	if v, _ := f.GetStringSlice("include"); len(v) > 0 {
		cfg.Export.Include = v
	}
	if v, _ := f.GetStringSlice("exclude"); len(v) > 0 {
		cfg.Export.Exclude = v
	}
	if v, _ := f.GetInt("concurrency"); v > 0 {
		cfg.Export.Concurrency = v
	}
	if v, _ := f.GetString("cache-dir"); v != "" {
		cfg.Images.CacheDir = v
	}
	if v, _ := f.GetString("template-dir"); v != "" {
		cfg.Templates.Dir = v
	}
	if v, _ := f.GetString("tiktoken-encoding"); v != "" {
		cfg.Stats.TiktokenEncoding = v
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyConvertFlags(cmd, cfg)

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	e, err := wxr.Parse(f)
	if err != nil {
		return err
	}
	log.Printf("parsed %s: %d items", cfg.Input, len(e.Posts))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, err := runner.Run(ctx, e)
	if err != nil {
		return err
	}

	log.Printf("exported %d posts, %d images (%d skipped) to %s in %s",
		sum.Posts, sum.Images, sum.Skipped, cfg.Output.Dir, time.Since(start).Round(time.Millisecond))
	if runner.Stats.TokensEnabled() {
		log.Printf("total: %d words, %d tokens", sum.Words, sum.Tokens)
	} else {
		log.Printf("total: %d words", sum.Words)
	}
	return nil
}

func newRunner(cfg *config.Config) (*export.Runner, error) {
	counter, err := stats.NewCounter(cfg.Stats.TiktokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("initializing token counter: %w", err)
	}

	postFilter, err := filter.New(cfg.Export.Include, cfg.Export.Exclude)
	if err != nil {
		return nil, fmt.Errorf("compiling filters: %w", err)
	}

	writer, err := output.New(cfg.Output.Dir, output.Layout{
		PostFolders:  cfg.Output.PostFolders,
		PrefixDate:   cfg.Output.PrefixDate,
		YearFolders:  cfg.Output.YearFolders,
		MonthFolders: cfg.Output.MonthFolders,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing output writer: %w", err)
	}

	tpls, err := templates.New(cfg.Templates.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	if cfg.Templates.Dir != "" {
		log.Printf("Mustache templates loaded from: %s", cfg.Templates.Dir)
	}

	diskCache, err := cache.New(cfg.Images.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}
	if diskCache != nil {
		log.Printf("image cache enabled: %s", cfg.Images.CacheDir)
	}

	return &export.Runner{
		Translator: translator.New(),
		Templates:  tpls,
		Writer:     writer,
		Fetcher: images.NewFetcher(images.Options{
			Concurrency: cfg.Images.Concurrency,
			Timeout:     cfg.Images.Timeout,
			Cache:       diskCache,
		}),
		Filter: postFilter,
		Stats:  counter,
		Options: export.Options{
			PostTypes:          cfg.Export.PostTypes,
			Drafts:             cfg.Export.Drafts,
			Concurrency:        cfg.Export.Concurrency,
			SaveAttachedImages: cfg.Images.SaveAttached,
			SaveScrapedImages:  cfg.Images.SaveScraped,
			Debug:              cfg.Debug(),
		},
	}, nil
}
