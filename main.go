package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/config"
	"github.com/CrestNiraj12/hnterm/infra/hackernews"
	"github.com/CrestNiraj12/hnterm/infra/logging"
	"github.com/CrestNiraj12/hnterm/infra/metrics"
	"github.com/CrestNiraj12/hnterm/pager"
	"github.com/CrestNiraj12/hnterm/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cliFlags are the command-line overrides. Only flags the user set are
// applied on top of the loaded config.
type cliFlags struct {
	configPath  string
	feed        string
	logFile     string
	logLevel    string
	metricsAddr string
	pageSize    int
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
	cmd := &cobra.Command{
		Use:           "hnterm",
		Short:         "Read Hacker News in the terminal",
		Args:          cobra.NoArgs,
		Version:       v,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("hnterm %s\ncommit: %s\nbuilt: %s\n", v, c, d))
	bindFlags(cmd, &flags)
	return cmd
}

func bindFlags(cmd *cobra.Command, flags *cliFlags) {
	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "config file path (YAML)")
	f.StringVar(&flags.feed, "feed", "", "feed to open: top or new")
	f.StringVar(&flags.logFile, "log-file", "", "append logs to this file")
	f.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	f.IntVar(&flags.pageSize, "page-size", 0, "stories per page (1-100)")
}

// loadConfig layers the set flags over the file and environment config.
func loadConfig(cmd *cobra.Command, flags cliFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("feed") {
		cfg.Feed = flags.feed
	}
	if f.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr = flags.metricsAddr
	}
	if f.Changed("page-size") {
		cfg.PageSize = flags.pageSize
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// initialFeed picks the feed to open: an explicit --feed wins, then the
// feed remembered from the last run, then the config.
func initialFeed(cfg config.Config, feedFlagSet bool, st config.UIState) domain.FeedType {
	if !feedFlagSet {
		if remembered, err := domain.ParseFeedType(st.Feed); err == nil {
			return remembered
		}
	}
	return cfg.FeedType()
}

func threadOptions(cfg config.Config) pager.ThreadOptions {
	opts := pager.ThreadOptions{BatchSize: cfg.ThreadBatchSize, Prefetch: cfg.ThreadPrefetch}
	if cfg.ThreadPrefetch == 0 {
		opts.Prefetch = -1
	}
	return opts
}

func run(cmd *cobra.Command, flags cliFlags) error {
	// 1. Load config: defaults, file, environment, flags.
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logging. The terminal belongs to the TUI, so logs go to a file or nowhere.
	logger, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// 3. Metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewRecorder(reg)
	if cfg.MetricsAddr != "" {
		if err := metrics.Serve(ctx, cfg.MetricsAddr, reg, logger); err != nil {
			return err
		}
	}

	// 4. Build services (concrete types satisfy app.* interfaces).
	client := hackernews.NewClient(cfg.APIBase, hackernews.ClientOptions{
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
		Metrics: recorder,
	})
	gateway := hackernews.NewGateway(client, hackernews.GatewayOptions{
		Logger:          logger,
		Metrics:         recorder,
		MaxCommentDepth: cfg.MaxCommentDepth,
		PageSize:        cfg.PageSize,
	})

	uiState, err := config.LoadUIState(cfg.StatePath)
	if err != nil {
		logger.Warn("ignoring ui state", slog.String("error", err.Error()))
	}
	feed := initialFeed(cfg, cmd.Flags().Changed("feed"), uiState)

	logger.Info("starting",
		slog.String("api_base", cfg.APIBase),
		slog.String("feed", string(feed)),
		slog.Int("page_size", cfg.PageSize))

	// 5. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Items:     gateway,
		Logger:    logger,
		Feed:      feed,
		PageSize:  cfg.PageSize,
		Threads:   threadOptions(cfg),
		StatePath: cfg.StatePath,
	})

	// 6. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if app, ok := final.(tui.App); ok {
		app.Close()
	}
	if err != nil {
		return fmt.Errorf("hnterm: %w", err)
	}
	return nil
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
