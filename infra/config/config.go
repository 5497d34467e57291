package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/CrestNiraj12/hnterm/domain"
)

const (
	appDir         = "hnterm"
	configFileName = "config.yaml"
	stateFileName  = "ui_state.yaml"

	defaultAPIBase         = "https://hacker-news.firebaseio.com/v0"
	defaultPageSize        = 20
	maxPageSize            = 100
	defaultThreadBatchSize = 3
	defaultThreadPrefetch  = 2
	defaultMaxCommentDepth = 64
)

// Config holds application-level configuration.
type Config struct {
	APIBase         string        `yaml:"api_base"`
	Feed            string        `yaml:"feed"`
	PageSize        int           `yaml:"page_size"`
	ThreadBatchSize int           `yaml:"thread_batch_size"`
	ThreadPrefetch  int           `yaml:"thread_prefetch"`
	MaxCommentDepth int           `yaml:"max_comment_depth"` // 0 is unbounded
	RequestTimeout  time.Duration `yaml:"request_timeout"`   // 0 is none
	LogFile         string        `yaml:"log_file"`          // empty discards logs
	LogLevel        string        `yaml:"log_level"`
	MetricsAddr     string        `yaml:"metrics_addr"` // empty disables /metrics
	StatePath       string        `yaml:"state_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		APIBase:         defaultAPIBase,
		Feed:            string(domain.FeedTop),
		PageSize:        defaultPageSize,
		ThreadBatchSize: defaultThreadBatchSize,
		ThreadPrefetch:  defaultThreadPrefetch,
		MaxCommentDepth: defaultMaxCommentDepth,
		LogLevel:        "info",
	}
	if dir, err := userDir(); err == nil {
		cfg.StatePath = filepath.Join(dir, stateFileName)
	}
	return cfg
}

// DefaultPath returns ~/.config/hnterm/config.yaml.
func DefaultPath() (string, error) {
	dir, err := userDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func userDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}

// Load layers defaults, the YAML file and the environment, then validates.
//
// path selects the config file; when empty HNTERM_CONFIG is used, then the
// default location. A missing default file is not an error.
//
//	HNTERM_API_BASE         API root (https only)
//	HNTERM_FEED             "top" or "new"
//	HNTERM_PAGE_SIZE        stories per page (1-100)
//	HNTERM_REQUEST_TIMEOUT  per-request timeout, e.g. "10s"
//	HNTERM_LOG_FILE         log destination
//	HNTERM_LOG_LEVEL        debug, info, warn or error
//	HNTERM_METRICS_ADDR     listen address for /metrics
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("HNTERM_CONFIG"); env != "" {
			path, explicit = env, true
		} else if def, err := DefaultPath(); err == nil {
			path = def
		}
	}
	if path != "" {
		err := cfg.mergeFile(path)
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return Config{}, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v := os.Getenv("HNTERM_API_BASE"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("HNTERM_FEED"); v != "" {
		c.Feed = v
	}
	if v := os.Getenv("HNTERM_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HNTERM_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	if v := os.Getenv("HNTERM_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid HNTERM_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv("HNTERM_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("HNTERM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("HNTERM_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	return nil
}

// Validate rejects out-of-range values and normalizes APIBase and Feed.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.APIBase)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid api_base: must be an absolute URL")
	}
	if parsed.Scheme != "https" {
		return fmt.Errorf("invalid api_base: only https is allowed")
	}
	c.APIBase = strings.TrimRight(parsed.String(), "/")

	feed, err := domain.ParseFeedType(c.Feed)
	if err != nil {
		return fmt.Errorf("invalid feed: %w", err)
	}
	c.Feed = string(feed)

	switch {
	case c.PageSize < 1 || c.PageSize > maxPageSize:
		return fmt.Errorf("invalid page_size %d: must be between 1 and %d", c.PageSize, maxPageSize)
	case c.ThreadBatchSize < 1:
		return fmt.Errorf("invalid thread_batch_size %d: must be positive", c.ThreadBatchSize)
	case c.ThreadPrefetch < 0:
		return fmt.Errorf("invalid thread_prefetch %d: must not be negative", c.ThreadPrefetch)
	case c.MaxCommentDepth < 0:
		return fmt.Errorf("invalid max_comment_depth %d: must not be negative", c.MaxCommentDepth)
	case c.RequestTimeout < 0:
		return fmt.Errorf("invalid request_timeout %s: must not be negative", c.RequestTimeout)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// FeedType returns the validated feed.
func (c Config) FeedType() domain.FeedType {
	feed, err := domain.ParseFeedType(c.Feed)
	if err != nil {
		return domain.FeedTop
	}
	return feed
}

// UIState is what the TUI remembers between runs.
type UIState struct {
	Feed string `yaml:"feed,omitempty"`
}

// LoadUIState reads path. A missing file yields the zero state.
func LoadUIState(path string) (UIState, error) {
	var st UIState
	if path == "" {
		return st, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("reading ui state: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes st to path, creating parent directories.
func SaveUIState(path string, st UIState) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	return nil
}
