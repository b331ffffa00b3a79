// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // zone database for publish.timezone on minimal images

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/price-list-publisher/internal/scrape"
	"github.com/donaldgifford/price-list-publisher/pkg/logger"
	"github.com/donaldgifford/price-list-publisher/pkg/pricing"
	"github.com/donaldgifford/price-list-publisher/pkg/render"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Source   SourceConfig   `yaml:"source"`
	Pricing  pricing.Policy `yaml:"pricing"`
	Telegram TelegramConfig `yaml:"telegram"`
	Publish  PublishConfig  `yaml:"publish"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageConfig selects and configures the ledger backend.
type StorageConfig struct {
	Driver   string         `yaml:"driver"` // postgres, sqlite, memory
	Database DatabaseConfig `yaml:"database"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	// KeepDays is how many past days of ledger entries survive pruning.
	KeepDays int `yaml:"keep_days"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// SQLiteConfig defines the SQLite database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig enables the distributed locker. An empty Addr keeps locks in
// process.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	LockTTL   time.Duration `yaml:"lock_ttl"`
}

// Enabled reports whether a Redis server is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// SourceConfig defines where the price list is scraped from.
type SourceConfig struct {
	URLs []string `yaml:"urls"`
	// Snapshots are saved HTML pages used instead of URLs when set.
	Snapshots   []string      `yaml:"snapshots"`
	ValidBrands []string      `yaml:"valid_brands"`
	Noise       []string      `yaml:"noise"`
	Selector    string        `yaml:"selector"`
	SkipLeading int           `yaml:"skip_leading"` // 0 uses the default, negative skips nothing
	ScrollPause time.Duration `yaml:"scroll_pause"`
	MaxScrolls  int           `yaml:"max_scrolls"`
	PageTimeout time.Duration `yaml:"page_timeout"`
	ChromePath  string        `yaml:"chrome_path"`
}

// Parser returns the page parser described by s.
func (s *SourceConfig) Parser() scrape.Parser {
	return scrape.Parser{
		Selector:    s.Selector,
		ValidBrands: s.ValidBrands,
		Noise:       s.Noise,
		SkipLeading: max(s.SkipLeading, 0),
	}
}

// TelegramConfig defines the Bot API transport. An empty token disables
// publishing and messages are only logged.
type TelegramConfig struct {
	Token     string          `yaml:"token"`
	ChatID    string          `yaml:"chat_id"`
	APIURL    string          `yaml:"api_url"`
	ParseMode string          `yaml:"parse_mode"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines Bot API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// PublishConfig defines message layout and publication behaviour.
type PublishConfig struct {
	MaxLength    int               `yaml:"max_length"`
	Timezone     string            `yaml:"timezone"`
	Calendar     string            `yaml:"calendar"` // gregorian, jalali
	StampTime    bool              `yaml:"stamp_time"`
	Workers      int               `yaml:"workers"`
	ChannelTitle string            `yaml:"channel_title"`
	Footer       string            `yaml:"footer"`
	SummaryText  string            `yaml:"summary_text"`
	Titles       map[string]string `yaml:"titles"`
	Labels       map[string]string `yaml:"labels"`
}

// Location loads the configured time zone.
func (p *PublishConfig) Location() (*time.Location, error) {
	return time.LoadLocation(p.Timezone)
}

// Layout returns the message layout with configured titles merged over the
// defaults.
func (p *PublishConfig) Layout() render.Layout {
	return render.Layout{
		ChannelTitle: p.ChannelTitle,
		Footer:       p.Footer,
		Titles:       mergeCategoryText(render.DefaultTitles(), p.Titles),
		MaxLength:    p.MaxLength,
	}
}

// SummaryLayout returns the navigation message layout.
func (p *PublishConfig) SummaryLayout() render.SummaryLayout {
	return render.SummaryLayout{
		Text:   p.SummaryText,
		Labels: mergeCategoryText(render.DefaultSummaryLabels(), p.Labels),
	}
}

func mergeCategoryText(base map[domain.Category]string, overrides map[string]string) map[domain.Category]string {
	for k, v := range overrides {
		if c, ok := domain.ParseCategory(k); ok {
			base[c] = v
		}
	}
	return base
}

// ScheduleConfig defines the publication cron.
type ScheduleConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Cron       string        `yaml:"cron"`
	RunTimeout time.Duration `yaml:"run_timeout"`
	// StaleRunAge is how long a run may stay 'running' before startup
	// recovery marks it crashed.
	StaleRunAge time.Duration `yaml:"stale_run_age"`
}

// TracingConfig defines the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A .env file next to the config is loaded
// first; variables already set in the environment win.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes, defaults and
// validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyStorageDefaults(&cfg.Storage)
	applyRedisDefaults(&cfg.Redis)
	applySourceDefaults(&cfg.Source)
	applyPricingDefaults(&cfg.Pricing)
	applyTelegramDefaults(&cfg.Telegram)
	applyPublishDefaults(&cfg.Publish)
	applyScheduleDefaults(&cfg.Schedule)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)

	// The run lock is never extended, so it has to outlive a full run.
	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = cfg.Schedule.RunTimeout + time.Minute
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyStorageDefaults(s *StorageConfig) {
	if s.Driver == "" {
		s.Driver = DriverSQLite
	}
	if s.SQLite.Path == "" {
		s.SQLite.Path = "price-list-publisher.db"
	}
	d := &s.Database
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyRedisDefaults(r *RedisConfig) {
	if r.KeyPrefix == "" {
		r.KeyPrefix = "plp:lock:"
	}
}

func applySourceDefaults(s *SourceConfig) {
	if s.Selector == "" {
		s.Selector = scrape.DefaultSelector
	}
	if s.SkipLeading == 0 {
		s.SkipLeading = scrape.DefaultSkipLeading
	}
	if len(s.ValidBrands) == 0 {
		s.ValidBrands = scrape.DefaultValidBrands()
	}
	if len(s.Noise) == 0 {
		s.Noise = scrape.DefaultNoise()
	}
	if s.ScrollPause == 0 {
		s.ScrollPause = 2 * time.Second
	}
	if s.MaxScrolls == 0 {
		s.MaxScrolls = 50
	}
	if s.PageTimeout == 0 {
		s.PageTimeout = 60 * time.Second
	}
}

func applyPricingDefaults(p *pricing.Policy) {
	def := pricing.DefaultPolicy()
	if p.Floor == 0 {
		p.Floor = def.Floor
	}
	if len(p.Tiers) == 0 {
		p.Tiers = def.Tiers
	}
	if p.RoundTo == 0 {
		p.RoundTo = def.RoundTo
	}
}

func applyTelegramDefaults(t *TelegramConfig) {
	if t.APIURL == "" {
		t.APIURL = "https://api.telegram.org"
	}
	if t.ParseMode == "" {
		t.ParseMode = "MarkdownV2"
	}
	if t.Timeout == 0 {
		t.Timeout = 30 * time.Second
	}
	if t.RateLimit.PerSecond == 0 {
		t.RateLimit.PerSecond = 1
	}
	if t.RateLimit.Burst == 0 {
		t.RateLimit.Burst = 3
	}
}

func applyPublishDefaults(p *PublishConfig) {
	if p.MaxLength == 0 {
		p.MaxLength = render.DefaultMaxLength
	}
	if p.Timezone == "" {
		p.Timezone = "Asia/Tehran"
	}
	if p.Calendar == "" {
		p.Calendar = string(render.CalendarJalali)
	}
	if p.Workers == 0 {
		p.Workers = 1
	}
	if strings.TrimSpace(p.SummaryText) == "" {
		p.SummaryText = render.DefaultSummaryText
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.Cron == "" {
		s.Cron = "*/30 * * * *"
	}
	if s.RunTimeout == 0 {
		s.RunTimeout = 15 * time.Minute
	}
	if s.StaleRunAge == 0 {
		s.StaleRunAge = time.Hour
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "price-list-publisher"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validatePricing(&cfg.Pricing)...)
	errs = append(errs, validatePublish(&cfg.Publish)...)

	if len(cfg.Source.URLs) == 0 && len(cfg.Source.Snapshots) == 0 {
		errs = append(errs, errors.New("source.urls or source.snapshots is required"))
	}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID == "" {
		errs = append(errs, errors.New("telegram.chat_id is required when telegram.token is set"))
	}
	if cfg.Redis.Enabled() && cfg.Redis.LockTTL <= cfg.Schedule.RunTimeout {
		errs = append(errs, fmt.Errorf("redis.lock_ttl (%s) must exceed schedule.run_timeout (%s)",
			cfg.Redis.LockTTL, cfg.Schedule.RunTimeout))
	}
	if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
		errs = append(errs, fmt.Errorf("schedule.cron %q: %w", cfg.Schedule.Cron, err))
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("tracing.endpoint is required when tracing is enabled"))
	}
	if !logger.ValidFormat(cfg.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}

func validateStorage(s *StorageConfig) []error {
	var errs []error

	switch s.Driver {
	case DriverPostgres:
		if s.Database.Host == "" {
			errs = append(errs, errors.New("storage.database.host is required when driver is postgres"))
		}
		if s.Database.Name == "" {
			errs = append(errs, errors.New("storage.database.name is required when driver is postgres"))
		}
		if s.Database.User == "" {
			errs = append(errs, errors.New("storage.database.user is required when driver is postgres"))
		}
	case DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf(
			"storage.driver must be one of: postgres, sqlite, memory (got %q)", s.Driver))
	}
	if s.KeepDays < 0 {
		errs = append(errs, fmt.Errorf("storage.keep_days must not be negative (got %d)", s.KeepDays))
	}

	return errs
}

func validatePricing(p *pricing.Policy) []error {
	var errs []error

	if p.RoundTo < 0 {
		errs = append(errs, fmt.Errorf("pricing.round_to must not be negative (got %v)", p.RoundTo))
	}
	var prevMax float64
	for i, t := range p.Tiers {
		if t.Multiplier < 0 || t.Surcharge < 0 {
			errs = append(errs, fmt.Errorf("pricing.tiers[%d]: surcharge and multiplier must not be negative", i))
		}
		if t.Max == 0 && i != len(p.Tiers)-1 {
			errs = append(errs, fmt.Errorf("pricing.tiers[%d]: only the last tier may be unbounded", i))
		}
		if t.Max != 0 && t.Max <= prevMax {
			errs = append(errs, fmt.Errorf("pricing.tiers[%d]: max must increase (got %v after %v)", i, t.Max, prevMax))
		}
		prevMax = t.Max
	}

	return errs
}

func validatePublish(p *PublishConfig) []error {
	var errs []error

	if p.MaxLength < 0 {
		errs = append(errs, fmt.Errorf("publish.max_length must be positive (got %d)", p.MaxLength))
	}
	if p.Workers < 0 {
		errs = append(errs, fmt.Errorf("publish.workers must be positive (got %d)", p.Workers))
	}
	switch render.Calendar(p.Calendar) {
	case render.CalendarGregorian, render.CalendarJalali:
	default:
		errs = append(errs, fmt.Errorf("publish.calendar must be one of: gregorian, jalali (got %q)", p.Calendar))
	}
	if _, err := p.Location(); err != nil {
		errs = append(errs, fmt.Errorf("publish.timezone: %w", err))
	}
	for k := range p.Titles {
		if c, ok := domain.ParseCategory(k); !ok || c == domain.CategorySummary {
			errs = append(errs, fmt.Errorf("publish.titles: unknown category %q", k))
		}
	}
	for k := range p.Labels {
		if c, ok := domain.ParseCategory(k); !ok || c == domain.CategorySummary {
			errs = append(errs, fmt.Errorf("publish.labels: unknown category %q", k))
		}
	}

	return errs
}
