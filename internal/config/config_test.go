package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/price-list-publisher/pkg/pricing"
	"github.com/donaldgifford/price-list-publisher/pkg/render"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

const minimalYAML = `
source:
  urls:
    - https://shop.example.com/quick-checkout/mobile
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: minimalYAML,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, []string{"https://shop.example.com/quick-checkout/mobile"}, cfg.Source.URLs)
				assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: minimalYAML,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "price-list-publisher.db", cfg.Storage.SQLite.Path)
				assert.Equal(t, 5432, cfg.Storage.Database.Port)
				assert.Equal(t, "disable", cfg.Storage.Database.SSLMode)
				assert.Equal(t, 10, cfg.Storage.Database.PoolSize)
				assert.False(t, cfg.Redis.Enabled())
				assert.Equal(t, "plp:lock:", cfg.Redis.KeyPrefix)
				assert.Equal(t, 16*time.Minute, cfg.Redis.LockTTL)
				assert.Equal(t, ".mantine-Text-root", cfg.Source.Selector)
				assert.Equal(t, 25, cfg.Source.SkipLeading)
				assert.Contains(t, cfg.Source.ValidBrands, "Galaxy")
				assert.Equal(t, 2*time.Second, cfg.Source.ScrollPause)
				assert.Equal(t, pricing.DefaultPolicy(), cfg.Pricing)
				assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
				assert.Equal(t, "MarkdownV2", cfg.Telegram.ParseMode)
				assert.InDelta(t, 1.0, cfg.Telegram.RateLimit.PerSecond, 0)
				assert.Equal(t, render.DefaultMaxLength, cfg.Publish.MaxLength)
				assert.Equal(t, "Asia/Tehran", cfg.Publish.Timezone)
				assert.Equal(t, "jalali", cfg.Publish.Calendar)
				assert.Equal(t, 1, cfg.Publish.Workers)
				assert.Equal(t, render.DefaultSummaryText, cfg.Publish.SummaryText)
				assert.Equal(t, render.DefaultSummaryText, cfg.Publish.SummaryLayout().Text)
				assert.Equal(t, "*/30 * * * *", cfg.Schedule.Cron)
				assert.Equal(t, 15*time.Minute, cfg.Schedule.RunTimeout)
				assert.Equal(t, time.Hour, cfg.Schedule.StaleRunAge)
				assert.Equal(t, "price-list-publisher", cfg.Tracing.ServiceName)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: minimalYAML + `
telegram:
  token: "${TEST_PLP_BOT_TOKEN}"
  chat_id: "-1001234567890"
`,
			envVars: map[string]string{
				"TEST_PLP_BOT_TOKEN": "123:abc",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "123:abc", cfg.Telegram.Token)
			},
		},
		{
			name: "postgres missing connection fields",
			yaml: minimalYAML + `
storage:
  driver: postgres
`,
			wantErr: "storage.database.host is required when driver is postgres",
		},
		{
			name: "unknown storage driver",
			yaml: minimalYAML + `
storage:
  driver: mongo
`,
			wantErr: `storage.driver must be one of: postgres, sqlite, memory (got "mongo")`,
		},
		{
			name:    "no source",
			yaml:    `logging: {level: debug}`,
			wantErr: "source.urls or source.snapshots is required",
		},
		{
			name: "token without chat id",
			yaml: minimalYAML + `
telegram:
  token: "123:abc"
`,
			wantErr: "telegram.chat_id is required",
		},
		{
			name: "bad cron",
			yaml: minimalYAML + `
schedule:
  cron: "every tuesday"
`,
			wantErr: `schedule.cron "every tuesday"`,
		},
		{
			name: "bad calendar",
			yaml: minimalYAML + `
publish:
  calendar: lunar
`,
			wantErr: `publish.calendar must be one of: gregorian, jalali (got "lunar")`,
		},
		{
			name: "bad timezone",
			yaml: minimalYAML + `
publish:
  timezone: Mars/Olympus
`,
			wantErr: "publish.timezone",
		},
		{
			name: "unknown title category",
			yaml: minimalYAML + `
publish:
  titles:
    phones: Phones
`,
			wantErr: `publish.titles: unknown category "phones"`,
		},
		{
			name: "unbounded tier in the middle",
			yaml: minimalYAML + `
pricing:
  tiers:
    - {surcharge: 10}
    - {max: 100, multiplier: 1.1}
`,
			wantErr: "pricing.tiers[0]: only the last tier may be unbounded",
		},
		{
			name: "tiers out of order",
			yaml: minimalYAML + `
pricing:
  tiers:
    - {max: 100, surcharge: 1}
    - {max: 50, surcharge: 1}
    - {multiplier: 1.01}
`,
			wantErr: "pricing.tiers[1]: max must increase",
		},
		{
			name: "tracing without endpoint",
			yaml: minimalYAML + `
tracing:
  enabled: true
`,
			wantErr: "tracing.endpoint is required",
		},
		{
			name: "redis lock shorter than a run",
			yaml: minimalYAML + `
redis:
  addr: redis:6379
  lock_ttl: 10m
schedule:
  run_timeout: 15m
`,
			wantErr: "redis.lock_ttl (10m0s) must exceed schedule.run_timeout (15m0s)",
		},
		{
			name: "redis lock follows run timeout",
			yaml: minimalYAML + `
redis:
  addr: redis:6379
schedule:
  run_timeout: 30m
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 31*time.Minute, cfg.Redis.LockTTL)
			},
		},
		{
			name: "blank summary text gets default",
			yaml: minimalYAML + `
publish:
  summary_text: "   "
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, render.DefaultSummaryText, cfg.Publish.SummaryText)
			},
		},
		{
			name: "bad log format",
			yaml: minimalYAML + `
logging:
  format: xml
`,
			wantErr: `logging.format must be one of: text, json (got "xml")`,
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
storage:
  driver: postgres
  keep_days: 2
  database:
    host: db.example.com
    port: 5433
    name: plp
    user: admin
    password: pass
    sslmode: require
    pool_size: 20
redis:
  addr: redis:6379
  lock_ttl: 5m
source:
  snapshots: [testdata/mobile.html]
  skip_leading: -1
  valid_brands: [Galaxy]
pricing:
  floor: 10
  round_to: 1000
  tiers:
    - {max: 1000000, surcharge: 5000}
    - {multiplier: 1.01}
telegram:
  token: "123:abc"
  chat_id: "@prices"
  parse_mode: ""
publish:
  max_length: 3000
  timezone: UTC
  calendar: gregorian
  stamp_time: true
  workers: 4
  channel_title: "Mobile Shop"
  footer: "Call 0912"
  summary_text: "Updated"
  titles:
    apple: iPhones
  labels:
    samsung: Samsung list
schedule:
  enabled: true
  cron: "@every 10m"
  run_timeout: 4m
tracing:
  enabled: true
  endpoint: otel:4317
  insecure: true
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
				assert.Equal(t, 2, cfg.Storage.KeepDays)
				assert.Equal(t, 5433, cfg.Storage.Database.Port)
				assert.Equal(t, 20, cfg.Storage.Database.PoolSize)
				assert.True(t, cfg.Redis.Enabled())
				assert.Equal(t, 5*time.Minute, cfg.Redis.LockTTL)
				assert.Equal(t, 0, cfg.Source.Parser().SkipLeading)
				assert.Equal(t, []string{"Galaxy"}, cfg.Source.Parser().ValidBrands)
				assert.InDelta(t, 10, cfg.Pricing.Floor, 0)
				assert.Len(t, cfg.Pricing.Tiers, 2)
				assert.Equal(t, "MarkdownV2", cfg.Telegram.ParseMode)
				assert.True(t, cfg.Publish.StampTime)
				assert.Equal(t, 4, cfg.Publish.Workers)
				assert.True(t, cfg.Schedule.Enabled)
				assert.Equal(t, "@every 10m", cfg.Schedule.Cron)
				assert.True(t, cfg.Tracing.Insecure)
				assert.Equal(t, "json", cfg.Logging.Format)

				layout := cfg.Publish.Layout()
				assert.Equal(t, 3000, layout.MaxLength)
				assert.Equal(t, "Mobile Shop", layout.ChannelTitle)
				assert.Equal(t, "iPhones", layout.Title(domain.CategoryApple))
				assert.Equal(t, render.DefaultTitles()[domain.CategorySamsung], layout.Title(domain.CategorySamsung))

				summary := cfg.Publish.SummaryLayout()
				assert.Equal(t, "Updated", summary.Text)
				assert.Equal(t, "Samsung list", summary.Labels[domain.CategorySamsung])

				loc, err := cfg.Publish.Location()
				require.NoError(t, err)
				assert.Equal(t, time.UTC, loc)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
storage: {driver: mongo}
publish: {calendar: lunar}
logging: {format: xml}
`))
	require.Error(t, err)
	for _, want := range []string{"storage.driver", "publish.calendar", "logging.format", "source.urls"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	const key = "TEST_PLP_DOTENV_CHAT"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=@from_dotenv\n"), 0o600))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML+`
telegram:
  chat_id: "${`+key+`}"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "@from_dotenv", cfg.Telegram.ChatID)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_ExampleFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, pricing.DefaultPolicy(), cfg.Pricing)
	assert.Equal(t, render.DefaultMaxLength, cfg.Publish.MaxLength)
	assert.Equal(t, "*/30 * * * *", cfg.Schedule.Cron)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "basic DSN",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				Name:     "plp",
				User:     "plp",
				Password: "testpass",
				SSLMode:  "disable",
				PoolSize: 10,
			},
			want: "host=localhost port=5432 dbname=plp user=plp password=testpass sslmode=disable pool_max_conns=10",
		},
		{
			name: "production DSN",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				Name:     "plp",
				User:     "admin",
				Password: "s3cret",
				SSLMode:  "require",
				PoolSize: 20,
			},
			want: "host=db.example.com port=5433 dbname=plp user=admin password=s3cret sslmode=require pool_max_conns=20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
