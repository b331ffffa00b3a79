package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/price-list-publisher/internal/config"
	"github.com/donaldgifford/price-list-publisher/internal/lock"
	"github.com/donaldgifford/price-list-publisher/internal/notify"
	"github.com/donaldgifford/price-list-publisher/internal/store"
	"github.com/donaldgifford/price-list-publisher/pkg/logger"
)

func TestOpenStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		driver  string
		want    any
		wantErr string
	}{
		{name: "memory", driver: config.DriverMemory, want: &store.MemoryStore{}},
		{name: "sqlite", driver: config.DriverSQLite, want: &store.SQLiteStore{}},
		{name: "unknown", driver: "mysql", wantErr: `unknown storage driver "mysql"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.StorageConfig{
				SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "ledger.db")},
			}
			s, err := openStore(t.Context(), tt.driver, cfg)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })

			assert.IsType(t, tt.want, s)
			require.NoError(t, s.Ping(t.Context()))
		})
	}
}

func TestNewTransport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		dry   bool
		want  any
	}{
		{name: "no token", want: &notify.NoOpTransport{}},
		{name: "dry run", token: "123:abc", dry: true, want: &notify.NoOpTransport{}},
		{name: "telegram", token: "123:abc", want: &notify.TelegramTransport{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.TelegramConfig{
				Token:     tt.token,
				ChatID:    "@prices",
				APIURL:    "http://127.0.0.1:1",
				RateLimit: config.RateLimitConfig{PerSecond: 1, Burst: 1},
			}
			assert.IsType(t, tt.want, newTransport(cfg, logger.Discard(), tt.dry))
		})
	}
}

func TestNewLocker(t *testing.T) {
	t.Parallel()

	a := &app{}
	assert.IsType(t, &lock.LocalLocker{}, newLocker(&config.RedisConfig{}, a))
	assert.Empty(t, a.closers)

	l := newLocker(&config.RedisConfig{Addr: "127.0.0.1:6379", KeyPrefix: "plp:lock:"}, a)
	assert.IsType(t, &lock.RedisLocker{}, l)
	require.Len(t, a.closers, 1)
	assert.NoError(t, a.close())
}
