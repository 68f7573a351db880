package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "TRANSPORT", "STOMP_URL", "KAFKA_BROKERS", "VIEW_LOCALE", "STOMP_HEARTBEAT_MS"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, TransportStomp, cfg.Transport)
	assert.Equal(t, "ws://localhost:8080/ws-auction/websocket", cfg.Stomp.URL)
	assert.Equal(t, 10*time.Second, cfg.Stomp.HeartBeat)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "en-US", cfg.Locale)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TRANSPORT", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("STOMP_HEARTBEAT_MS", "bogus")
	cfg := FromEnv()

	assert.Equal(t, TransportKafka, cfg.Transport)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Second, cfg.Stomp.HeartBeat)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "unknown transport", mutate: func(c *Config) { c.Transport = "carrier-pigeon" }, wantErr: true},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Transport = TransportKafka; c.Kafka.Brokers = nil }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Transport: TransportStomp, Timezone: "UTC", Kafka: KafkaConfig{Brokers: []string{"k:9092"}}}
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pages.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
pages:
  - id: home
    file: home.html
  - id: product-42
    file: /srv/pages/product.html
`), 0o644))

	pages, err := LoadPages(path)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "home", pages[0].ID)
	assert.Equal(t, filepath.Join(dir, "home.html"), pages[0].File)
	assert.Equal(t, "/srv/pages/product.html", pages[1].File)
}

func TestLoadPagesRejectsInvalidEntries(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "missing file", content: "pages:\n  - id: home\n"},
		{name: "duplicated id", content: "pages:\n  - id: a\n    file: a.html\n  - id: a\n    file: b.html\n"},
		{name: "not yaml", content: "pages: [unterminated"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pages.yml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
			_, err := LoadPages(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadPages(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	pages := filepath.Join(dir, "pages.yml")
	require.NoError(t, os.WriteFile(pages, []byte("pages:\n  - id: home\n    file: home.html\n"), 0o644))
	t.Setenv("TRANSPORT", "bogus")
	t.Setenv("VIEW_TIMEZONE", "UTC")

	_, err := Load()
	assert.Error(t, err)

	cfg, err := Load(func(c *Config) {
		c.Transport = TransportMemory
		c.PagesFile = pages
	})
	require.NoError(t, err)
	assert.Equal(t, TransportMemory, cfg.Transport)
	require.Len(t, cfg.Pages, 1)
	assert.Equal(t, filepath.Join(dir, "home.html"), cfg.Pages[0].File)
}
