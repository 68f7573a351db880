package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Transport kinds accepted in TRANSPORT
const (
	TransportStomp  = "stomp"
	TransportKafka  = "kafka"
	TransportMemory = "memory"
)

// Config holds the runtime settings of the live view service
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	Transport string
	Stomp     StompConfig
	Kafka     KafkaConfig

	// Locale and Timezone define how amounts and bid times are displayed to the viewer
	Locale   string
	Timezone string

	PagesFile string
	Pages     []PageConfig

	// AssetsDir holds the browser scripts served under /assets, empty disables it
	AssetsDir string
}

// StompConfig holds the broker endpoint and the credentials sent in the CONNECT frame
type StompConfig struct {
	URL       string
	Host      string
	Login     string
	Passcode  string
	HeartBeat time.Duration
}

// KafkaConfig holds the brokers used by the kafka transport
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// PageConfig declares one page view served and kept in sync by the service
type PageConfig struct {
	ID   string `yaml:"id"`
	File string `yaml:"file"`
}

type pagesFile struct {
	Pages []PageConfig `yaml:"pages"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvms(key string, defMs int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defMs) * time.Millisecond
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defMs) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

func splitenv(key, def string) []string {
	var out []string
	for _, s := range strings.Split(getenv(key, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FromEnv collects configuration from environment (and .env if present) with defaults.
// Pages are not loaded, see LoadPages
func FromEnv() *Config {
	_ = godotenv.Load()
	return &Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":9000"),
		ShutdownTimeout: durenvms("SHUTDOWN_TIMEOUT_MS", 5000),
		Transport:       getenv("TRANSPORT", TransportStomp),
		Stomp: StompConfig{
			URL:       getenv("STOMP_URL", "ws://localhost:8080/ws-auction/websocket"),
			Host:      getenv("STOMP_HOST", "localhost"),
			Login:     getenv("STOMP_LOGIN", ""),
			Passcode:  getenv("STOMP_PASSCODE", ""),
			HeartBeat: durenvms("STOMP_HEARTBEAT_MS", 10000),
		},
		Kafka: KafkaConfig{
			Brokers:     splitenv("KAFKA_BROKERS", "localhost:9092"),
			GroupPrefix: getenv("KAFKA_GROUP_PREFIX", "auction-view"),
		},
		Locale:    getenv("VIEW_LOCALE", "en-US"),
		Timezone:  getenv("VIEW_TIMEZONE", "Local"),
		PagesFile: getenv("PAGES_FILE", "config/pages.yml"),
		AssetsDir: getenv("ASSETS_DIR", "web"),
	}
}

// Load reads the environment, applies overrides (command line flags) and loads the pages file
func Load(overrides ...func(*Config)) (*Config, error) {
	cfg := FromEnv()
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pages, err := LoadPages(cfg.PagesFile)
	if err != nil {
		return nil, err
	}
	cfg.Pages = pages
	return cfg, nil
}

// Validate checks the settings that have no usable fallback
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStomp, TransportKafka, TransportMemory:
	default:
		return fmt.Errorf("config: unknown transport %q", c.Transport)
	}
	if c.Transport == TransportKafka && len(c.Kafka.Brokers) == 0 {
		return errors.New("config: kafka transport needs at least one broker")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// LoadPages reads the yaml page list, page files are resolved relative to the list location
func LoadPages(path string) ([]PageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read pages file: %w", err)
	}

	var pf pagesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("config: failed to parse pages file: %w", err)
	}

	seen := make(map[string]bool, len(pf.Pages))
	dir := filepath.Dir(path)
	for i := range pf.Pages {
		p := &pf.Pages[i]
		if p.ID == "" || p.File == "" {
			return nil, fmt.Errorf("config: page %d needs both id and file", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("config: duplicated page id %q", p.ID)
		}
		seen[p.ID] = true
		if !filepath.IsAbs(p.File) {
			p.File = filepath.Join(dir, p.File)
		}
	}
	return pf.Pages, nil
}
