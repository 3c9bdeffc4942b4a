package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "20s" or "1m30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Browser BrowserConfig `yaml:"browser"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// SiteConfig identifies the target site and the session inputs.
type SiteConfig struct {
	// BaseURL is the Google Sites root to export. Required (CLI --url).
	BaseURL string `yaml:"base_url"`

	// CookiesFile is the path to the browser-extension cookie export.
	CookiesFile string `yaml:"cookies_file"` // default: "cookies.json"

	// SitesHost resolves root-relative hrefs. Google Sites serves every
	// site under this host.
	SitesHost string `yaml:"sites_host"` // default: "https://sites.google.com"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool `yaml:"headless"` // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker and for
	// unattended scraping on most CI hosts).
	NoSandbox bool `yaml:"no_sandbox"` // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string `yaml:"browser_bin"`

	// Stealth injects anti-bot-detection JS before navigation.
	Stealth bool `yaml:"stealth"` // default: false

	// BlockAds drops requests to known ad/analytics domains. Speeds up
	// the network-idle wait; resource types are never blocked because
	// the PDFs need images and styles.
	BlockAds bool `yaml:"block_ads"` // default: false

	// ExtraHeaders is sent with every request (e.g. Accept-Language).
	ExtraHeaders map[string]string `yaml:"extra_headers"`

	// IdleWindow is how long the network must stay quiet before a page
	// counts as loaded.
	IdleWindow Duration `yaml:"idle_window"` // default: 300ms
}

// ExportConfig controls the export loop.
type ExportConfig struct {
	// OutputDir receives one PDF per exported page. Created if absent.
	OutputDir string `yaml:"output_dir"` // default: "google_site_export"

	// BootstrapTimeout bounds the initial navigation + idle wait.
	BootstrapTimeout Duration `yaml:"bootstrap_timeout"` // default: 60s

	// PageTimeout bounds each per-page navigation + idle wait.
	PageTimeout Duration `yaml:"page_timeout"` // default: 20s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Site: SiteConfig{
			CookiesFile: envOr("SITEPDF_COOKIES", "cookies.json"),
			SitesHost:   envOr("SITEPDF_SITES_HOST", "https://sites.google.com"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("SITEPDF_HEADLESS", true),
			NoSandbox:  envBoolOr("SITEPDF_NO_SANDBOX", true),
			BrowserBin: os.Getenv("SITEPDF_BROWSER_BIN"),
			Stealth:    envBoolOr("SITEPDF_STEALTH", false),
			BlockAds:   envBoolOr("SITEPDF_BLOCK_ADS", false),
			IdleWindow: envDurationOr("SITEPDF_IDLE_WINDOW", 300*time.Millisecond),
		},
		Export: ExportConfig{
			OutputDir:        envOr("SITEPDF_OUTPUT_DIR", "google_site_export"),
			BootstrapTimeout: envDurationOr("SITEPDF_BOOTSTRAP_TIMEOUT", 60*time.Second),
			PageTimeout:      envDurationOr("SITEPDF_PAGE_TIMEOUT", 20*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("SITEPDF_LOG_LEVEL", "info"),
			Format: envOr("SITEPDF_LOG_FORMAT", "text"),
		},
	}
}

// ApplyFile overlays a YAML config file on top of the current values.
// Unset fields in the file keep their existing values.
func (c *Config) ApplyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the invariants the pipeline depends on.
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.Export.BootstrapTimeout <= 0 {
		return fmt.Errorf("bootstrap_timeout must be positive")
	}
	if c.Export.PageTimeout <= 0 {
		return fmt.Errorf("page_timeout must be positive")
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return Duration(d)
		}
	}
	return Duration(fallback)
}
