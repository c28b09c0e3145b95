package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Options declares the global flags and environment variables shared by
// every command. Vendor API credentials are validated by the commands
// that need them, not here, so read-only commands work without them.
type Options struct {
	APIUsername   string `long:"api-username" env:"MTP_API_USERNAME" description:"MTP API username"`
	APIPassword   string `long:"api-password" env:"MTP_API_PASSWORD" description:"MTP API password"`
	APIServiceURL string `long:"api-service-url" env:"MTP_API_SERVICE_URL" description:"MTP API base service URL"`

	DBPath      string `long:"db-path" env:"NEWSLETTER_DB_PATH" default:"/opt/mtp-newsletter/data/newsletter.db" description:"Path to the SQLite database file"`
	TemplateDir string `long:"template-dir" env:"NEWSLETTER_TEMPLATE_DIR" default:"/opt/mtp-newsletter/templates" description:"Directory containing newsletter templates"`
	OutputDir   string `long:"output-dir" env:"NEWSLETTER_OUTPUT_DIR" default:"/opt/mtp-newsletter/output" description:"Directory for generated newsletters"`
	Port        string `long:"port" env:"PORT" default:"8080" description:"HTTP port for the serve command"`

	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"Access key for the read-only HTTP API (optional)"`

	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"MTP Newsletter/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Apply turns parsed options into the process-wide configuration and
// configures the default slog logger.
func Apply(opts Options) *Cfg {
	cfg := &Cfg{
		APIUsername:   opts.APIUsername,
		APIPassword:   opts.APIPassword,
		APIServiceURL: opts.APIServiceURL,
		DBPath:        opts.DBPath,
		TemplateDir:   opts.TemplateDir,
		OutputDir:     opts.OutputDir,
		Port:          opts.Port,
		APIAccessKey:  opts.APIAccessKey,
		UserAgent:     opts.UserAgent,
		Debug:         opts.Debug,
		Version:       GetVersion(),
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	globalCfg = cfg

	return cfg
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Apply() first")
	}
	return globalCfg
}

// RequireAPICredentials reports missing vendor API settings as a single
// configuration error before any work begins.
func (c *Cfg) RequireAPICredentials() error {
	var missing []string
	if c.APIUsername == "" {
		missing = append(missing, "MTP_API_USERNAME")
	}
	if c.APIPassword == "" {
		missing = append(missing, "MTP_API_PASSWORD")
	}
	if c.APIServiceURL == "" {
		missing = append(missing, "MTP_API_SERVICE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required MTP API configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// EnsureRuntimeDirectories creates the template, output, and database
// directories if absent.
func (c *Cfg) EnsureRuntimeDirectories() error {
	dirs := []string{c.TemplateDir, c.OutputDir, filepath.Dir(c.DBPath)}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
