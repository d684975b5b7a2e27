package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("google-signin version %s, commit %s, built at %s", version, commit, date)
}

const (
	// EnvPrefix is prepended to every environment variable override
	EnvPrefix = "GOOGLE_SIGNIN"

	DefaultIssuer       = "https://accounts.google.com"
	DefaultCallbackHost = "127.0.0.1"
	DefaultCallbackPath = "/oauth/callback"
	DefaultLogFile      = "google-signin.log"
)

// OutputFormat selects how the final sign-in result is printed after the screen closes
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatYAML OutputFormat = "yaml"
)

type Config struct {
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputFormat  `mapstructure:"output"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

type OAuthConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Scopes       []string      `mapstructure:"scopes"`
	Issuer       string        `mapstructure:"issuer"`        // OIDC issuer used for discovery
	CallbackHost string        `mapstructure:"callback_host"` // loopback address for the redirect receiver
	CallbackPort int           `mapstructure:"callback_port"` // 0 picks a free port
	CallbackPath string        `mapstructure:"callback_path"`
	OpenBrowser  bool          `mapstructure:"open_browser"`
	Timeout      time.Duration `mapstructure:"timeout"` // 0 waits forever
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	// Keys without a default still need registering so env overrides reach Unmarshal
	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.scopes", []string{"openid", "profile", "email"})
	v.SetDefault("oauth.issuer", DefaultIssuer)
	v.SetDefault("oauth.callback_host", DefaultCallbackHost)
	v.SetDefault("oauth.callback_port", 0)
	v.SetDefault("oauth.callback_path", DefaultCallbackPath)
	v.SetDefault("oauth.open_browser", true)
	v.SetDefault("oauth.timeout", time.Duration(0))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_path", DefaultLogFile)
	v.SetDefault("logging.append_to_file", true)
	v.SetDefault("logging.disable_console", true)
	v.SetDefault("logging.disable_stacktrace", false)
	v.SetDefault("logging.color", false)

	v.SetDefault("output", string(OutputFormatText))
}

// InitFlags registers the command line flags understood by Load on fs
func InitFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a config file (defaults to ./config.yaml or /etc/google-signin/config.yaml)")
	fs.String("client-id", "", "Google OAuth client ID")
	fs.String("client-secret", "", "Google OAuth client secret")
	fs.Bool("no-browser", false, "Do not open the system browser, only show the sign-in URL")
	fs.String("format", string(OutputFormatText), "Result output format (text|yaml)")
	fs.String("log-level", "", "Log level (debug|info|warn|error)")
}

// flagKeys maps flag names onto config keys
var flagKeys = map[string]string{
	"client-id":     "oauth.client_id",
	"client-secret": "oauth.client_secret",
	"format":        "output",
	"log-level":     "logging.level",
}

// Load reads configuration from defaults, config file, environment and flags,
// in increasing order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := readConfigFile(v, fs); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// --no-browser inverts oauth.open_browser, so it is applied by hand
	if fs != nil {
		if noBrowser, err := fs.GetBool("no-browser"); err == nil && noBrowser {
			config.OAuth.OpenBrowser = false
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			return nil
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/google-signin")

	if err := v.ReadInConfig(); err != nil {
		// Running without a config file is fine, everything has a default or an env override
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Validate checks the values that would otherwise fail late and obscurely.
// A missing client ID is deliberately not an error here: it surfaces as a
// DEVELOPER_ERROR on the sign-in screen.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputFormatText, OutputFormatYAML:
	default:
		return fmt.Errorf("unsupported output format %q, expected text or yaml", c.Output)
	}
	if c.OAuth.CallbackPort < 0 || c.OAuth.CallbackPort > 65535 {
		return fmt.Errorf("oauth.callback_port %d is out of range", c.OAuth.CallbackPort)
	}
	if !strings.HasPrefix(c.OAuth.CallbackPath, "/") {
		return fmt.Errorf("oauth.callback_path must start with '/', got %q", c.OAuth.CallbackPath)
	}
	if c.OAuth.Timeout < 0 {
		return fmt.Errorf("oauth.timeout must not be negative")
	}
	return nil
}
