package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all exporter configuration.
type Config struct {
	Input     string          `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Images    ImagesConfig    `mapstructure:"images"`
	Export    ExportConfig    `mapstructure:"export"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Server    ServerConfig    `mapstructure:"server"`
	LogLevel  string          `mapstructure:"log_level"`
}

type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	PostFolders  bool   `mapstructure:"post_folders"`
	PrefixDate   bool   `mapstructure:"prefix_date"`
	YearFolders  bool   `mapstructure:"year_folders"`
	MonthFolders bool   `mapstructure:"month_folders"`
}

type ImagesConfig struct {
	SaveAttached bool          `mapstructure:"save_attached"`
	SaveScraped  bool          `mapstructure:"save_scraped"`
	Concurrency  int           `mapstructure:"concurrency"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CacheDir     string        `mapstructure:"cache_dir"`
}

type ExportConfig struct {
	Concurrency int      `mapstructure:"concurrency"`
	Include     []string `mapstructure:"include"`
	Exclude     []string `mapstructure:"exclude"`
	PostTypes   []string `mapstructure:"post_types"`
	Drafts      bool     `mapstructure:"drafts"`
}

type TemplatesConfig struct {
	Dir string `mapstructure:"dir"`
}

type StatsConfig struct {
	TiktokenEncoding string `mapstructure:"tiktoken_encoding"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

type TLSConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	CertFile     string `mapstructure:"cert_file"`
	KeyFile      string `mapstructure:"key_file"`
	AutoCert     bool   `mapstructure:"auto_cert"`
	AutoCertHost string `mapstructure:"auto_cert_host"`
	AutoCertDir  string `mapstructure:"auto_cert_dir"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Debug reports whether per-post detail logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Load reads configuration from the given file path (or default locations)
// and environment variables, then unmarshals into a Config struct.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.wpmarkdown")
		v.AddConfigPath("/etc/wpmarkdown")
	}

	// Environment variable overrides (e.g. WPMD_OUTPUT_DIR)
	v.SetEnvPrefix("WPMD")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "export.xml")
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.post_folders", true)
	v.SetDefault("output.prefix_date", false)
	v.SetDefault("output.year_folders", false)
	v.SetDefault("output.month_folders", false)
	v.SetDefault("images.save_attached", true)
	v.SetDefault("images.save_scraped", true)
	v.SetDefault("images.concurrency", 4)
	v.SetDefault("images.timeout", "30s")
	v.SetDefault("images.cache_dir", "")
	v.SetDefault("export.concurrency", 4)
	v.SetDefault("export.include", []string{})
	v.SetDefault("export.exclude", []string{})
	v.SetDefault("export.post_types", []string{"post", "page"})
	v.SetDefault("export.drafts", false)
	v.SetDefault("templates.dir", "")
	v.SetDefault("stats.tiktoken_encoding", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.cert_file", "")
	v.SetDefault("server.tls.key_file", "")
	v.SetDefault("server.tls.auto_cert", false)
	v.SetDefault("server.tls.auto_cert_host", "localhost")
	v.SetDefault("server.tls.auto_cert_dir", "./certs")
	v.SetDefault("log_level", "info")
}
