package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "ORDEREXPORT"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Shopify   ShopifyConfig
	Export    ExportConfig
	Storage   StorageConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string `validate:"required"`
	Env  string `validate:"oneof=development testing production"`
	Port string `validate:"required,numeric"`
}

// ShopifyConfig holds the order platform connection settings
type ShopifyConfig struct {
	StoreDomain    string `validate:"required_without=BaseURL"`
	APIVersion     string `validate:"required"`
	AccessToken    string
	BaseURL        string `validate:"omitempty,url"`
	TimeoutSeconds int    `validate:"gte=0"` // 0 disables the timeout
}

// ExportConfig holds export defaults
type ExportConfig struct {
	DefaultCount  int    `validate:"min=1,max=250"`
	DefaultFormat string `validate:"oneof=xlsx csv"`
	OutputDir     string `validate:"required"`
}

// StorageConfig selects where published artifacts go
type StorageConfig struct {
	Backend  string `validate:"oneof=local s3"`
	LocalDir string
	S3       S3Config
}

// S3Config holds S3-compatible object storage settings
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool

	// PresignExpiration is the lifetime of download links for published artifacts
	PresignExpiration time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn warning error fatal"`
	Format string `validate:"oneof=json console"`
	Output string `validate:"required"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	RateLimitEnabled  bool
	RateLimitRequests int `validate:"gt=0"`
	RateLimitWindow   time.Duration
	RateLimitBurst    int `validate:"gte=0"`
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string

	// DocsEnabled serves the OpenAPI document and Swagger UI
	DocsEnabled    bool
	DocsAllowedIPs []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	TracingEnabled    bool
	MetricsEnabled    bool
	LogsEnabled       bool
	CollectorEndpoint string
	SamplingRatio     float64 `validate:"gte=0,lte=1"`
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration

	// Pyroscope continuous profiling
	ProfilingEnabled           bool
	ProfilingServerAddress     string
	ProfilingBasicAuthUser     string
	ProfilingBasicAuthPassword string
}

// LoadOptions controls where Load looks for configuration
type LoadOptions struct {
	// ConfigPaths are searched for config.toml
	ConfigPaths []string
	// DotEnvFile is read into the process environment when it exists.
	// Variables already set are left untouched.
	DotEnvFile string
}

// DefaultLoadOptions returns the search paths used by Load
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		ConfigPaths: []string{".", "/etc/orderexport"},
		DotEnvFile:  ".env",
	}
}

// Load loads configuration using DefaultLoadOptions.
// Priority (highest to lowest):
// 1. Environment variables with ORDEREXPORT_ prefix, then the legacy PORT and SHOPIFY_ACCESS_TOKEN
// 2. .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	return LoadWithOptions(DefaultLoadOptions())
}

// LoadWithOptions loads configuration from the given locations
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	if err := loadDotEnv(opts.DotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range opts.ConfigPaths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Variable names the service has always honored
	_ = v.BindEnv("app.port", EnvPrefix+"_APP_PORT", "PORT")
	_ = v.BindEnv("shopify.access_token", EnvPrefix+"_SHOPIFY_ACCESS_TOKEN", "SHOPIFY_ACCESS_TOKEN")

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:    v.GetString("shopify.store_domain"),
			APIVersion:     v.GetString("shopify.api_version"),
			AccessToken:    v.GetString("shopify.access_token"),
			BaseURL:        v.GetString("shopify.base_url"),
			TimeoutSeconds: v.GetInt("shopify.timeout_seconds"),
		},
		Export: ExportConfig{
			DefaultCount:  v.GetInt("export.default_count"),
			DefaultFormat: v.GetString("export.default_format"),
			OutputDir:     v.GetString("export.output_dir"),
		},
		Storage: StorageConfig{
			Backend:  v.GetString("storage.backend"),
			LocalDir: v.GetString("storage.local_dir"),
			S3: S3Config{
				Endpoint:          v.GetString("storage.s3.endpoint"),
				Region:            v.GetString("storage.s3.region"),
				Bucket:            v.GetString("storage.s3.bucket"),
				Prefix:            v.GetString("storage.s3.prefix"),
				AccessKeyID:       v.GetString("storage.s3.access_key_id"),
				SecretAccessKey:   v.GetString("storage.s3.secret_access_key"),
				UsePathStyle:      v.GetBool("storage.s3.use_path_style"),
				PresignExpiration: v.GetDuration("storage.s3.presign_expiration"),
			},
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			RateLimitBurst:    v.GetInt("http.rate_limit_burst"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
			DocsEnabled:       v.GetBool("http.docs_enabled"),
			DocsAllowedIPs:    v.GetStringSlice("http.docs_allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			TracingEnabled:    v.GetBool("telemetry.tracing_enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),

			ProfilingEnabled:           v.GetBool("telemetry.profiling_enabled"),
			ProfilingServerAddress:     v.GetString("telemetry.profiling_server_address"),
			ProfilingBasicAuthUser:     v.GetString("telemetry.profiling_basic_auth_user"),
			ProfilingBasicAuthPassword: v.GetString("telemetry.profiling_basic_auth_password"),
		},
	}

	// sampling_ratio = 0 is meaningful, so only default it when unset
	if !v.IsSet("telemetry.sampling_ratio") {
		cfg.Telemetry.SamplingRatio = 1.0
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv copies variables from a dotenv file into the process
// environment without overriding variables that are already set
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")
	if err := dv.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	for _, key := range dv.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, dv.GetString(key)); err != nil {
			return fmt.Errorf("error setting %s: %w", name, err)
		}
	}
	return nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "orderexport"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3001"
	}

	if cfg.Shopify.StoreDomain == "" && cfg.Shopify.BaseURL == "" {
		cfg.Shopify.StoreDomain = "sniffandbark.com.co"
	}
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2024-01"
	}

	if cfg.Export.DefaultCount == 0 {
		cfg.Export.DefaultCount = 250
	}
	if cfg.Export.DefaultFormat == "" {
		cfg.Export.DefaultFormat = "xlsx"
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "."
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "exports"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "us-east-1"
	}
	if cfg.Storage.S3.PresignExpiration == 0 {
		cfg.Storage.S3.PresignExpiration = 15 * time.Minute
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 60
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 10
	}
	// The service is called from a browser UI on another origin
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "HEAD", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.ProfilingServerAddress == "" {
		cfg.Telemetry.ProfilingServerAddress = "http://localhost:4040"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validate performs validation on the configuration
func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.Storage.Backend == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("config: storage.s3.bucket is required when storage.backend is s3")
	}

	if c.App.Env == "production" {
		if c.Shopify.AccessToken == "" {
			return fmt.Errorf("config: shopify.access_token is required in production")
		}
		if c.Shopify.BaseURL != "" && !strings.HasPrefix(c.Shopify.BaseURL, "https://") {
			return fmt.Errorf("config: shopify.base_url must use https in production")
		}
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.App.Port
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
