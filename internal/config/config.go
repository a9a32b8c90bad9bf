package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config captures the runtime configuration for the relay service.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Webhooks      WebhooksConfig      `mapstructure:"webhooks"`
	Uploads       UploadsConfig       `mapstructure:"uploads"`
	Simulator     SimulatorConfig     `mapstructure:"simulator"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	ListenAddr            string        `mapstructure:"listen_addr"`
	BodyLimitMB           int           `mapstructure:"body_limit_mb"`
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	GracefulShutdownDelay time.Duration `mapstructure:"graceful_shutdown_delay"`
}

// WebhooksConfig maps logical operation names to destination URLs. An
// operation with no mapping, or a mapping that is not an http(s) URL,
// falls back to the local simulator rather than failing.
type WebhooksConfig struct {
	Timeout   time.Duration     `mapstructure:"timeout"`
	Endpoints map[string]string `mapstructure:"endpoints"`
}

type UploadsConfig struct {
	MaxImageMB int      `mapstructure:"max_image_mb"`
	MaxAudioMB int      `mapstructure:"max_audio_mb"`
	ImageTypes []string `mapstructure:"image_types"`
	AudioTypes []string `mapstructure:"audio_types"`
}

type SimulatorConfig struct {
	DelayMin time.Duration `mapstructure:"delay_min"`
	DelayMax time.Duration `mapstructure:"delay_max"`
}

type ObservabilityConfig struct {
	OTLPEndpoint  string `mapstructure:"otlp_endpoint"`
	EnableOTLP    bool   `mapstructure:"enable_otlp"`
	EnableMetrics bool   `mapstructure:"enable_metrics"`
}

// Operations the relay knows how to forward.
var KnownOperations = []string{
	"generate-image",
	"fix-image",
	"synthesize-audio",
	"transcribe-audio",
	"voices",
}

// Options controls the config loader behavior.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load returns the merged configuration sourced from YAML and environment
// variables.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		_ = godotenv.Load(opts.EnvFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	explicitFile := false
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		explicitFile = true
	} else if cfg := os.Getenv("RELAY_CONFIG_FILE"); cfg != "" {
		v.SetConfigFile(cfg)
		explicitFile = true
	}

	if !explicitFile {
		// Allow standard lookup locations when no explicit file is provided.
		v.SetConfigName("relay")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(timeStringToDurationHook())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr must be set")
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server.body_limit_mb must be > 0")
	}
	if c.Uploads.MaxImageMB <= 0 || c.Uploads.MaxAudioMB <= 0 {
		return fmt.Errorf("upload size limits must be > 0")
	}
	if len(c.Uploads.ImageTypes) == 0 || len(c.Uploads.AudioTypes) == 0 {
		return fmt.Errorf("upload type allowlists must not be empty")
	}
	if c.Webhooks.Timeout <= 0 {
		c.Webhooks.Timeout = 30 * time.Second
	}
	if c.Simulator.DelayMin < 0 || c.Simulator.DelayMax < c.Simulator.DelayMin {
		return fmt.Errorf("simulator delay window is invalid")
	}
	for op := range c.Webhooks.Endpoints {
		if !knownOperation(op) {
			return fmt.Errorf("webhooks.endpoints: unknown operation %q", op)
		}
	}
	return nil
}

// EndpointFor resolves an operation to a usable destination URL. The
// second return is false when the operation should use the simulator.
func (c *Config) EndpointFor(operation string) (string, bool) {
	raw := strings.TrimSpace(c.Webhooks.Endpoints[operation])
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return raw, true
}

func knownOperation(op string) bool {
	for _, known := range KnownOperations {
		if op == known {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.body_limit_mb", 64)
	v.SetDefault("server.read_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.graceful_shutdown_delay", "5s")

	v.SetDefault("webhooks.timeout", "60s")

	v.SetDefault("uploads.max_image_mb", 10)
	v.SetDefault("uploads.max_audio_mb", 50)
	v.SetDefault("uploads.image_types", []string{
		"image/jpeg", "image/png", "image/gif", "image/webp",
	})
	v.SetDefault("uploads.audio_types", []string{
		"audio/mpeg", "audio/mp3", "audio/wav", "audio/ogg", "audio/flac",
		"audio/x-flac", "audio/aac", "audio/mp4", "audio/m4a", "audio/x-m4a",
	})

	v.SetDefault("simulator.delay_min", "600ms")
	v.SetDefault("simulator.delay_max", "1800ms")

	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_otlp", false)
}

func timeStringToDurationHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case time.Duration:
			return v, nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, err
			}
			return d, nil
		default:
			return nil, fmt.Errorf("cannot decode %T into time.Duration", data)
		}
	}
}
