// Package config loads the engine configuration from a YAML file and the
// environment. The result is validated once and treated as read-only.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/mcqgen/internal/audit"
	"github.com/abhisek/mcqgen/internal/llm"
	"github.com/abhisek/mcqgen/internal/questiongen"
)

// Config is the complete engine configuration.
type Config struct {
	LLM        llm.Config                `yaml:"llm"`
	Routing    questiongen.RoutingConfig `yaml:"routing"`
	Generation questiongen.Config        `yaml:"generation"`
	Audit      audit.Config              `yaml:"audit"`
	Server     ServerConfig              `yaml:"server"`
	Log        LogConfig                 `yaml:"log"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LLM:        llm.DefaultConfig(),
		Routing:    questiongen.DefaultRoutingConfig(),
		Generation: questiongen.DefaultConfig(),
		Audit:      audit.DefaultConfig(),
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	llm.ApplyEnv(&cfg.LLM)

	if v := os.Getenv("MCQGEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if v := os.Getenv("MCQGEN_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("MCQGEN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MCQGEN_LOG_JSON"); v != "" {
		cfg.Log.JSON = v == "1" || strings.EqualFold(v, "true")
	}
}

// Validate checks struct constraints and that every routing link names a
// known provider.
func Validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := questiongen.NewRouter(cfg.Routing, llm.KnownProviders); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
