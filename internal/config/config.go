package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"timeTable/internal/hybrid"
)

type LoggingConfig struct {
	Level string `json:"level"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Config — полная конфигурация запуска.
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Solver  hybrid.Config `json:"solver"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Solver:  hybrid.DefaultConfig(),
	}
}

// Load читает конфигурацию из файла (yaml или json по расширению)
// с наложением переопределений из переменных окружения TT_*.
// Ошибка конфигурации фатальна для запуска: частичный результат не строится.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("неподдерживаемый формат конфигурации: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Необязательные переопределения из окружения
	if err := k.Load(env.Provider("TT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "tt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Logging.SetDefaults()
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
