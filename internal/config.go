package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/novarow/internal/catalog"
)

type NovaRowConfig struct {
	AppName string `mapstructure:"app_name"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Catalog struct {
		// Dir holds <table>.meta.json files; optional.
		Dir    string             `mapstructure:"dir"`
		Tables []catalog.TableDef `mapstructure:"tables"`
	} `mapstructure:"catalog"`
}

func LoadConfig(path string) (*NovaRowConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("app_name", "novarow")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("NOVAROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg NovaRowConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// OpenCatalog builds the catalog described by the config.
func (c *NovaRowConfig) OpenCatalog() (*catalog.Catalog, error) {
	return catalog.LoadDir(c.Catalog.Dir, c.Catalog.Tables...)
}
