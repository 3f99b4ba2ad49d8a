package main

import (
	"strings"

	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const kEnvPrefix = "SPI"

// flagKeys maps each config flag to its viper key.
var flagKeys = map[string]string{
	"rank":       "rank",
	"invariant":  "invariant",
	"modulus":    "modulus",
	"catalog":    "catalog",
	"minimize":   "minimize",
	"min-length": "stats.min_length",
	"max-length": "stats.max_length",
	"samples":    "stats.samples",
	"seed":       "stats.seed",
	"workers":    "stats.workers",
}

func addConfigFlags(cmd *cobra.Command) {
	def := spi.DefaultConfig
	flags := cmd.PersistentFlags()
	flags.String("config", "", "YAML config file")
	flags.Int("rank", def.Rank, "rank of the free group")
	flags.String("invariant", def.Invariant, "invariant to compute: no-origami or spi-m")
	flags.Int("modulus", def.Modulus, "modulus m of spi-m")
	flags.String("catalog", def.Catalog, "pathname of a catalog of computed results")
	flags.Bool("minimize", def.Minimize, "also find the minimal word under Type II automorphisms")
	flags.Int("min-length", def.Stats.MinLength, "stats: shortest word length")
	flags.Int("max-length", def.Stats.MaxLength, "stats: longest word length")
	flags.Int("samples", def.Stats.Samples, "stats: random words per length")
	flags.Int64("seed", def.Stats.Seed, "stats: random word seed")
	flags.Int("workers", def.Stats.Workers, "stats: words calculated at once")
}

// loadConfig layers spi.DefaultConfig, the --config YAML file, SPI_* env vars, and explicitly set flags (in that order).
func loadConfig(cmd *cobra.Command) (spi.Config, error) {
	var cfg spi.Config

	v := viper.New()
	def := spi.DefaultConfig
	v.SetDefault("rank", def.Rank)
	v.SetDefault("invariant", def.Invariant)
	v.SetDefault("modulus", def.Modulus)
	v.SetDefault("catalog", def.Catalog)
	v.SetDefault("minimize", def.Minimize)
	v.SetDefault("stats.min_length", def.Stats.MinLength)
	v.SetDefault("stats.max_length", def.Stats.MaxLength)
	v.SetDefault("stats.samples", def.Stats.Samples)
	v.SetDefault("stats.seed", def.Stats.Seed)
	v.SetDefault("stats.workers", def.Stats.Workers)

	v.SetEnvPrefix(kEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return cfg, err
			}
		}
	}

	if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, errors.Wrapf(err, "error reading config file %s", f.Value.String())
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "error unmarshalling config")
	}
	return cfg, nil
}
