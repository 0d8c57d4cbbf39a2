package main

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds settings read from a TOML or YAML file.
type Config struct {
	Limits         *Limits  `toml:"limits" yaml:"limits"`
	Prompt         *string  `toml:"prompt" yaml:"prompt"`
	ContinuePrompt *string  `toml:"continue_prompt" yaml:"continue_prompt"`
	HistoryFile    string   `toml:"history_file" yaml:"history_file"`
	Trace          bool     `toml:"trace" yaml:"trace"`
	Precision      int      `toml:"precision" yaml:"precision"`
	Preload        []string `toml:"preload" yaml:"preload"`
}

type configFormat int

const (
	formatTOML configFormat = iota
	formatYAML
)

func (f configFormat) String() string {
	if f == formatYAML {
		return "yaml"
	}
	return "toml"
}

func detectFormat(name string) configFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatTOML
	}
}

// LoadConfig reads a config file, choosing its format by extension.
func LoadConfig(name string) (Config, error) {
	content, err := ioutil.ReadFile(name)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return parseConfig(content, detectFormat(name))
}

func parseConfig(content []byte, format configFormat) (cfg Config, err error) {
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(content, &cfg)
	default:
		_, err = toml.Decode(string(content), &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%v config parse error: %w", format, err)
	}
	if cfg.Precision != 0 && (cfg.Precision < 1 || cfg.Precision > 17) {
		return Config{}, fmt.Errorf("invalid precision %v, must be from 1 to 17", cfg.Precision)
	}
	return cfg, nil
}

// Options converts the config into interpreter options; limits not given
// keep their defaults.
func (cfg Config) Options() []InterpOption {
	var opts []InterpOption
	if lim := cfg.Limits; lim != nil {
		merged := defaultLimits
		for _, field := range []struct {
			dst *int
			val int
		}{
			{&merged.Params, lim.Params},
			{&merged.Strings, lim.Strings},
			{&merged.Returns, lim.Returns},
			{&merged.Scopes, lim.Scopes},
			{&merged.Calls, lim.Calls},
		} {
			if field.val != 0 {
				*field.dst = field.val
			}
		}
		opts = append(opts, WithLimits(merged))
	}
	if cfg.Prompt != nil || cfg.ContinuePrompt != nil {
		prompt, cont := "> ", "... "
		if cfg.Prompt != nil {
			prompt = *cfg.Prompt
		}
		if cfg.ContinuePrompt != nil {
			cont = *cfg.ContinuePrompt
		}
		opts = append(opts, WithPrompt(prompt, cont))
	}
	if cfg.Precision != 0 {
		opts = append(opts, WithPrecision(cfg.Precision))
	}
	if len(cfg.Preload) > 0 {
		opts = append(opts, WithPreload(cfg.Preload...))
	}
	return opts
}
