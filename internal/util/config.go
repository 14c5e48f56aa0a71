package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

const DefaultConfigFile = "eva.toml"

type StoreConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
	Table  string `toml:"table"`
}

type Configuration struct {
	Version      string `toml:"-"`
	BuildDate    string `toml:"-"`
	Commit       string `toml:"-"`
	RootPath     string `toml:"root"`
	EvaHome      string `toml:"eva_home"`
	DebugJsonAST bool   `toml:"debug_ast"`
	DebugTxtAST  bool   `toml:"debug_ast_text"`
	LogLevel     string `toml:"log_level"`
	LogFile      string `toml:"log_file"`
	// ModulePaths are searched after RootPath, relative to it unless absolute.
	ModulePaths []string    `toml:"module_paths"`
	Store       StoreConfig `toml:"store"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		RootPath: ".",
		LogLevel: "error",
	}
}

// LoadConfiguration decodes path over the defaults and then applies EVA_HOME.
// A missing file is only an error when required is set.
func LoadConfiguration(path string, required bool) (Configuration, error) {
	config := DefaultConfiguration()

	if path != "" {
		md, err := toml.DecodeFile(path, &config)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !required:
		case err != nil:
			return config, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return config, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
			}
		}
	}

	if home := os.Getenv("EVA_HOME"); home != "" {
		config.EvaHome = home
	}
	return config, nil
}
