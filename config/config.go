// Package config holds the installation-specific paths used to locate game files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("pzmap: invalid config")

type Config struct {
	GamePath           string   `yaml:"game_path"`
	MapName            string   `yaml:"map_name"`
	TexturePacks       []string `yaml:"texture_packs"`
	TileDefinitionsDir string   `yaml:"tile_definitions_dir"`
	Workers            int      `yaml:"workers"`
}

func Default() Config {
	return Config{
		MapName: "Muldraugh, KY",
		TexturePacks: []string{
			"ApCom.pack",
			"RadioIcons.pack",
			"ApComUI.pack",
			"JumboTrees2x.pack",
			"Tiles2x.floor.pack",
			"Tiles2x.pack",
		},
		TileDefinitionsDir: "media",
		Workers:            4,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers = %d", ErrInvalidConfig, c.Workers)
	}
	if c.MapName == "" || filepath.Base(c.MapName) != c.MapName {
		return fmt.Errorf("%w: map_name %q", ErrInvalidConfig, c.MapName)
	}
	return nil
}

// MapDirectory is "<game>/media/maps/<map>".
func (c Config) MapDirectory() string {
	return filepath.Join(c.GamePath, "media", "maps", c.MapName)
}

// TexturePackPaths resolves pack file names under "<game>/media/texturepacks".
func (c Config) TexturePackPaths() []string {
	paths := make([]string, 0, len(c.TexturePacks))
	for _, name := range c.TexturePacks {
		paths = append(paths, filepath.Join(c.GamePath, "media", "texturepacks", name))
	}
	return paths
}

func (c Config) TileDefinitionsDirectory() string {
	return filepath.Join(c.GamePath, c.TileDefinitionsDir)
}
