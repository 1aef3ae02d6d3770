package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-pzmap/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "pzmap.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	return filePath
}

func TestLoad(t *testing.T) {
	filePath := writeConfig(t, `
game_path: /games/ProjectZomboid
map_name: Riverside, KY
texture_packs: [Tiles2x.pack]
workers: 8
`)
	cfg, err := config.Load(filePath)
	require.NoError(t, err)

	want := config.Default()
	want.GamePath = "/games/ProjectZomboid"
	want.MapName = "Riverside, KY"
	want.TexturePacks = []string{"Tiles2x.pack"}
	want.Workers = 8
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want+got):\n%v", diff)
	}

	require.Equal(t, filepath.Join("/games/ProjectZomboid", "media", "maps", "Riverside, KY"), cfg.MapDirectory())
	require.Equal(t, []string{filepath.Join("/games/ProjectZomboid", "media", "texturepacks", "Tiles2x.pack")}, cfg.TexturePackPaths())
	require.Equal(t, filepath.Join("/games/ProjectZomboid", "media"), cfg.TileDefinitionsDirectory())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.TexturePackPaths(), 6)
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		Name    string
		Content string
		Err     error
	}{
		{Name: "Workers", Content: "workers: 0", Err: config.ErrInvalidConfig},
		{Name: "MapPath", Content: "map_name: ../other", Err: config.ErrInvalidConfig},
		{Name: "EmptyMap", Content: `map_name: ""`, Err: config.ErrInvalidConfig},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.Content))
			require.ErrorIs(t, err, tc.Err)
		})
	}

	_, err := config.Load(writeConfig(t, "workers: [1"))
	require.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
