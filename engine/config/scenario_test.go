package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	s, err := Parse([]byte(`
name: ridge
tick_rate: 30
search: dijkstra
targeting: "dist + max(dh, 0) / 10"
terrain:
  heights:
    - [0, 0, 0]
    - [0, 50, 0]
towers:
  - {kind: wall, row: 1, col: 1}
agents:
  cap: 4
`))
	require.NoError(t, err)
	assert.Equal(t, "ridge", s.Name)
	assert.Equal(t, 30.0, s.TickRate)
	assert.Equal(t, "dijkstra", s.Search)
	assert.Equal(t, [][]int{{0, 0, 0}, {0, 50, 0}}, s.Terrain.Heights)
	assert.Equal(t, []Placement{{Kind: "wall", Row: 1, Col: 1}}, s.Towers)
	assert.Equal(t, 4, s.Agents.Cap)

	// Untouched fields keep their defaults
	assert.Equal(t, uint64(60), s.Agents.SpawnInterval)
	assert.Len(t, s.Agents.Kinds, 3)
	assert.Equal(t, 256, s.PathCache)
}

func TestParseReportsEveryError(t *testing.T) {
	_, err := Parse([]byte(`
tick_rate: 0
path_cache: -1
search: bfs
log_level: loud
agents:
  kinds:
    - {name: "", speed: 0}
`))
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"tick_rate", "path_cache", "bfs", "log_level", "missing name", "speed must be positive"} {
		assert.Contains(t, msg, want)
	}
}

func TestParseRejectsBadAgentStats(t *testing.T) {
	_, err := Parse([]byte(`
agents:
  kinds:
    - {name: ghost, speed: 1, health: 0, damage: 5}
    - {name: medic, speed: 1, health: 5, damage: -10}
`))
	require.Error(t, err)
	assert.ErrorContains(t, err, `"ghost": health must be positive`)
	assert.ErrorContains(t, err, `"medic": damage must not be negative`)
}

func TestOwnTerrainDropsDefaultTowers(t *testing.T) {
	s, err := Parse([]byte("terrain:\n  file: m.yaml\n"))
	require.NoError(t, err)
	assert.Empty(t, s.Towers)
	assert.Nil(t, s.Terrain.Heights)

	s, err = Parse([]byte("terrain:\n  heights:\n    - [0, 0, 0]\n    - [0, 0, 0]\n"))
	require.NoError(t, err)
	assert.Empty(t, s.Towers)
	assert.Equal(t, [][]int{{0, 0, 0}, {0, 0, 0}}, s.Terrain.Heights)

	// Towers listed next to the terrain are kept
	s, err = Parse([]byte("terrain:\n  file: m.yaml\ntowers:\n  - {kind: wall, row: 0, col: 1}\n"))
	require.NoError(t, err)
	assert.Equal(t, []Placement{{Kind: "wall", Row: 0, Col: 1}}, s.Towers)

	// Without terrain the default map keeps its headquarters
	s, err = Parse([]byte("name: plain\n"))
	require.NoError(t, err)
	assert.Equal(t, Default().Towers, s.Towers)
}

func TestParseBadYAML(t *testing.T) {
	_, err := Parse([]byte("tick_rate: [oops"))
	assert.ErrorContains(t, err, "decode")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestLoadResolvesTerrainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: level\nterrain:\n  file: maps/hills.png\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "maps", "hills.png"), s.Terrain.File)
	assert.Nil(t, s.Terrain.Heights, "file replaces the default grid")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
