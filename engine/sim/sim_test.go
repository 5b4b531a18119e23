package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1siamBot/td-engine/engine/config"
	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, sc *config.Scenario, ticks int) *Sim {
	t.Helper()
	s, err := New(sc, nil)
	require.NoError(t, err)
	s.Loop.Play()
	s.Loop.Step(ticks)
	return s
}

func TestDefaultScenarioRuns(t *testing.T) {
	s := run(t, config.Default(), 3000)
	st := s.Stats()

	assert.Greater(t, st.Spawned, 0)
	assert.Greater(t, st.Arrivals, 0)
	assert.Greater(t, st.Queries, uint64(0))
	if s.Lost() {
		assert.Equal(t, core.StateGameOver, s.Loop.State)
		assert.Less(t, st.Tick, uint64(3000))
	} else {
		assert.Equal(t, uint64(3000), st.Tick)
	}
	assert.LessOrEqual(t, st.Agents, s.Scenario.Agents.Cap)
	for _, a := range s.Agents() {
		assert.True(t, s.Terrain.InBounds(a.Cell), "agent at %v", a.Cell)
	}
}

func TestRunsAreDeterministic(t *testing.T) {
	a := run(t, config.Default(), 1500).Stats()
	b := run(t, config.Default(), 1500).Stats()
	assert.Equal(t, a, b)
}

func TestHeadquartersLossEndsTheGame(t *testing.T) {
	sc := config.Default()
	sc.Terrain.Heights = [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	sc.Towers = []config.Placement{{Kind: "headquarters", Row: 1, Col: 1}}
	sc.Agents.Kinds = []config.AgentKind{{Name: "giant", Speed: 4, Health: 1, Damage: 500}}
	sc.Agents.SpawnInterval = 1

	s := run(t, sc, 200)
	assert.True(t, s.Lost())
	assert.Equal(t, core.StateGameOver, s.Loop.State)
	assert.Empty(t, s.Towers.Towers())
}

func TestNoHeadquartersIsNeverLost(t *testing.T) {
	sc := config.Default()
	sc.Towers = nil
	s := run(t, sc, 200)
	assert.False(t, s.Lost())
	assert.Equal(t, 0, s.Stats().Arrivals)
}

func TestNewRejectsBadScenario(t *testing.T) {
	sc := config.Default()
	sc.Towers = []config.Placement{{Kind: "moat"}}
	_, err := New(sc, nil)
	assert.Error(t, err)

	sc = config.Default()
	sc.Towers = []config.Placement{{Kind: "wall", Row: 99, Col: 0}}
	_, err = New(sc, nil)
	assert.Error(t, err)

	sc = config.Default()
	sc.Targeting = "dist +"
	_, err = New(sc, nil)
	assert.Error(t, err)
}

func TestLoadScenarioWithTerrainFile(t *testing.T) {
	dir := t.TempDir()
	g := maplib.MustFromRows([][]int{
		{0, 0, 0, 0, 0},
		{0, 0, 20, 0, 0},
		{0, 0, 0, 0, 0},
	})
	require.NoError(t, g.SaveYAML(filepath.Join(dir, "terrain.yaml"), "small"))
	doc := `
name: small
search: dijkstra
path_cache: 0
terrain:
  file: terrain.yaml
towers:
  - {kind: producer, row: 1, col: 2}
agents:
  cap: 2
  spawn_interval: 5
`
	path := filepath.Join(dir, "small.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	sc, err := config.Load(path)
	require.NoError(t, err)
	s := run(t, sc, 400)

	assert.Equal(t, 3, s.Terrain.Rows())
	assert.Nil(t, s.Finder.Cache)
	st := s.Stats()
	assert.Greater(t, st.Arrivals, 0)
	assert.Equal(t, uint64(0), st.CacheHits)
}

func TestSmallTerrainFileWithoutTowers(t *testing.T) {
	dir := t.TempDir()
	g := maplib.MustFromRows([][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	require.NoError(t, g.SaveYAML(filepath.Join(dir, "tiny.yaml"), "tiny"))
	path := filepath.Join(dir, "tiny-level.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terrain:\n  file: tiny.yaml\n"), 0o644))

	sc, err := config.Load(path)
	require.NoError(t, err)
	s := run(t, sc, 50)
	assert.Empty(t, s.Towers.Towers())
	assert.False(t, s.Lost())
}

func TestApplyRecordsAndReplayReproduces(t *testing.T) {
	rec, err := replay.NewRecorder(filepath.Join(t.TempDir(), "run.replay"))
	require.NoError(t, err)

	live, err := New(config.Default(), nil)
	require.NoError(t, err)
	live.Recorder = rec
	live.Loop.Play()

	live.Loop.Step(100)
	require.NoError(t, live.Apply(replay.Command{Op: replay.OpPlace, Kind: "wall", Row: 2, Col: 3}))
	live.Loop.Step(200)
	require.NoError(t, live.Apply(replay.Command{Op: replay.OpPlace, Kind: "sniper", Row: 5, Col: 5}))
	assert.Error(t, live.Apply(replay.Command{Op: replay.OpDestroy, Row: 0, Col: 0}))
	live.Loop.Step(300)
	require.NoError(t, rec.Close())

	require.Len(t, rec.Commands, 2, "failed commands are not recorded")
	assert.Equal(t, uint64(100), rec.Commands[0].Tick)
	assert.Equal(t, uint64(300), rec.Commands[1].Tick)

	again, err := New(config.Default(), nil)
	require.NoError(t, err)
	again.Replay(rec.Commands)
	again.Loop.Play()
	again.Loop.Step(600)

	assert.Equal(t, live.Stats(), again.Stats())
}

func TestBundledScenario(t *testing.T) {
	sc, err := config.Load(filepath.Join("..", "..", "scenarios", "ridge.yaml"))
	require.NoError(t, err)
	s := run(t, sc, 2000)

	assert.Equal(t, 10, s.Terrain.Rows())
	assert.Equal(t, 12, s.Terrain.Cols())
	st := s.Stats()
	assert.Greater(t, st.Spawned, 0)
	assert.Greater(t, st.Arrivals, 0)
	assert.Greater(t, st.CacheHits+st.Queries, uint64(0))
}

func TestInspectReportsHealth(t *testing.T) {
	s := run(t, config.Default(), 1)
	agents := s.Agents()
	require.Len(t, agents, 1)

	sel := s.Inspect(agents[0].Cell)
	assert.Nil(t, sel.Tower)
	require.Len(t, sel.Agents, 1)
	info := sel.Agents[0]
	var want config.AgentKind
	for _, k := range s.Scenario.Agents.Kinds {
		if k.Name == info.Kind {
			want = k
		}
	}
	require.NotEmpty(t, want.Name, "unknown kind %q", info.Kind)
	assert.Equal(t, core.Health{Current: want.Health, Max: want.Health}, info.Health)
	assert.Equal(t, 1.0, info.Health.Ratio())

	// Any cell of the headquarters footprint selects it
	sel = s.Inspect(maplib.Cell{Row: 4, Col: 4})
	require.NotNil(t, sel.Tower)
	assert.Equal(t, "headquarters", sel.Tower.Kind.Name)
	assert.Equal(t, sel.Tower.Kind.Health, sel.Tower.Health)
	assert.Empty(t, sel.Agents)
}
