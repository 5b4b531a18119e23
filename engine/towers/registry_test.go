package towers

import (
	"testing"

	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cell(r, c int) maplib.Cell { return maplib.Cell{Row: r, Col: c} }

func newRegistry(t *testing.T, rows, cols int) (*Registry, *core.EventBus) {
	t.Helper()
	g, err := maplib.NewHeightGrid(rows, cols, make([]maplib.Height, rows*cols))
	require.NoError(t, err)
	bus := core.NewEventBus()
	return NewRegistry(g, bus, nil), bus
}

func TestKindByName(t *testing.T) {
	k, err := KindByName("HeadQuarters")
	require.NoError(t, err)
	assert.Equal(t, Headquarters, k)
	assert.Equal(t, 2, k.Size)

	_, err = KindByName("moat")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRegistryCanFit(t *testing.T) {
	r, _ := newRegistry(t, 4, 4)
	assert.True(t, r.CanFit(cell(0, 0), 2))
	assert.True(t, r.CanFit(cell(2, 2), 2))
	assert.False(t, r.CanFit(cell(3, 3), 2), "spills off the grid")
	assert.False(t, r.CanFit(cell(-1, 0), 1))
	assert.False(t, r.CanFit(cell(0, 0), 0))

	_, err := r.Place(Wall, cell(1, 1))
	require.NoError(t, err)
	assert.False(t, r.CanFit(cell(0, 0), 2), "overlaps the wall")
	assert.True(t, r.CanFit(cell(0, 2), 2))

	_, err = r.Place(Headquarters, cell(0, 0))
	assert.ErrorIs(t, err, ErrNoFit)
}

func TestRegistryHeadquartersFootprint(t *testing.T) {
	r, _ := newRegistry(t, 4, 4)
	hq, err := r.Place(Headquarters, cell(1, 1))
	require.NoError(t, err)

	assert.ElementsMatch(t, []maplib.Cell{cell(1, 1), cell(1, 2), cell(2, 1), cell(2, 2)}, hq.Footprint())
	for _, c := range hq.Footprint() {
		assert.True(t, r.Occupied(c))
		got, ok := r.At(c)
		require.True(t, ok)
		assert.Equal(t, hq.ID, got.ID)
	}
	assert.False(t, r.Occupied(cell(0, 0)))
	assert.False(t, r.Occupied(cell(9, 9)))

	// Only the anchor is a goal cell
	assert.True(t, r.IsLiveTarget(cell(1, 1)))
	assert.False(t, r.IsLiveTarget(cell(2, 2)))
	assert.False(t, r.IsLiveTarget(cell(0, 0)))

	assert.Equal(t, []nav.Target{{ID: hq.ID, Cell: cell(1, 1), Kind: "headquarters"}}, r.LiveTargets())
}

func TestRegistryVersionTracksOccupancy(t *testing.T) {
	r, _ := newRegistry(t, 3, 3)
	v0 := r.Version()
	w, err := r.Place(Wall, cell(0, 0))
	require.NoError(t, err)
	v1 := r.Version()
	assert.Greater(t, v1, v0)

	// Damage that does not destroy leaves occupancy alone
	destroyed, err := r.Damage(w.ID, 10)
	require.NoError(t, err)
	assert.False(t, destroyed)
	assert.Equal(t, v1, r.Version())
	assert.Equal(t, 190, w.Health)

	require.NoError(t, r.Destroy(w.ID))
	assert.Greater(t, r.Version(), v1)
	assert.False(t, r.Occupied(cell(0, 0)))
	assert.Empty(t, r.LiveTargets())

	assert.ErrorIs(t, r.Destroy(w.ID), ErrNotFound)
	_, err = r.Damage(w.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryDamageDestroysAtZero(t *testing.T) {
	r, bus := newRegistry(t, 3, 3)
	var events []core.EventType
	var destroyed Tower
	for _, et := range []core.EventType{core.EvtTowerPlaced, core.EvtTowerDamaged, core.EvtTowerDestroyed} {
		bus.On(et, func(e core.Event) {
			events = append(events, e.Type)
			if e.Type == core.EvtTowerDestroyed {
				destroyed = e.Payload.(Tower)
			}
		})
	}

	s, err := r.Place(Sniper, cell(2, 2))
	require.NoError(t, err)
	gone, err := r.Damage(s.ID, 50)
	require.NoError(t, err)
	assert.False(t, gone)
	gone, err = r.Damage(s.ID, 50)
	require.NoError(t, err)
	assert.True(t, gone)

	bus.Dispatch()
	assert.Equal(t, []core.EventType{core.EvtTowerPlaced, core.EvtTowerDamaged, core.EvtTowerDestroyed}, events)
	assert.Equal(t, s.ID, destroyed.ID)
	assert.Equal(t, 0, destroyed.Health)
	_, ok := r.Get(s.ID)
	assert.False(t, ok)
}

func TestRegistryTowersAndCount(t *testing.T) {
	r, _ := newRegistry(t, 3, 3)
	var placed []nav.TargetID
	for i := 0; i < 3; i++ {
		tw, err := r.Place(Wall, cell(0, i))
		require.NoError(t, err)
		placed = append(placed, tw.ID)
	}
	_, err := r.Place(Producer, cell(2, 2))
	require.NoError(t, err)

	var got []nav.TargetID
	for _, tw := range r.Towers()[:3] {
		got = append(got, tw.ID)
	}
	assert.Equal(t, placed, got)
	assert.Equal(t, 3, r.Count(Wall))
	assert.Equal(t, 1, r.Count(Producer))
	assert.Equal(t, 0, r.Count(Headquarters))
}

func TestRegistryStampsEventTick(t *testing.T) {
	r, bus := newRegistry(t, 2, 2)
	r.Tick = func() uint64 { return 42 }
	var tick uint64
	bus.On(core.EvtTowerPlaced, func(e core.Event) { tick = e.Tick })
	_, err := r.Place(Wall, cell(0, 0))
	require.NoError(t, err)
	bus.Dispatch()
	assert.Equal(t, uint64(42), tick)
}
