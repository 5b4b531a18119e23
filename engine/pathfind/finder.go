package pathfind

import (
	"log/slog"

	"github.com/1siamBot/td-engine/engine/maplib"
)

// Finder runs path queries against one NavGrid, optionally memoizing
// results per occupancy version.
type Finder struct {
	Grid  *NavGrid
	Mode  Mode
	Cache *Cache // nil disables caching
	Log   *slog.Logger

	Queries uint64
}

// NewFinder creates an A* finder. cacheSize <= 0 disables the cache.
func NewFinder(ng *NavGrid, cacheSize int, log *slog.Logger) *Finder {
	f := &Finder{Grid: ng, Mode: AStar, Log: log}
	if cacheSize > 0 {
		f.Cache = NewCache(cacheSize)
	}
	if f.Log == nil {
		f.Log = slog.New(slog.DiscardHandler)
	}
	return f
}

// Find returns the least-cost path from start to end. Returned paths may
// be shared with the cache and must not be modified.
func (f *Finder) Find(start, end maplib.Cell) (Result, error) {
	version := f.Grid.Version()
	if f.Cache != nil {
		if r, ok := f.Cache.Get(start, end, version); ok {
			return r, nil
		}
	}
	f.Queries++
	r, err := search(f.Grid, start, end, f.Mode)
	if err != nil {
		return Result{}, err
	}
	if f.Cache != nil {
		f.Cache.Put(start, end, version, r)
	}
	f.Log.Debug("path query",
		"start", start, "end", end, "mode", f.Mode,
		"found", r.Found(), "cost", r.Cost, "len", len(r.Path))
	return r, nil
}

// Version returns the occupancy version of the underlying grid
func (f *Finder) Version() uint64 { return f.Grid.Version() }
