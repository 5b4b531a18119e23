// Command tdsim runs a scenario headless for a fixed number of ticks and
// reports what the agents did. A replay recorded by the viewer can be
// applied on top of the scenario.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/1siamBot/td-engine/engine/config"
	"github.com/1siamBot/td-engine/engine/replay"
	"github.com/1siamBot/td-engine/engine/sim"
)

func main() {
	scenarioPath := flag.String("scenario", "", "scenario YAML file (default: built-in scenario)")
	ticks := flag.Int("ticks", 2000, "ticks to simulate")
	level := flag.String("log", "", "log level override (debug, info, warn, error)")
	replayPath := flag.String("replay", "", "apply tower commands recorded by the viewer")
	flag.Parse()

	sc := config.Default()
	if *scenarioPath != "" {
		var err error
		if sc, err = config.Load(*scenarioPath); err != nil {
			slog.Error("load scenario", "err", err)
			os.Exit(1)
		}
	}
	if *level != "" {
		sc.LogLevel = *level
	}
	lvl, err := config.ParseLevel(sc.LogLevel)
	if err != nil {
		slog.Error("bad log level", "err", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	s, err := sim.New(sc, log)
	if err != nil {
		log.Error("build simulation", "err", err)
		os.Exit(1)
	}

	if *replayPath != "" {
		cmds, err := replay.Load(*replayPath)
		if err != nil {
			log.Error("load replay", "err", err)
			os.Exit(1)
		}
		s.Replay(cmds)
		log.Info("replay loaded", "commands", len(cmds))
	}

	log.Info("simulation start", "scenario", sc.Name,
		"rows", s.Terrain.Rows(), "cols", s.Terrain.Cols(), "ticks", *ticks)
	s.Loop.Play()
	s.Loop.Step(*ticks)

	st := s.Stats()
	log.Info("simulation end",
		"tick", st.Tick,
		"lost", s.Lost(),
		"agents", st.Agents,
		"spawned", st.Spawned,
		"arrivals", st.Arrivals,
		"unreachable", st.Unreachable,
		"towers", st.Towers,
		"path_queries", st.Queries,
		"cache_hits", st.CacheHits,
	)
	if s.Lost() {
		os.Exit(3)
	}
}
