package nav

import (
	"cmp"
	"math"
	"slices"

	"github.com/1siamBot/td-engine/engine/maplib"
)

// TargetID identifies a goal structure
type TargetID uint64

// Target is a live structure an agent may path toward
type Target struct {
	ID     TargetID
	Cell   maplib.Cell
	Height maplib.Height
	Kind   string
}

// Targets answers liveness queries for goal structures
type Targets interface {
	// LiveTargets lists every live target in ascending ID order
	LiveTargets() []Target
	// IsLiveTarget reports whether c is the goal cell of a live target
	IsLiveTarget(c maplib.Cell) bool
}

// ScoreInput is what a Scorer sees for one candidate target
type ScoreInput struct {
	From       maplib.Cell
	FromHeight maplib.Height
	Target     Target
}

// Dist is the Euclidean distance between the agent and target cells
func (in ScoreInput) Dist() float64 {
	dr := float64(in.Target.Cell.Row - in.From.Row)
	dc := float64(in.Target.Cell.Col - in.From.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// DH is the signed height difference target minus agent
func (in ScoreInput) DH() float64 {
	return float64(in.Target.Height) - float64(in.FromHeight)
}

// Scorer ranks candidate targets; lower is preferred
type Scorer interface {
	Score(in ScoreInput) (float64, error)
}

// ScorerFunc adapts a function to Scorer
type ScorerFunc func(in ScoreInput) (float64, error)

func (f ScorerFunc) Score(in ScoreInput) (float64, error) { return f(in) }

// Nearest scores by Euclidean distance
var Nearest = ScorerFunc(func(in ScoreInput) (float64, error) { return in.Dist(), nil })

// HeightWeighted scores by distance plus w per unit of climb
func HeightWeighted(w float64) Scorer {
	return ScorerFunc(func(in ScoreInput) (float64, error) {
		return in.Dist() + w*math.Max(in.DH(), 0), nil
	})
}

type candidate struct {
	t     Target
	score float64
}

// Rank orders live targets for an agent at from, best first. Ties keep
// target ID order. Targets the scorer rejects with an error are skipped.
func Rank(s Scorer, from maplib.Cell, fromH maplib.Height, ts []Target) []Target {
	if s == nil {
		s = Nearest
	}
	cands := make([]candidate, 0, len(ts))
	for _, t := range ts {
		sc, err := s.Score(ScoreInput{From: from, FromHeight: fromH, Target: t})
		if err != nil || math.IsNaN(sc) {
			continue
		}
		cands = append(cands, candidate{t, sc})
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(a.score, b.score)
	})
	out := make([]Target, len(cands))
	for i, c := range cands {
		out[i] = c.t
	}
	return out
}
