package nav

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ScoreEnv is the environment a targeting expression is evaluated in
type ScoreEnv struct {
	Dist float64 `expr:"dist"` // euclidean grid distance
	DH   float64 `expr:"dh"`   // target height minus agent height
	Row  int     `expr:"row"`
	Col  int     `expr:"col"`
	TRow int     `expr:"trow"`
	TCol int     `expr:"tcol"`
	Kind string  `expr:"kind"` // target kind name
}

// ExprScorer evaluates a compiled expr-lang expression per candidate
type ExprScorer struct {
	Source  string
	program *vm.Program
}

// CompileScorer compiles a targeting expression such as
// "dist + max(dh, 0) / 10". The expression must yield a number.
func CompileScorer(src string) (*ExprScorer, error) {
	prog, err := expr.Compile(src, expr.Env(ScoreEnv{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("nav: compile targeting %q: %w", src, err)
	}
	return &ExprScorer{Source: src, program: prog}, nil
}

func (s *ExprScorer) Score(in ScoreInput) (float64, error) {
	env := ScoreEnv{
		Dist: in.Dist(),
		DH:   in.DH(),
		Row:  in.From.Row,
		Col:  in.From.Col,
		TRow: in.Target.Cell.Row,
		TCol: in.Target.Cell.Col,
		Kind: in.Target.Kind,
	}
	out, err := expr.Run(s.program, env)
	if err != nil {
		return 0, fmt.Errorf("nav: run targeting %q: %w", s.Source, err)
	}
	return out.(float64), nil
}
