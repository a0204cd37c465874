package milp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// pruneTol guards incumbent comparisons against simplex round-off.
const pruneTol = 1e-9

// BranchAndBound solves mixed binary/continuous minimization programs by
// branch and bound over the LP relaxation, which is solved with gonum's
// simplex. Branching fixes the most fractional binary variable, exploring the
// nearer value first.
type BranchAndBound struct {
	// SimplexTol is the pivot tolerance handed to lp.Simplex.
	SimplexTol float64
}

// NewBranchAndBound returns a solver with the default simplex tolerance.
func NewBranchAndBound() *BranchAndBound {
	return &BranchAndBound{SimplexTol: 1e-7}
}

const (
	unfixed int8 = -1
	fixZero int8 = 0
	fixOne  int8 = 1
)

type bbNode struct {
	fixed []int8
}

// Solve implements the Solver interface.
func (s *BranchAndBound) Solve(ctx context.Context, m *Model, opts Options) (Solution, error) {
	start := time.Now()
	if m.NumVars() == 0 {
		return Solution{}, fmt.Errorf("milp: model has no variables")
	}
	if m.NumConstraints() == 0 {
		return Solution{}, fmt.Errorf("milp: model has no constraints")
	}
	if opts.IntTol == 0 {
		opts.IntTol = DefaultOptions().IntTol
	}
	var deadline time.Time
	if opts.MaxDuration > 0 {
		deadline = start.Add(opts.MaxDuration)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	binaries := m.binaries()
	root := bbNode{fixed: make([]int8, m.NumVars())}
	for i := range root.fixed {
		root.fixed[i] = unfixed
	}
	stack := []bbNode{root}

	bestObj := math.Inf(1)
	var bestX []float64
	nodes := 0
	limitHit := false

	for len(stack) > 0 {
		if opts.MaxNodes > 0 && nodes >= opts.MaxNodes {
			limitHit = true
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			limitHit = true
			break
		}
		if ctx.Err() != nil {
			limitHit = true
			break
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		atRoot := nodes == 0
		nodes++

		c, a, b := standardForm(m, node.fixed)
		opt, x, err := lp.Simplex(c, a, b, s.SimplexTol, nil)
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			continue
		case errors.Is(err, lp.ErrUnbounded):
			if atRoot {
				return Solution{Status: StatusUnbounded, Runtime: time.Since(start), Nodes: nodes}, nil
			}
			return Solution{}, fmt.Errorf("milp: unbounded subproblem after branching")
		case err != nil:
			return Solution{}, fmt.Errorf("milp: simplex failed: %w", err)
		}

		if opt >= bestObj-pruneTol {
			continue
		}

		branch, frac := -1, opts.IntTol
		for _, idx := range binaries {
			if node.fixed[idx] != unfixed {
				continue
			}
			if d := math.Abs(x[idx] - math.Round(x[idx])); d > frac {
				branch, frac = idx, d
			}
		}
		if branch < 0 {
			// Integral relaxation: new incumbent.
			bestObj = opt
			bestX = make([]float64, m.NumVars())
			copy(bestX, x[:m.NumVars()])
			for _, idx := range binaries {
				bestX[idx] = math.Round(bestX[idx])
			}
			continue
		}

		near := fixOne
		if x[branch] < 0.5 {
			near = fixZero
		}
		stack = append(stack, child(node, branch, 1-near), child(node, branch, near))
	}

	sol := Solution{Runtime: time.Since(start), Nodes: nodes}
	switch {
	case bestX == nil && limitHit:
		return Solution{}, fmt.Errorf("milp: limit reached before any integer-feasible solution was found")
	case bestX == nil:
		sol.Status = StatusInfeasible
	case limitHit:
		sol.Status = StatusFeasible
		sol.Values = bestX
		sol.Objective = bestObj
	default:
		sol.Status = StatusOptimal
		sol.Values = bestX
		sol.Objective = bestObj
	}
	return sol, nil
}

func child(n bbNode, idx int, val int8) bbNode {
	fixed := make([]int8, len(n.fixed))
	copy(fixed, n.fixed)
	fixed[idx] = val
	return bbNode{fixed: fixed}
}

// standardForm assembles the node's subproblem as min c·x s.t. Ax = b, x ≥ 0:
// model constraints first, then finite upper bounds for unfixed variables,
// then equality rows pinning fixed binaries. Inequalities gain one slack
// column each; rows with a negative right-hand side are negated so b ≥ 0.
func standardForm(m *Model, fixed []int8) (c []float64, a *mat.Dense, b []float64) {
	type row struct {
		coefs map[int]float64
		sense Sense
		rhs   float64
	}
	rows := make([]row, 0, m.NumConstraints()+m.NumVars())
	for _, con := range m.cons {
		r := row{coefs: make(map[int]float64, len(con.terms)), sense: con.sense, rhs: con.rhs}
		for _, t := range con.terms {
			r.coefs[t.v.idx] += t.coef
		}
		rows = append(rows, r)
	}
	for _, v := range m.vars {
		if fixed[v.idx] != unfixed {
			rows = append(rows, row{
				coefs: map[int]float64{v.idx: 1},
				sense: Equal,
				rhs:   float64(fixed[v.idx]),
			})
			continue
		}
		if finite(v.upper) {
			rows = append(rows, row{
				coefs: map[int]float64{v.idx: 1},
				sense: LessEqual,
				rhs:   v.upper,
			})
		}
	}

	slacks := 0
	for _, r := range rows {
		if r.sense != Equal {
			slacks++
		}
	}
	nCols := m.NumVars() + slacks

	a = mat.NewDense(len(rows), nCols, nil)
	b = make([]float64, len(rows))
	slack := m.NumVars()
	for i, r := range rows {
		for idx, coef := range r.coefs {
			a.Set(i, idx, coef)
		}
		switch r.sense {
		case LessEqual:
			a.Set(i, slack, 1)
			slack++
		case GreaterEqual:
			a.Set(i, slack, -1)
			slack++
		}
		b[i] = r.rhs
		if b[i] < 0 {
			b[i] = -b[i]
			for j := 0; j < nCols; j++ {
				a.Set(i, j, -a.At(i, j))
			}
		}
	}

	c = make([]float64, nCols)
	copy(c, m.costVector())
	return c, a, b
}
