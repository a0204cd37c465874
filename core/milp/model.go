// Package milp provides a small mixed-integer linear programming layer: a
// model of binary and continuous variables with linear constraints, a narrow
// solver contract, and a branch-and-bound backend over gonum's simplex.
//
// Models are always minimized. All variables are non-negative.
package milp

import "math"

// VarKind distinguishes continuous from binary variables.
type VarKind uint8

const (
	// Continuous variables range over [0, upper].
	Continuous VarKind = iota
	// Binary variables take the value 0 or 1.
	Binary
)

// Var is a decision variable owned by a Model.
type Var struct {
	idx   int
	kind  VarKind
	upper float64
}

// Index returns the position of the variable in the model's value vector.
func (v *Var) Index() int { return v.idx }

// Kind returns the variable kind.
func (v *Var) Kind() VarKind { return v.kind }

// Sense is the comparison direction of a constraint.
type Sense uint8

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

type term struct {
	coef float64
	v    *Var
}

// Constraint is a linear constraint: sum of terms (sense) rhs.
type Constraint struct {
	sense Sense
	rhs   float64
	terms []term
}

// NewTerm appends coef·v to the constraint's left-hand side.
func (c *Constraint) NewTerm(coef float64, v *Var) {
	c.terms = append(c.terms, term{coef: coef, v: v})
}

// Objective is the linear function to minimize.
type Objective struct {
	terms []term
}

// NewTerm appends coef·v to the objective.
func (o *Objective) NewTerm(coef float64, v *Var) {
	o.terms = append(o.terms, term{coef: coef, v: v})
}

// Model collects variables, constraints and the minimization objective.
type Model struct {
	vars []*Var
	cons []*Constraint
	obj  Objective
}

// NewModel returns an empty model.
func NewModel() *Model { return &Model{} }

// NewBinary adds a binary variable.
func (m *Model) NewBinary() *Var {
	v := &Var{idx: len(m.vars), kind: Binary, upper: 1}
	m.vars = append(m.vars, v)
	return v
}

// NewContinuous adds a non-negative continuous variable bounded above by
// upper. Pass math.Inf(1) for an unbounded variable.
func (m *Model) NewContinuous(upper float64) *Var {
	v := &Var{idx: len(m.vars), kind: Continuous, upper: upper}
	m.vars = append(m.vars, v)
	return v
}

// NewConstraint adds an empty constraint with the given sense and right-hand
// side; populate it with NewTerm.
func (m *Model) NewConstraint(sense Sense, rhs float64) *Constraint {
	c := &Constraint{sense: sense, rhs: rhs}
	m.cons = append(m.cons, c)
	return c
}

// Objective returns the model's objective for term accumulation.
func (m *Model) Objective() *Objective { return &m.obj }

// NumVars returns the number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of constraints.
func (m *Model) NumConstraints() int { return len(m.cons) }

// binaries returns the indices of all binary variables.
func (m *Model) binaries() []int {
	var out []int
	for _, v := range m.vars {
		if v.kind == Binary {
			out = append(out, v.idx)
		}
	}
	return out
}

// costVector expands the objective terms into a dense coefficient vector.
func (m *Model) costVector() []float64 {
	c := make([]float64, len(m.vars))
	for _, t := range m.obj.terms {
		c[t.v.idx] += t.coef
	}
	return c
}

func finite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }
