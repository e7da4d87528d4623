package swc

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/giuliop/circbridge/ir"
)

// Config is the process-scoped configuration threaded into every Evaluator
// at construction (§5, §9 "Global config"): set once before any Evaluator is
// built, read-only thereafter.
type Config struct {
	// TimeEvalOps enables per-(Op, arg-sort tuple) aggregate time and count
	// accounting. It never changes observable outputs.
	TimeEvalOps bool
}

var (
	// ErrMissingInput is returned when eval_stage's inputs do not match the
	// declared input names of the next stage.
	ErrMissingInput = errors.New("missing input")
	// ErrSortMismatch is returned when an input's Sort does not match its
	// declared sort.
	ErrSortMismatch = errors.New("sort mismatch")
	// ErrTooManyStages is returned if EvalStage is called after every stage
	// has already been evaluated.
	ErrTooManyStages = errors.New("all stages already evaluated")
)

// OpStat aggregates evaluation time and count for one (Op, arg-sort tuple)
// bucket, populated only when Config.TimeEvalOps is set.
type OpStat struct {
	Op       ir.OpKind
	ArgSorts string
	Count    int
	Total    time.Duration
}

// Evaluator is a one-shot, forward-only, stage-by-stage walker over a
// Program: it is exclusive to a single proof session (§5) and holds no state
// beyond its own buffers (no I/O, no globals).
type Evaluator struct {
	program  *Program
	modulus  *big.Int
	cfg      Config
	varVals  map[string]ir.Value
	stepVals []ir.Value

	stagesEvaluated  int
	outputsEvaluated int

	opStats map[string]*OpStat
}

// NewEvaluator constructs an evaluator over program using the given field
// modulus and configuration.
func NewEvaluator(program *Program, modulus *big.Int, cfg Config) *Evaluator {
	return &Evaluator{
		program: program,
		modulus: modulus,
		cfg:     cfg,
		varVals: make(map[string]ir.Value),
		opStats: make(map[string]*OpStat),
	}
}

// IsDone reports whether every stage has been evaluated.
func (e *Evaluator) IsDone() bool { return e.stagesEvaluated == len(e.program.Stages) }

// EvalStage evaluates the next stage given its inputs and returns its output
// values in declaration order. Every step between the previous high-water
// mark and the max step reachable from this stage's outputs is evaluated
// exactly once, in index order; a step is never re-evaluated (§4.3's key
// design decision), which bounds total evaluation cost to O(total steps)
// across the whole multi-stage run.
func (e *Evaluator) EvalStage(inputs map[string]ir.Value) ([]ir.Value, error) {
	if e.IsDone() {
		return nil, ErrTooManyStages
	}
	stage := e.program.Stages[e.stagesEvaluated]

	if len(inputs) != len(stage.Inputs) {
		return nil, fmt.Errorf("%w: stage wants %d inputs, got %d",
			ErrMissingInput, len(stage.Inputs), len(inputs))
	}
	for _, decl := range stage.Inputs {
		v, ok := inputs[decl.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingInput, decl.Name)
		}
		if !v.Sort().Equal(decl.Sort) {
			return nil, fmt.Errorf("%w: input %q wants sort %v, got %v",
				ErrSortMismatch, decl.Name, decl.Sort, v.Sort())
		}
	}
	for k, v := range inputs {
		e.varVals[k] = v
	}

	numOutputs := stage.NumOutputs
	if numOutputs > 0 {
		maxStep := 0
		for i := 0; i < numOutputs; i++ {
			step := e.program.OutputSteps[e.outputsEvaluated+i]
			if step > maxStep {
				maxStep = step
			}
		}
		for len(e.stepVals) <= maxStep {
			if err := e.evalStep(); err != nil {
				return nil, err
			}
		}
	}

	e.outputsEvaluated += numOutputs
	e.stagesEvaluated++

	out := make([]ir.Value, numOutputs)
	for i := 0; i < numOutputs; i++ {
		step := e.program.OutputSteps[e.outputsEvaluated-numOutputs+i]
		out[i] = e.stepVals[step]
	}
	return out, nil
}

func (e *Evaluator) evalStep() error {
	idx := len(e.stepVals)
	step := e.program.Steps[idx]
	argIdx := e.program.StepArgsOf(idx)
	args := make([]ir.Value, len(argIdx))
	for i, a := range argIdx {
		if a >= idx {
			return fmt.Errorf("swc: step %d argument %d violates topological order", idx, a)
		}
		args[i] = e.stepVals[a]
	}

	var value ir.Value
	var err error
	if e.cfg.TimeEvalOps {
		start := time.Now()
		value, err = ir.EvalOp(step.Op, args, e.varVals, e.modulus)
		e.recordStat(step.Op, args, time.Since(start))
	} else {
		value, err = ir.EvalOp(step.Op, args, e.varVals, e.modulus)
	}
	if err != nil {
		return fmt.Errorf("step %d (%v): %w", idx, step.Op.Kind, err)
	}
	e.stepVals = append(e.stepVals, value)
	return nil
}

func (e *Evaluator) recordStat(op ir.Op, args []ir.Value, d time.Duration) {
	argSorts := make([]ir.Sort, len(args))
	for i, a := range args {
		argSorts[i] = a.Sort()
	}
	sorts := fmt.Sprint(argSorts)
	key := fmt.Sprintf("%v%s", op.Kind, sorts)
	s, ok := e.opStats[key]
	if !ok {
		s = &OpStat{Op: op.Kind, ArgSorts: sorts}
		e.opStats[key] = s
	}
	s.Count++
	s.Total += d
}

// OpStats returns the aggregated per-op timing buckets recorded so far; it
// is empty unless Config.TimeEvalOps was set.
func (e *Evaluator) OpStats() []OpStat {
	out := make([]OpStat, 0, len(e.opStats))
	for _, s := range e.opStats {
		out = append(out, *s)
	}
	return out
}

// StepValuesLen exposes the evaluator's step-value high-water mark, used by
// the monotonicity property test (§8.4).
func (e *Evaluator) StepValuesLen() int { return len(e.stepVals) }
