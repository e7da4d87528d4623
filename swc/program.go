// Package swc implements the Staged Witness Computation program: an
// immutable, serializable flattening of a DAG of ir.Term nodes into
// topologically sorted steps, plus the stateful evaluator that walks it.
package swc

import (
	"fmt"

	"github.com/giuliop/circbridge/ir"
)

// Input names one stage input together with its declared sort, preserving
// declaration order (a plain map would not).
type Input struct {
	Name string
	Sort ir.Sort
}

// Stage is one batch of inputs consumed together, yielding num_outputs
// values.
type Stage struct {
	Inputs     []Input
	NumOutputs int
}

// Step is one flattened DAG node: its operator, plus the end offset (into
// Program.StepArgs) of its argument-index window.
type Step struct {
	Op            ir.Op
	ArgsEndOffset int
}

// Program is the immutable, serializable representation of a staged witness
// computation: a flat, topologically sorted array of steps whose arguments
// are indices into earlier slots, never pointers. This is what makes the DAG
// trivially serializable (§9 design notes): no cycles, no shared-ownership
// machinery to reconstruct.
type Program struct {
	vars        map[string]bool
	Stages      []Stage
	Steps       []Step
	StepArgs    []int
	OutputSteps []int

	// termToStep is the construction-time cache mapping an already-emitted
	// term to its step index. It is transient: per §4.2, terms are
	// prohibitively expensive to hash or store, so this is never
	// serialized and is nil after a program round-trips through Artifact I/O.
	termToStep map[*ir.Term]int
}

// NewProgram returns an empty program ready for AddStage calls.
func NewProgram() *Program {
	return &Program{
		vars:       make(map[string]bool),
		termToStep: make(map[*ir.Term]int),
	}
}

// ErrDuplicateInput is returned by AddStage when a stage declares an input
// name already used by an earlier stage; input names must be globally
// unique across all stages of a program.
var ErrDuplicateInput = fmt.Errorf("duplicate input")

// AddStage appends a stage: for each output term it performs a post-order
// traversal that skips already-emitted terms, producing one Step per new
// term and guaranteeing topological order (every step's args are strictly
// earlier steps).
func (p *Program) AddStage(inputs []Input, outputs []*ir.Term) error {
	for _, in := range inputs {
		if p.vars[in.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateInput, in.Name)
		}
	}
	for _, in := range inputs {
		p.vars[in.Name] = true
	}
	p.Stages = append(p.Stages, Stage{Inputs: inputs, NumOutputs: len(outputs)})

	skip := make(map[*ir.Term]bool, len(p.termToStep))
	for t := range p.termToStep {
		skip[t] = true
	}
	ir.PostOrder(outputs, skip, func(t *ir.Term) {
		p.addStep(t)
	})
	for _, out := range outputs {
		idx, ok := p.termToStep[out]
		if !ok {
			panic("swc: output term missing from step cache after post-order walk")
		}
		p.OutputSteps = append(p.OutputSteps, idx)
	}
	return nil
}

func (p *Program) addStep(t *ir.Term) {
	stepIdx := len(p.Steps)
	for _, child := range t.Children {
		childStep, ok := p.termToStep[child]
		if !ok {
			panic("swc: child term not yet assigned a step (post-order invariant violated)")
		}
		p.StepArgs = append(p.StepArgs, childStep)
	}
	p.Steps = append(p.Steps, Step{Op: t.Op, ArgsEndOffset: len(p.StepArgs)})
	p.termToStep[t] = stepIdx
}

// FromParts reconstructs a Program from its already-flattened fields, as
// produced by a round trip through Artifact I/O (§4.6): termToStep is left
// nil since it is construction-time-only and the program can never again
// accept AddStage calls once loaded this way.
func FromParts(stages []Stage, steps []Step, stepArgs []int, outputSteps []int) *Program {
	vars := make(map[string]bool)
	for _, s := range stages {
		for _, in := range s.Inputs {
			vars[in.Name] = true
		}
	}
	return &Program{
		vars:        vars,
		Stages:      stages,
		Steps:       steps,
		StepArgs:    stepArgs,
		OutputSteps: outputSteps,
	}
}

// StageSizes returns each stage's output count, in stage order.
func (p *Program) StageSizes() []int {
	sizes := make([]int, len(p.Stages))
	for i, s := range p.Stages {
		sizes[i] = s.NumOutputs
	}
	return sizes
}

// StepArgsOf returns the argument step-indices for step k.
func (p *Program) StepArgsOf(k int) []int {
	if k < 0 || k >= len(p.Steps) {
		panic(fmt.Sprintf("swc: step index %d out of range (len %d)", k, len(p.Steps)))
	}
	start := 0
	if k > 0 {
		start = p.Steps[k-1].ArgsEndOffset
	}
	return p.StepArgs[start:p.Steps[k].ArgsEndOffset]
}

// Vars returns the set of all input names declared across every stage.
func (p *Program) Vars() map[string]bool {
	out := make(map[string]bool, len(p.vars))
	for k := range p.vars {
		out[k] = true
	}
	return out
}

// Slice returns the minimal sub-program needed to compute the steps at
// outputPositions — ascending indices into p.OutputSteps — dropping every
// step and stage input not on their backward-reachability closure. Every
// stage is kept, with declared input sorts preserved; each keeps only the
// inputs some kept step reads (possibly none) and only its outputs named in
// outputPositions (possibly none). Used to carve a public-only witness program (one that needs only
// the publicly-known inputs) out of a full one.
func (p *Program) Slice(outputPositions []int) *Program {
	keep := make(map[int]bool)
	var mark func(step int)
	mark = func(step int) {
		if keep[step] {
			return
		}
		keep[step] = true
		for _, arg := range p.StepArgsOf(step) {
			mark(arg)
		}
	}
	wantPos := make(map[int]bool, len(outputPositions))
	for _, pos := range outputPositions {
		wantPos[pos] = true
		mark(p.OutputSteps[pos])
	}

	neededVars := make(map[string]bool)
	oldToNew := make(map[int]int, len(keep))
	steps := make([]Step, 0, len(keep))
	stepArgs := make([]int, 0)
	for old := 0; old < len(p.Steps); old++ {
		if !keep[old] {
			continue
		}
		if op := p.Steps[old].Op; op.Kind == ir.OpVar {
			neededVars[op.VarName] = true
		}
		for _, arg := range p.StepArgsOf(old) {
			stepArgs = append(stepArgs, oldToNew[arg])
		}
		oldToNew[old] = len(steps)
		steps = append(steps, Step{Op: p.Steps[old].Op, ArgsEndOffset: len(stepArgs)})
	}

	stages := make([]Stage, len(p.Stages))
	var outputSteps []int
	pos := 0
	for si, stage := range p.Stages {
		var inputs []Input
		for _, in := range stage.Inputs {
			if neededVars[in.Name] {
				inputs = append(inputs, in)
			}
		}
		numOutputs := 0
		for i := 0; i < stage.NumOutputs; i++ {
			if wantPos[pos] {
				outputSteps = append(outputSteps, oldToNew[p.OutputSteps[pos]])
				numOutputs++
			}
			pos++
		}
		stages[si] = Stage{Inputs: inputs, NumOutputs: numOutputs}
	}

	return FromParts(stages, steps, stepArgs, outputSteps)
}
