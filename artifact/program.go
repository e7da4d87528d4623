package artifact

import (
	"io"
	"math/big"

	"github.com/giuliop/circbridge/swc"
)

// WriteProgram serializes p, versioned, to w.
func WriteProgram(w io.Writer, p *swc.Program) error {
	if err := writeVersion(w); err != nil {
		return err
	}

	if err := writeInt(w, len(p.Stages)); err != nil {
		return err
	}
	for _, s := range p.Stages {
		if err := writeInt(w, len(s.Inputs)); err != nil {
			return err
		}
		for _, in := range s.Inputs {
			if err := writeString(w, in.Name); err != nil {
				return err
			}
			if err := writeSort(w, in.Sort); err != nil {
				return err
			}
		}
		if err := writeInt(w, s.NumOutputs); err != nil {
			return err
		}
	}

	if err := writeInt(w, len(p.Steps)); err != nil {
		return err
	}
	for _, st := range p.Steps {
		if err := writeOp(w, st.Op); err != nil {
			return err
		}
		if err := writeInt(w, st.ArgsEndOffset); err != nil {
			return err
		}
	}

	if err := writeInt(w, len(p.StepArgs)); err != nil {
		return err
	}
	for _, a := range p.StepArgs {
		if err := writeInt(w, a); err != nil {
			return err
		}
	}

	if err := writeInt(w, len(p.OutputSteps)); err != nil {
		return err
	}
	for _, o := range p.OutputSteps {
		if err := writeInt(w, o); err != nil {
			return err
		}
	}
	return nil
}

// ReadProgram deserializes a Program written by WriteProgram. modulus is
// needed to reduce any OpConst Field values encountered in the step list.
func ReadProgram(r io.Reader, modulus *big.Int) (*swc.Program, error) {
	if err := checkVersion(r); err != nil {
		return nil, err
	}

	numStages, err := readInt(r)
	if err != nil {
		return nil, err
	}
	stages := make([]swc.Stage, numStages)
	for i := range stages {
		numInputs, err := readInt(r)
		if err != nil {
			return nil, err
		}
		inputs := make([]swc.Input, numInputs)
		for j := range inputs {
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			s, err := readSort(r)
			if err != nil {
				return nil, err
			}
			inputs[j] = swc.Input{Name: name, Sort: s}
		}
		numOutputs, err := readInt(r)
		if err != nil {
			return nil, err
		}
		stages[i] = swc.Stage{Inputs: inputs, NumOutputs: numOutputs}
	}

	numSteps, err := readInt(r)
	if err != nil {
		return nil, err
	}
	steps := make([]swc.Step, numSteps)
	for i := range steps {
		op, err := readOp(r, modulus)
		if err != nil {
			return nil, err
		}
		endOffset, err := readInt(r)
		if err != nil {
			return nil, err
		}
		steps[i] = swc.Step{Op: op, ArgsEndOffset: endOffset}
	}

	numArgs, err := readInt(r)
	if err != nil {
		return nil, err
	}
	stepArgs := make([]int, numArgs)
	for i := range stepArgs {
		if stepArgs[i], err = readInt(r); err != nil {
			return nil, err
		}
	}

	numOutSteps, err := readInt(r)
	if err != nil {
		return nil, err
	}
	outputSteps := make([]int, numOutSteps)
	for i := range outputSteps {
		if outputSteps[i], err = readInt(r); err != nil {
			return nil, err
		}
	}

	return swc.FromParts(stages, steps, stepArgs, outputSteps), nil
}
