package artifact

import (
	"fmt"
	"io"
	"math/big"

	"github.com/giuliop/circbridge/r1cs"
	"github.com/giuliop/circbridge/swc"
)

// ProverData bundles everything a prover session needs to resume: the
// constraint system, the witness program that computes it, and whether the
// circuit was built in extended (Chall/RoundWit-admitting) mode (§9).
// PublicOutputs names which positions of Program.OutputSteps compute the
// circuit's public inputs, in the same order those inputs appear among
// Circuit.Vars — the compiler front end knows this correspondence because
// it emitted both the circuit and the program from the same source.
type ProverData struct {
	Circuit       *r1cs.R1CS
	Program       *swc.Program
	PublicOutputs []int
	Extended      bool
}

// VerifierData derives the VerifierData a matching verifier needs: the
// circuit unchanged — its matrices reference witness-variable columns too,
// so the full shape must travel to the verifier even though only witness
// VALUES are secret — plus the minimal slice of Program that computes only
// the public-input vector, carved out via PublicOutputs.
func (pd *ProverData) VerifierData() *VerifierData {
	return &VerifierData{
		Circuit:       pd.Circuit,
		PublicProgram: pd.Program.Slice(pd.PublicOutputs),
		Extended:      pd.Extended,
	}
}

// WriteProverData serializes data, versioned, to w.
func WriteProverData(w io.Writer, data *ProverData) error {
	if err := writeVersion(w); err != nil {
		return err
	}
	if err := writeBool(w, data.Extended); err != nil {
		return err
	}
	if err := WriteCircuit(w, data.Circuit); err != nil {
		return fmt.Errorf("artifact: writing prover data circuit: %w", err)
	}
	if err := WriteProgram(w, data.Program); err != nil {
		return fmt.Errorf("artifact: writing prover data program: %w", err)
	}
	if err := writeInt(w, len(data.PublicOutputs)); err != nil {
		return err
	}
	for _, pos := range data.PublicOutputs {
		if err := writeInt(w, pos); err != nil {
			return err
		}
	}
	return nil
}

// ReadProverData deserializes a ProverData written by WriteProverData.
// modulus is forwarded to ReadProgram to reduce any embedded OpConst values.
func ReadProverData(r io.Reader, modulus *big.Int) (*ProverData, error) {
	if err := checkVersion(r); err != nil {
		return nil, err
	}
	extended, err := readBool(r)
	if err != nil {
		return nil, err
	}
	circuit, err := ReadCircuit(r)
	if err != nil {
		return nil, fmt.Errorf("artifact: reading prover data circuit: %w", err)
	}
	program, err := ReadProgram(r, modulus)
	if err != nil {
		return nil, fmt.Errorf("artifact: reading prover data program: %w", err)
	}
	numOutputs, err := readInt(r)
	if err != nil {
		return nil, err
	}
	publicOutputs := make([]int, numOutputs)
	for i := range publicOutputs {
		if publicOutputs[i], err = readInt(r); err != nil {
			return nil, err
		}
	}
	return &ProverData{
		Circuit: circuit, Program: program,
		PublicOutputs: publicOutputs, Extended: extended,
	}, nil
}

// VerifierData bundles everything a verifier session needs: the constraint
// system, the minimal witness-computation slice that produces only the
// public-input vector (PublicProgram), and the extended-mode flag the
// matching prover used. A verifier never evaluates the private witness
// program — only PublicProgram, whose every declared stage input is a
// publicly-known value.
type VerifierData struct {
	Circuit       *r1cs.R1CS
	PublicProgram *swc.Program
	Extended      bool
}

// PublicVars returns the ordered Inst (extended mode: Inst|Chall) variables
// of data.Circuit — the r1cs_public_vars that PublicProgram's output vector
// lines up against, position for position, once evaluated.
func (d *VerifierData) PublicVars() []r1cs.Var {
	var out []r1cs.Var
	for _, v := range d.Circuit.Vars {
		switch v.Type {
		case r1cs.Inst:
			out = append(out, v)
		case r1cs.Chall:
			if d.Extended {
				out = append(out, v)
			}
		}
	}
	return out
}

// WriteVerifierData serializes data, versioned, to w.
func WriteVerifierData(w io.Writer, data *VerifierData) error {
	if err := writeVersion(w); err != nil {
		return err
	}
	if err := writeBool(w, data.Extended); err != nil {
		return err
	}
	if err := WriteCircuit(w, data.Circuit); err != nil {
		return fmt.Errorf("artifact: writing verifier data circuit: %w", err)
	}
	if err := WriteProgram(w, data.PublicProgram); err != nil {
		return fmt.Errorf("artifact: writing verifier data public program: %w", err)
	}
	return nil
}

// ReadVerifierData deserializes a VerifierData written by WriteVerifierData.
func ReadVerifierData(r io.Reader) (*VerifierData, error) {
	if err := checkVersion(r); err != nil {
		return nil, err
	}
	extended, err := readBool(r)
	if err != nil {
		return nil, err
	}
	circuit, err := ReadCircuit(r)
	if err != nil {
		return nil, fmt.Errorf("artifact: reading verifier data circuit: %w", err)
	}
	publicProgram, err := ReadProgram(r, circuit.Modulus)
	if err != nil {
		return nil, fmt.Errorf("artifact: reading verifier data public program: %w", err)
	}
	return &VerifierData{Circuit: circuit, PublicProgram: publicProgram, Extended: extended}, nil
}
