// Package circbridge is the ProofDriver: it owns the session state machine
// that wires FieldBridge, the SWC evaluator, R1CSBridge and the external
// NIZK library together into prove and verify entry points. This package
// never itself performs field arithmetic, DAG evaluation or constraint
// renumbering; it only sequences calls into ir/swc/r1cs/nizk in a fixed
// order and enforces that sequence with a small state machine.
package circbridge

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/giuliop/circbridge/artifact"
	"github.com/giuliop/circbridge/ir"
	"github.com/giuliop/circbridge/nizk"
	"github.com/giuliop/circbridge/r1cs"
	"github.com/giuliop/circbridge/swc"
)

// ErrWrongState is returned when a session method is called out of order.
var ErrWrongState = errors.New("circbridge: operation invalid in current session state")

// ProverState is the prover side of §4.7's session state machine:
// Loaded -> BridgeBuilt (ParamsReady) -> Proved.
type ProverState int

const (
	ProverLoaded ProverState = iota
	ProverParamsReady
	ProverProved
)

func (s ProverState) String() string {
	switch s {
	case ProverLoaded:
		return "Loaded"
	case ProverParamsReady:
		return "ParamsReady"
	case ProverProved:
		return "Proved"
	default:
		return "ProverState(?)"
	}
}

// ProverSession is exclusive to one proof: it holds an Evaluator (walking
// the SWC program to produce witness values) and, once the circuit shape is
// known, an R1CS Layout (Gens/Instance).
type ProverSession struct {
	eval   *swc.Evaluator
	bridge *r1cs.Bridge
	layout *r1cs.Layout
	built  *r1cs.Built
	proof  nizk.Proof
	state  ProverState
}

// NewProverSession opens a session over program, evaluated in the given
// field, using prover as the NIZK library implementation.
func NewProverSession(program *swc.Program, modulus *big.Int, prover nizk.Prover, cfg swc.Config) *ProverSession {
	return &ProverSession{
		eval:   swc.NewEvaluator(program, modulus, cfg),
		bridge: r1cs.NewBridge(prover),
		state:  ProverLoaded,
	}
}

// EvalStage runs the next stage of the witness computation.
func (s *ProverSession) EvalStage(inputs map[string]ir.Value) ([]ir.Value, error) {
	return s.eval.EvalStage(inputs)
}

// IsEvalDone reports whether every stage of the witness program has run.
func (s *ProverSession) IsEvalDone() bool { return s.eval.IsDone() }

// OpStats exposes the evaluator's instrumentation, if enabled.
func (s *ProverSession) OpStats() []swc.OpStat { return s.eval.OpStats() }

// BuildParams renumbers cs and constructs its NIZK Gens/Instance
// (ParamsReady). This does not require or consult any witness value, so it
// may run before or interleaved with EvalStage calls.
func (s *ProverSession) BuildParams(cs *r1cs.R1CS, extended bool) error {
	if s.state != ProverLoaded {
		return fmt.Errorf("%w: BuildParams called in state %v", ErrWrongState, s.state)
	}
	layout, err := s.bridge.BuildLayout(cs, extended)
	if err != nil {
		return err
	}
	s.layout = layout
	s.state = ProverParamsReady
	return nil
}

// AssignAndProve assembles the final witness and public-input vectors from
// values, runs the satisfiability gate, and invokes the NIZK library's
// Prove. It requires every stage to have already been evaluated.
func (s *ProverSession) AssignAndProve(values map[r1cs.Var]*big.Int) (nizk.Proof, error) {
	if s.state != ProverParamsReady {
		return nil, fmt.Errorf("%w: AssignAndProve called in state %v", ErrWrongState, s.state)
	}
	if !s.eval.IsDone() {
		return nil, fmt.Errorf("circbridge: witness evaluation incomplete")
	}
	built, err := s.layout.Assign(values)
	if err != nil {
		return nil, err
	}
	transcript := s.bridge.Prover.NewTranscript(nizk.DomainSeparationLabel)
	proof, err := s.bridge.Prover.Prove(built.Instance, built.Wit, built.Inp, built.Gens, transcript)
	if err != nil {
		return nil, fmt.Errorf("circbridge: proving: %w", err)
	}
	s.built = built
	s.proof = proof
	s.state = ProverProved
	return proof, nil
}

// Proof returns the session's completed proof.
func (s *ProverSession) Proof() (nizk.Proof, error) {
	if s.state != ProverProved {
		return nil, fmt.Errorf("%w: Proof called in state %v", ErrWrongState, s.state)
	}
	return s.proof, nil
}

// PublicInputs returns the encoded public-input vector bound into the
// completed proof.
func (s *ProverSession) PublicInputs() ([][32]byte, error) {
	if s.state != ProverProved {
		return nil, fmt.Errorf("%w: PublicInputs called in state %v", ErrWrongState, s.state)
	}
	return s.built.Inp, nil
}

// VerifierState is the verifier side of §4.7's session state machine:
// Loaded -> InputsEncoded -> Verified|Rejected.
type VerifierState int

const (
	VerifierLoaded VerifierState = iota
	VerifierInputsEncoded
	VerifierVerified
	VerifierRejected
)

func (s VerifierState) String() string {
	switch s {
	case VerifierLoaded:
		return "Loaded"
	case VerifierInputsEncoded:
		return "InputsEncoded"
	case VerifierVerified:
		return "Verified"
	case VerifierRejected:
		return "Rejected"
	default:
		return "VerifierState(?)"
	}
}

// VerifierSession never sees a witness; it only ever handles the circuit
// shape, public inputs and the proof bytes.
type VerifierSession struct {
	prover        nizk.Prover
	layout        *r1cs.Layout
	publicProgram *swc.Program
	publicVars    []r1cs.Var
	modulus       *big.Int
	inp           [][32]byte
	state         VerifierState
}

// NewVerifierSession opens a verifier session using prover as the NIZK
// library implementation.
func NewVerifierSession(prover nizk.Prover) *VerifierSession {
	return &VerifierSession{prover: prover, state: VerifierLoaded}
}

// LoadCircuit renumbers cs and constructs its NIZK Gens/Instance, the same
// layout a compatible prover session would have produced for the same
// circuit.
func (v *VerifierSession) LoadCircuit(cs *r1cs.R1CS, extended bool) error {
	if v.state != VerifierLoaded {
		return fmt.Errorf("%w: LoadCircuit called in state %v", ErrWrongState, v.state)
	}
	layout, err := r1cs.NewBridge(v.prover).BuildLayout(cs, extended)
	if err != nil {
		return err
	}
	v.layout = layout
	return nil
}

// LoadVerifierData loads data's circuit, the same way LoadCircuit does, and
// keeps its public-only witness-computation slice ready for a later
// EvaluatePublicInputs call: this is the verifier's side of the control
// flow that never trusts a prover-supplied public-input vector, deriving
// its own instead.
func (v *VerifierSession) LoadVerifierData(data *artifact.VerifierData) error {
	if err := v.LoadCircuit(data.Circuit, data.Extended); err != nil {
		return err
	}
	v.publicProgram = data.PublicProgram
	v.publicVars = data.PublicVars()
	v.modulus = data.Circuit.Modulus
	return nil
}

// EvaluatePublicInputs evaluates the session's PublicProgram (loaded via
// LoadVerifierData) against publicValues — a name→Value map covering every
// input PublicProgram declares, across every one of its stages — and
// encodes the resulting output vector as the session's public
// inputs, advancing to InputsEncoded exactly as EncodeInputs does. Because
// PublicProgram by construction only reaches the steps that feed
// VerifierData.PublicVars, this never requires a witness value.
func (v *VerifierSession) EvaluatePublicInputs(publicValues map[string]ir.Value) error {
	if v.publicProgram == nil {
		return fmt.Errorf("circbridge: EvaluatePublicInputs called before LoadVerifierData")
	}
	if v.state != VerifierLoaded {
		return fmt.Errorf("%w: EvaluatePublicInputs called in state %v", ErrWrongState, v.state)
	}

	eval := swc.NewEvaluator(v.publicProgram, v.modulus, swc.Config{})
	outputs := make([]ir.Value, 0, len(v.publicVars))
	for _, stage := range v.publicProgram.Stages {
		inputs := make(map[string]ir.Value, len(stage.Inputs))
		for _, in := range stage.Inputs {
			val, ok := publicValues[in.Name]
			if !ok {
				return fmt.Errorf("circbridge: missing public input %q", in.Name)
			}
			inputs[in.Name] = val
		}
		out, err := eval.EvalStage(inputs)
		if err != nil {
			return fmt.Errorf("circbridge: evaluating public inputs: %w", err)
		}
		outputs = append(outputs, out...)
	}
	if len(outputs) != len(v.publicVars) {
		return fmt.Errorf("circbridge: public program produced %d outputs, want %d",
			len(outputs), len(v.publicVars))
	}

	values := make(map[r1cs.Var]*big.Int, len(outputs))
	for i, pv := range v.publicVars {
		values[pv] = outputs[i].AsInt()
	}
	return v.EncodeInputs(values)
}

// EncodeInputs encodes the public-input assignment, advancing to
// InputsEncoded.
func (v *VerifierSession) EncodeInputs(values map[r1cs.Var]*big.Int) error {
	if v.layout == nil {
		return fmt.Errorf("circbridge: EncodeInputs called before LoadCircuit")
	}
	if v.state != VerifierLoaded {
		return fmt.Errorf("%w: EncodeInputs called in state %v", ErrWrongState, v.state)
	}
	inp, err := v.layout.EncodeInputs(values)
	if err != nil {
		return err
	}
	v.inp = inp
	v.state = VerifierInputsEncoded
	return nil
}

// Verify checks proof against the session's circuit and public inputs,
// opening a fresh transcript under the same domain-separation label the
// prover used (§6). The session moves to Verified or Rejected and never
// accepts a second Verify call.
func (v *VerifierSession) Verify(proof nizk.Proof) error {
	if v.state != VerifierInputsEncoded {
		return fmt.Errorf("%w: Verify called in state %v", ErrWrongState, v.state)
	}
	transcript := v.prover.NewTranscript(nizk.DomainSeparationLabel)
	if err := proof.Verify(v.layout.Instance, v.inp, transcript, v.layout.Gens); err != nil {
		v.state = VerifierRejected
		return err
	}
	v.state = VerifierVerified
	return nil
}
