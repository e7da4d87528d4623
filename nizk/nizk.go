// Package nizk defines the fixed interface through which this module
// consumes a non-interactive zero-knowledge proof library (§1, §4.5): the
// core never depends on a concrete cryptographic backend, only on these
// shapes. See nizk/refnizk for the in-module reference implementation.
package nizk

import "errors"

// ErrInvalidProof is returned by Proof.Verify on any failure; per §7 it is
// always fatal at verify.
var ErrInvalidProof = errors.New("invalid proof")

// Triple is one non-zero entry of a constraint matrix: row is the
// constraint index, Col is the renumbered variable id, Val is its
// FieldBridge-encoded coefficient.
type Triple struct {
	Row int
	Col int
	Val [32]byte
}

// Gens are the public parameters sized to one circuit shape.
type Gens interface {
	NumCons() int
	NumWit() int
	NumInp() int
}

// Instance is the triple (M_A, M_B, M_C, num_cons, num_wit, num_inp) handed
// to the NIZK library (glossary: Instance).
type Instance interface {
	NumCons() int
	NumWit() int
	NumInp() int
	// IsSat reports whether wit/inp satisfy every constraint; R1CSBridge
	// calls this before ever invoking Prove (§4.4's satisfiability gate).
	IsSat(wit [][32]byte, inp [][32]byte) (bool, error)
}

// Transcript is the Fiat-Shamir challenge stream derived from a
// domain-separation label; prover and verifier must produce byte-identical
// transcripts when fed identical data in identical order (§9).
type Transcript interface {
	AppendMessage(label string, data []byte)
	ChallengeBytes(label string, n int) []byte
}

// Proof is the library-defined proof artifact; Verify is the only entry
// point the core calls.
type Proof interface {
	Verify(inst Instance, inp [][32]byte, transcript Transcript, gens Gens) error
}

// Prover is the fixed NIZK library interface (§1): construct Gens, construct
// an Instance from matrix triples, open a Transcript, and run prove/verify.
// A concrete implementation is an external collaborator; the core only ever
// programs against this interface.
type Prover interface {
	NewGens(numCons, numWit, numInp int) Gens
	NewInstance(numCons, numWit, numInp int, a, b, c []Triple) (Instance, error)
	NewTranscript(label string) Transcript
	Prove(inst Instance, wit, inp [][32]byte, gens Gens, transcript Transcript) (Proof, error)
}

// DomainSeparationLabel is the literal byte string that MUST be used to
// initialize both the prove and the verify transcript (§6).
const DomainSeparationLabel = "nizk_example"

// ProofCodec is implemented by a Prover backend whose Proof values can be
// serialized; artifact.WriteProof/ReadProof go through this so the core
// never needs to know the concrete Proof type a given backend produces.
type ProofCodec interface {
	EncodeProof(Proof) ([]byte, error)
	DecodeProof([]byte) (Proof, error)
}
