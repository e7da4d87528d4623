package setup

import (
	"fmt"

	"github.com/giuliop/circbridge/nizk"
	"github.com/giuliop/circbridge/r1cs"
	"github.com/giuliop/circbridge/swc"
)

// Conf selects how a session derives Gens for a circuit shape. Deterministic
// is the only mode nizk/refnizk supports; Trusted is reserved for a future
// NIZK backend whose Gens require a ceremony, splitting a real trusted
// setup from a test-only one.
type Conf int

const (
	Deterministic Conf = iota
	Trusted
)

func (c Conf) String() string {
	switch c {
	case Deterministic:
		return "Deterministic"
	case Trusted:
		return "Trusted"
	default:
		return "Conf(?)"
	}
}

// Run builds the witness-independent Layout (renumbering, matrices,
// Gens/Instance) for cs under prover, gated on conf. This is what a
// ProverSession.BuildParams or VerifierSession.LoadCircuit call does under
// the hood; Run exists so a caller can select Deterministic vs. Trusted
// derivation once, at process configuration time, before compiling.
func Run(prover nizk.Prover, cs *r1cs.R1CS, extended bool, conf Conf) (*r1cs.Layout, error) {
	switch conf {
	case Deterministic:
		return r1cs.NewBridge(prover).BuildLayout(cs, extended)
	case Trusted:
		return nil, fmt.Errorf("setup: no trusted-setup NIZK backend is wired in this module")
	default:
		return nil, fmt.Errorf("setup: unknown Conf %d", conf)
	}
}

// EvalConfig builds the swc.Config a ProverSession's Evaluator should use.
// timeOps enables per-op instrumentation (§13's OpStats supplement); it costs
// a map lookup and a time.Now() call per evaluated step, so it defaults off.
func EvalConfig(timeOps bool) swc.Config {
	return swc.Config{TimeEvalOps: timeOps}
}
