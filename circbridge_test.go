package circbridge

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giuliop/circbridge/artifact"
	"github.com/giuliop/circbridge/field"
	"github.com/giuliop/circbridge/ir"
	"github.com/giuliop/circbridge/nizk/refnizk"
	"github.com/giuliop/circbridge/r1cs"
	"github.com/giuliop/circbridge/swc"
	"github.com/giuliop/circbridge/testutils"
)

// trivialProgram returns a single-stage program with no inputs that outputs
// Field(1), matched against BuildS5CS's single public-input constraint.
func trivialProgram() *swc.Program {
	p := swc.NewProgram()
	one := ir.NewTerm(ir.ConstOp(ir.NewFieldUint(1, field.Modulus)), ir.Field())
	if err := p.AddStage(nil, []*ir.Term{one}); err != nil {
		panic(err)
	}
	return p
}

func TestProverSessionFullRoundTrip(t *testing.T) {
	cs, w, p := testutils.BuildS5CS()
	program := trivialProgram()
	prover := refnizk.New()

	session := NewProverSession(program, field.Modulus, prover, swc.Config{})
	require.Equal(t, ProverLoaded, session.state)

	require.NoError(t, session.BuildParams(cs, false))
	require.Equal(t, ProverParamsReady, session.state)

	out, err := session.EvalStage(nil)
	require.NoError(t, err)
	require.True(t, session.IsEvalDone())

	wVal := out[0].AsInt()
	values := map[r1cs.Var]*big.Int{w: wVal, p: wVal}
	proof, err := session.AssignAndProve(values)
	require.NoError(t, err)
	require.Equal(t, ProverProved, session.state)

	gotProof, err := session.Proof()
	require.NoError(t, err)
	require.Equal(t, proof, gotProof)

	inp, err := session.PublicInputs()
	require.NoError(t, err)
	require.Len(t, inp, 1)

	verifier := NewVerifierSession(prover)
	require.NoError(t, verifier.LoadCircuit(cs, false))
	require.NoError(t, verifier.EncodeInputs(map[r1cs.Var]*big.Int{p: wVal}))
	require.NoError(t, verifier.Verify(proof))
	require.Equal(t, VerifierVerified, verifier.state)
}

func TestVerifierSessionRejectsMismatchedPublicInput(t *testing.T) {
	cs, w, p := testutils.BuildS5CS()
	program := trivialProgram()
	prover := refnizk.New()

	session := NewProverSession(program, field.Modulus, prover, swc.Config{})
	require.NoError(t, session.BuildParams(cs, false))
	out, err := session.EvalStage(nil)
	require.NoError(t, err)
	wVal := out[0].AsInt()

	proof, err := session.AssignAndProve(map[r1cs.Var]*big.Int{w: wVal, p: wVal})
	require.NoError(t, err)

	verifier := NewVerifierSession(prover)
	require.NoError(t, verifier.LoadCircuit(cs, false))
	// mismatched public input: the verifier claims a different p than the
	// one the proof was actually bound to.
	wrong := new(big.Int).Add(wVal, big.NewInt(1))
	require.NoError(t, verifier.EncodeInputs(map[r1cs.Var]*big.Int{p: wrong}))

	err = verifier.Verify(proof)
	require.Error(t, err)
	require.Equal(t, VerifierRejected, verifier.state)
}

func TestProverSessionRejectsBuildParamsOutOfOrder(t *testing.T) {
	cs, _, _ := testutils.BuildS5CS()
	session := NewProverSession(trivialProgram(), field.Modulus, refnizk.New(), swc.Config{})
	require.NoError(t, session.BuildParams(cs, false))

	err := session.BuildParams(cs, false)
	require.ErrorIs(t, err, ErrWrongState)
}

func TestProverSessionRejectsAssignAndProveBeforeParamsReady(t *testing.T) {
	session := NewProverSession(trivialProgram(), field.Modulus, refnizk.New(), swc.Config{})
	_, err := session.AssignAndProve(nil)
	require.ErrorIs(t, err, ErrWrongState)
}

func TestProverSessionRejectsAssignAndProveBeforeEvalDone(t *testing.T) {
	cs, w, p := testutils.BuildS5CS()
	session := NewProverSession(trivialProgram(), field.Modulus, refnizk.New(), swc.Config{})
	require.NoError(t, session.BuildParams(cs, false))

	_, err := session.AssignAndProve(map[r1cs.Var]*big.Int{w: big.NewInt(1), p: big.NewInt(1)})
	require.Error(t, err)
}

func TestProverSessionRejectsProofBeforeProved(t *testing.T) {
	session := NewProverSession(trivialProgram(), field.Modulus, refnizk.New(), swc.Config{})
	_, err := session.Proof()
	require.ErrorIs(t, err, ErrWrongState)

	_, err = session.PublicInputs()
	require.ErrorIs(t, err, ErrWrongState)
}

func TestVerifierSessionRejectsEncodeInputsBeforeLoadCircuit(t *testing.T) {
	verifier := NewVerifierSession(refnizk.New())
	err := verifier.EncodeInputs(nil)
	require.Error(t, err)
}

func TestVerifierSessionRejectsVerifyBeforeInputsEncoded(t *testing.T) {
	cs, _, _ := testutils.BuildS5CS()
	verifier := NewVerifierSession(refnizk.New())
	require.NoError(t, verifier.LoadCircuit(cs, false))

	err := verifier.Verify(nil)
	require.ErrorIs(t, err, ErrWrongState)
}

func TestVerifierSessionRejectsDoubleVerify(t *testing.T) {
	cs, w, p := testutils.BuildS5CS()
	prover := refnizk.New()
	session := NewProverSession(trivialProgram(), field.Modulus, prover, swc.Config{})
	require.NoError(t, session.BuildParams(cs, false))
	out, err := session.EvalStage(nil)
	require.NoError(t, err)
	wVal := out[0].AsInt()
	proof, err := session.AssignAndProve(map[r1cs.Var]*big.Int{w: wVal, p: wVal})
	require.NoError(t, err)

	verifier := NewVerifierSession(prover)
	require.NoError(t, verifier.LoadCircuit(cs, false))
	require.NoError(t, verifier.EncodeInputs(map[r1cs.Var]*big.Int{p: wVal}))
	require.NoError(t, verifier.Verify(proof))

	err = verifier.Verify(proof)
	require.ErrorIs(t, err, ErrWrongState)
}

func TestBuildParamsRejectsBadModulusCircuit(t *testing.T) {
	cs := testutils.BuildS6BadModulusCS()
	session := NewProverSession(trivialProgram(), field.Modulus, refnizk.New(), swc.Config{})
	err := session.BuildParams(cs, false)
	require.ErrorIs(t, err, field.ErrFieldMismatch)
}

func TestLoadCircuitRejectsBadModulusCircuit(t *testing.T) {
	cs := testutils.BuildS6BadModulusCS()
	verifier := NewVerifierSession(refnizk.New())
	err := verifier.LoadCircuit(cs, false)
	require.ErrorIs(t, err, field.ErrFieldMismatch)
}

// TestVerifierSessionDerivesPublicInputsFromVerifierData exercises the
// spec-mandated verifier control flow: the verifier never sees the
// prover's computed public-input vector, only VerifierData and a plaintext
// public value, and must independently re-derive the same inp a matching
// prover session produced.
func TestVerifierSessionDerivesPublicInputsFromVerifierData(t *testing.T) {
	cs, w, p := testutils.BuildS5CS()
	program, publicOutputs := testutils.BuildS5Program()
	prover := refnizk.New()

	session := NewProverSession(program, field.Modulus, prover, swc.Config{})
	require.NoError(t, session.BuildParams(cs, false))
	secret := testutils.RandomBigInt(16)
	out, err := session.EvalStage(map[string]ir.Value{"secret": ir.NewField(secret, field.Modulus)})
	require.NoError(t, err)
	require.Len(t, out, 2)

	proof, err := session.AssignAndProve(map[r1cs.Var]*big.Int{w: secret, p: secret})
	require.NoError(t, err)
	wantInp, err := session.PublicInputs()
	require.NoError(t, err)

	pd := &artifact.ProverData{Circuit: cs, Program: program, PublicOutputs: publicOutputs}
	vd := pd.VerifierData()

	verifier := NewVerifierSession(prover)
	require.NoError(t, verifier.LoadVerifierData(vd))
	require.NoError(t, verifier.EvaluatePublicInputs(map[string]ir.Value{
		"secret": ir.NewField(secret, field.Modulus),
	}))
	require.Equal(t, wantInp, verifier.inp)
	require.NoError(t, verifier.Verify(proof))
}

// TestVerifierSessionRejectsWrongPublicValue checks that deriving the
// public-input vector from a wrong plaintext value produces a proof the
// verifier rejects, since the derived inp no longer matches the one the
// proof is bound to.
func TestVerifierSessionRejectsWrongPublicValue(t *testing.T) {
	cs, w, p := testutils.BuildS5CS()
	program, publicOutputs := testutils.BuildS5Program()
	prover := refnizk.New()

	session := NewProverSession(program, field.Modulus, prover, swc.Config{})
	require.NoError(t, session.BuildParams(cs, false))
	secret := testutils.RandomBigInt(16)
	_, err := session.EvalStage(map[string]ir.Value{"secret": ir.NewField(secret, field.Modulus)})
	require.NoError(t, err)

	proof, err := session.AssignAndProve(map[r1cs.Var]*big.Int{w: secret, p: secret})
	require.NoError(t, err)

	pd := &artifact.ProverData{Circuit: cs, Program: program, PublicOutputs: publicOutputs}
	vd := pd.VerifierData()

	verifier := NewVerifierSession(prover)
	require.NoError(t, verifier.LoadVerifierData(vd))
	wrong := new(big.Int).Add(secret, big.NewInt(1))
	require.NoError(t, verifier.EvaluatePublicInputs(map[string]ir.Value{
		"secret": ir.NewField(wrong, field.Modulus),
	}))

	err = verifier.Verify(proof)
	require.Error(t, err)
	require.Equal(t, VerifierRejected, verifier.state)
}

// TestVerifierSessionRejectsTamperedPublicInputsRandomized re-runs tamper
// detection across randomized byte flips of the verifier's encoded public
// inputs, since a single fixed flip only samples one point of a property
// that must hold for any tamper.
func TestVerifierSessionRejectsTamperedPublicInputsRandomized(t *testing.T) {
	const trials = 10
	for i := 0; i < trials; i++ {
		cs, w, p := testutils.BuildS5CS()
		program := trivialProgram()
		prover := refnizk.New()

		session := NewProverSession(program, field.Modulus, prover, swc.Config{})
		require.NoError(t, session.BuildParams(cs, false))
		out, err := session.EvalStage(nil)
		require.NoError(t, err)
		wVal := out[0].AsInt()

		proof, err := session.AssignAndProve(map[r1cs.Var]*big.Int{w: wVal, p: wVal})
		require.NoError(t, err)

		verifier := NewVerifierSession(prover)
		require.NoError(t, verifier.LoadCircuit(cs, false))
		require.NoError(t, verifier.EncodeInputs(map[r1cs.Var]*big.Int{p: wVal}))

		byteIdx, err := rand.Int(rand.Reader, big.NewInt(32))
		require.NoError(t, err)
		flip, err := rand.Int(rand.Reader, big.NewInt(255))
		require.NoError(t, err)

		verifier.inp = append([][32]byte(nil), verifier.inp...)
		verifier.inp[0][byteIdx.Int64()] ^= byte(flip.Int64() + 1)

		err = verifier.Verify(proof)
		require.Errorf(t, err, "trial %d: tampered byte %d by %d went undetected",
			i, byteIdx.Int64(), flip.Int64()+1)
		require.Equal(t, VerifierRejected, verifier.state)
	}
}
