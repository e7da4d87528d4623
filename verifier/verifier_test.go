package verifier

import (
	"bytes"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giuliop/circbridge/field"
	"github.com/giuliop/circbridge/nizk"
	"github.com/giuliop/circbridge/nizk/refnizk"
	"github.com/giuliop/circbridge/r1cs"
)

func buildAndProve(t *testing.T) (nizk.ProofCodec, nizk.Proof, [][32]byte) {
	t.Helper()
	cs := r1cs.New(field.Modulus)
	x := cs.AddVar(r1cs.FinalWit)
	one := big.NewInt(1)
	lc := r1cs.NewLc(nil).Add(x, one)
	cs.AddConstraint(lc, lc, lc)

	prover := refnizk.New()
	bridge := r1cs.NewBridge(prover)
	values := map[r1cs.Var]*big.Int{x: one}
	built, err := bridge.Build(cs, values, false)
	require.NoError(t, err)

	tr := prover.NewTranscript(nizk.DomainSeparationLabel)
	proof, err := prover.Prove(built.Instance, built.Wit, built.Inp, built.Gens, tr)
	require.NoError(t, err)

	codec, ok := prover.(nizk.ProofCodec)
	require.True(t, ok)
	return codec, proof, built.Inp
}

func TestExportImportRoundTrip(t *testing.T) {
	codec, proof, inp := buildAndProve(t)

	var proofBuf, inputsBuf bytes.Buffer
	require.NoError(t, Export(&proofBuf, &inputsBuf, proof, inp, codec))

	gotProof, gotInp, err := Import(&proofBuf, &inputsBuf, codec)
	require.NoError(t, err)
	require.Equal(t, inp, gotInp)
	require.NotNil(t, gotProof)
}

func TestExportImportFilesRoundTrip(t *testing.T) {
	codec, proof, inp := buildAndProve(t)

	dir := t.TempDir()
	proofPath := filepath.Join(dir, DefaultProofFileName)
	inputsPath := filepath.Join(dir, DefaultPublicInputsFileName)

	require.NoError(t, ExportToFiles(proofPath, inputsPath, proof, inp, codec))

	gotProof, gotInp, err := ImportFromFiles(proofPath, inputsPath, codec)
	require.NoError(t, err)
	require.Equal(t, inp, gotInp)
	require.NotNil(t, gotProof)
}
