package verifier

import (
	"fmt"
	"io"
	"os"

	"github.com/giuliop/circbridge/artifact"
	"github.com/giuliop/circbridge/nizk"
)

// DefaultProofFileName, DefaultPublicInputsFileName and
// DefaultVerifierDataFileName name the files a generated verifier bundle
// uses by convention.
const (
	DefaultProofFileName        = "proof.bin"
	DefaultPublicInputsFileName = "public_inputs.bin"
	DefaultVerifierDataFileName = "verifier_data.bin"
)

// Export writes proof and inp, via codec, to separate writers for an
// external consumer to pick up.
func Export(proofW, inputsW io.Writer, proof nizk.Proof, inp [][32]byte, codec nizk.ProofCodec) error {
	if err := artifact.WriteProof(proofW, proof, codec); err != nil {
		return fmt.Errorf("verifier: exporting proof: %w", err)
	}
	if err := artifact.WritePublicInputs(inputsW, inp); err != nil {
		return fmt.Errorf("verifier: exporting public inputs: %w", err)
	}
	return nil
}

// ExportToFiles is the convenience path: it creates proofPath/inputsPath
// (truncating any existing file) and calls Export against them.
func ExportToFiles(proofPath, inputsPath string, proof nizk.Proof, inp [][32]byte, codec nizk.ProofCodec) error {
	proofFile, err := os.Create(proofPath)
	if err != nil {
		return fmt.Errorf("verifier: creating %s: %w", proofPath, err)
	}
	defer proofFile.Close()

	inputsFile, err := os.Create(inputsPath)
	if err != nil {
		return fmt.Errorf("verifier: creating %s: %w", inputsPath, err)
	}
	defer inputsFile.Close()

	return Export(proofFile, inputsFile, proof, inp, codec)
}

// Import reads back what Export wrote.
func Import(proofR, inputsR io.Reader, codec nizk.ProofCodec) (nizk.Proof, [][32]byte, error) {
	proof, err := artifact.ReadProof(proofR, codec)
	if err != nil {
		return nil, nil, fmt.Errorf("verifier: importing proof: %w", err)
	}
	inp, err := artifact.ReadPublicInputs(inputsR)
	if err != nil {
		return nil, nil, fmt.Errorf("verifier: importing public inputs: %w", err)
	}
	return proof, inp, nil
}

// ImportFromFiles is the convenience inverse of ExportToFiles.
func ImportFromFiles(proofPath, inputsPath string, codec nizk.ProofCodec) (nizk.Proof, [][32]byte, error) {
	proofFile, err := os.Open(proofPath)
	if err != nil {
		return nil, nil, fmt.Errorf("verifier: opening %s: %w", proofPath, err)
	}
	defer proofFile.Close()

	inputsFile, err := os.Open(inputsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("verifier: opening %s: %w", inputsPath, err)
	}
	defer inputsFile.Close()

	return Import(proofFile, inputsFile, codec)
}
