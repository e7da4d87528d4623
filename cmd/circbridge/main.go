// cmd/circbridge is a thin demonstration front end over the circbridge
// package: action=prove builds the S5 demo circuit and program, assigns
// both circuit variables directly from a random secret (the program is not
// evaluated here; it only feeds the verifier data), proves it and writes
// proof.bin/verifier_data.bin;
// action=verify reads them back, re-derives its own public-input vector
// from the public value alone, and checks the proof against it.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"

	"github.com/giuliop/circbridge"
	"github.com/giuliop/circbridge/artifact"
	"github.com/giuliop/circbridge/ir"
	"github.com/giuliop/circbridge/nizk"
	"github.com/giuliop/circbridge/nizk/refnizk"
	"github.com/giuliop/circbridge/r1cs"
	"github.com/giuliop/circbridge/testutils"
	"github.com/giuliop/circbridge/verifier"
)

func main() {
	action := flag.String("action", "", "prove or verify")
	dir := flag.String("dir", "generated", "directory for proof/verifier-data files")
	public := flag.String("public", "", "decimal public input value (verify only)")
	flag.Parse()

	if err := run(*action, *dir, *public); err != nil {
		log.Fatal(err)
	}
}

func run(action, dir, public string) error {
	switch action {
	case "prove":
		return prove(dir)
	case "verify":
		return verify(dir, public)
	default:
		return fmt.Errorf("circbridge: -action must be %q or %q", "prove", "verify")
	}
}

func prove(dir string) error {
	if err := testutils.CreateDirectoryIfNeeded(dir); err != nil {
		return fmt.Errorf("circbridge: %w", err)
	}

	cs, w, p := testutils.BuildS5CS()
	program, publicOutputs := testutils.BuildS5Program()
	prover := refnizk.New()
	bridge := r1cs.NewBridge(prover)

	layout, err := bridge.BuildLayout(cs, false)
	if err != nil {
		return fmt.Errorf("circbridge: building layout: %w", err)
	}

	secret := testutils.RandomBigInt(16)
	values := map[r1cs.Var]*big.Int{w: secret, p: secret}

	built, err := layout.Assign(values)
	if err != nil {
		return fmt.Errorf("circbridge: assigning witness: %w", err)
	}

	tr := prover.NewTranscript(nizk.DomainSeparationLabel)
	proof, err := prover.Prove(built.Instance, built.Wit, built.Inp, built.Gens, tr)
	if err != nil {
		return fmt.Errorf("circbridge: proving: %w", err)
	}

	codec := prover.(nizk.ProofCodec)
	proofPath := filepath.Join(dir, verifier.DefaultProofFileName)
	proofFile, err := os.Create(proofPath)
	if err != nil {
		return fmt.Errorf("circbridge: creating %s: %w", proofPath, err)
	}
	defer proofFile.Close()
	if err := artifact.WriteProof(proofFile, proof, codec); err != nil {
		return fmt.Errorf("circbridge: %w", err)
	}

	pd := &artifact.ProverData{Circuit: cs, Program: program, PublicOutputs: publicOutputs}
	vdPath := filepath.Join(dir, verifier.DefaultVerifierDataFileName)
	vdFile, err := os.Create(vdPath)
	if err != nil {
		return fmt.Errorf("circbridge: creating %s: %w", vdPath, err)
	}
	defer vdFile.Close()
	if err := artifact.WriteVerifierData(vdFile, pd.VerifierData()); err != nil {
		return fmt.Errorf("circbridge: %w", err)
	}

	fmt.Printf("proof written to %s\nverifier data written to %s\n"+
		"public value (pass as -public to verify): %s\n", proofPath, vdPath, secret.String())
	return nil
}

func verify(dir, public string) error {
	publicValue, ok := new(big.Int).SetString(public, 10)
	if !ok {
		return fmt.Errorf("circbridge: -public must be a decimal integer")
	}

	prover := refnizk.New()
	codec := prover.(nizk.ProofCodec)

	proofPath := filepath.Join(dir, verifier.DefaultProofFileName)
	proofFile, err := os.Open(proofPath)
	if err != nil {
		return fmt.Errorf("circbridge: opening %s: %w", proofPath, err)
	}
	defer proofFile.Close()
	proof, err := artifact.ReadProof(proofFile, codec)
	if err != nil {
		return fmt.Errorf("circbridge: %w", err)
	}

	vdPath := filepath.Join(dir, verifier.DefaultVerifierDataFileName)
	vdFile, err := os.Open(vdPath)
	if err != nil {
		return fmt.Errorf("circbridge: opening %s: %w", vdPath, err)
	}
	defer vdFile.Close()
	vd, err := artifact.ReadVerifierData(vdFile)
	if err != nil {
		return fmt.Errorf("circbridge: %w", err)
	}

	session := circbridge.NewVerifierSession(prover)
	if err := session.LoadVerifierData(vd); err != nil {
		return fmt.Errorf("circbridge: %w", err)
	}

	secretValue := ir.NewField(publicValue, vd.Circuit.Modulus)
	if err := session.EvaluatePublicInputs(map[string]ir.Value{"secret": secretValue}); err != nil {
		return fmt.Errorf("circbridge: %w", err)
	}

	if err := session.Verify(proof); err != nil {
		fmt.Fprintln(os.Stderr, "proof verification failed:", err)
		os.Exit(1)
	}

	fmt.Println("proof verified successfully")
	return nil
}
