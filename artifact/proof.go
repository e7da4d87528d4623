package artifact

import (
	"fmt"
	"io"

	"github.com/giuliop/circbridge/nizk"
)

// WriteProof serializes proof, versioned, to w using codec to turn it into
// bytes. codec is normally the same nizk.Prover the session was opened with,
// since a Prover that builds proofs is expected to know how to encode them.
func WriteProof(w io.Writer, proof nizk.Proof, codec nizk.ProofCodec) error {
	data, err := codec.EncodeProof(proof)
	if err != nil {
		return fmt.Errorf("artifact: encoding proof: %w", err)
	}
	if err := writeVersion(w); err != nil {
		return err
	}
	return writeBytes(w, data)
}

// ReadProof deserializes a proof written by WriteProof.
func ReadProof(r io.Reader, codec nizk.ProofCodec) (nizk.Proof, error) {
	if err := checkVersion(r); err != nil {
		return nil, err
	}
	data, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	proof, err := codec.DecodeProof(data)
	if err != nil {
		return nil, fmt.Errorf("artifact: decoding proof: %w", err)
	}
	return proof, nil
}

// WritePublicInputs serializes a renumbered public-input vector, versioned,
// to w.
func WritePublicInputs(w io.Writer, inp [][32]byte) error {
	if err := writeVersion(w); err != nil {
		return err
	}
	if err := writeInt(w, len(inp)); err != nil {
		return err
	}
	for _, v := range inp {
		if _, err := w.Write(v[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadPublicInputs deserializes a vector written by WritePublicInputs.
func ReadPublicInputs(r io.Reader) ([][32]byte, error) {
	if err := checkVersion(r); err != nil {
		return nil, err
	}
	n, err := readInt(r)
	if err != nil {
		return nil, err
	}
	out := make([][32]byte, n)
	for i := range out {
		if _, err := io.ReadFull(r, out[i][:]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
