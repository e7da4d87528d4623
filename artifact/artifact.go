// Package artifact implements binary (de)serialization for the objects a
// proving or verifying session needs to persist between runs: an R1CS
// circuit and an SWC Program (§4.6). The field modulus is not written:
// WriteCircuit refuses any modulus other than field.Modulus, and
// ReadCircuit sets field.Modulus on what it reads. Every
// artifact starts with a version tag so an incompatible future format is
// rejected up front rather than misread.
//
// The wire format is length-prefixed big-endian binary with no
// reflection-based codec: a uint32 version, then a sequence of
// length-prefixed sections.
package artifact

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// Version is the current artifact format version.
const Version uint32 = 1

// ErrIncompatibleArtifact is returned when an artifact's version tag does
// not match Version.
var ErrIncompatibleArtifact = errors.New("incompatible artifact version")

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeInt(w io.Writer, v int) error {
	return writeUint32(w, uint32(v))
}

func readInt(r io.Reader) (int, error) {
	v, err := readUint32(r)
	return int(v), err
}

func writeBytes(w io.Writer, data []byte) error {
	if err := writeUint32(w, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func writeString(w io.Writer, s string) error { return writeBytes(w, []byte(s)) }

func readString(r io.Reader) (string, error) {
	b, err := readBytes(r)
	return string(b), err
}

func writeBool(w io.Writer, b bool) error {
	var v byte
	if b {
		v = 1
	}
	_, err := w.Write([]byte{v})
	return err
}

func readBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func writeBigInt(w io.Writer, x *big.Int) error {
	if x == nil {
		return writeBytes(w, nil)
	}
	return writeBytes(w, x.Bytes())
}

func readBigInt(r io.Reader) (*big.Int, error) {
	b, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

func writeVersion(w io.Writer) error { return writeUint32(w, Version) }

func checkVersion(r io.Reader) error {
	v, err := readUint32(r)
	if err != nil {
		return err
	}
	if v != Version {
		return fmt.Errorf("%w: artifact version %d, expected %d", ErrIncompatibleArtifact, v, Version)
	}
	return nil
}
