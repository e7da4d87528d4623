// Package utils holds standalone ambient helpers (no other package of this
// module imports it): ABI-style 32-byte-chunk encoding for scalar vectors, and a staleness check
// for persisted artifacts. There is no PuyaPy compile/rename step here
// (contract codegen is no longer part of this module, see verifier's
// doc.go); the ARC4 chunk-encoding helpers are kept and generalized, since a
// proof and its public inputs are still, in the end, vectors of 32-byte
// scalars bound for some caller's application arguments.
package utils

import (
	"fmt"
	"os"

	"github.com/algorand/go-algorand-sdk/v2/abi"
)

// ShouldRecompile reports whether targetPath is missing, or is older than
// any of sourcePaths: true also on any stat error, so a caller defaults to
// rebuilding rather than silently reusing a stale artifact.
func ShouldRecompile(targetPath string, sourcePaths ...string) bool {
	targetFile, err := os.Stat(targetPath)
	if err != nil {
		return true
	}
	targetModTime := targetFile.ModTime()

	for _, sourcePath := range sourcePaths {
		sourceFile, err := os.Stat(sourcePath)
		if err != nil {
			return true
		}
		if sourceFile.ModTime().After(targetModTime) {
			return true
		}
	}
	return false
}

// EncodeScalarsARC4 ABI-encodes a vector of 32-byte scalars (a renumbered
// witness or public-input vector, say) as the ARC4 dynamic array type
// "byte[32][]", the format an Algorand application's app args expect.
func EncodeScalarsARC4(vs [][32]byte) ([]byte, error) {
	arcType, err := abi.TypeOf("byte[32][]")
	if err != nil {
		return nil, fmt.Errorf("utils: defining ABI type: %w", err)
	}
	values := make([]interface{}, len(vs))
	for i, v := range vs {
		b := make([]byte, 32)
		copy(b, v[:])
		values[i] = b
	}
	encoded, err := arcType.Encode(values)
	if err != nil {
		return nil, fmt.Errorf("utils: ARC4-encoding scalars: %w", err)
	}
	return encoded, nil
}

// DecodeScalarsARC4 inverts EncodeScalarsARC4.
func DecodeScalarsARC4(data []byte) ([][32]byte, error) {
	arcType, err := abi.TypeOf("byte[32][]")
	if err != nil {
		return nil, fmt.Errorf("utils: defining ABI type: %w", err)
	}
	decoded, err := arcType.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("utils: ARC4-decoding scalars: %w", err)
	}
	values, ok := decoded.([]interface{})
	if !ok {
		return nil, fmt.Errorf("utils: unexpected decoded ARC4 shape %T", decoded)
	}
	out := make([][32]byte, len(values))
	for i, v := range values {
		b, ok := v.([]byte)
		if !ok || len(b) != 32 {
			return nil, fmt.Errorf("utils: element %d is not a 32-byte value", i)
		}
		copy(out[i][:], b)
	}
	return out, nil
}

// ScalarsForAtomicComposer splits a flat, 32-byte-aligned blob (a proof or a
// public-input vector already marshaled to bytes) into the []interface{}
// shape an AtomicTransactionComposer expects as ABI array elements; it
// panics if data is not 32-byte aligned, since a caller assembling app args
// has a programming error, not a recoverable runtime condition, if it isn't.
func ScalarsForAtomicComposer(data []byte) []interface{} {
	if len(data)%32 != 0 {
		panic("utils: data must be 32-byte aligned")
	}
	out := make([]interface{}, 0, len(data)/32)
	for i := 0; i < len(data); i += 32 {
		out = append(out, data[i:i+32])
	}
	return out
}
