// Package field implements FieldBridge: conversion between arbitrary
// precision integers and the NIZK scheme's canonical 32-byte little-endian
// scalar encoding (§4.1).
package field

import (
	"errors"
	"fmt"
	"math/big"
)

// Modulus is the prime field modulus fixed by the Spartan back end (§6).
// Artifacts whose R1CS field modulus differs are rejected before any
// constraint is touched.
var Modulus, _ = new(big.Int).SetString(
	"28948022309329048855892746252171976963363056481941647379679742748393362948097", 10)

// ErrFieldMismatch is returned when an artifact's field modulus does not
// match Modulus.
var ErrFieldMismatch = errors.New("field mismatch")

// CheckModulus returns ErrFieldMismatch if m is not the fixed NIZK modulus.
func CheckModulus(m *big.Int) error {
	if m.Cmp(Modulus) != 0 {
		return fmt.Errorf("%w: artifact modulus %s, expected %s", ErrFieldMismatch, m, Modulus)
	}
	return nil
}

// limbBits is the accumulation base used by Encode, matching the reference
// int_to_scalar accumulation over 64-bit limbs.
const limbBits = 64

// Encode converts x (with 0 <= x < modulus) into the scalar field's
// canonical 32-byte little-endian form, by repeated
// acc = acc*2^64 + limb accumulation over x's base-2^64 limbs, most
// significant limb first, exactly as the reference int_to_scalar does.
func Encode(x *big.Int, modulus *big.Int) ([32]byte, error) {
	var out [32]byte
	if x.Sign() < 0 || x.Cmp(modulus) >= 0 {
		return out, fmt.Errorf("field: value %s out of range [0, %s)", x, modulus)
	}
	if err := CheckModulus(modulus); err != nil {
		return out, err
	}

	limbs := splitLimbs(x)
	acc := new(big.Int)
	shift := new(big.Int).Lsh(big.NewInt(1), limbBits)
	for i := len(limbs) - 1; i >= 0; i-- {
		acc.Mul(acc, shift)
		acc.Add(acc, new(big.Int).SetUint64(limbs[i]))
		acc.Mod(acc, modulus)
	}

	b := acc.Bytes() // big-endian, no leading zeros
	for i := 0; i < len(b) && i < 32; i++ {
		out[i] = b[len(b)-1-i] // reverse into little-endian
	}
	return out, nil
}

// Decode inverts Encode: it reads a canonical 32-byte little-endian scalar
// back into an arbitrary-precision integer in [0, modulus).
func Decode(b [32]byte) *big.Int {
	be := make([]byte, 32)
	for i := 0; i < 32; i++ {
		be[i] = b[31-i]
	}
	return new(big.Int).SetBytes(be)
}

// splitLimbs decomposes x into base-2^64 limbs, least-significant first.
func splitLimbs(x *big.Int) []uint64 {
	if x.Sign() == 0 {
		return []uint64{0}
	}
	tmp := new(big.Int).Set(x)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), limbBits), big.NewInt(1))
	var limbs []uint64
	for tmp.Sign() > 0 {
		limb := new(big.Int).And(tmp, mask)
		limbs = append(limbs, limb.Uint64())
		tmp.Rsh(tmp, limbBits)
	}
	return limbs
}
