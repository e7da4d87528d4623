// Package refnizk is the in-module reference implementation of nizk.Prover
// (§1, §9 Open Questions). It is NOT the production cryptographic backend:
// it is a transparent stand-in used to exercise the fixed interface and the
// wire contract (domain-separated transcript, tamper-evident proof bytes)
// end to end, the way a project ships a fake/reference implementation of an
// external collaborator behind an interface boundary.
//
// Honest limitation, recorded here and in DESIGN.md: this backend is
// binding but not zero-knowledge. Proof.Verify recomputes satisfiability
// directly from the witness carried inside the proof, rather than from a
// succinct argument over a hidden witness. A production deployment swaps
// this package for a real NIZK library behind the same nizk.Prover
// interface; nothing else in this module depends on that choice.
package refnizk

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"

	"github.com/giuliop/circbridge/field"
	"github.com/giuliop/circbridge/nizk"
)

// prover is the stateless nizk.Prover implementation; New returns the single
// shared instance.
type prover struct{}

// New returns the reference nizk.Prover.
func New() nizk.Prover { return prover{} }

// gens holds one deterministically derived bn254 G1 generator per witness
// slot, used as a Pedersen vector commitment basis.
type gens struct {
	numCons, numWit, numInp int
	g                       []bn254.G1Affine
}

func (g *gens) NumCons() int { return g.numCons }
func (g *gens) NumWit() int  { return g.numWit }
func (g *gens) NumInp() int  { return g.numInp }

// NewGens derives numWit generator points by hashing a fixed domain string
// and an index into a scalar, then multiplying the curve's canonical
// generator by it; this is the usual nothing-up-my-sleeve construction and
// needs no trusted setup.
func (prover) NewGens(numCons, numWit, numInp int) nizk.Gens {
	_, _, g1Gen, _ := bn254.Generators()
	g := make([]bn254.G1Affine, numWit)
	for i := range g {
		s := deterministicScalar("circbridge/nizk/refnizk/gens", i)
		var p bn254.G1Affine
		p.ScalarMultiplication(&g1Gen, s.BigInt(new(big.Int)))
		g[i] = p
	}
	return &gens{numCons: numCons, numWit: numWit, numInp: numInp, g: g}
}

func deterministicScalar(domain string, i int) *fr.Element {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s/%d", domain, i)))
	var e fr.Element
	e.SetBytes(h[:])
	return &e
}

// instance is the renumbered sparse constraint system (§4.4).
type instance struct {
	numCons, numWit, numInp int
	a, b, c                 []nizk.Triple
}

func (i *instance) NumCons() int { return i.numCons }
func (i *instance) NumWit() int  { return i.numWit }
func (i *instance) NumInp() int  { return i.numInp }

// NewInstance validates every triple's row/column bounds before accepting
// the matrices; an out-of-range column would silently corrupt IsSat.
func (prover) NewInstance(numCons, numWit, numInp int, a, b, c []nizk.Triple) (nizk.Instance, error) {
	n := numWit + 1 + numInp
	for _, m := range [][]nizk.Triple{a, b, c} {
		for _, t := range m {
			if t.Row < 0 || t.Row >= numCons {
				return nil, fmt.Errorf("refnizk: triple row %d out of range [0,%d)", t.Row, numCons)
			}
			if t.Col < 0 || t.Col >= n {
				return nil, fmt.Errorf("refnizk: triple col %d out of range [0,%d)", t.Col, n)
			}
		}
	}
	return &instance{numCons: numCons, numWit: numWit, numInp: numInp, a: a, b: b, c: c}, nil
}

// assemble builds the full variable assignment z = wit || [1] || inp.
func assemble(wit, inp [][32]byte, numWit, numInp int) ([]*big.Int, error) {
	if len(wit) != numWit {
		return nil, fmt.Errorf("refnizk: witness length %d, want %d", len(wit), numWit)
	}
	if len(inp) != numInp {
		return nil, fmt.Errorf("refnizk: public input length %d, want %d", len(inp), numInp)
	}
	z := make([]*big.Int, numWit+1+numInp)
	for i, w := range wit {
		z[i] = field.Decode(w)
	}
	z[numWit] = big.NewInt(1)
	for i, v := range inp {
		z[numWit+1+i] = field.Decode(v)
	}
	return z, nil
}

func mulSparse(triples []nizk.Triple, z []*big.Int, numRows int) []*big.Int {
	out := make([]*big.Int, numRows)
	for i := range out {
		out[i] = new(big.Int)
	}
	for _, t := range triples {
		coeff := field.Decode(t.Val)
		term := new(big.Int).Mul(coeff, z[t.Col])
		out[t.Row].Add(out[t.Row], term)
	}
	for i := range out {
		out[i].Mod(out[i], field.Modulus)
	}
	return out
}

// IsSat checks every constraint row directly: (A z)_i * (B z)_i == (C z)_i.
func (i *instance) IsSat(wit, inp [][32]byte) (bool, error) {
	z, err := assemble(wit, inp, i.numWit, i.numInp)
	if err != nil {
		return false, err
	}
	az := mulSparse(i.a, z, i.numCons)
	bz := mulSparse(i.b, z, i.numCons)
	cz := mulSparse(i.c, z, i.numCons)
	for r := 0; r < i.numCons; r++ {
		lhs := new(big.Int).Mul(az[r], bz[r])
		lhs.Mod(lhs, field.Modulus)
		if lhs.Cmp(cz[r]) != 0 {
			return false, nil
		}
	}
	return true, nil
}

// transcript wraps a gnark-crypto Fiat-Shamir transcript (§9 Open Question:
// we fix on gnark-crypto's transcript rather than a Keccak-only/Merlin
// variant) behind nizk.Transcript's freeform, arbitrary-label
// AppendMessage/ChallengeBytes contract. gnark-crypto's Transcript declares
// its challenge names up front, so every bind here folds in under the
// single declared name "tag"; ChallengeBytes expands the resulting field
// element to n bytes via counter-mode SHA-256 and folds the expansion back
// in, so a later call observes every earlier one.
type transcript struct {
	fs *fiatshamir.Transcript
}

// NewTranscript opens a transcript bound to label, per §6's domain
// separation requirement.
func (prover) NewTranscript(label string) nizk.Transcript {
	t := &transcript{fs: fiatshamir.NewTranscript(sha256.New(), "tag")}
	t.AppendMessage("domain-separator", []byte(label))
	return t
}

func (t *transcript) AppendMessage(label string, data []byte) {
	buf := make([]byte, 0, len(label)+len(data))
	buf = append(buf, []byte(label)...)
	buf = append(buf, data...)
	// Bind never fails for the "tag" name declared at construction time.
	_ = t.fs.Bind("tag", buf)
}

func (t *transcript) ChallengeBytes(label string, n int) []byte {
	c, err := t.fs.ComputeChallenge("tag")
	if err != nil {
		panic(fmt.Sprintf("refnizk: computing transcript challenge: %v", err))
	}
	out := make([]byte, 0, n+sha256.Size)
	var counter uint32
	for len(out) < n {
		h := sha256.New()
		h.Write(c)
		h.Write([]byte(label))
		var cb [4]byte
		binary.BigEndian.PutUint32(cb[:], counter)
		h.Write(cb[:])
		out = append(out, h.Sum(nil)...)
		counter++
	}
	out = out[:n]
	// A computed challenge accepts no further Bind calls, so start a fresh
	// transcript seeded with the challenge and the expansion.
	t.fs = fiatshamir.NewTranscript(sha256.New(), "tag")
	t.AppendMessage(label+"/squeeze", append(append([]byte(nil), c...), out...))
	return out
}

// proof is the reference proof artifact: a Pedersen commitment to the
// witness, the witness itself (see the package doc's honesty note), and a
// transcript-derived binding tag over the public instance metadata,
// public inputs and the commitment.
type proof struct {
	Commitment bn254.G1Affine
	Wit        [][32]byte
	Tag        [32]byte
}

func instMeta(numCons, numWit, numInp int) []byte {
	var b [24]byte
	binary.BigEndian.PutUint64(b[0:8], uint64(numCons))
	binary.BigEndian.PutUint64(b[8:16], uint64(numWit))
	binary.BigEndian.PutUint64(b[16:24], uint64(numInp))
	return b[:]
}

func flatten(vs [][32]byte) []byte {
	out := make([]byte, 0, 32*len(vs))
	for _, v := range vs {
		out = append(out, v[:]...)
	}
	return out
}

func commit(g *gens, wit [][32]byte) (bn254.G1Affine, error) {
	if len(wit) != len(g.g) {
		return bn254.G1Affine{}, fmt.Errorf("refnizk: witness length %d, gens sized for %d", len(wit), len(g.g))
	}
	var acc bn254.G1Jac
	for i, w := range wit {
		scalar := field.Decode(w)
		var p bn254.G1Jac
		p.FromAffine(&g.g[i])
		p.ScalarMultiplication(&p, scalar)
		acc.AddAssign(&p)
	}
	var out bn254.G1Affine
	out.FromJacobian(&acc)
	return out, nil
}

// Prove builds the binding commitment and transcript tag described above.
// It does not itself re-check satisfiability; R1CSBridge already gates that
// before a Prove call is ever made (§4.4).
func (prover) Prove(inst nizk.Instance, wit, inp [][32]byte, g nizk.Gens, tr nizk.Transcript) (nizk.Proof, error) {
	gg, ok := g.(*gens)
	if !ok {
		return nil, fmt.Errorf("refnizk: gens not produced by this backend")
	}
	i, ok := inst.(*instance)
	if !ok {
		return nil, fmt.Errorf("refnizk: instance not produced by this backend")
	}
	c, err := commit(gg, wit)
	if err != nil {
		return nil, err
	}

	tr.AppendMessage("inst", instMeta(i.numCons, i.numWit, i.numInp))
	tr.AppendMessage("inp", flatten(inp))
	tr.AppendMessage("commitment", c.Marshal())
	tagBytes := tr.ChallengeBytes("tag", 32)
	var tag [32]byte
	copy(tag[:], tagBytes)

	return &proof{
		Commitment: c,
		Wit:        append([][32]byte(nil), wit...),
		Tag:        tag,
	}, nil
}

// Verify recomputes the commitment from the embedded witness, checks it
// against the proof's claimed commitment, recomputes satisfiability, and
// recomputes the transcript tag; any single-byte tamper to the proof, to
// inp, or to inst's matrices changes one of these three checks.
func (p *proof) Verify(inst nizk.Instance, inp [][32]byte, tr nizk.Transcript, g nizk.Gens) error {
	gg, ok := g.(*gens)
	if !ok {
		return fmt.Errorf("%w: gens not produced by this backend", nizk.ErrInvalidProof)
	}
	i, ok := inst.(*instance)
	if !ok {
		return fmt.Errorf("%w: instance not produced by this backend", nizk.ErrInvalidProof)
	}

	wantCommit, err := commit(gg, p.Wit)
	if err != nil {
		return fmt.Errorf("%w: %v", nizk.ErrInvalidProof, err)
	}
	if !wantCommit.Equal(&p.Commitment) {
		return fmt.Errorf("%w: commitment does not match witness", nizk.ErrInvalidProof)
	}

	sat, err := i.IsSat(p.Wit, inp)
	if err != nil {
		return fmt.Errorf("%w: %v", nizk.ErrInvalidProof, err)
	}
	if !sat {
		return fmt.Errorf("%w: witness does not satisfy instance", nizk.ErrInvalidProof)
	}

	tr.AppendMessage("inst", instMeta(i.numCons, i.numWit, i.numInp))
	tr.AppendMessage("inp", flatten(inp))
	tr.AppendMessage("commitment", p.Commitment.Marshal())
	tagBytes := tr.ChallengeBytes("tag", 32)
	var tag [32]byte
	copy(tag[:], tagBytes)
	if tag != p.Tag {
		return fmt.Errorf("%w: transcript tag mismatch", nizk.ErrInvalidProof)
	}
	return nil
}

// EncodeProof implements nizk.ProofCodec, letting artifact.WriteProof
// persist a proof without the core knowing this backend's concrete type.
func (prover) EncodeProof(pf nizk.Proof) ([]byte, error) {
	p, ok := pf.(*proof)
	if !ok {
		return nil, fmt.Errorf("refnizk: proof not produced by this backend")
	}
	commitBytes := p.Commitment.Marshal()

	out := make([]byte, 0, len(commitBytes)+4+32*len(p.Wit)+len(p.Tag))
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(commitBytes)))
	out = append(out, lenBuf[:]...)
	out = append(out, commitBytes...)

	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p.Wit)))
	out = append(out, lenBuf[:]...)
	out = append(out, flatten(p.Wit)...)

	out = append(out, p.Tag[:]...)
	return out, nil
}

// DecodeProof is the inverse of EncodeProof.
func (prover) DecodeProof(data []byte) (nizk.Proof, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("refnizk: truncated proof")
	}
	commitLen := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if uint32(len(data)) < commitLen {
		return nil, fmt.Errorf("refnizk: truncated proof commitment")
	}
	var c bn254.G1Affine
	if err := c.Unmarshal(data[:commitLen]); err != nil {
		return nil, fmt.Errorf("refnizk: decoding commitment: %w", err)
	}
	data = data[commitLen:]

	if len(data) < 4 {
		return nil, fmt.Errorf("refnizk: truncated proof witness length")
	}
	numWit := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if uint32(len(data)) < 32*numWit+32 {
		return nil, fmt.Errorf("refnizk: truncated proof witness/tag")
	}
	wit := make([][32]byte, numWit)
	for i := range wit {
		copy(wit[i][:], data[32*i:32*(i+1)])
	}
	data = data[32*numWit:]
	var tag [32]byte
	copy(tag[:], data[:32])

	return &proof{Commitment: c, Wit: wit, Tag: tag}, nil
}
