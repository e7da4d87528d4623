/*
Package setup configures a ProofDriver session before any proving or
verifying work runs.

Gens derivation (Conf)

R1CSBridge needs a set of Gens (public parameters sized to one circuit
shape) before it can build a NIZK Instance. nizk/refnizk derives these
deterministically, by hashing a fixed domain string and an index into a
scalar and multiplying the curve's canonical generator by it — the usual
nothing-up-my-sleeve construction, requiring no ceremony and no trusted
party. Conf exists so a future NIZK backend whose Gens do require a
ceremony (an actual Spartan/Bulletproofs commitment-key setup, say) has
somewhere to plug in without changing any caller of setup.Run.

Evaluator configuration

EvalConfig builds the swc.Config an Evaluator runs with. Today this is a
single flag, TimeEvalOps, controlling whether the evaluator keeps
per-(Op, arg-sort tuple) timing and count statistics as it walks a
program's stages.
*/
package setup
