/*
Package verifier exports a completed proof and its public inputs for an
external consumer — whatever process or service ultimately calls
VerifierSession.Verify does not need to link this module; it only needs
the two byte blobs this package writes.

There is no PuyaPy/TEAL/Solidity verifier-contract code generation here:
on-chain verifier codegen is out of scope, so this package only produces a
proof artifact and a public-input vector that travel to whichever process
runs the matching VerifierSession.
*/
package verifier
