// Package nft drives the external nft binary.
//
// # Overview
//
// [Client] serializes a [schema.Document], pipes it to "nft -j -f -" and
// reports the outcome. The read path runs "nft -j list ruleset" and decodes
// the output back into a document.
//
//	Document → schema.Encode → CommandRunner (nft -j -f -) → kernel
//	kernel → CommandRunner (nft -j list ruleset) → schema.Decode → Document
//
// # Process Boundary
//
// Every process is started through [CommandRunner], the only side-effecting
// seam in the package. [RealCommandRunner] uses os/exec; tests substitute
// [MockCommandRunner]. Each call walks Idle → Spawned → WritingInput →
// AwaitingExit → Succeeded or Failed, and the pipes are closed and the
// process reaped on every path.
//
// # Errors
//
//   - [*SpawnError]: the program could not be started or waited for.
//     errors.Is(err, [ErrProgramNotFound]) reports a missing binary.
//   - [*ProcessFailedError]: nft exited non-zero. Stderr holds its
//     diagnostics verbatim.
//   - [*OutputEncodingError]: list output was not UTF-8.
//   - [*schema.DecodeError]: list output did not match the JSON grammar.
//
// Nothing is retried and no timeout is applied beyond the caller's context.
// nft itself applies a document all-or-nothing.
package nft
