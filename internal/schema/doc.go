// Package schema models the nftables JSON ruleset format (libnftables-json)
// and converts it to and from JSON.
//
// # Overview
//
// A [Document] is the value of the top level "nftables" array. Every entry
// is either a [Command] wrapping a [ListObject] (what "nft -j -f" reads) or a
// bare [ListObject] (what "nft -j list" prints):
//
//	{"nftables": [{"add": {"table": {"family": "ip", "name": "t0"}}}]}
//
// # Sum Types
//
// Objects, statements and expressions are closed sets of Go types behind the
// [Object], [ListObject], [Statement] and [Expression] interfaces. Each type
// renders itself as a single-key object named after its JSON kind, so a
// []Statement marshals directly into a rule's "expr" array.
//
// # Optional Fields
//
// Optional fields are pointers, nil interfaces, nil slices or a zero
// [OneOrMany]. They are omitted when unset and decode back to the unset
// state; an explicit zero stays an explicit zero.
//
// Fields nft writes either as a string or as an array of strings use
// [OneOrMany], which remembers the form it was decoded from. Statements
// without arguments (verdicts, notrack, and empty counter, log, reject and
// NAT statements) always render with a null body.
//
// # Errors
//
// [Decode] reports the first mismatch as a [*DecodeError] whose [Path]
// points at the offending value, e.g. nftables[0].add.rule.expr[1].counter.packets.
// Unknown keys are errors unless [DecodeOptions.AllowUnknownFields] is set.
package schema
