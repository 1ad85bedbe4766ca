// Package harness runs YAML-defined patch scenarios as conformance
// tests. A scenario either applies a patch to a document and asserts
// the result (or the failure code), or diffs two documents and
// asserts the round-trip invariant, with the serialized patch pinned
// by a golden file.
//
// Scenario files live in testdata/scenarios; golden patches live in
// testdata/golden and are regenerated with:
//
//	go test ./internal/harness -update
package harness
