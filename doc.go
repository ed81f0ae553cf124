// Package fiadvisor holds the domain types of the Fi financial advisor: the
// fixed set of record types served by a Fi MCP backend, the Profile that
// aggregates them for one persona, monetary values, and the deterministic
// formulas (EMI, future value, credit classification) the advisor relies on.
//
// The packages below it split the work:
//   - fimcp: the session handshake with the backend and the profile aggregator.
//   - agent: the advisory reasoning engine talking to the language model.
//   - renderer: markdown rendering of snapshots and answers.
//   - api: the HTTP surface.
//   - docs: the user documentation topics.
//   - cmd: the `fia` command line.
package fiadvisor
