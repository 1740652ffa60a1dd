// Package voteledger implements the vote ledger inside the qa-core context.
//
// The module owns the one-vote-per-question rule: casting a vote either
// inserts a fresh row, updates the caller's existing vote for the same
// question in place, or rejects a duplicate vote for the identical answer.
// Reads expose the votes recorded against a question. Business rules live in
// application/domain layers; infrastructure stays behind ports and adapters.
package voteledger
