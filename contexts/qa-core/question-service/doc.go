// Package questionservice implements question and answer management inside
// the qa-core context.
//
// The module owns the question lifecycle: atomic creation of a question with
// its ordered answers, reads with nested answers, and production of
// question.created events through the outbox so notification delivery never
// blocks or fails a write.
package questionservice
