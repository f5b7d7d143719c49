// Package reveal implements the single-block presentation: characters pop in
// one by one with a random color, idle in place while the rest appear, and
// dissolve to transparent when the block is retired.
//
// The three phases are lazy streams of per-character operations. A Presenter
// drives them in lock-step and races them against skip input: a skip flushes
// every outstanding operation concurrently instead of abandoning it, so every
// character always ends fully revealed or fully dissolved.
package reveal
