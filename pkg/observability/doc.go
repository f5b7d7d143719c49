/*
Package observability exports Quill pipeline activity as Prometheus metrics.

Metrics is attached to the player, sequencer and reveal presenter through
domain.Hooks, and records flow outcomes reported by callers. Collectors are
registered on a caller-supplied registry so tests and embedders can isolate
them.
*/
package observability
