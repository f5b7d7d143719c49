/*
Package effect defines the closed set of per-character animation effects and
the registry that maps tag names to effect prototypes.

# Variants

  - Wobble: circular drift driven by time and the glyph's horizontal position.
  - Wave: vertical sine wave travelling along the line.
  - Shake: deterministic jitter that changes a few times per second.
  - Trigger: a marker effect with a zero offset, used by stages that react to tags.

A Registry is built once, either from prototypes or from data via Build, and is
read-only afterwards. Pick always returns a clone, so callers may configure the
returned effect without touching the prototype.
*/
package effect
