/*
Package domain contains the core domain models of the Quill animation pipeline.

It defines the values that flow between the parser, the effect compiler, the
playback engine and the stage sequencer. This package is kept pure and free of
external dependencies like I/O, rendering or persistence.

# Key Entities

  - Token: A tag scope plus the plain text it covers, produced by the markup parser.
  - Tween: A pure function mapping a base vertex position (and time) to an offset.
  - Preset: The reduced (plain text, per-character tween) pair ready for playback.
  - Segment: The serialisable form of one animation configuration.
  - Message: An immutable cursor over the parts of a monologue.
  - TextInfo: The per-frame glyph snapshot owned by the text layout provider.
  - Outcome: The terminal result of a flow (succeeded, cancelled or failed).
*/
package domain
