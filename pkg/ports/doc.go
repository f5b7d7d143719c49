/*
Package ports defines the driven ports (interfaces) of the Quill pipeline.

The core never talks to a renderer, a clock or an input device directly. Hosts
(a terminal, a websocket preview, a test) provide these capabilities.

# Key Interfaces

  - TextField: Lays text out into per-character quads and commits edited buffers.
  - TimeSource: The current animation time, sampled per tween application.
  - FrameTicker: Resolves once per rendering frame; the only driver of playback.
  - Timer: Waits for a duration or until cancelled.
  - InputSource: Delivers one notification per skip/confirm user action.
  - PresetStore: Caches compiled segments by key.
  - ScriptLoader: Loads stored dialogue scripts.
*/
package ports
