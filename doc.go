/*
Package quill animates rich text.

Markup such as "Hello <wobble>there</wobble>!" is parsed against a registry
of effects, configured into per-segment effect instances and compiled into a
Preset: the plain text plus one displacement function per character. A
player then moves every visible character of a text field once per frame.

On top of that, scripts (a monologue of parts) are presented in one of four
modes:

  - dialogue: characters are typed out one by one; input skips to the full
    part, and the next part follows after a pause.
  - auto: like dialogue, without input.
  - reveal: characters pop in with a random color, idle in place, and
    dissolve after a timeout or on input.
  - animate: every part is folded into a single preset and played.

# Usage

	eng, err := quill.New("./scripts")
	if err != nil {
		log.Fatal(err)
	}

	preset, err := eng.Compile(ctx, "<wave>hello</wave> world")
	if err != nil {
		log.Fatal(err)
	}

	// Or present a whole script on a terminal, a web preview, or any
	// ports.TextField implementation.
	out := eng.RunScript(ctx, "intro", quill.Surface{...})

Compiled segments can be cached in memory or Redis (WithStore); lifecycle
hooks (WithLifecycleHooks) expose stage, frame and per-character events, for
instance to pkg/observability.
*/
package quill
