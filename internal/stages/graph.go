package stages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
	"github.com/aretw0/quill/pkg/sequencer"
)

const (
	IDInitial   sequencer.StageID = "initial"
	IDPrint     sequencer.StageID = "print"
	IDSkip      sequencer.StageID = "skip"
	IDFetch     sequencer.StageID = "fetch"
	IDFetchNow  sequencer.StageID = "fetch_now"
	IDDelay     sequencer.StageID = "delay"
	IDAutoPrint sequencer.StageID = "auto_print"
	IDSetup     sequencer.StageID = "setup"
)

// Deps are the collaborators shared by every stage of a flow.
type Deps struct {
	Screen Screen
	Timer  ports.Timer
	Input  ports.InputSource
}

// Options tune flow timing.
type Options struct {
	// SymbolDelay is the pause between two revealed characters.
	SymbolDelay time.Duration
	// MessageDelay is the pause after a fully revealed message.
	MessageDelay time.Duration
	// ConfirmOnSkip shows the whole message after a skip and waits for a
	// confirmation before fetching the next one.
	ConfirmOnSkip bool
}

// ErrMissingDeps is returned by graph builders given incomplete Deps.
var ErrMissingDeps = errors.New("missing stage dependencies")

// NewDialogueGraph wires the interactive dialogue flow. Start it at IDInitial.
func NewDialogueGraph(deps Deps, opts Options) (*sequencer.Graph, error) {
	if deps.Screen == nil || deps.Timer == nil || deps.Input == nil {
		return nil, fmt.Errorf("%w: dialogue needs screen, timer and input", ErrMissingDeps)
	}
	g := sequencer.NewGraph()

	toPrint := g.Link(IDInitial, IDPrint, "")
	toFetch := g.Link(IDPrint, IDFetch, "finished")
	var onSkip, toFetchNow sequencer.Resolver
	if opts.ConfirmOnSkip {
		onSkip = g.Link(IDPrint, IDSkip, "skipped")
		toFetchNow = g.Link(IDSkip, IDFetchNow, "confirmed")
	} else {
		onSkip = g.Link(IDPrint, IDFetchNow, "skipped")
	}
	toDelay := g.Link(IDFetch, IDDelay, "")
	toReprint := g.Link(IDDelay, IDPrint, "")
	toNext := g.Link(IDFetchNow, IDPrint, "")

	err := errors.Join(
		g.Register(IDInitial, func(msg domain.Message) sequencer.Stage {
			return &Initial{Msg: msg, Then: toPrint}
		}),
		g.Register(IDPrint, func(msg domain.Message) sequencer.Stage {
			return &Print{
				Msg:      msg,
				Screen:   deps.Screen,
				Timer:    deps.Timer,
				Input:    deps.Input,
				Delay:    opts.SymbolDelay,
				Finished: toFetch,
				Skipped:  onSkip,
			}
		}),
		// A naturally finished message pauses before the next one is printed.
		g.Register(IDFetch, func(msg domain.Message) sequencer.Stage {
			return &Fetch{Msg: msg, Then: toDelay}
		}),
		g.Register(IDDelay, func(msg domain.Message) sequencer.Stage {
			return &Delay{Msg: msg, Timer: deps.Timer, Duration: opts.MessageDelay, Then: toReprint}
		}),
		g.Register(IDFetchNow, func(msg domain.Message) sequencer.Stage {
			return &Fetch{Msg: msg, Then: toNext}
		}),
	)
	if err == nil && opts.ConfirmOnSkip {
		err = g.Register(IDSkip, func(msg domain.Message) sequencer.Stage {
			return &Skip{Msg: msg, Screen: deps.Screen, Input: deps.Input, Then: toFetchNow}
		})
	}
	if err != nil {
		return nil, err
	}
	return g, g.Validate()
}

// NewAutoGraph wires the time-driven flow. Start it at IDSetup.
func NewAutoGraph(deps Deps, opts Options) (*sequencer.Graph, error) {
	if deps.Screen == nil || deps.Timer == nil {
		return nil, fmt.Errorf("%w: auto needs screen and timer", ErrMissingDeps)
	}
	g := sequencer.NewGraph()

	toAuto := g.Link(IDSetup, IDAutoPrint, "")
	toFetch := g.Link(IDAutoPrint, IDFetch, "")
	toDelay := g.Link(IDFetch, IDDelay, "")
	toAgain := g.Link(IDDelay, IDAutoPrint, "")

	err := errors.Join(
		g.Register(IDSetup, func(msg domain.Message) sequencer.Stage {
			return &Setup{Msg: msg, Screen: deps.Screen, Then: toAuto}
		}),
		g.Register(IDAutoPrint, func(msg domain.Message) sequencer.Stage {
			return &AutoPrint{Msg: msg, Screen: deps.Screen, Timer: deps.Timer, Delay: opts.SymbolDelay, Then: toFetch}
		}),
		g.Register(IDFetch, func(msg domain.Message) sequencer.Stage {
			return &Fetch{Msg: msg, Then: toDelay}
		}),
		g.Register(IDDelay, func(msg domain.Message) sequencer.Stage {
			return &Delay{Msg: msg, Timer: deps.Timer, Duration: opts.MessageDelay, Then: toAgain}
		}),
	)
	if err != nil {
		return nil, err
	}
	return g, g.Validate()
}

// Dialogue returns the initial stage of a dialogue flow over msg.
func Dialogue(deps Deps, opts Options, msg domain.Message) (sequencer.Stage, error) {
	g, err := NewDialogueGraph(deps, opts)
	if err != nil {
		return nil, err
	}
	return g.Start(IDInitial, msg), nil
}

// Auto returns the initial stage of an auto flow over msg.
func Auto(deps Deps, opts Options, msg domain.Message) (sequencer.Stage, error) {
	g, err := NewAutoGraph(deps, opts)
	if err != nil {
		return nil, err
	}
	return g.Start(IDSetup, msg), nil
}

// Layout builds the graph of mode for inspection and returns its start stage.
// The graph has no screen, timer or input; its stages must not be run.
func Layout(mode domain.Mode, opts Options) (*sequencer.Graph, sequencer.StageID, error) {
	deps := Deps{Screen: ScreenFunc(func(context.Context, domain.Preset) error { return nil }), Timer: inert{}, Input: inert{}}
	switch mode {
	case domain.ModeDialogue, "":
		g, err := NewDialogueGraph(deps, opts)
		return g, IDInitial, err
	case domain.ModeAuto:
		g, err := NewAutoGraph(deps, opts)
		return g, IDSetup, err
	}
	return nil, "", fmt.Errorf("%w: %q has no stage graph", domain.ErrUnknownMode, mode)
}

type inert struct{}

func (inert) Wait(ctx context.Context, _ time.Duration) error { return ctx.Err() }
func (inert) Subscribe(func()) func()                        { return func() {} }
