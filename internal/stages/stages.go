package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/quill/internal/playback"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
	"github.com/aretw0/quill/pkg/sequencer"
)

// Initial seeds the flow with the first message.
type Initial struct {
	Msg  domain.Message
	Then sequencer.Resolver
}

func (s *Initial) Name() string { return string(IDInitial) }

func (s *Initial) Process(ctx context.Context) sequencer.Transition {
	return sequencer.Next(s.Then(s.Msg))
}

// Print reveals the current part one character at a time. Each character
// races a per-character delay against a skip notification.
type Print struct {
	Msg      domain.Message
	Screen   Screen
	Timer    ports.Timer
	Input    ports.InputSource
	Delay    time.Duration
	Finished sequencer.Resolver
	Skipped  sequencer.Resolver
}

func (s *Print) Name() string { return string(IDPrint) }

func (s *Print) Process(ctx context.Context) sequencer.Transition {
	part := s.Msg.Part()
	skip := playback.WatchSkip(ctx, s.Input)
	defer skip.Stop()

	n := part.Len()
	if n == 0 {
		if err := s.Screen.Show(ctx, part); err != nil {
			return fail(ctx, err)
		}
	}
	for i := 1; i <= n; i++ {
		if skip.Skipped() {
			return sequencer.Next(s.Skipped(s.Msg))
		}
		if err := s.Screen.Show(ctx, part.Prefix(i)); err != nil {
			return fail(ctx, err)
		}
		if i == n {
			break
		}
		if err := s.Timer.Wait(skip.Context(), s.Delay); err != nil {
			if ctx.Err() != nil {
				return sequencer.Cancel()
			}
			if skip.Skipped() {
				return sequencer.Next(s.Skipped(s.Msg))
			}
			return sequencer.Fail(fmt.Errorf("print delay: %w", err))
		}
	}
	return sequencer.Next(s.Finished(s.Msg))
}

// Skip shows the whole part at once and waits for a confirmation.
type Skip struct {
	Msg    domain.Message
	Screen Screen
	Input  ports.InputSource
	Then   sequencer.Resolver
}

func (s *Skip) Name() string { return string(IDSkip) }

func (s *Skip) Process(ctx context.Context) sequencer.Transition {
	confirmed, unsub := nextInput(s.Input)
	defer unsub()

	if err := s.Screen.Show(ctx, s.Msg.Part()); err != nil {
		return fail(ctx, err)
	}
	select {
	case <-ctx.Done():
		return sequencer.Cancel()
	case <-confirmed:
		return sequencer.Next(s.Then(s.Msg))
	}
}

// Fetch advances the cursor, ending the flow when the monologue is exhausted.
type Fetch struct {
	Msg  domain.Message
	Then sequencer.Resolver
}

func (s *Fetch) Name() string { return string(IDFetch) }

func (s *Fetch) Process(ctx context.Context) sequencer.Transition {
	next, ok := s.Msg.Next()
	if !ok {
		return sequencer.End()
	}
	return sequencer.Next(s.Then(next))
}

// Delay waits a fixed duration.
type Delay struct {
	Msg      domain.Message
	Timer    ports.Timer
	Duration time.Duration
	Then     sequencer.Resolver
}

func (s *Delay) Name() string { return string(IDDelay) }

func (s *Delay) Process(ctx context.Context) sequencer.Transition {
	if err := s.Timer.Wait(ctx, s.Duration); err != nil {
		return fail(ctx, err)
	}
	return sequencer.Next(s.Then(s.Msg))
}

// AutoPrint reveals the current part purely on time, with no skip race.
type AutoPrint struct {
	Msg    domain.Message
	Screen Screen
	Timer  ports.Timer
	Delay  time.Duration
	Then   sequencer.Resolver
}

func (s *AutoPrint) Name() string { return string(IDAutoPrint) }

func (s *AutoPrint) Process(ctx context.Context) sequencer.Transition {
	part := s.Msg.Part()
	n := part.Len()
	if n == 0 {
		if err := s.Screen.Show(ctx, part); err != nil {
			return fail(ctx, err)
		}
	}
	for i := 1; i <= n; i++ {
		if err := s.Screen.Show(ctx, part.Prefix(i)); err != nil {
			return fail(ctx, err)
		}
		if i == n {
			break
		}
		if err := s.Timer.Wait(ctx, s.Delay); err != nil {
			return fail(ctx, err)
		}
	}
	return sequencer.Next(s.Then(s.Msg))
}

// Setup clears the screen before an auto flow starts.
type Setup struct {
	Msg    domain.Message
	Screen Screen
	Then   sequencer.Resolver
}

func (s *Setup) Name() string { return string(IDSetup) }

func (s *Setup) Process(ctx context.Context) sequencer.Transition {
	if err := s.Screen.Show(ctx, domain.Preset{}); err != nil {
		return fail(ctx, err)
	}
	return sequencer.Next(s.Then(s.Msg))
}

func fail(ctx context.Context, err error) sequencer.Transition {
	if ctx.Err() != nil {
		return sequencer.Cancel()
	}
	return sequencer.Fail(err)
}
