package sequencer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/quill/pkg/domain"
)

// ErrDuplicateStage is returned when an id is registered twice.
var ErrDuplicateStage = errors.New("duplicate stage id")

// StageID names a stage factory in a Graph.
type StageID string

// Factory builds a stage positioned on msg.
type Factory func(msg domain.Message) Stage

// Resolver produces the stage registered under an id, looked up on call.
type Resolver func(msg domain.Message) Stage

// Edge is a transition declared with Link.
type Edge struct {
	From, To StageID
	Label    string
}

// Graph is an arena of stage factories keyed by StageID.
// Register everything first, then Validate; the graph is read-only afterwards.
type Graph struct {
	mu         sync.RWMutex
	factories  map[StageID]Factory
	referenced map[StageID]struct{}
	edges      []Edge
}

func NewGraph() *Graph {
	return &Graph{
		factories:  make(map[StageID]Factory),
		referenced: make(map[StageID]struct{}),
	}
}

// Register adds a factory under id.
func (g *Graph) Register(id StageID, f Factory) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.factories[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStage, id)
	}
	g.factories[id] = f
	return nil
}

// Resolver returns a lazy reference to id. The id need not be registered yet.
func (g *Graph) Resolver(id StageID) Resolver {
	g.mu.Lock()
	g.referenced[id] = struct{}{}
	g.mu.Unlock()

	return func(msg domain.Message) Stage {
		g.mu.RLock()
		f, ok := g.factories[id]
		g.mu.RUnlock()
		if !ok {
			return missing(id)
		}
		return f(msg)
	}
}

// Link is Resolver for a transition out of from. The edge is recorded for
// Edges; it does not restrict which stages from may actually reach.
func (g *Graph) Link(from, to StageID, label string) Resolver {
	g.mu.Lock()
	g.edges = append(g.edges, Edge{From: from, To: to, Label: label})
	g.mu.Unlock()
	return g.Resolver(to)
}

// Edges returns the linked transitions in declaration order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.edges)
}

// Start returns the stage id positioned on msg.
func (g *Graph) Start(id StageID, msg domain.Message) Stage {
	return g.Resolver(id)(msg)
}

// Has reports whether id is registered.
func (g *Graph) Has(id StageID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.factories[id]
	return ok
}

// IDs returns registered ids in sorted order.
func (g *Graph) IDs() []StageID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Sorted(maps.Keys(g.factories))
}

// Validate reports every referenced id that has no factory.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dangling []string
	for id := range g.referenced {
		if _, ok := g.factories[id]; !ok {
			dangling = append(dangling, string(id))
		}
	}
	if len(dangling) == 0 {
		return nil
	}
	slices.Sort(dangling)
	return fmt.Errorf("%w: unresolved stages %s", ErrMalformedGraph, strings.Join(dangling, ", "))
}

type missingStage struct{ id StageID }

func missing(id StageID) Stage { return missingStage{id: id} }

func (m missingStage) Name() string { return "missing:" + string(m.id) }

func (m missingStage) Process(context.Context) Transition {
	return Fail(fmt.Errorf("%w: no stage registered as %q", ErrMalformedGraph, m.id))
}
