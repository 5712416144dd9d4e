// Package registry maps game mode IDs to factories.
// Modes register themselves in init() functions, so the platform can list
// and start them without importing each one by name.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-match3/internal/core"
)

// Game is the interface every game mode implements.
// Games contain pure logic with no Bubble Tea dependency.
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier (e.g., "match3", "match3_cascade").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name (e.g., "Tile Collect").
	Title() string

	// Reset starts a new round. Called once at start and again on restart.
	// The RuntimeConfig carries screen dimensions and the RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State returns score and lifecycle flags.
	State() core.GameState
}

// Describer is implemented by modes that have a one-line blurb for menus.
type Describer interface {
	Description() string
}

// Resizer is implemented by modes that can follow a terminal resize
// without restarting the round.
type Resizer interface {
	Resize(width, height int)
}

// GameInfo contains metadata about a registered mode.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a fresh game instance.
type Factory func() Game

// Registry is a set of named game factories, safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	info      map[string]GameInfo
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		info:      make(map[string]GameInfo),
	}
}

// Register adds a factory. It panics on an empty or duplicate ID.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		panic("registry: empty game id")
	}
	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	// Metadata comes from a throwaway instance.
	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}

	r.factories[id] = f
	r.info[id] = info
}

// List returns all registered modes sorted by ID.
func (r *Registry) List() []GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]GameInfo, 0, len(r.info))
	for _, info := range r.info {
		result = append(result, info)
	}
	slices.SortFunc(result, func(a, b GameInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Create instantiates a mode by ID.
func (r *Registry) Create(id string) (Game, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[id]
	return ok
}

var global = New()

// Register adds a factory to the process-wide registry.
// Typically called from a game's init() function.
func Register(id string, f Factory) { global.Register(id, f) }

// List returns the process-wide registry's modes.
func List() []GameInfo { return global.List() }

// Create instantiates a mode from the process-wide registry.
func Create(id string) (Game, error) { return global.Create(id) }

// Exists reports whether id is in the process-wide registry.
func Exists(id string) bool { return global.Exists(id) }
