package engine

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

// Settings is the read-only tuning shared by every component.
type Settings struct {
	MinMatch         int // shortest run that counts as a match
	BoardSize        int // upper board edge; the lower board is one larger
	BackpackCapacity int // number of backpack slots
	ItemTypes        int // how many normal types a fill draws from
	MaxCascadePasses int // safety cap on resolution passes
}

// DefaultSettings returns the standard tuning.
func DefaultSettings() Settings {
	return Settings{
		MinMatch:         3,
		BoardSize:        6,
		BackpackCapacity: 5,
		ItemTypes:        5,
		MaxCascadePasses: 64,
	}
}

// Validate checks that a table can be built from the settings.
func (s Settings) Validate() error {
	if s.MinMatch < 3 {
		return fmt.Errorf("engine: min match %d is below 3", s.MinMatch)
	}
	if s.BoardSize < 3 || s.BoardSize%3 != 0 {
		return fmt.Errorf("engine: board size %d must be a positive multiple of 3", s.BoardSize)
	}
	if s.BackpackCapacity < tripleSize {
		return fmt.Errorf("engine: backpack capacity %d is below %d", s.BackpackCapacity, tripleSize)
	}
	if s.ItemTypes < 1 || s.ItemTypes > MaxItemTypes {
		return fmt.Errorf("engine: item types %d out of range 1..%d", s.ItemTypes, MaxItemTypes)
	}
	if s.MaxCascadePasses < 1 {
		return fmt.Errorf("engine: max cascade passes must be positive")
	}
	return nil
}

// Types returns the normal types a fill may use.
func (s Settings) Types() []NormalType {
	n := min(max(s.ItemTypes, 1), MaxItemTypes)
	return AllTypes[:n]
}

// Rand is the random source used for fills and shuffles.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
}

func pick[T any](r Rand, from []T) T {
	return from[r.IntN(len(from))]
}

// ItemView is the presentation handle of one item. Calls are signals;
// the engine never waits on them.
type ItemView interface {
	SetPosition(pos Vec2)
	PlayAppearEffect()
	PlayExplodeEffect()
	PlayScaleToZero()
}

// Presenter creates item views and shows cell dimming.
type Presenter interface {
	NewItemView(it *Item) ItemView
	SetCellDimmed(c *Cell, dimmed bool)
}

// NopPresenter ignores every signal.
type NopPresenter struct{}

func (NopPresenter) NewItemView(*Item) ItemView { return nopView{} }
func (NopPresenter) SetCellDimmed(*Cell, bool)  {}

type nopView struct{}

func (nopView) SetPosition(Vec2)   {}
func (nopView) PlayAppearEffect()  {}
func (nopView) PlayExplodeEffect() {}
func (nopView) PlayScaleToZero()   {}

// Services bundles the collaborators every component needs. Build one per
// game and pass it to the constructors.
type Services struct {
	Settings  Settings
	Rand      Rand
	Log       *log.Logger
	Events    EventSink
	Presenter Presenter
}

// NewServices validates the settings and fills unset collaborators with
// silent defaults. Callers may replace Log, Events and Presenter afterwards.
func NewServices(settings Settings, rng Rand) (*Services, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("engine: nil random source")
	}
	return &Services{
		Settings:  settings,
		Rand:      rng,
		Log:       log.New(io.Discard),
		Events:    Discard,
		Presenter: NopPresenter{},
	}, nil
}

func (s *Services) emit(e Event) {
	if s.Events != nil {
		s.Events.Emit(e)
	}
}
