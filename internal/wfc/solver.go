package wfc

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/mapgen/internal/logger"
)

var (
	ErrContradiction      = errors.New("wfc: contradiction - no viable tile for cell")
	ErrInitContradiction  = errors.New("wfc: weighting rule contradicts an empty grid")
	ErrBacktrackExhausted = errors.New("wfc: backtracking budget exhausted")
	ErrInvalidConfig      = errors.New("wfc: invalid solver configuration")
)

const (
	// DefaultRadius is the neighborhood radius used when none is configured.
	DefaultRadius = 1

	// DefaultBacktrackRadius is the base half-width of the area cleared on
	// the first contradiction; it doubles on every further attempt.
	DefaultBacktrackRadius = 2

	// DefaultMaxBacktracks bounds how many area resets a solve may spend
	// before giving up.
	DefaultMaxBacktracks = 10
)

// Config describes a solve. Width, Height, TileCount and Weigh are
// required; zero values elsewhere select the defaults above.
type Config struct {
	Width, Height int
	Seed          int64

	// TileCount is the size N of the tile index set, including the
	// reserved sentinel index 0. Weigh must return exactly N weights.
	TileCount int
	Weigh     WeightFunc

	Radius int
	Metric Metric

	BacktrackRadius int

	// MaxBacktracks bounds area resets per solve. Zero selects the
	// default; a negative value forbids backtracking entirely.
	MaxBacktracks int

	// OnCommit, if set, observes every committed cell. It must not
	// influence the solve; it exists for progress reporting.
	OnCommit func(p Position, t Tile, committed, total int)
}

// Solver runs Wave Function Collapse over a tile grid: it evaluates
// per-cell tile probabilities against a caller-supplied weighting rule,
// commits cells in max-entropy-first order with weighted random draws, and
// recovers from contradictions by clearing and re-deriving an area of
// exponentially growing radius around them.
type Solver struct {
	cfg Config

	grid    *TileGrid
	probs   *probabilityField
	entropy *entropyQueue
	rng     *rand.Rand

	committed int
	bombings  int
}

// NewSolver validates the configuration, applies defaults, and returns a
// solver over an empty grid.
func NewSolver(cfg Config) (*Solver, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	if cfg.TileCount < 2 {
		return nil, fmt.Errorf("%w: tile count %d leaves no committable tiles", ErrInvalidConfig, cfg.TileCount)
	}
	if cfg.Weigh == nil {
		return nil, fmt.Errorf("%w: no weighting rule", ErrInvalidConfig)
	}
	if cfg.Radius == 0 {
		cfg.Radius = DefaultRadius
	}
	if cfg.Radius < 0 {
		return nil, fmt.Errorf("%w: negative radius %d", ErrInvalidConfig, cfg.Radius)
	}
	if cfg.BacktrackRadius == 0 {
		cfg.BacktrackRadius = DefaultBacktrackRadius
	}
	if cfg.BacktrackRadius < 0 {
		return nil, fmt.Errorf("%w: negative backtrack radius %d", ErrInvalidConfig, cfg.BacktrackRadius)
	}
	if cfg.MaxBacktracks == 0 {
		cfg.MaxBacktracks = DefaultMaxBacktracks
	}
	if cfg.MaxBacktracks < 0 {
		cfg.MaxBacktracks = 0
	}

	return &Solver{
		cfg:     cfg,
		grid:    NewTileGrid(cfg.Width, cfg.Height),
		probs:   newProbabilityField(cfg.Width, cfg.Height, cfg.TileCount),
		entropy: newEntropyQueue(cfg.Width, cfg.Height),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Bombings reports how many area resets the solve has performed so far.
func (s *Solver) Bombings() int {
	return s.bombings
}

// Solve runs the collapse loop to completion. On success every cell of the
// returned grid is committed. The two fatal conditions are distinguishable
// with errors.Is: ErrInitContradiction for a weighting rule that
// contradicts an unconstrained cell, and ErrBacktrackExhausted when area
// resets ran out of budget.
func (s *Solver) Solve() (*TileGrid, error) {
	bounds := s.grid.Bounds()

	if err := s.initialize(bounds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitContradiction, err)
	}

	for {
		target, _, ok := s.entropy.PopMax()
		if !ok {
			break
		}

		tile, err := s.chooseTile(target)
		if err != nil {
			return nil, err
		}
		s.commit(target, tile)

		// A reset area may not cover every contradicting neighbor, so
		// propagation repeats until the commit's neighborhood is clean.
		for {
			at, err := s.propagate(target)
			if err == nil {
				break
			}
			if !errors.Is(err, ErrContradiction) {
				return nil, err
			}
			if err := s.backtrack(at); err != nil {
				return nil, err
			}
		}
	}

	logger.Debugf("wfc: solved %dx%d grid with %d area resets", s.cfg.Width, s.cfg.Height, s.bombings)
	return s.grid, nil
}

// initialize resets every cell of the region, derives its probability
// vector against the surrounding grid, and seeds the entropy queue. Cells
// outside the region keep their state and stay visible to the weighting
// rule.
func (s *Solver) initialize(region Region) error {
	positions := region.Positions()

	for _, p := range positions {
		if s.grid.Committed(p) {
			s.committed--
		}
		s.grid.clear(p)
		s.probs.reset(p)
	}

	for _, p := range positions {
		if err := s.probs.evaluate(p, s.grid, s.cfg.Weigh, s.cfg.Metric, s.cfg.Radius); err != nil {
			return err
		}
	}

	for _, p := range positions {
		s.entropy.Upsert(p, shannonEntropy(s.probs.at(p)))
	}
	return nil
}

// chooseTile draws a tile for a cell: a uniform roll in [0,1) walks the
// cell's probability vector in increasing index order and the first index
// whose running sum reaches the roll wins. The winner always carries
// strictly positive probability.
func (s *Solver) chooseTile(p Position) (Tile, error) {
	roll := s.rng.Float64()
	ps := s.probs.at(p)

	sum := 0.0
	last := TileNone
	for i, prob := range ps {
		if prob <= 0 {
			continue
		}
		last = TileFromIndex(i)
		sum += prob
		if roll <= sum {
			return last, nil
		}
	}

	// Rounding can leave the running sum a hair short of 1; the highest
	// positive index takes the remainder.
	if last.Valid() {
		return last, nil
	}
	return TileNone, fmt.Errorf("wfc: no drawable tile at (%d,%d)", p.X, p.Y)
}

// commit permanently assigns a tile to a cell and freezes its probability
// vector to one-hot. Committed cells never re-enter probability updates
// unless a backtrack clears them.
func (s *Solver) commit(p Position, t Tile) {
	s.grid.set(p, t)
	s.probs.setOneHot(p, t)
	s.committed++

	if s.cfg.OnCommit != nil {
		s.cfg.OnCommit(p, t, s.committed, s.cfg.Width*s.cfg.Height)
	}
}

// propagate re-derives probabilities and entropies for every uncommitted
// neighbor of a freshly committed cell. The pass always runs to completion
// so no neighbor keeps a vector predating the commit; the first
// contradicting position is reported alongside the error.
func (s *Solver) propagate(target Position) (Position, error) {
	neighborhood := NewNeighborhood(s.grid, target, s.cfg.Metric, s.cfg.Radius)
	var (
		failedAt  Position
		failedErr error
	)
	for _, p := range neighborhood.Positions() {
		if s.grid.Committed(p) {
			continue
		}
		if err := s.probs.evaluate(p, s.grid, s.cfg.Weigh, s.cfg.Metric, s.cfg.Radius); err != nil {
			if failedErr == nil {
				failedAt, failedErr = p, err
			}
			continue
		}
		s.entropy.Upsert(p, shannonEntropy(s.probs.at(p)))
	}
	return failedAt, failedErr
}

// backtrack clears and re-derives a square area around a contradiction. The
// half-width starts at BacktrackRadius and doubles on every attempt,
// including attempts forced by a region that stays contradictory after
// clearing; every attempt is charged against MaxBacktracks.
func (s *Solver) backtrack(at Position) error {
	bounds := s.grid.Bounds()
	for {
		radius := s.cfg.BacktrackRadius << s.bombings
		s.bombings++
		if s.bombings > s.cfg.MaxBacktracks {
			return fmt.Errorf("%w after %d area resets", ErrBacktrackExhausted, s.bombings-1)
		}

		region := RegionAround(at, radius).Intersect(bounds)
		logger.Warningf("wfc: contradiction at (%d,%d), resetting %dx%d area (attempt %d)",
			at.X, at.Y, region.Width(), region.Height(), s.bombings)

		if err := s.initialize(region); err != nil {
			// Still contradictory with the area cleared; widen and retry.
			continue
		}
		return nil
	}
}
