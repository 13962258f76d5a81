package agent

import (
	"cmp"
	"math"
	"time"

	"archon/experiments/metrics"
	"archon/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

type Option func(p *Player)

// WithRand injects the random source used to pick among ranked candidates.
func WithRand(r *rand.Rand) Option {
	return func(p *Player) {
		if r != nil {
			p.rng = r
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(p *Player) {
		p.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(p *Player) {
		p.metrics = metrics.NewCollector()
	}
}

// Player is the single-ply heuristic AI. It is not safe for concurrent use;
// run it behind a Worker to evaluate off the caller's goroutine.
type Player struct {
	difficulty Difficulty
	rng        *rand.Rand
	metrics    metrics.Collector
}

func NewPlayer(difficulty Difficulty, options ...Option) *Player {
	difficulty.Factor() // Panics on unknown difficulties

	p := &Player{ // Default values
		difficulty: difficulty,
		rng:        rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *Player) Difficulty() Difficulty {
	return p.difficulty
}

// Candidate is a scored move.
type Candidate struct {
	Move   game.Move
	Score  float64
	Engage bool
}

// Candidates scores every free and engageable destination of every unmoved
// piece of the active side, best first. Equal scores keep generation order.
// A pending combat leaves nothing to choose.
func Candidates(gs game.GameState) []Candidate {
	if gs.InCombat() {
		return nil
	}

	var candidates []Candidate
	for _, piece := range gs.Units {
		if piece.Side != gs.Active || piece.HasMoved {
			continue
		}
		free, engageable := game.Partition(piece, gs.Units)
		for _, to := range free {
			candidates = append(candidates, candidate(gs, piece, to, false))
		}
		for _, to := range engageable {
			candidates = append(candidates, candidate(gs, piece, to, true))
		}
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return candidates
}

func candidate(gs game.GameState, piece game.Piece, to game.Position, engage bool) Candidate {
	return Candidate{
		Move:   game.Move{From: piece.Position, To: to, Piece: piece},
		Score:  Score(gs, piece, to),
		Engage: engage,
	}
}

// SelectIndex maps a uniform draw r in [0, 1) to a position in a ranked list
// of n candidates. Lower factors spread picks further from the top.
func SelectIndex(r float64, n int, factor float64) int {
	i := int(math.Floor(r * float64(n) * factor))
	if i > n-1 {
		i = n - 1
	}
	return i
}

// CalculateBestMove picks a move for the active side of gs. It returns false
// when no candidate exists. gs is not modified.
func (p *Player) CalculateBestMove(gs game.GameState) (game.Move, bool) {
	move, ok, _ := p.FindMove(gs)
	return move, ok
}

func (p *Player) FindMove(gs game.GameState) (game.Move, bool, metrics.EvaluationMetric) {
	p.metrics.Start(p.difficulty.String())

	candidates := Candidates(gs)
	for range candidates {
		p.metrics.AddCandidate()
	}
	if len(candidates) == 0 {
		log.Debug().Msgf("%s has no candidate moves", gs.Active)
		return game.Move{}, false, p.metrics.Complete()
	}

	index := SelectIndex(p.rng.Float64(), len(candidates), p.difficulty.Factor())
	chosen := candidates[index]
	p.metrics.Select(index, candidates[0].Score, chosen.Score)

	log.Debug().Msgf("%s %s picks %s->%s (rank %d of %d, score %.1f)",
		p.difficulty, gs.Active, chosen.Move.From, chosen.Move.To, index+1, len(candidates), chosen.Score)

	return chosen.Move, true, p.metrics.Complete()
}
