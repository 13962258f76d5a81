package engine

import (
	"fmt"
	"time"

	"archon/agent"
	"archon/events"
	"archon/experiments/metrics"
	"archon/game"
	"archon/meta"

	"github.com/rs/zerolog/log"
)

type MatchOption func(m *Match)

func WithMaxTurns(turns int) MatchOption {
	return func(m *Match) {
		if turns > 0 {
			m.maxTurns = turns
		}
	}
}

// WithEngineOptions configures the engine the match is played on. Matches
// start from the front line opening unless WithState says otherwise.
func WithEngineOptions(options ...Option) MatchOption {
	return func(m *Match) {
		m.engineOptions = append(m.engineOptions, options...)
	}
}

// WithEvents publishes engine events and the final result on bus.
func WithEvents(p events.Publisher) MatchOption {
	return func(m *Match) {
		m.publisher = p
		m.engineOptions = append(m.engineOptions, WithPublisher(p))
	}
}

// Match plays two agents against each other on a local engine.
type Match struct {
	engine        *Engine
	engineOptions []Option
	agents        map[game.Side]agent.Agent
	maxTurns      int
	publisher     events.Publisher
}

func NewLocalMatch(light, dark agent.Agent, options ...MatchOption) *Match {
	if light == nil || dark == nil {
		panic("need an agent for each side")
	}

	m := &Match{
		agents:   map[game.Side]agent.Agent{game.Light: light, game.Dark: dark},
		maxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(m)
	}
	m.engine = New(append([]Option{WithState(game.NewFrontLineState(0))}, m.engineOptions...)...)
	return m
}

func (m *Match) Engine() *Engine {
	return m.engine
}

// Run plays until a side wins or the turn limit is reached. Win conditions
// are checked after every state change.
func (m *Match) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		ID:             m.engine.ID(),
		StartingPlayer: m.engine.state.Active.String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("match %s: %s is starting", gameMetric.ID, gameMetric.StartingPlayer)

	winner := ""
	for step := 1; m.engine.state.Turn <= m.maxTurns; step++ {
		gs := m.engine.State()
		move, ok, evaluation := m.agents[gs.Active].FindMove(gs)

		action := m.play(gs, move, ok)
		if action == game.AttackAction {
			gameMetric.Combats++
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:             step,
			Player:           gs.Active.String(),
			Action:           string(action),
			EvaluationMetric: evaluation,
		})

		if side, won := m.engine.CheckWinCondition(); won {
			winner = side.String()
			break
		}
	}

	if winner != "" {
		log.Info().Msgf("match %s ended with winner %s on turn %d", gameMetric.ID, winner, m.engine.state.Turn)
	} else {
		log.Info().Msgf("match %s stopped after %d turns without a winner", gameMetric.ID, m.maxTurns)
	}

	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Turns = m.engine.state.Turn
	final := m.engine.State()
	final.Active = game.Light
	gameMetric.Material = game.EvaluateMaterial(final)

	if m.publisher != nil {
		err := m.publisher.Publish(events.TopicGameOver, gameMetric.ID, events.GameOver{
			MatchID: gameMetric.ID,
			Winner:  winner,
			Turns:   gameMetric.Turns,
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to publish game over")
		}
	}

	return winner, gameMetric, moveMetrics
}

// play applies the agent's choice. Engagements are resolved at once; a side
// without a legal choice passes.
func (m *Match) play(gs game.GameState, move game.Move, ok bool) game.ActionType {
	if !ok {
		m.engine.Pass()
		return game.EndTurnAction
	}

	if game.UnitAt(gs.Units, move.To) >= 0 {
		if m.engine.Attack(move) {
			if _, err := m.engine.ResolveCombatAutoresolve(); err != nil {
				panic(fmt.Sprintf("combat vanished after engagement: %v", err))
			}
			return game.AttackAction
		}
	} else if m.engine.MakeMove(move) {
		return game.MoveAction
	}

	log.Warn().Msgf("%s proposed an illegal move %s->%s, passing", gs.Active, move.From, move.To)
	m.engine.Pass()
	return game.EndTurnAction
}
