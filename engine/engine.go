package engine

import (
	"archon/events"
	"archon/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Option func(e *Engine)

// WithState starts the engine from gs instead of the opening position.
func WithState(gs game.GameState) Option {
	return func(e *Engine) {
		e.state = gs.Copy()
	}
}

// WithPublisher announces turn ends and combat results on p.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

func WithID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}

// Engine owns the authoritative game state. It is single threaded: every
// operation either applies its full effect or leaves the state unchanged.
type Engine struct {
	id        string
	state     game.GameState
	publisher events.Publisher
}

func New(options ...Option) *Engine {
	e := &Engine{ // Default values
		id:    uuid.NewString(),
		state: game.NewGameState(0),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Engine) ID() string {
	return e.id
}

// State returns a snapshot that callers may modify freely.
func (e *Engine) State() game.GameState {
	return e.state.Copy()
}

// LegalMoves returns the free cells piece may relocate to.
func (e *Engine) LegalMoves(piece game.Piece) []game.Position {
	return game.FreeCells(piece, e.state.Units)
}

// SelectedPiece returns the piece standing on pos.
func (e *Engine) SelectedPiece(pos game.Position) (game.Piece, bool) {
	i := game.UnitAt(e.state.Units, pos)
	if i < 0 {
		return game.Piece{}, false
	}
	return e.state.Units[i], true
}

// MakeMove relocates the moving piece to a free cell and ends the turn. It
// returns false and changes nothing if the move is not legal.
func (e *Engine) MakeMove(move game.Move) bool {
	action, ok := e.action(game.MoveAction, move)
	if !ok {
		return false
	}

	e.state = game.ApplyAction(e.state, action)
	log.Debug().Msgf("%s moved %s %s->%s", e.state.Active, action.UnitID, move.From, move.To)
	e.endTurn()
	return true
}

// Attack engages the opposing piece on move.To and switches to combat mode.
// It returns false and changes nothing if the engagement is not legal.
func (e *Engine) Attack(move game.Move) bool {
	action, ok := e.action(game.AttackAction, move)
	if !ok {
		return false
	}

	e.state = game.ApplyAction(e.state, action)
	c, _ := e.state.PendingCombat()
	log.Debug().Msgf("%s engaged %s at %s", c.Attacker.ID, c.Defender.ID, move.To)
	return true
}

// Pass ends the active side's turn without acting.
func (e *Engine) Pass() bool {
	if e.state.InCombat() {
		return false
	}
	log.Debug().Msgf("%s passed", e.state.Active)
	e.endTurn()
	return true
}

// ResolveCombatAutoresolve settles the pending engagement and ends the turn.
// Calling it outside combat mode returns game.ErrNoCombat.
func (e *Engine) ResolveCombatAutoresolve() (game.CombatResult, error) {
	turn := e.state.Turn
	next, result, err := game.ResolvePendingCombat(e.state)
	if err != nil {
		return game.CombatResult{}, err
	}
	e.state = next

	log.Debug().Msgf("%s defeated %s dealing %.1f damage", result.Winner.ID, result.Loser.ID, result.DamageDealt)
	e.publish(events.TopicCombatResolved, events.CombatResolved{MatchID: e.id, Turn: turn, Result: result})
	e.announceTurn()
	return result, nil
}

// CheckWinCondition reports the winning side, if any.
func (e *Engine) CheckWinCondition() (game.Side, bool) {
	return e.state.CheckWinner()
}

// action builds the contract action for the live copy of the moving piece
// and validates it against the current state.
func (e *Engine) action(t game.ActionType, move game.Move) (game.GameAction, bool) {
	i := game.UnitByID(e.state.Units, move.Piece.ID)
	if i < 0 {
		return game.GameAction{}, false
	}
	piece := e.state.Units[i]
	action := game.GameAction{
		Type:   t,
		UnitID: piece.ID,
		From:   game.CoordOf(piece.Position),
		To:     game.CoordOf(move.To),
		Cost:   game.Cost{AP: 1},
	}
	if errs := game.ValidateAction(e.state, action); len(errs) > 0 {
		log.Debug().Strs("violations", errs).Msgf("rejected %s by %s", t, piece.ID)
		return game.GameAction{}, false
	}
	return action, true
}

func (e *Engine) endTurn() {
	e.state.AdvanceTurn()
	e.announceTurn()
}

func (e *Engine) announceTurn() {
	log.Debug().Msgf("turn %d: %s to move, cycle step %d", e.state.Turn, e.state.Active, e.state.Cycle.Step)
	e.publish(events.TopicTurnEnded, events.TurnEnded{
		MatchID: e.id,
		Turn:    e.state.Turn,
		Step:    e.state.Cycle.Step,
		Active:  e.state.Active,
	})
}

func (e *Engine) publish(topic string, event any) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(topic, e.id, event); err != nil {
		log.Warn().Err(err).Msgf("failed to publish %s", topic)
	}
}
