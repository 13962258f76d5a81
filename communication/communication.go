package communication

import (
	"encoding/json"
	"errors"
	"fmt"

	"archon/experiments/metrics"
	"archon/game"
)

var ErrMalformed = errors.New("malformed message")

// Request asks an evaluator for a move in the enclosed state snapshot.
type Request struct {
	State json.RawMessage `json:"state"`
}

// Response carries the evaluator's answer. Move is nil when no candidate
// exists; Error is set when the request could not be served.
type Response struct {
	Move   *game.Move               `json:"move,omitempty"`
	Metric metrics.EvaluationMetric `json:"metric"`
	Error  string                   `json:"error,omitempty"`
}

// EncodeState serialises a state snapshot in the wire format.
func EncodeState(gs game.GameState) ([]byte, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses a state snapshot. Only the encoding is checked here;
// use game.ValidateState for the rules.
func DecodeState(data []byte) (game.GameState, error) {
	var gs game.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return game.GameState{}, fmt.Errorf("%w: state: %v", ErrMalformed, err)
	}
	return gs, nil
}

func EncodeMove(m game.Move) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode move: %w", err)
	}
	return data, nil
}

func DecodeMove(data []byte) (game.Move, error) {
	var m game.Move
	if err := json.Unmarshal(data, &m); err != nil {
		return game.Move{}, fmt.Errorf("%w: move: %v", ErrMalformed, err)
	}
	return m, nil
}

// EncodeAction and DecodeAction carry single player actions for the pure
// contract layer.
func EncodeAction(a game.GameAction) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode action: %w", err)
	}
	return data, nil
}

func DecodeAction(data []byte) (game.GameAction, error) {
	var a game.GameAction
	if err := json.Unmarshal(data, &a); err != nil {
		return game.GameAction{}, fmt.Errorf("%w: action: %v", ErrMalformed, err)
	}
	return a, nil
}

func EncodeRequest(gs game.GameState) ([]byte, error) {
	state, err := EncodeState(gs)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Request{State: state})
}

func DecodeRequest(data []byte) (game.GameState, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return game.GameState{}, fmt.Errorf("%w: request: %v", ErrMalformed, err)
	}
	if len(req.State) == 0 {
		return game.GameState{}, fmt.Errorf("%w: request without state", ErrMalformed)
	}
	return DecodeState(req.State)
}

func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return data, nil
}

func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("%w: response: %v", ErrMalformed, err)
	}
	return resp, nil
}
