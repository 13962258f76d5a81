package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"archon/communication"
	"archon/experiments/metrics"
	"archon/game"

	"github.com/rs/zerolog/log"
)

var ErrWorkerClosed = errors.New("worker closed")

type request struct {
	payload []byte
	reply   chan []byte
}

// Worker runs a Player on its own goroutine. State goes in and moves come
// out as encoded snapshots, so the worker never shares memory with its
// caller. Evaluations already started are never interrupted.
type Worker struct {
	requests  chan request
	done      chan struct{}
	closeOnce sync.Once
}

func NewWorker(player *Player) *Worker {
	w := &Worker{
		requests: make(chan request),
		done:     make(chan struct{}),
	}
	go w.loop(player)
	return w
}

func (w *Worker) loop(player *Player) {
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			req.reply <- serve(player, req.payload)
		}
	}
}

func serve(player *Player, payload []byte) []byte {
	var resp communication.Response

	state, err := communication.DecodeRequest(payload)
	if err != nil {
		resp.Error = err.Error()
	} else {
		move, ok, metric := player.FindMove(state)
		if ok {
			resp.Move = &move
		}
		resp.Metric = metric
	}

	data, err := communication.EncodeResponse(resp)
	if err != nil {
		data, _ = communication.EncodeResponse(communication.Response{Error: err.Error()})
	}
	return data
}

// Evaluate asks the worker for a move in gs and blocks until the reply or
// until ctx is done. A reply that arrives after ctx is done is dropped.
func (w *Worker) Evaluate(ctx context.Context, gs game.GameState) (game.Move, bool, metrics.EvaluationMetric, error) {
	select {
	case <-w.done:
		return game.Move{}, false, metrics.EvaluationMetric{}, ErrWorkerClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return game.Move{}, false, metrics.EvaluationMetric{}, err
	}

	payload, err := communication.EncodeRequest(gs)
	if err != nil {
		return game.Move{}, false, metrics.EvaluationMetric{}, err
	}

	reply := make(chan []byte, 1)
	select {
	case w.requests <- request{payload: payload, reply: reply}:
	case <-w.done:
		return game.Move{}, false, metrics.EvaluationMetric{}, ErrWorkerClosed
	case <-ctx.Done():
		return game.Move{}, false, metrics.EvaluationMetric{}, ctx.Err()
	}

	var data []byte
	select {
	case data = <-reply:
	case <-ctx.Done():
		return game.Move{}, false, metrics.EvaluationMetric{}, ctx.Err()
	}

	resp, err := communication.DecodeResponse(data)
	if err != nil {
		return game.Move{}, false, metrics.EvaluationMetric{}, err
	}
	if resp.Error != "" {
		return game.Move{}, false, resp.Metric, fmt.Errorf("evaluation failed: %s", resp.Error)
	}
	if resp.Move == nil {
		return game.Move{}, false, resp.Metric, nil
	}
	return *resp.Move, true, resp.Metric, nil
}

// FindMove implements Agent. Worker failures are logged and reported as no
// move.
func (w *Worker) FindMove(gs game.GameState) (game.Move, bool, metrics.EvaluationMetric) {
	move, ok, metric, err := w.Evaluate(context.Background(), gs)
	if err != nil {
		log.Warn().Err(err).Msg("worker evaluation failed")
		return game.Move{}, false, metric
	}
	return move, ok, metric
}

// Close stops the worker. Pending Evaluate calls return ErrWorkerClosed.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
}
