package metrics

import (
	"sync/atomic"
	"time"
)

type EvaluationMetric struct {
	Difficulty string
	Duration   time.Duration
	Candidates int
	Selected   int // Index into the sorted candidates, -1 if none
	BestScore  float64
	Score      float64 // Score of the selected candidate
}

type MoveMetric struct {
	Step   int
	Player string // Side name
	Action string // MOVE, ATTACK or END_TURN
	EvaluationMetric
}

type AgentConfig struct {
	ID         int
	Difficulty string
	Seed       uint64
}

type GameMetric struct {
	ID             string // uuid
	StartingPlayer string // Side name
	Winner         string // Side name, empty on a draw by turn limit
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Turns          int
	Combats        int
	Material       float64 // Final material balance from light's view, -1 to 1
}

type Collector interface {
	Start(difficulty string)
	AddCandidate()
	Select(index int, best, score float64)
	Complete() EvaluationMetric
}

type collector struct {
	difficulty string
	startTime  time.Time
	candidates atomic.Int32
	selected   atomic.Int32
	best       float64
	score      float64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(difficulty string) {
	m.startTime = time.Now()
	m.difficulty = difficulty
	m.candidates.Store(0)
	m.selected.Store(-1)
	m.best = 0
	m.score = 0
}

func (m *collector) AddCandidate() {
	m.candidates.Add(1)
}

func (m *collector) Select(index int, best, score float64) {
	m.selected.Store(int32(index))
	m.best = best
	m.score = score
}

func (m *collector) Complete() EvaluationMetric {
	return EvaluationMetric{
		Difficulty: m.difficulty,
		Duration:   time.Since(m.startTime),
		Candidates: int(m.candidates.Load()),
		Selected:   int(m.selected.Load()),
		BestScore:  m.best,
		Score:      m.score,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(difficulty string)               {}
func (m *dummyCollector) AddCandidate()                         {}
func (m *dummyCollector) Select(index int, best, score float64) {}
func (m *dummyCollector) Complete() EvaluationMetric            { return EvaluationMetric{Selected: -1} }
