package history

import (
	"strings"
	"sync"

	"docchat/internal/domain"
)

// State is a bounded FIFO log of conversation turns. When the turn count
// exceeds maxTurns the oldest turn is evicted; the newest turn is never
// dropped. Storage eviction and render truncation are independent bounds.
type State struct {
	mu       sync.Mutex
	maxTurns int
	next     int
	turns    []domain.Turn
}

func New(maxTurns int) *State {
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &State{maxTurns: maxTurns}
}

// Record appends a turn, evicting the oldest if the cap is exceeded.
// Ordinals keep counting across evictions.
func (s *State) Record(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, domain.Turn{Question: question, Answer: answer, Ordinal: s.next})
	s.next++
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
}

// Turns returns a copy of the stored turns, oldest first.
func (s *State) Turns() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Turn(nil), s.turns...)
}

// Len returns the number of stored turns.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Render formats stored turns as alternating question/answer pairs within the
// given character budget. Walking backward from the newest turn, whole turns
// are included until the next-older one would exceed the budget; a turn is
// never partially emitted. The included turns are printed oldest first so the
// transcript reads chronologically. An empty state renders to "".
func (s *State) Render(budget int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if budget <= 0 || len(s.turns) == 0 {
		return ""
	}

	var kept []string
	used := 0
	for i := len(s.turns) - 1; i >= 0; i-- {
		block := formatTurn(s.turns[i])
		if used+len(block) > budget {
			break
		}
		used += len(block)
		kept = append(kept, block)
	}

	// kept is newest-first; reverse into chronological order.
	var b strings.Builder
	for i := len(kept) - 1; i >= 0; i-- {
		b.WriteString(kept[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTurn(t domain.Turn) string {
	return "Q: " + t.Question + "\nA: " + t.Answer + "\n"
}
