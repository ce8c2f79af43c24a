package history

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEvictsOldestBeyondCap(t *testing.T) {
	s := New(3)
	for i := 0; i < 4; i++ {
		s.Record(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "q1", turns[0].Question)
	assert.Equal(t, "q3", turns[2].Question)
	// Ordinals keep counting across evictions.
	assert.Equal(t, 1, turns[0].Ordinal)
	assert.Equal(t, 3, turns[2].Ordinal)
}

func TestRecordNeverDropsNewest(t *testing.T) {
	s := New(1)
	s.Record("first", "a")
	s.Record("second", "b")

	turns := s.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "second", turns[0].Question)
}

func TestRenderEmptyState(t *testing.T) {
	assert.Equal(t, "", New(5).Render(1000))
}

func TestRenderChronologicalOrder(t *testing.T) {
	s := New(5)
	s.Record("first question", "first answer")
	s.Record("second question", "second answer")

	out := s.Render(1000)
	assert.Equal(t, "Q: first question\nA: first answer\nQ: second question\nA: second answer", out)
}

func TestRenderDropsOldestWholeTurns(t *testing.T) {
	s := New(5)
	s.Record("old", "long answer that takes space")
	s.Record("new", "short")

	// Budget fits only the newest turn.
	out := s.Render(len("Q: new\nA: short\n"))
	assert.Equal(t, "Q: new\nA: short", out)
	assert.NotContains(t, out, "old")
}

func TestRenderNeverEmitsPartialTurn(t *testing.T) {
	s := New(5)
	s.Record("question", "answer")

	// Budget too small for the whole turn: nothing is emitted.
	assert.Equal(t, "", s.Render(5))
}

func TestRenderBudgetMonotonic(t *testing.T) {
	s := New(10)
	for i := 0; i < 6; i++ {
		s.Record(fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	prev := len(s.Turns()) + 1
	for budget := 500; budget >= 0; budget -= 25 {
		out := s.Render(budget)
		n := 0
		if out != "" {
			n = strings.Count(out, "Q: ")
		}
		assert.LessOrEqual(t, n, prev, "budget %d included more turns than a larger budget", budget)
		prev = n
	}
}
