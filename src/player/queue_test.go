package player

import (
	"fmt"
	"math"
	"sort"
	"testing"
)

func testIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("track-%d", i)
	}
	return ids
}

func TestQueueRegenerate(t *testing.T) {
	ids := testIDs(8)
	queue := NewQueue()
	queue.Regenerate(ids)

	got := queue.IDs()
	if len(got) != len(ids) {
		t.Fatalf("Unexpected length: %v", len(got))
	}
	sorted := append([]string{}, got...)
	sort.Strings(sorted)
	for i, id := range ids {
		if sorted[i] != id {
			t.Fatalf("The queue is not a permutation of the input: %v", got)
		}
	}
}

func TestQueueShuffleUniformity(t *testing.T) {
	ids := testIDs(6)
	const trials = 6000

	counts := make(map[string][]int, len(ids))
	for _, id := range ids {
		counts[id] = make([]int, len(ids))
	}
	for i := 0; i < trials; i++ {
		q := NewQueue()
		q.Regenerate(ids)
		for pos, id := range q.IDs() {
			counts[id][pos]++
		}
	}

	// Every ID should land in every position about trials/len(ids) times. The
	// tolerance is roughly 7 standard deviations wide, far outside what a fair
	// shuffle can produce by chance, while systematic position biases such as
	// an element that can never stay in place blow way past it.
	expected := float64(trials) / float64(len(ids))
	const tolerance = 200
	for _, id := range ids {
		for pos, n := range counts[id] {
			if math.Abs(float64(n)-expected) > tolerance {
				t.Errorf("%v landed in position %v %v times, expected about %.0f", id, pos, n, expected)
			}
		}
	}
}

func TestQueueRegenerateKeepsCursor(t *testing.T) {
	queue := NewQueue()
	queue.Regenerate(testIDs(4))
	queue.Advance(1)
	queue.Advance(1)
	if queue.Index() != 2 {
		t.Fatalf("Unexpected index: %v", queue.Index())
	}

	queue.Regenerate(testIDs(4))
	if queue.Index() != 2 {
		t.Fatalf("An in-bounds cursor should be kept: %v", queue.Index())
	}

	queue.Regenerate(testIDs(2))
	if queue.Index() != 0 {
		t.Fatalf("An out-of-bounds cursor should reset: %v", queue.Index())
	}
}

func TestQueueAdvance(t *testing.T) {
	queue := NewQueue()
	if _, ok := queue.Advance(1); ok {
		t.Fatalf("Advancing an empty queue should report false")
	}

	queue.Regenerate(testIDs(3))
	order := queue.IDs()

	id, ok := queue.Advance(1)
	if !ok || id != order[1] {
		t.Fatalf("Unexpected track: %v", id)
	}
	queue.Advance(1)
	// Forward from the last position wraps to the first.
	if id, _ := queue.Advance(1); id != order[0] {
		t.Fatalf("Unexpected track after wrap: %v", id)
	}
	// Backward from the first position wraps to the last.
	if id, _ := queue.Advance(-1); id != order[2] {
		t.Fatalf("Unexpected track after backward wrap: %v", id)
	}
	if id, _ := queue.Advance(-1); id != order[1] {
		t.Fatalf("Unexpected track: %v", id)
	}
}

func TestQueueJumpTo(t *testing.T) {
	queue := NewQueue()
	queue.Regenerate(testIDs(4))
	order := queue.IDs()

	if !queue.JumpTo(order[2]) {
		t.Fatalf("Jumping to a queued track should report true")
	}
	if id, _ := queue.Current(); id != order[2] {
		t.Fatalf("Unexpected track: %v", id)
	}
	if queue.JumpTo("nope") {
		t.Fatalf("Jumping to an unknown track should report false")
	}
	if id, _ := queue.Current(); id != order[2] {
		t.Fatalf("A failed jump should not move the cursor: %v", id)
	}
}

func TestQueueExclude(t *testing.T) {
	queue := NewQueue()
	queue.Regenerate(testIDs(4))
	order := queue.IDs()
	queue.JumpTo(order[2])

	// Removing a track before the cursor shifts the cursor along with its
	// track.
	queue.Exclude(order[0])
	if id, _ := queue.Current(); id != order[2] {
		t.Fatalf("The cursor should stay on its track: %v", id)
	}
	if queue.Len() != 3 {
		t.Fatalf("Unexpected length: %v", queue.Len())
	}

	// Removing a track after the cursor leaves it alone.
	queue.Exclude(order[3])
	if id, _ := queue.Current(); id != order[2] {
		t.Fatalf("The cursor should stay on its track: %v", id)
	}

	// Removing the last track while the cursor points at it clamps the cursor
	// back to the start.
	queue.Exclude(order[2])
	if id, _ := queue.Current(); id != order[1] {
		t.Fatalf("Unexpected track: %v", id)
	}

	queue.Exclude("nope")
	if queue.Len() != 1 {
		t.Fatalf("Excluding an unknown track should be a no-op")
	}
}
