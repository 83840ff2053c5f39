package player

import (
	"math/rand/v2"
	"sync"
)

// Queue is a shuffled play order over the catalog's track IDs with a cursor
// pointing at the current track.
//
// The queue never holds track data, only IDs; consumers resolve them through
// the catalog. Safe for concurrent use.
type Queue struct {
	lock  sync.RWMutex
	ids   []string
	index int
}

func NewQueue() *Queue {
	return &Queue{}
}

// Regenerate replaces the queue with a fresh unbiased permutation of the
// specified IDs. The cursor is kept if it is still in bounds and reset to the
// start otherwise.
func (q *Queue) Regenerate(ids []string) {
	shuffled := append([]string{}, ids...)
	// Fisher-Yates.
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	q.lock.Lock()
	defer q.lock.Unlock()
	q.ids = shuffled
	if q.index >= len(q.ids) {
		q.index = 0
	}
}

// Exclude removes the specified ID from the queue without reshuffling, so the
// listener's upcoming order is not disturbed. The cursor keeps pointing at
// the same track where possible and is clamped into bounds otherwise.
func (q *Queue) Exclude(id string) {
	q.lock.Lock()
	defer q.lock.Unlock()
	for i, qid := range q.ids {
		if qid != id {
			continue
		}
		q.ids = append(q.ids[:i], q.ids[i+1:]...)
		if i < q.index {
			q.index--
		}
		if q.index >= len(q.ids) {
			q.index = 0
		}
		return
	}
}

// Advance moves the cursor one position in the specified direction, wrapping
// circularly, and returns the track ID at the new position. Advancing an
// empty queue is a no-op.
func (q *Queue) Advance(direction int) (string, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.ids) == 0 {
		return "", false
	}
	if direction >= 0 {
		q.index = (q.index + 1) % len(q.ids)
	} else if q.index > 0 {
		q.index--
	} else {
		q.index = len(q.ids) - 1
	}
	return q.ids[q.index], true
}

// JumpTo points the cursor at the specified ID. If the ID is not queued the
// cursor is left unchanged.
func (q *Queue) JumpTo(id string) bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	for i, qid := range q.ids {
		if qid == id {
			q.index = i
			return true
		}
	}
	return false
}

// Current returns the track ID under the cursor.
func (q *Queue) Current() (string, bool) {
	q.lock.RLock()
	defer q.lock.RUnlock()
	if len(q.ids) == 0 {
		return "", false
	}
	return q.ids[q.index], true
}

// IDs returns a snapshot of the queue in play order.
func (q *Queue) IDs() []string {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return append([]string{}, q.ids...)
}

func (q *Queue) Index() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return q.index
}

func (q *Queue) Len() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return len(q.ids)
}
