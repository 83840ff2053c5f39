package player

// playCreditThreshold is the fraction of a track's duration past which a
// listen counts as a completed play.
const playCreditThreshold = 0.95

// PlayCrediter records a completed play on the single source of truth for
// track data.
type PlayCrediter interface {
	CreditPlay(id string) bool
}

// Metrics credits at most one completed play per listen-through of a track.
//
// Time events fire many times above the completion threshold; the completed
// set ensures only the first crossing counts. Ending a listen clears the mark
// so a future replay is credited again. Not safe for concurrent use by
// itself; the session serializes access.
type Metrics struct {
	store     PlayCrediter
	completed map[string]struct{}
}

func NewMetrics(store PlayCrediter) *Metrics {
	return &Metrics{
		store:     store,
		completed: map[string]struct{}{},
	}
}

// Observe processes a play position report for the current track.
func (m *Metrics) Observe(id string, position, duration float64) {
	if id == "" || duration <= 0 {
		return
	}
	if position <= duration*playCreditThreshold {
		return
	}
	if _, ok := m.completed[id]; ok {
		return
	}
	m.completed[id] = struct{}{}
	m.store.CreditPlay(id)
}

// EndListen marks the listen-through of the specified track as over.
func (m *Metrics) EndListen(id string) {
	delete(m.completed, id)
}

// Completed reports whether the track has been credited during the current
// listen-through.
func (m *Metrics) Completed(id string) bool {
	_, ok := m.completed[id]
	return ok
}
