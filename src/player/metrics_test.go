package player

import "testing"

type countingStore map[string]int

func (s countingStore) CreditPlay(id string) bool {
	s[id]++
	return true
}

func TestMetricsSingleCreditPerListen(t *testing.T) {
	store := countingStore{}
	m := NewMetrics(store)

	m.Observe("a", 50, 100)
	if store["a"] != 0 {
		t.Fatalf("A position below the threshold should not be credited")
	}

	m.Observe("a", 96, 100)
	if store["a"] != 1 {
		t.Fatalf("Unexpected play count: %v", store["a"])
	}
	if !m.Completed("a") {
		t.Fatalf("The listen should be marked completed")
	}

	// Further reports above the threshold are part of the same listen.
	m.Observe("a", 97, 100)
	m.Observe("a", 99, 100)
	if store["a"] != 1 {
		t.Fatalf("Unexpected play count: %v", store["a"])
	}
}

func TestMetricsReplayCreditsAgain(t *testing.T) {
	store := countingStore{}
	m := NewMetrics(store)

	m.Observe("a", 96, 100)
	m.EndListen("a")
	if m.Completed("a") {
		t.Fatalf("Ending the listen should clear the completion mark")
	}

	m.Observe("a", 96, 100)
	if store["a"] != 2 {
		t.Fatalf("Unexpected play count: %v", store["a"])
	}
}

func TestMetricsIgnoresInvalidReports(t *testing.T) {
	store := countingStore{}
	m := NewMetrics(store)

	m.Observe("", 96, 100)
	m.Observe("a", 96, 0)
	m.Observe("a", 95, 100) // Exactly at the threshold does not count.
	if len(store) != 0 {
		t.Fatalf("Unexpected credits: %v", store)
	}
}
