package orchestration

import (
	"sync"
	"testing"
)

func TestStoreNotifiesInDispatchOrder(t *testing.T) {
	t.Parallel()
	s := NewStore()
	var phases []Phase
	unsubscribe := s.Subscribe(func(st JobState) { phases = append(phases, st.Phase) })

	s.Dispatch(JobStartedMsg{Generation: 1})
	s.Dispatch(JobSucceededMsg{Generation: 1})
	unsubscribe()
	unsubscribe()
	s.Dispatch(JobStartedMsg{Generation: 2})

	want := []Phase{PhaseLoading, PhaseSucceeded}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phases[%d] = %v, want %v", i, phases[i], want[i])
		}
	}
	if got := s.Snapshot(); got.Generation != 2 || got.Phase != PhaseLoading {
		t.Errorf("Snapshot() = %+v", got)
	}
}

func TestStoreListenersKeepRegistrationOrder(t *testing.T) {
	t.Parallel()
	s := NewStore()
	var order []string
	s.Subscribe(func(JobState) { order = append(order, "a") })
	drop := s.Subscribe(func(JobState) { order = append(order, "b") })
	s.Subscribe(func(JobState) { order = append(order, "c") })
	drop()

	s.Dispatch(ValidationFailedMsg{Message: "x"})
	if len(order) != 2 || order[0] != "a" || order[1] != "c" {
		t.Errorf("order = %v, want [a c]", order)
	}
}

func TestStoreConcurrentDispatch(t *testing.T) {
	t.Parallel()
	s := NewStore()
	s.Dispatch(JobStartedMsg{Generation: 1})

	var count int
	s.Subscribe(func(JobState) { count++ })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(ValidationFailedMsg{Generation: 1, Message: "n"})
		}()
	}
	wg.Wait()
	if count != 50 {
		t.Errorf("listener calls = %d, want 50", count)
	}
}
