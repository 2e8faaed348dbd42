package orchestration

import "sync"

// Listener observes every state produced by a Store.
type Listener func(JobState)

// Store serializes messages onto one JobState. Listeners run synchronously
// in dispatch order and must not call Dispatch themselves.
type Store struct {
	mu        sync.Mutex
	state     JobState
	listeners map[int]Listener
	order     []int
	nextID    int
}

var _ Dispatcher = (*Store)(nil)

// NewStore returns a store in the idle state.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Dispatch applies msg and notifies listeners with the new state.
func (s *Store) Dispatch(msg Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Transition(s.state, msg)
	for _, id := range s.order {
		s.listeners[id](s.state)
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
