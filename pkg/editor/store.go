package editor

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/observability"
)

// Listener is notified with the new state after every dispatch.
type Listener func(State)

// Store is an observable holder of editor state. It is safe for concurrent
// use; dispatches are applied one at a time and listeners run synchronously
// after the lock is released.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextSub   int
	logger    *log.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithState seeds the store with an initial state.
func WithState(st State) StoreOption {
	return func(s *Store) { s.state = st.clone() }
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state:     NewState(),
		listeners: make(map[int]Listener),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Elements returns a copy of the current elements.
func (s *Store) Elements() []element.Element {
	return s.State().Elements
}

// Dispatch applies a to the current state, notifies listeners and returns
// the new state.
func (s *Store) Dispatch(ctx context.Context, a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, id := range sortedKeys(s.listeners) {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	s.logger.Debug("dispatch", "action", a.Name(), "elements", next.Len(), "next_id", next.NextID)
	observability.Editor().OnDispatch(ctx, a.Name(), next.Len())

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Add dispatches an [Add] and returns the element as stored, with its ID.
func (s *Store) Add(ctx context.Context, e element.Element) element.Element {
	st := s.Dispatch(ctx, Add{Element: e})
	return st.Elements[len(st.Elements)-1]
}

// Subscribe registers l and returns a function that unregisters it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func sortedKeys(m map[int]Listener) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
