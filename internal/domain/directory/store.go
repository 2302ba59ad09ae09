package directory

import (
	"slices"
	"sync"
)

// Change is delivered to observers after a mutation altered state. Before and
// After share memory with the store and must be treated as read-only.
type Change struct {
	Kind   string
	Before HRState
	After  HRState
}

type Observer func(Change)

type Option func(*Store)

// WithDispatchHook registers a callback invoked for every dispatched
// mutation, including no-op and unknown ones.
func WithDispatchHook(fn func(kind string, changed bool)) Option {
	return func(s *Store) {
		if fn != nil {
			s.hooks = append(s.hooks, fn)
		}
	}
}

func WithDepartments(departments []Department) Option {
	return func(s *Store) {
		if len(departments) > 0 {
			s.state.Departments = slices.Clone(departments)
		}
	}
}

// Store owns HRState. All writes go through Dispatch; dispatches are
// serialized and observers run in dispatch order.
type Store struct {
	dispatchMu sync.Mutex
	mu         sync.RWMutex
	state      HRState
	observers  []Observer
	hooks      []func(kind string, changed bool)
}

func NewStore(opts ...Option) *Store {
	s := &Store{state: InitialState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func InitialState() HRState {
	return HRState{
		Employees:           []Employee{},
		Bookmarks:           []string{},
		Departments:         DefaultDepartments(),
		SelectedDepartments: []string{},
		SelectedRatings:     []int{},
		CurrentPage:         1,
		TotalPages:          1,
	}
}

// Subscribe registers an observer. Observers must not call Dispatch.
func (s *Store) Subscribe(obs Observer) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.observers = append(s.observers, obs)
}

// Dispatch applies m and reports whether state changed. Unknown or nil
// mutations leave state untouched.
func (s *Store) Dispatch(m Mutation) bool {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	return s.dispatchLocked(m)
}

func (s *Store) dispatchLocked(m Mutation) bool {
	kind := "UNKNOWN"
	if m != nil {
		kind = m.Kind()
	}

	s.mu.Lock()
	before := s.state
	after, changed := reduce(before, m)
	if changed {
		s.state = after
	}
	s.mu.Unlock()

	for _, hook := range s.hooks {
		hook(kind, changed)
	}
	if !changed {
		return false
	}
	change := Change{Kind: kind, Before: before, After: after}
	for _, obs := range s.observers {
		obs(change)
	}
	return true
}

// State returns a deep copy of the current state.
func (s *Store) State() HRState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// View derives the visible page from the current filters and page cursor.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := Derive(s.state.Employees, s.state.Filter(), s.state.CurrentPage)
	v.Items = cloneEmployees(v.Items)
	return v
}

// ApplyAndView dispatches muts and derives the view before any other
// dispatch can run, so the page reflects exactly these mutations.
func (s *Store) ApplyAndView(muts ...Mutation) View {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	for _, m := range muts {
		s.dispatchLocked(m)
	}
	return s.View()
}

// Preview derives the view that muts would produce without committing them.
func (s *Store) Preview(muts ...Mutation) View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := s.state
	for _, m := range muts {
		state, _ = reduce(state, m)
	}
	v := Derive(state.Employees, state.Filter(), state.CurrentPage)
	v.Items = cloneEmployees(v.Items)
	return v
}

// Filtered returns every employee passing the current filters.
func (s *Store) Filtered() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEmployees(FilterEmployees(s.state.Employees, s.state.Filter()))
}

func (s *Store) Employee(id string) (Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, emp := range s.state.Employees {
		if emp.ID == id {
			return emp.clone(), true
		}
	}
	return Employee{}, false
}

func (s *Store) Bookmarks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyOf(s.state.Bookmarks)
}

func (s *Store) IsBookmarked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.state.Bookmarks, id)
}

// ToggleBookmark adds or removes id atomically and returns whether id is
// bookmarked afterwards.
func (s *Store) ToggleBookmark(id string) bool {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.RLock()
	present := slices.Contains(s.state.Bookmarks, id)
	s.mu.RUnlock()

	if present {
		s.dispatchLocked(RemoveBookmark{ID: id})
		return false
	}
	return s.dispatchLocked(AddBookmark{ID: id})
}

// BookmarkedEmployees returns loaded employees whose id is bookmarked, in
// employee order. Bookmarked ids with no loaded employee are skipped.
func (s *Store) BookmarkedEmployees() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Employee, 0, len(s.state.Bookmarks))
	for _, emp := range s.state.Employees {
		if slices.Contains(s.state.Bookmarks, emp.ID) {
			out = append(out, emp.clone())
		}
	}
	return out
}
