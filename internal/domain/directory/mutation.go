package directory

import "slices"

// Mutation is a named state transition. The set of implementations is closed;
// reduce matches it exhaustively.
type Mutation interface {
	Kind() string
	mutation()
}

const (
	KindSetLoading             = "SET_LOADING"
	KindSetEmployees           = "SET_EMPLOYEES"
	KindSetError               = "SET_ERROR"
	KindAddBookmark            = "ADD_BOOKMARK"
	KindRemoveBookmark         = "REMOVE_BOOKMARK"
	KindSetSearchQuery         = "SET_SEARCH_QUERY"
	KindSetSelectedDepartments = "SET_SELECTED_DEPARTMENTS"
	KindSetSelectedRatings     = "SET_SELECTED_RATINGS"
	KindSetCurrentPage         = "SET_CURRENT_PAGE"
	KindUpdateEmployee         = "UPDATE_EMPLOYEE"
	KindAddEmployee            = "ADD_EMPLOYEE"
)

type SetLoading struct{ Loading bool }

type SetEmployees struct{ Employees []Employee }

// SetError sets the user-visible fetch error. An empty message clears it.
type SetError struct{ Message string }

type AddBookmark struct{ ID string }

type RemoveBookmark struct{ ID string }

type SetSearchQuery struct{ Query string }

type SetSelectedDepartments struct{ Departments []string }

type SetSelectedRatings struct{ Ratings []int }

// SetCurrentPage moves the page cursor. Pages below 1 are raised to 1; there
// is no upper clamp, callers are expected to respect TotalPages.
type SetCurrentPage struct{ Page int }

type UpdateEmployee struct{ Employee Employee }

type AddEmployee struct{ Employee Employee }

func (SetLoading) Kind() string             { return KindSetLoading }
func (SetEmployees) Kind() string           { return KindSetEmployees }
func (SetError) Kind() string               { return KindSetError }
func (AddBookmark) Kind() string            { return KindAddBookmark }
func (RemoveBookmark) Kind() string         { return KindRemoveBookmark }
func (SetSearchQuery) Kind() string         { return KindSetSearchQuery }
func (SetSelectedDepartments) Kind() string { return KindSetSelectedDepartments }
func (SetSelectedRatings) Kind() string     { return KindSetSelectedRatings }
func (SetCurrentPage) Kind() string         { return KindSetCurrentPage }
func (UpdateEmployee) Kind() string         { return KindUpdateEmployee }
func (AddEmployee) Kind() string            { return KindAddEmployee }

func (SetLoading) mutation()             {}
func (SetEmployees) mutation()           {}
func (SetError) mutation()               {}
func (AddBookmark) mutation()            {}
func (RemoveBookmark) mutation()         {}
func (SetSearchQuery) mutation()         {}
func (SetSelectedDepartments) mutation() {}
func (SetSelectedRatings) mutation()     {}
func (SetCurrentPage) mutation()         {}
func (UpdateEmployee) mutation()         {}
func (AddEmployee) mutation()            {}

// reduce returns the state after applying m and whether anything changed.
// The input state is never modified: every slice that changes is rebuilt.
func reduce(state HRState, m Mutation) (HRState, bool) {
	switch m := m.(type) {
	case SetLoading:
		changed := state.Loading != m.Loading
		state.Loading = m.Loading
		return state, changed
	case SetEmployees:
		state.Employees = cloneEmployees(m.Employees)
		state.TotalPages = pageCount(len(m.Employees))
		return state, true
	case SetError:
		changed := state.Error != m.Message
		state.Error = m.Message
		return state, changed
	case AddBookmark:
		if m.ID == "" || slices.Contains(state.Bookmarks, m.ID) {
			return state, false
		}
		next := make([]string, 0, len(state.Bookmarks)+1)
		state.Bookmarks = append(append(next, state.Bookmarks...), m.ID)
		return state, true
	case RemoveBookmark:
		idx := slices.Index(state.Bookmarks, m.ID)
		if idx < 0 {
			return state, false
		}
		next := make([]string, 0, len(state.Bookmarks)-1)
		next = append(next, state.Bookmarks[:idx]...)
		state.Bookmarks = append(next, state.Bookmarks[idx+1:]...)
		return state, true
	case SetSearchQuery:
		state.SearchQuery = m.Query
		state.CurrentPage = 1
		return state, true
	case SetSelectedDepartments:
		state.SelectedDepartments = uniqueOrdered(m.Departments)
		state.CurrentPage = 1
		return state, true
	case SetSelectedRatings:
		state.SelectedRatings = uniqueOrdered(m.Ratings)
		state.CurrentPage = 1
		return state, true
	case SetCurrentPage:
		page := max(m.Page, 1)
		changed := state.CurrentPage != page
		state.CurrentPage = page
		return state, changed
	case UpdateEmployee:
		idx := slices.IndexFunc(state.Employees, func(e Employee) bool { return e.ID == m.Employee.ID })
		if idx < 0 {
			return state, false
		}
		next := slices.Clone(state.Employees)
		next[idx] = m.Employee.clone()
		state.Employees = next
		return state, true
	case AddEmployee:
		next := make([]Employee, 0, len(state.Employees)+1)
		next = append(next, m.Employee.clone())
		state.Employees = append(next, state.Employees...)
		// Page count tracks inserts too, not only full loads.
		state.TotalPages = pageCount(len(state.Employees))
		return state, true
	default:
		return state, false
	}
}

func uniqueOrdered[T comparable](in []T) []T {
	out := make([]T, 0, len(in))
	seen := make(map[T]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
