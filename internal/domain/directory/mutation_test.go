package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownMutation struct{ SetLoading }

func (unknownMutation) Kind() string { return "RESET_EVERYTHING" }

func TestReduce(t *testing.T) {
	base := InitialState()
	base.Employees = employees(3)
	base.TotalPages = 1
	base.Bookmarks = []string{"1"}
	base.CurrentPage = 4

	tests := []struct {
		name    string
		m       Mutation
		changed bool
		check   func(t *testing.T, s HRState)
	}{
		{name: "set loading", m: SetLoading{Loading: true}, changed: true, check: func(t *testing.T, s HRState) {
			assert.True(t, s.Loading)
		}},
		{name: "set loading unchanged", m: SetLoading{Loading: false}},
		{name: "set employees recomputes pages", m: SetEmployees{Employees: employees(25)}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Len(t, s.Employees, 25)
			assert.Equal(t, 3, s.TotalPages)
		}},
		{name: "set empty employees", m: SetEmployees{}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Empty(t, s.Employees)
			assert.Equal(t, 0, s.TotalPages)
		}},
		{name: "set error", m: SetError{Message: LoadFailedMessage}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, LoadFailedMessage, s.Error)
		}},
		{name: "clear absent error", m: SetError{}},
		{name: "add bookmark", m: AddBookmark{ID: "2"}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, []string{"1", "2"}, s.Bookmarks)
		}},
		{name: "add duplicate bookmark", m: AddBookmark{ID: "1"}},
		{name: "add empty bookmark", m: AddBookmark{}},
		{name: "remove bookmark", m: RemoveBookmark{ID: "1"}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Empty(t, s.Bookmarks)
		}},
		{name: "remove missing bookmark", m: RemoveBookmark{ID: "9"}},
		{name: "search resets page", m: SetSearchQuery{Query: "eng"}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, "eng", s.SearchQuery)
			assert.Equal(t, 1, s.CurrentPage)
		}},
		{name: "departments dedupe and reset page", m: SetSelectedDepartments{Departments: []string{"Sales", "Design", "Sales"}}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, []string{"Sales", "Design"}, s.SelectedDepartments)
			assert.Equal(t, 1, s.CurrentPage)
		}},
		{name: "ratings dedupe and reset page", m: SetSelectedRatings{Ratings: []int{5, 4, 5}}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, []int{5, 4}, s.SelectedRatings)
			assert.Equal(t, 1, s.CurrentPage)
		}},
		{name: "set page", m: SetCurrentPage{Page: 7}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, 7, s.CurrentPage)
		}},
		{name: "set page below one clamps", m: SetCurrentPage{Page: -3}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, 1, s.CurrentPage)
		}},
		{name: "set same page", m: SetCurrentPage{Page: 4}},
		{name: "update employee in place", m: UpdateEmployee{Employee: employee("2", "Zed", "Sales", 5)}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, []string{"1", "2", "3"}, ids(s.Employees))
			assert.Equal(t, "Zed", s.Employees[1].FirstName)
		}},
		{name: "update unknown employee", m: UpdateEmployee{Employee: employee("99", "Zed", "Sales", 5)}},
		{name: "add employee prepends", m: AddEmployee{Employee: employee("new", "Nia", "Design", 3)}, changed: true, check: func(t *testing.T, s HRState) {
			assert.Equal(t, []string{"new", "1", "2", "3"}, ids(s.Employees))
		}},
		{name: "unknown mutation", m: unknownMutation{}},
		{name: "nil mutation", m: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := base.clone()
			got, changed := reduce(base, tc.m)
			assert.Equal(t, tc.changed, changed)
			assert.Equal(t, before, base, "input state must not be modified")
			if !tc.changed {
				assert.Equal(t, base, got)
				return
			}
			require.NotNil(t, tc.check)
			tc.check(t, got)
		})
	}
}

// Adding employees keeps the page count in step with the collection, unlike
// a plain load-only recomputation.
func TestAddEmployeeRecomputesTotalPages(t *testing.T) {
	state, _ := reduce(InitialState(), SetEmployees{Employees: employees(12)})
	require.Equal(t, 1, state.TotalPages)

	state, _ = reduce(state, AddEmployee{Employee: employee("13", "Extra", "Sales", 2)})
	assert.Equal(t, 2, state.TotalPages)
}

func TestBookmarkRoundTripRestoresSet(t *testing.T) {
	state := InitialState()
	state.Bookmarks = []string{"3", "1"}

	added, _ := reduce(state, AddBookmark{ID: "7"})
	removed, _ := reduce(added, RemoveBookmark{ID: "7"})
	assert.Equal(t, state.Bookmarks, removed.Bookmarks)
}

func TestFilterMutationsAlwaysResetPage(t *testing.T) {
	for _, m := range []Mutation{
		SetSearchQuery{Query: "x"},
		SetSelectedDepartments{Departments: []string{"Sales"}},
		SetSelectedRatings{Ratings: []int{2}},
		SetSearchQuery{},
	} {
		state := InitialState()
		state.CurrentPage = 9
		next, _ := reduce(state, m)
		assert.Equal(t, 1, next.CurrentPage, m.Kind())
	}
}
