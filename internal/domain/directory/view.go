package directory

import (
	"slices"
	"strings"
)

// Filter holds the three conjunctive filter stages. Empty fields do not filter.
type Filter struct {
	Query       string
	Departments []string
	Ratings     []int
}

// View is one page of filtered employees.
type View struct {
	Items        []Employee `json:"items"`
	Page         int        `json:"page"`
	ItemsPerPage int        `json:"itemsPerPage"`
	TotalItems   int        `json:"totalItems"`
	TotalPages   int        `json:"totalPages"`
}

func (s HRState) Filter() Filter {
	return Filter{
		Query:       s.SearchQuery,
		Departments: s.SelectedDepartments,
		Ratings:     s.SelectedRatings,
	}
}

// Matches reports whether emp passes search, department and rating stages.
func (f Filter) Matches(emp Employee) bool {
	if f.Query != "" && !matchesQuery(emp, strings.ToLower(f.Query)) {
		return false
	}
	if len(f.Departments) > 0 && !slices.Contains(f.Departments, emp.Department) {
		return false
	}
	if len(f.Ratings) > 0 && !slices.Contains(f.Ratings, emp.Rating) {
		return false
	}
	return true
}

func matchesQuery(emp Employee, query string) bool {
	for _, field := range []string{emp.FirstName, emp.LastName, emp.Email, emp.Department, emp.Position} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// FilterEmployees keeps the employees matching f, preserving input order.
func FilterEmployees(employees []Employee, f Filter) []Employee {
	out := make([]Employee, 0, len(employees))
	for _, emp := range employees {
		if f.Matches(emp) {
			out = append(out, emp)
		}
	}
	return out
}

// Paginate returns the 1-indexed page of items. Pages outside the range
// yield an empty slice.
func Paginate(items []Employee, page int) []Employee {
	if page < 1 || page-1 >= pageCount(len(items)) {
		return []Employee{}
	}
	start := (page - 1) * ItemsPerPage
	end := min(start+ItemsPerPage, len(items))
	return items[start:end]
}

// Derive runs the filter then paginate pipeline.
func Derive(employees []Employee, f Filter, page int) View {
	filtered := FilterEmployees(employees, f)
	return View{
		Items:        Paginate(filtered, page),
		Page:         page,
		ItemsPerPage: ItemsPerPage,
		TotalItems:   len(filtered),
		TotalPages:   pageCount(len(filtered)),
	}
}
