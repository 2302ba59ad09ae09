package shared

import (
	"net/http"
	"strconv"
	"strings"
)

// ViewQuery is the filter and page selection carried on a list request.
// Nil fields were absent from the query string.
type ViewQuery struct {
	Query       *string
	Departments []string
	Ratings     []int
	Page        *int
}

func (q ViewQuery) Empty() bool {
	return q.Query == nil && q.Departments == nil && q.Ratings == nil && q.Page == nil
}

// ParseViewQuery reads q, department, rating and page. Departments and
// ratings may repeat or be comma separated; unparsable ratings and pages are
// dropped.
func ParseViewQuery(r *http.Request) ViewQuery {
	values := r.URL.Query()
	var out ViewQuery
	if values.Has("q") {
		q := values.Get("q")
		out.Query = &q
	}
	if values.Has("department") {
		out.Departments = append([]string{}, splitValues(values["department"])...)
	}
	if values.Has("rating") {
		out.Ratings = []int{}
		for _, item := range splitValues(values["rating"]) {
			if v, err := strconv.Atoi(item); err == nil {
				out.Ratings = append(out.Ratings, v)
			}
		}
	}
	if raw := values.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			out.Page = &v
		}
	}
	return out
}

func splitValues(raw []string) []string {
	var out []string
	for _, value := range raw {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
