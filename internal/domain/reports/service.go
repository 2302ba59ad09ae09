package reports

import (
	"io"
	"time"

	"hrdash/internal/domain/directory"
)

type Service struct {
	Store *directory.Store
	now   func() time.Time
}

func NewService(store *directory.Store) *Service {
	return &Service{Store: store, now: time.Now}
}

func (s *Service) Dashboard() DashboardStats {
	state := s.Store.State()
	return Dashboard(state.Employees, state.Bookmarks)
}

func (s *Service) Summary() Summary {
	state := s.Store.State()
	return AnalyticsSummary(state.Employees, state.Departments)
}

func (s *Service) DepartmentRatings() []DepartmentRating {
	state := s.Store.State()
	return DepartmentRatings(state.Employees, state.Departments)
}

func (s *Service) RatingDistribution() []RatingBucket {
	return RatingDistribution(s.Store.State().Employees)
}

func (s *Service) BookmarkTrend() []TrendPoint {
	return BookmarkTrend(s.now(), len(s.Store.BookmarkedEmployees()))
}

// ExportFiltered writes every employee matching the current filters.
func (s *Service) ExportFiltered(w io.Writer) error {
	return WriteEmployeesXLSX(w, s.Store.Filtered(), s.Store.State().Departments)
}
