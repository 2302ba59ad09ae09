package directory

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Source is the external employee provider.
type Source interface {
	FetchEmployees(ctx context.Context) ([]Employee, error)
	// FetchEmployeeByID returns nil, nil when the id is unknown.
	FetchEmployeeByID(ctx context.Context, id string) (*Employee, error)
}

type NewEmployee struct {
	FirstName  string  `json:"firstName" validate:"required"`
	LastName   string  `json:"lastName" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Department string  `json:"department" validate:"required"`
	Position   string  `json:"position" validate:"required"`
	Phone      string  `json:"phone" validate:"required"`
	Salary     float64 `json:"salary" validate:"gt=0"`
	// Skills is a comma separated list.
	Skills string `json:"skills" validate:"required"`
}

type FeedbackInput struct {
	Message string `json:"message" validate:"required,min=10"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Type    string `json:"type" validate:"required,oneof=peer manager subordinate"`
}

const (
	defaultEmployeeImage = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face"
)

var defaultAddress = Address{
	Street:     "123 Main St",
	City:       "Sample City",
	State:      "Sample State",
	Country:    "Sample Country",
	PostalCode: "12345",
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithIDFunc(fn func() string) ServiceOption {
	return func(s *Service) { s.newID = fn }
}

// WithIntN replaces the random source used for generated ages and ratings.
func WithIntN(fn func(n int) int) ServiceOption {
	return func(s *Service) { s.intN = fn }
}

type Service struct {
	store  *Store
	source Source
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string
	intN   func(n int) int
}

func NewService(store *Store, source Source, log zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		source: source,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
		intN:   rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() *Store {
	return s.store
}

// Load fetches the employee list into the store. A failed fetch sets the
// store error and leaves employees untouched. If ctx ends before the fetch
// returns, the result is discarded and ctx.Err() is returned.
func (s *Service) Load(ctx context.Context) error {
	s.store.Dispatch(SetLoading{Loading: true})
	defer s.store.Dispatch(SetLoading{Loading: false})

	employees, err := s.source.FetchEmployees(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.log.Debug().Err(ctxErr).Msg("employee load discarded")
		return ctxErr
	}
	if err != nil {
		s.store.Dispatch(SetError{Message: LoadFailedMessage})
		s.log.Error().Err(err).Msg("employee load failed")
		return fmt.Errorf("load employees: %w", err)
	}

	s.store.Dispatch(SetError{})
	s.store.Dispatch(SetEmployees{Employees: employees})
	s.log.Info().Int("count", len(employees)).Msg("employees loaded")
	return nil
}

// Employee resolves a single employee, preferring the loaded collection so
// locally created records are found. Source failures surface as not found.
func (s *Service) Employee(ctx context.Context, id string) (Employee, error) {
	if emp, ok := s.store.Employee(id); ok {
		return emp, nil
	}
	emp, err := s.source.FetchEmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Employee{}, err
		}
		s.log.Warn().Err(err).Str("employeeId", id).Msg("employee fetch failed")
		return Employee{}, fmt.Errorf("employee %s: %w", id, ErrEmployeeNotFound)
	}
	if emp == nil {
		return Employee{}, fmt.Errorf("employee %s: %w", id, ErrEmployeeNotFound)
	}
	return *emp, nil
}

// CreateEmployee builds a record from in and prepends it to the store.
func (s *Service) CreateEmployee(in NewEmployee) Employee {
	emp := Employee{
		ID:                 s.newID(),
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Email:              strings.TrimSpace(in.Email),
		Age:                25 + s.intN(20),
		Department:         in.Department,
		Position:           strings.TrimSpace(in.Position),
		Phone:              strings.TrimSpace(in.Phone),
		Address:            defaultAddress,
		Image:              defaultEmployeeImage,
		Rating:             s.intN(MaxRating) + 1,
		Projects:           []Project{},
		Feedback:           []FeedbackItem{},
		PerformanceHistory: []PerformanceRecord{},
		JoinDate:           s.now().UTC().Format(time.RFC3339),
		Salary:             in.Salary,
		Skills:             SplitSkills(in.Skills),
		Status:             EmployeeStatusActive,
	}
	emp.Bio = fmt.Sprintf("Experienced %s with a passion for excellence.", strings.ToLower(emp.Position))

	s.store.Dispatch(AddEmployee{Employee: emp})
	s.log.Info().Str("employeeId", emp.ID).Str("department", emp.Department).Msg("employee created")
	return emp
}

// SubmitFeedback acknowledges feedback for an existing employee. Feedback is
// not stored.
func (s *Service) SubmitFeedback(ctx context.Context, employeeID, from string, in FeedbackInput) (FeedbackItem, error) {
	if _, err := s.Employee(ctx, employeeID); err != nil {
		return FeedbackItem{}, err
	}
	item := FeedbackItem{
		ID:      "feedback-" + s.newID(),
		From:    from,
		Message: strings.TrimSpace(in.Message),
		Rating:  in.Rating,
		Date:    s.now().UTC().Format(time.RFC3339),
		Type:    in.Type,
	}
	s.log.Info().Str("employeeId", employeeID).Str("type", item.Type).Int("rating", item.Rating).Msg("feedback submitted")
	return item, nil
}

func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if skill := strings.TrimSpace(part); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}
