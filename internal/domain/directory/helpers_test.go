package directory

import (
	"context"
	"strconv"
	"sync"
)

func employee(id, first, department string, rating int) Employee {
	return Employee{
		ID:         id,
		FirstName:  first,
		LastName:   "Doe",
		Email:      first + "@example.com",
		Department: department,
		Position:   "Analyst",
		Rating:     rating,
		Skills:     []string{"Go"},
		Status:     EmployeeStatusActive,
	}
}

func employees(n int) []Employee {
	out := make([]Employee, n)
	for i := range out {
		id := strconv.Itoa(i + 1)
		out[i] = employee(id, "user"+id, "Engineering", i%MaxRating+1)
	}
	return out
}

func ids(emps []Employee) []string {
	out := make([]string, len(emps))
	for i, e := range emps {
		out[i] = e.ID
	}
	return out
}

type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
	getErr error
	setErr error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.values[key] = value
	return nil
}

type fakeSource struct {
	list    []Employee
	listErr error
	byID    map[string]Employee
	byIDErr error
	block   chan struct{}
	calls   int
}

func (f *fakeSource) FetchEmployees(ctx context.Context) ([]Employee, error) {
	f.calls++
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
		}
	}
	return f.list, f.listErr
}

func (f *fakeSource) FetchEmployeeByID(_ context.Context, id string) (*Employee, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	emp, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}
