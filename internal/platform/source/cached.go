package source

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"hrdash/internal/domain/directory"
)

// Cached memoizes single employee lookups. A list fetch also primes the
// cache so detail views opened from the list skip the upstream call.
type Cached struct {
	next  directory.Source
	cache *cache.Cache
}

func NewCached(next directory.Source, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *Cached) FetchEmployees(ctx context.Context) ([]directory.Employee, error) {
	employees, err := c.next.FetchEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for _, emp := range employees {
		c.cache.Set(emp.ID, emp, cache.DefaultExpiration)
	}
	return employees, nil
}

func (c *Cached) FetchEmployeeByID(ctx context.Context, id string) (*directory.Employee, error) {
	if x, found := c.cache.Get(id); found {
		emp := x.(directory.Employee)
		return &emp, nil
	}
	emp, err := c.next.FetchEmployeeByID(ctx, id)
	if err != nil || emp == nil {
		return emp, err
	}
	c.cache.Set(id, *emp, cache.DefaultExpiration)
	return emp, nil
}

func (c *Cached) Flush() {
	c.cache.Flush()
}
