package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"hrdash/internal/domain/directory"
)

var (
	syntheticFirstNames = []string{"Emily", "Michael", "Sophia", "James", "Olivia", "Liam", "Ava", "Noah", "Isabella", "Ethan", "Mia", "Lucas"}
	syntheticLastNames  = []string{"Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Wilson"}
	syntheticCities     = []string{"Phoenix", "Houston", "Denver", "Seattle", "Austin", "Boston"}
)

// Synthetic produces users locally instead of calling an upstream API.
type Synthetic struct {
	count int
	gen   *Generator
}

func NewSynthetic(count int, gen *Generator) *Synthetic {
	return &Synthetic{count: count, gen: gen}
}

func (s *Synthetic) FetchEmployees(ctx context.Context) ([]directory.Employee, error) {
	out := make([]directory.Employee, 0, s.count)
	for id := 1; id <= s.count; id++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, s.gen.Employee(s.user(id)))
	}
	return out, nil
}

func (s *Synthetic) FetchEmployeeByID(_ context.Context, id string) (*directory.Employee, error) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 || n > s.count {
		return nil, nil
	}
	emp := s.gen.Employee(s.user(n))
	return &emp, nil
}

func (s *Synthetic) user(id int) User {
	r := rand.New(rand.NewPCG(s.gen.seed^0x5eed, uint64(id)))
	first := pick(r, syntheticFirstNames)
	last := pick(r, syntheticLastNames)
	u := User{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), id),
		Age:       22 + r.IntN(40),
		Phone:     fmt.Sprintf("+1 555-%03d-%04d", r.IntN(1000), r.IntN(10000)),
		Image:     fmt.Sprintf("https://dummyjson.com/icon/%s%s/128", strings.ToLower(first), strings.ToLower(last)),
	}
	u.Address.Address = fmt.Sprintf("%d Main Street", 100+r.IntN(900))
	u.Address.City = pick(r, syntheticCities)
	u.Address.State = "CA"
	u.Address.Country = "United States"
	u.Address.PostalCode = fmt.Sprintf("%05d", r.IntN(100000))
	return u
}
