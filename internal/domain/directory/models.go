package directory

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type Employee struct {
	ID                 string              `json:"id"`
	FirstName          string              `json:"firstName"`
	LastName           string              `json:"lastName"`
	Email              string              `json:"email"`
	Age                int                 `json:"age"`
	Department         string              `json:"department"`
	Position           string              `json:"position"`
	Phone              string              `json:"phone"`
	Address            Address             `json:"address"`
	Image              string              `json:"image"`
	Rating             int                 `json:"rating"`
	Bio                string              `json:"bio"`
	Projects           []Project           `json:"projects"`
	Feedback           []FeedbackItem      `json:"feedback"`
	PerformanceHistory []PerformanceRecord `json:"performanceHistory"`
	JoinDate           string              `json:"joinDate"`
	Salary             float64             `json:"salary"`
	Skills             []string            `json:"skills"`
	Status             string              `json:"status"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Role        string `json:"role"`
}

type FeedbackItem struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
	Date    string `json:"date"`
	Type    string `json:"type"`
}

type PerformanceRecord struct {
	ID                  string   `json:"id"`
	Period              string   `json:"period"`
	Rating              int      `json:"rating"`
	Goals               []string `json:"goals"`
	Achievements        []string `json:"achievements"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Date                string   `json:"date"`
}

type Department struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HRState is the aggregate owned by Store. Values handed out by the store are
// copies; mutating them has no effect on the store.
type HRState struct {
	Employees           []Employee   `json:"employees"`
	Bookmarks           []string     `json:"bookmarks"`
	Departments         []Department `json:"departments"`
	Loading             bool         `json:"loading"`
	Error               string       `json:"error,omitempty"`
	SearchQuery         string       `json:"searchQuery"`
	SelectedDepartments []string     `json:"selectedDepartments"`
	SelectedRatings     []int        `json:"selectedRatings"`
	CurrentPage         int          `json:"currentPage"`
	TotalPages          int          `json:"totalPages"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e Employee) clone() Employee {
	out := e
	out.Projects = cloneSlice(e.Projects)
	out.Feedback = cloneSlice(e.Feedback)
	out.Skills = cloneSlice(e.Skills)
	out.PerformanceHistory = cloneSlice(e.PerformanceHistory)
	for i, rec := range out.PerformanceHistory {
		rec.Goals = cloneSlice(rec.Goals)
		rec.Achievements = cloneSlice(rec.Achievements)
		rec.AreasForImprovement = cloneSlice(rec.AreasForImprovement)
		out.PerformanceHistory[i] = rec
	}
	return out
}

func cloneEmployees(in []Employee) []Employee {
	if in == nil {
		return nil
	}
	out := make([]Employee, len(in))
	for i, emp := range in {
		out[i] = emp.clone()
	}
	return out
}

func (s HRState) clone() HRState {
	out := s
	out.Employees = cloneEmployees(s.Employees)
	if out.Employees == nil {
		out.Employees = []Employee{}
	}
	out.Bookmarks = copyOf(s.Bookmarks)
	out.Departments = copyOf(s.Departments)
	out.SelectedDepartments = copyOf(s.SelectedDepartments)
	out.SelectedRatings = copyOf(s.SelectedRatings)
	return out
}

// copyOf always returns a non-nil slice so snapshots encode as [] rather than null.
func copyOf[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// cloneSlice keeps nil-ness so a cloned employee compares equal to its source.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return copyOf(in)
}
