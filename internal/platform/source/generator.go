package source

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"hrdash/internal/domain/directory"
)

var departmentNames = []string{"Engineering", "Marketing", "Sales", "Human Resources", "Finance", "Design"}

var positionsByDepartment = map[string][]string{
	"Engineering":     {"Software Engineer", "Senior Developer", "Tech Lead", "DevOps Engineer"},
	"Marketing":       {"Marketing Manager", "Content Creator", "SEO Specialist", "Brand Manager"},
	"Sales":           {"Sales Representative", "Account Manager", "Sales Director", "Business Development"},
	"Human Resources": {"HR Manager", "Recruiter", "HR Business Partner", "Training Coordinator"},
	"Finance":         {"Financial Analyst", "Accountant", "Finance Manager", "CFO"},
	"Design":          {"UI/UX Designer", "Graphic Designer", "Product Designer", "Creative Director"},
}

var skillsByDepartment = map[string][]string{
	"Engineering":     {"JavaScript", "React", "Node.js", "Python", "AWS", "Docker"},
	"Marketing":       {"SEO", "Content Marketing", "Social Media", "Analytics", "Copywriting"},
	"Sales":           {"CRM", "Lead Generation", "Negotiation", "Presentation", "Customer Relations"},
	"Human Resources": {"Recruitment", "Employee Relations", "Performance Management", "Training"},
	"Finance":         {"Financial Analysis", "Budgeting", "Excel", "Accounting", "Risk Management"},
	"Design":          {"Figma", "Adobe Creative Suite", "UI/UX", "Prototyping", "User Research"},
}

var projectNames = []string{
	"Website Redesign", "Mobile App Development", "Marketing Campaign Q4",
	"Data Analytics Platform", "Customer Portal", "Internal Tools Upgrade",
	"Brand Identity Refresh", "Sales Process Optimization",
}

var projectStatuses = []string{directory.ProjectStatusCompleted, directory.ProjectStatusInProgress, directory.ProjectStatusPlanning}

var projectRoles = []string{"Lead", "Contributor", "Consultant"}

var feedbackMessages = []string{
	"Excellent work on the recent project. Great attention to detail!",
	"Shows strong leadership skills and helps team members grow.",
	"Consistently delivers high-quality work on time.",
	"Great communication skills and collaborative approach.",
	"Innovative problem-solving and creative thinking.",
}

var (
	performanceGoals        = []string{"Improve technical skills", "Lead team initiatives", "Enhance communication"}
	performanceAchievements = []string{"Completed major project ahead of schedule", "Mentored junior team members", "Improved process efficiency by 20%"}
	performanceImprovements = []string{"Time management", "Cross-functional collaboration", "Technical documentation"}
)

var historyStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// User is the upstream person record the HR attributes are generated around.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Phone     string `json:"phone"`
	Image     string `json:"image"`
	Address   struct {
		Address    string `json:"address"`
		City       string `json:"city"`
		State      string `json:"state"`
		Country    string `json:"country"`
		PostalCode string `json:"postalCode"`
	} `json:"address"`
}

// Generator fills in the HR attributes upstream users lack. Output depends
// only on the seed and the user id, so list and detail lookups agree.
type Generator struct {
	seed uint64
	end  time.Time
}

func NewGenerator(seed int64, now time.Time) *Generator {
	return &Generator{seed: uint64(seed), end: now.UTC()}
}

func (g *Generator) Employee(u User) directory.Employee {
	r := rand.New(rand.NewPCG(g.seed, uint64(u.ID)))
	department := pick(r, departmentNames)
	position := pick(r, positionsByDepartment[department])

	emp := directory.Employee{
		ID:         strconv.Itoa(u.ID),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Age:        u.Age,
		Department: department,
		Position:   position,
		Phone:      u.Phone,
		Address: directory.Address{
			Street:     u.Address.Address,
			City:       u.Address.City,
			State:      u.Address.State,
			Country:    u.Address.Country,
			PostalCode: u.Address.PostalCode,
		},
		Image:  u.Image,
		Rating: r.IntN(directory.MaxRating) + 1,
		Bio: fmt.Sprintf("Experienced %s with a passion for excellence and innovation. "+
			"Dedicated to delivering high-quality results and contributing to team success.", strings.ToLower(position)),
	}
	emp.Projects = g.projects(r)
	emp.Feedback = g.feedback(r)
	emp.PerformanceHistory = g.performanceHistory(r)
	emp.JoinDate = g.date(r)
	emp.Salary = float64(r.IntN(100000) + 50000)
	emp.Skills = g.skills(r, department)
	emp.Status = status(r)
	return emp
}

func (g *Generator) projects(r *rand.Rand) []directory.Project {
	n := r.IntN(4) + 1
	out := make([]directory.Project, 0, n)
	for i := range n {
		p := directory.Project{
			ID:          fmt.Sprintf("project-%d", i+1),
			Name:        pick(r, projectNames),
			Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
			Status:      pick(r, projectStatuses),
			StartDate:   g.date(r),
			Role:        pick(r, projectRoles),
		}
		if r.Float64() > 0.5 {
			p.EndDate = g.date(r)
		}
		out = append(out, p)
	}
	return out
}

func (g *Generator) feedback(r *rand.Rand) []directory.FeedbackItem {
	n := r.IntN(5) + 1
	out := make([]directory.FeedbackItem, 0, n)
	for i := range n {
		out = append(out, directory.FeedbackItem{
			ID:      fmt.Sprintf("feedback-%d", i+1),
			From:    fmt.Sprintf("Colleague %d", i+1),
			Message: pick(r, feedbackMessages),
			Rating:  r.IntN(directory.MaxRating) + 1,
			Date:    g.date(r),
			Type:    pick(r, directory.FeedbackTypes),
		})
	}
	return out
}

func (g *Generator) performanceHistory(r *rand.Rand) []directory.PerformanceRecord {
	n := r.IntN(3) + 2
	out := make([]directory.PerformanceRecord, 0, n)
	for i := range n {
		out = append(out, directory.PerformanceRecord{
			ID:                  fmt.Sprintf("perf-%d", i+1),
			Period:              fmt.Sprintf("Q%d 2024", i+1),
			Rating:              r.IntN(directory.MaxRating) + 1,
			Goals:               append([]string(nil), performanceGoals...),
			Achievements:        append([]string(nil), performanceAchievements...),
			AreasForImprovement: append([]string(nil), performanceImprovements...),
			Date:                g.date(r),
		})
	}
	return out
}

func (g *Generator) skills(r *rand.Rand, department string) []string {
	all := skillsByDepartment[department]
	n := min(r.IntN(4)+2, len(all))
	return append([]string(nil), all[:n]...)
}

func (g *Generator) date(r *rand.Rand) string {
	span := g.end.Sub(historyStart)
	if span <= 0 {
		return historyStart.Format(time.RFC3339)
	}
	return historyStart.Add(time.Duration(r.Int64N(int64(span)))).Format(time.RFC3339)
}

func status(r *rand.Rand) string {
	if r.Float64() > 0.1 {
		return directory.EmployeeStatusActive
	}
	if r.Float64() > 0.5 {
		return directory.EmployeeStatusInactive
	}
	return directory.EmployeeStatusOnLeave
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}
