package directory

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
	EmployeeStatusOnLeave  = "onLeave"

	ProjectStatusCompleted  = "completed"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusPlanning   = "planning"

	FeedbackTypePeer        = "peer"
	FeedbackTypeManager     = "manager"
	FeedbackTypeSubordinate = "subordinate"

	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

const (
	ItemsPerPage = 12
	MinRating    = 1
	MaxRating    = 5

	// BookmarksKey is the storage key holding the JSON array of bookmarked ids.
	BookmarksKey = "hr-bookmarks"

	LoadFailedMessage = "Failed to load employees"
)

var EmployeeStatuses = []string{EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusOnLeave}

var FeedbackTypes = []string{FeedbackTypePeer, FeedbackTypeManager, FeedbackTypeSubordinate}

// DefaultDepartments returns the fixed department seed.
func DefaultDepartments() []Department {
	return []Department{
		{ID: "engineering", Name: "Engineering", Color: "#3B82F6"},
		{ID: "marketing", Name: "Marketing", Color: "#EF4444"},
		{ID: "sales", Name: "Sales", Color: "#10B981"},
		{ID: "hr", Name: "Human Resources", Color: "#F59E0B"},
		{ID: "finance", Name: "Finance", Color: "#8B5CF6"},
		{ID: "design", Name: "Design", Color: "#EC4899"},
	}
}

func pageCount(n int) int {
	return (n + ItemsPerPage - 1) / ItemsPerPage
}
