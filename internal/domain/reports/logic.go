package reports

import (
	"fmt"
	"math"
	"time"

	"hrdash/internal/domain/directory"
)

const HighPerformerRating = 4

type DashboardStats struct {
	TotalEmployees  int     `json:"totalEmployees"`
	AverageRating   float64 `json:"averageRating"`
	ActiveEmployees int     `json:"activeEmployees"`
	Bookmarked      int     `json:"bookmarked"`
}

type Summary struct {
	TotalEmployees int     `json:"totalEmployees"`
	AverageRating  float64 `json:"averageRating"`
	HighPerformers int     `json:"highPerformers"`
	Departments    int     `json:"departments"`
}

type DepartmentRating struct {
	Department    string  `json:"department"`
	Color         string  `json:"color"`
	AverageRating float64 `json:"averageRating"`
	Count         int     `json:"count"`
}

type RatingBucket struct {
	Rating int    `json:"rating"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

type TrendPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// bookmarkHistory seeds the trend chart; the last point is always the live count.
var bookmarkHistory = []int{5, 8, 12, 15, 18}

func Dashboard(employees []directory.Employee, bookmarks []string) DashboardStats {
	stats := DashboardStats{
		TotalEmployees: len(employees),
		AverageRating:  roundTenth(averageRating(employees)),
		Bookmarked:     len(bookmarks),
	}
	for _, emp := range employees {
		if emp.Status == directory.EmployeeStatusActive {
			stats.ActiveEmployees++
		}
	}
	return stats
}

func AnalyticsSummary(employees []directory.Employee, departments []directory.Department) Summary {
	summary := Summary{
		TotalEmployees: len(employees),
		AverageRating:  roundTenth(averageRating(employees)),
		Departments:    len(departments),
	}
	for _, emp := range employees {
		if emp.Rating >= HighPerformerRating {
			summary.HighPerformers++
		}
	}
	return summary
}

// DepartmentRatings returns one entry per department in department order.
// Departments without employees report a zero average.
func DepartmentRatings(employees []directory.Employee, departments []directory.Department) []DepartmentRating {
	out := make([]DepartmentRating, 0, len(departments))
	for _, dept := range departments {
		entry := DepartmentRating{Department: dept.Name, Color: dept.Color}
		total := 0
		for _, emp := range employees {
			if emp.Department == dept.Name {
				entry.Count++
				total += emp.Rating
			}
		}
		if entry.Count > 0 {
			entry.AverageRating = float64(total) / float64(entry.Count)
		}
		out = append(out, entry)
	}
	return out
}

func RatingDistribution(employees []directory.Employee) []RatingBucket {
	out := make([]RatingBucket, 0, directory.MaxRating)
	for rating := directory.MinRating; rating <= directory.MaxRating; rating++ {
		bucket := RatingBucket{Rating: rating, Label: ratingLabel(rating)}
		for _, emp := range employees {
			if emp.Rating == rating {
				bucket.Count++
			}
		}
		out = append(out, bucket)
	}
	return out
}

// BookmarkTrend returns six monthly points ending at the month of now.
func BookmarkTrend(now time.Time, current int) []TrendPoint {
	counts := append(append([]int(nil), bookmarkHistory...), current)
	out := make([]TrendPoint, 0, len(counts))
	for i, count := range counts {
		month := time.Date(now.Year(), now.Month()-time.Month(len(counts)-1-i), 1, 0, 0, 0, 0, now.Location())
		out = append(out, TrendPoint{Label: month.Format("Jan 2006"), Count: count})
	}
	return out
}

func averageRating(employees []directory.Employee) float64 {
	if len(employees) == 0 {
		return 0
	}
	total := 0
	for _, emp := range employees {
		total += emp.Rating
	}
	return float64(total) / float64(len(employees))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func ratingLabel(rating int) string {
	if rating == 1 {
		return "1 Star"
	}
	return fmt.Sprintf("%d Stars", rating)
}
