package directory

// Overview summarizes an employee for the detail view's overview tab.
type Overview struct {
	Rating            int                `json:"rating"`
	ActiveProjects    int                `json:"activeProjects"`
	TotalProjects     int                `json:"totalProjects"`
	PerformanceTrend  string             `json:"performanceTrend"`
	LatestPerformance *PerformanceRecord `json:"latestPerformance,omitempty"`
}

// Detail is the detail view payload: the record plus its overview.
type Detail struct {
	Employee   Employee `json:"employee"`
	Overview   Overview `json:"overview"`
	Bookmarked bool     `json:"bookmarked"`
}

func BuildOverview(emp Employee) Overview {
	ov := Overview{
		Rating:           emp.Rating,
		TotalProjects:    len(emp.Projects),
		PerformanceTrend: PerformanceTrend(emp.PerformanceHistory),
	}
	for _, p := range emp.Projects {
		if p.Status == ProjectStatusInProgress {
			ov.ActiveProjects++
		}
	}
	if len(emp.PerformanceHistory) > 0 {
		latest := emp.PerformanceHistory[0]
		ov.LatestPerformance = &latest
	}
	return ov
}

// PerformanceTrend compares the first (latest) record with the second.
func PerformanceTrend(history []PerformanceRecord) string {
	if len(history) < 2 {
		return TrendStable
	}
	latest, previous := history[0].Rating, history[1].Rating
	switch {
	case latest > previous:
		return TrendImproving
	case latest < previous:
		return TrendDeclining
	default:
		return TrendStable
	}
}
