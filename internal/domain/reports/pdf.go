package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"hrdash/internal/domain/directory"
)

// WriteProfilePDF renders the employee detail view (overview, projects,
// feedback) as a single A4 document.
func WriteProfilePDF(w io.Writer, emp directory.Employee) error {
	overview := directory.BuildOverview(emp)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(emp.FullName(), true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, emp.FullName())
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%s, %s", emp.Position, emp.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", emp.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Phone: %s", emp.Phone))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", emp.Status))
	pdf.Ln(10)

	section(pdf, "Overview")
	pdf.Cell(0, 8, fmt.Sprintf("Rating: %d/5", overview.Rating))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Active projects: %d of %d", overview.ActiveProjects, overview.TotalProjects))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Performance trend: %s", overview.PerformanceTrend))
	pdf.Ln(7)
	if len(emp.Skills) > 0 {
		pdf.MultiCell(0, 7, "Skills: "+strings.Join(emp.Skills, ", "), "", "L", false)
	}
	if emp.Bio != "" {
		pdf.MultiCell(0, 7, emp.Bio, "", "L", false)
	}
	pdf.Ln(3)

	section(pdf, "Projects")
	if len(emp.Projects) == 0 {
		pdf.Cell(0, 8, "No projects.")
		pdf.Ln(7)
	}
	for _, p := range emp.Projects {
		pdf.Cell(0, 8, fmt.Sprintf("%s (%s) - %s", p.Name, p.Role, p.Status))
		pdf.Ln(7)
	}
	pdf.Ln(3)

	section(pdf, "Feedback")
	if len(emp.Feedback) == 0 {
		pdf.Cell(0, 8, "No feedback yet.")
		pdf.Ln(7)
	}
	for _, f := range emp.Feedback {
		pdf.MultiCell(0, 7, fmt.Sprintf("[%s, %d/5] %s: %s", f.Type, f.Rating, f.From, f.Message), "", "L", false)
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 9, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 12)
}
