package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"hrdash/internal/domain/directory"
)

const (
	employeesSheet   = "Employees"
	departmentsSheet = "Departments"
)

var employeeHeaders = []interface{}{
	"ID", "First Name", "Last Name", "Email", "Department", "Position",
	"Rating", "Status", "Join Date", "Salary", "Skills",
}

// WriteEmployeesXLSX exports employees plus a per-department rating sheet.
func WriteEmployeesXLSX(w io.Writer, employees []directory.Employee, departments []directory.Department) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", employeesSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(employeesSheet, "A1", &employeeHeaders); err != nil {
		return err
	}
	for i, emp := range employees {
		row := []interface{}{
			emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Department, emp.Position,
			emp.Rating, emp.Status, emp.JoinDate, emp.Salary, strings.Join(emp.Skills, ", "),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(employeesSheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(employeeHeaders))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(employeesSheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if err := f.AutoFilter(employeesSheet, fmt.Sprintf("A1:%s%d", lastCol, len(employees)+1), nil); err != nil {
		return err
	}

	if _, err := f.NewSheet(departmentsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(departmentsSheet, "A1", &[]interface{}{"Department", "Employees", "Average Rating"}); err != nil {
		return err
	}
	for i, dr := range DepartmentRatings(employees, departments) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(departmentsSheet, cell, &[]interface{}{dr.Department, dr.Count, roundTenth(dr.AverageRating)}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(departmentsSheet, "A1", "C1", bold); err != nil {
		return err
	}

	return f.Write(w)
}
