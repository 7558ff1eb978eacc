package command

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wolfeidau/hrroster/internal/models"
)

// EmployeeView is the tenant-facing shape of an employee.
type EmployeeView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Position    string          `json:"position"`
	Salary      decimal.Decimal `json:"salary"`
	Performance float64         `json:"performance"`
	Department  string          `json:"department,omitempty"`
	HireDate    string          `json:"hireDate,omitempty"`
}

// DepartmentSummary is a department as listed within its organization.
type DepartmentSummary struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Head          string `json:"head"`
	EmployeeCount int    `json:"employeeCount"`
}

// ShiftView is one booked (day, slot) pair.
type ShiftView struct {
	EmployeeID   int64            `json:"employeeId"`
	EmployeeName string           `json:"employeeName"`
	DayOfWeek    models.DayOfWeek `json:"dayOfWeek"`
	TimeSlot     models.TimeSlot  `json:"timeSlot"`
	TimeRange    string           `json:"timeRange"`
}

// SlotView is a free slot of a day.
type SlotView struct {
	TimeSlot  models.TimeSlot `json:"timeSlot"`
	TimeRange string          `json:"timeRange"`
}

func employeeView(e *models.Employee, dept *models.Department) EmployeeView {
	v := EmployeeView{
		ID:          e.ExternalID,
		Name:        e.Name,
		Position:    e.Position,
		Salary:      e.Salary,
		Performance: e.Performance,
	}
	if dept != nil {
		v.Department = dept.Name
	}
	if !e.HireDate.IsZero() {
		v.HireDate = e.HireDate.Format(time.DateOnly)
	}
	return v
}

func employeeViews(employees []*models.Employee) []EmployeeView {
	views := make([]EmployeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, employeeView(e, nil))
	}
	return views
}

func shiftView(s *models.ShiftAssignment) ShiftView {
	return ShiftView{
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.EmployeeName,
		DayOfWeek:    s.Day,
		TimeSlot:     s.Slot,
		TimeRange:    s.Slot.TimeRange(),
	}
}

// departmentOf returns the department an employee belongs to.
func departmentOf(org *models.Organization, e *models.Employee) *models.Department {
	for _, d := range org.Departments {
		if d.ID == e.DepartmentID {
			return d
		}
	}
	return nil
}
