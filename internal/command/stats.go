package command

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wolfeidau/hrroster/internal/models"
)

func (e *Executor) departmentBudgetStats(ctx context.Context, c DepartmentBudgetStats) (*Result, error) {
	_, dept, err := e.department(ctx, c.OrgID, c.DepartmentID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	var highest, lowest *models.Employee
	for _, emp := range dept.Employees {
		total = total.Add(emp.Salary)
		if highest == nil || emp.Salary.GreaterThan(highest.Salary) {
			highest = emp
		}
		if lowest == nil || emp.Salary.LessThan(lowest.Salary) {
			lowest = emp
		}
	}

	fields := map[string]any{
		"budget":          dept.Budget,
		"total":           total,
		"remaining":       dept.Budget.Sub(total),
		"average":         decimal.Zero,
		"highest":         decimal.Zero,
		"lowest":          decimal.Zero,
		"highestEmployee": nil,
		"lowestEmployee":  nil,
	}
	if n := len(dept.Employees); n > 0 {
		fields["average"] = total.Div(decimal.NewFromInt(int64(n))).Round(2)
		fields["highest"] = highest.Salary
		fields["lowest"] = lowest.Salary
		fields["highestEmployee"] = highest.ExternalID
		fields["lowestEmployee"] = lowest.ExternalID
	}

	return Success(fields), nil
}

func (e *Executor) departmentPerformanceStats(ctx context.Context, c DepartmentPerformanceStats) (*Result, error) {
	_, dept, err := e.department(ctx, c.OrgID, c.DepartmentID)
	if err != nil {
		return nil, err
	}

	ranked := append([]*models.Employee(nil), dept.Employees...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Performance > ranked[j].Performance
	})

	sortedIDs := make([]int64, 0, len(ranked))
	scores := make([]float64, 0, len(ranked))
	sum := 0.0
	for _, emp := range ranked {
		sortedIDs = append(sortedIDs, emp.ExternalID)
		scores = append(scores, emp.Performance)
		sum += emp.Performance
	}
	sort.Float64s(scores)

	fields := map[string]any{
		"count":             len(ranked),
		"sortedEmployeeIds": sortedIDs,
		"highest":           0.0,
		"lowest":            0.0,
		"average":           0.0,
		"median":            0.0,
		"percentile25":      0.0,
		"percentile75":      0.0,
	}
	if len(ranked) > 0 {
		fields["highest"] = scores[len(scores)-1]
		fields["lowest"] = scores[0]
		fields["average"] = round2(sum / float64(len(scores)))
		fields["median"] = percentile(scores, 50)
		fields["percentile25"] = percentile(scores, 25)
		fields["percentile75"] = percentile(scores, 75)
		fields["topPerformer"] = ranked[0].Name
	}

	return Success(fields), nil
}

func (e *Executor) departmentPositionStats(ctx context.Context, c DepartmentPositionStats) (*Result, error) {
	_, dept, err := e.department(ctx, c.OrgID, c.DepartmentID)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]int)
	for _, emp := range dept.Employees {
		positions[emp.Position]++
	}

	return Success(map[string]any{
		"positions": positions,
	}), nil
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return round2(sorted[lo] + (sorted[hi]-sorted[lo])*frac)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
