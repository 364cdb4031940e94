package overdue

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/tablero/pkg/model"
)

// Check reports whether a task with the given due date and status is overdue
// on today: the due date exists, is strictly before today, and the status is
// not completed-equivalent.
func Check(due *civil.Date, status model.Status, today civil.Date) bool {
	if due == nil {
		return false
	}
	return due.Before(today) && !status.IsCompleted()
}

// Sweep returns the tasks that are overdue on today, oldest due date first.
// Tasks sharing a due date keep their input order.
func Sweep(tasks []model.Task, today civil.Date) []model.Task {
	var swept []model.Task
	for _, t := range tasks {
		if Check(t.DueDate, t.Status, today) {
			swept = append(swept, t)
		}
	}
	sort.SliceStable(swept, func(i, j int) bool {
		return swept[i].DueDate.Before(*swept[j].DueDate)
	})
	return swept
}

// DaysLate is the number of whole days between the due date and today, or 0
// when the task is not overdue.
func DaysLate(t model.Task, today civil.Date) int {
	if !Check(t.DueDate, t.Status, today) {
		return 0
	}
	return today.DaysSince(*t.DueDate)
}
