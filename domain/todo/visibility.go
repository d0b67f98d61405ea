package todo

import "time"

// VisibleTodos derives the subset of todos shown for a selected date.
//
// A todo is visible on its own calendar day. When the selected day is
// today, incomplete todos from strictly earlier days are carried over
// as well. Completed todos never carry forward, and viewing a past or
// future day shows exactly what is assigned to that day.
//
// Ordering is stable over the input slice.
func VisibleTodos(all []Todo, selected, today time.Time) []Todo {
	carryOver := SameDay(selected, today)
	selectedDay := Day(selected)

	visible := make([]Todo, 0, len(all))
	for _, t := range all {
		switch {
		case SameDay(t.Date, selected):
			visible = append(visible, t)
		case carryOver && !t.Completed && Day(t.Date).Before(selectedDay):
			visible = append(visible, t)
		}
	}
	return visible
}
