package task

import "growpreen/pkg/calendar"

// AvailableTasks filters active templates down to the ones the user can still submit today.
// Template order is preserved.
func AvailableTasks(templates []*Template, submissions []*Submission, today calendar.Day) []*Template {
	byTemplate := make(map[string][]*Submission)
	for _, s := range submissions {
		if s.TemplateID == nil {
			continue
		}
		byTemplate[*s.TemplateID] = append(byTemplate[*s.TemplateID], s)
	}

	out := make([]*Template, 0, len(templates))
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		if available(t.Period, byTemplate[t.ID], today) {
			out = append(out, t)
		}
	}
	return out
}

func available(period Period, related []*Submission, today calendar.Day) bool {
	month := today.Month()
	for _, s := range related {
		switch period {
		case PeriodDaily:
			if s.Date == today && (s.Status == StatusPending || s.Status == StatusApproved) {
				return false
			}
		case PeriodMonthly:
			if s.Status == StatusApproved && month.Contains(s.Date) {
				return false
			}
		default:
			if s.Status == StatusApproved {
				return false
			}
		}
	}
	return true
}
