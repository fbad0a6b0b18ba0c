package user

import "time"

// UserStatsPatch holds the mutable stats fields; nil means "leave unchanged".
type UserStatsPatch struct {
	StudyStreak         *int
	TotalHoursStudied   *float64
	TotalTopicsMastered *int
	OverallProgress     *float64
	LastActiveDate      *time.Time
}

func (p UserStatsPatch) Updates(now time.Time) map[string]any {
	out := map[string]any{"updated_at": now}
	if p.StudyStreak != nil {
		out["study_streak"] = *p.StudyStreak
	}
	if p.TotalHoursStudied != nil {
		out["total_hours_studied"] = *p.TotalHoursStudied
	}
	if p.TotalTopicsMastered != nil {
		out["total_topics_mastered"] = *p.TotalTopicsMastered
	}
	if p.OverallProgress != nil {
		out["overall_progress"] = *p.OverallProgress
	}
	if p.LastActiveDate != nil {
		out["last_active_date"] = *p.LastActiveDate
	}
	return out
}
