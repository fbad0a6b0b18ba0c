package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotePatch holds the mutable note fields; nil means "leave unchanged".
type NotePatch struct {
	Title         *string
	Content       *string
	Tags          *[]string
	SubjectID     *uuid.UUID
	ClearSubject  bool
	IsAIGenerated *bool
}

// Updates returns the column map for a partial update, stamped with now.
func (p NotePatch) Updates(now time.Time) map[string]any {
	out := map[string]any{"updated_at": now}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Content != nil {
		out["content"] = *p.Content
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		out["tags"] = datatypes.JSONSlice[string](tags)
	}
	if p.ClearSubject {
		out["subject_id"] = nil
	} else if p.SubjectID != nil {
		out["subject_id"] = *p.SubjectID
	}
	if p.IsAIGenerated != nil {
		out["is_ai_generated"] = *p.IsAIGenerated
	}
	return out
}

// ProgressPatch holds the progress fields a caller supplied. On insert nil
// fields take the column default; on conflict they keep the stored value.
type ProgressPatch struct {
	ProgressPercentage *float64
	TopicsMastered     *int
	CurrentTopic       *string
	LastStudiedAt      *time.Time
}

// Apply copies the supplied fields onto row.
func (p ProgressPatch) Apply(row *UserSubjectProgress) {
	if p.ProgressPercentage != nil {
		row.ProgressPercentage = *p.ProgressPercentage
	}
	if p.TopicsMastered != nil {
		row.TopicsMastered = *p.TopicsMastered
	}
	if p.CurrentTopic != nil {
		row.CurrentTopic = p.CurrentTopic
	}
	if p.LastStudiedAt != nil {
		row.LastStudiedAt = p.LastStudiedAt
	}
}

// Columns names the supplied columns.
func (p ProgressPatch) Columns() []string {
	cols := make([]string, 0, 4)
	if p.ProgressPercentage != nil {
		cols = append(cols, "progress_percentage")
	}
	if p.TopicsMastered != nil {
		cols = append(cols, "topics_mastered")
	}
	if p.CurrentTopic != nil {
		cols = append(cols, "current_topic")
	}
	if p.LastStudiedAt != nil {
		cols = append(cols, "last_studied_at")
	}
	return cols
}
