// Package progress turns study sessions into the weekly numbers shown on the
// dashboard. Everything here is pure and safe for concurrent use.
package progress

import (
	"math"
	"time"

	types "github.com/yungbote/medstudy-backend/internal/domain"
)

const (
	minBarHeight = 20.0
	maxBarHeight = 90.0
	// hours that map to an 80% bar before clamping
	fullScaleHours = 4.0
)

var dayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type DayBucket struct {
	Day     string    `json:"day"`
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
	Hours   float64   `json:"hours"`
	Height  float64   `json:"height"`
}

type Summary struct {
	WeekStart         time.Time   `json:"weekStart"`
	Days              []DayBucket `json:"days"`
	TotalHours        float64     `json:"totalHours"`
	TotalQuestions    int         `json:"totalQuestions"`
	TotalCorrect      int         `json:"totalCorrect"`
	Accuracy          float64     `json:"accuracy"`
	AverageDailyHours float64     `json:"averageDailyHours"`
}

// WeekStart returns local midnight of the Monday on or before now.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	offset := (int(local.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	y, m, d := local.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// BarHeight maps hours onto the chart's percentage scale.
func BarHeight(hours float64) float64 {
	return math.Min(math.Max(hours/fullScaleHours*80, minBarHeight), maxBarHeight)
}

// WeeklyChart buckets sessions into the Monday..Sunday week containing now,
// by the calendar day of startedAt in loc. Sessions outside that week are
// ignored.
func WeeklyChart(sessions []*types.StudySession, now time.Time, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.UTC
	}
	start := WeekStart(now, loc)
	buckets := make([]DayBucket, 7)
	for i := range buckets {
		y, m, d := start.Date()
		buckets[i] = DayBucket{Day: dayLabels[i], Date: time.Date(y, m, d+i, 0, 0, 0, 0, loc)}
	}
	for _, s := range sessions {
		if s == nil {
			continue
		}
		idx := dayIndex(start, s.StartedAt.In(loc))
		if idx < 0 || idx > 6 {
			continue
		}
		buckets[idx].Minutes += s.Duration
	}
	for i := range buckets {
		buckets[i].Hours = float64(buckets[i].Minutes) / 60
		buckets[i].Height = BarHeight(buckets[i].Hours)
	}
	return buckets
}

// dayIndex counts calendar days between start and t, both in the same zone.
// Calendar arithmetic keeps DST days from shifting buckets.
func dayIndex(start, t time.Time) int {
	sy, sm, sd := start.Date()
	ty, tm, td := t.Date()
	a := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Accuracy is correct/answered as a percentage; 0 when nothing was answered.
func Accuracy(correct, answered int) float64 {
	if answered <= 0 {
		return 0
	}
	return float64(correct) / float64(answered) * 100
}

// WeeklySummary charts the week containing now and totals the question
// counts over every session passed in.
func WeeklySummary(sessions []*types.StudySession, now time.Time, loc *time.Location) Summary {
	days := WeeklyChart(sessions, now, loc)
	out := Summary{WeekStart: WeekStart(now, loc), Days: days}
	for _, d := range days {
		out.TotalHours += d.Hours
	}
	for _, s := range sessions {
		if s == nil {
			continue
		}
		out.TotalQuestions += s.QuestionsAnswered
		out.TotalCorrect += s.CorrectAnswers
	}
	out.Accuracy = Accuracy(out.TotalCorrect, out.TotalQuestions)
	out.AverageDailyHours = out.TotalHours / 7
	return out
}
