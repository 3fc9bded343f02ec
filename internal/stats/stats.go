// Package stats computes the dashboard aggregations: memory-stage
// distribution, review forecast, streak, accuracy, and the activity
// heatmap. Every function is pure over the records it is handed, with the
// clock injected; all day-boundary math goes through internal/timezone so
// the reports cannot disagree about where a day begins.
package stats

import (
	"math"
	"time"

	"github.com/recallbox/recallbox/internal/domain"
	"github.com/recallbox/recallbox/internal/timezone"
)

// WindowDays is the trailing window, in days, over which session-based
// stats (streak, accuracy, heatmap) are computed.
const WindowDays = 90

// Stage is the coarse memory bucket a card sits in, derived from its
// consecutive-success count. Display only; the scheduler never reads it.
type Stage string

const (
	StageNew       Stage = "new"
	StageLearning  Stage = "learning"
	StageReviewing Stage = "reviewing"
	StageMastered  Stage = "mastered"
)

// StageOf classifies a repetition count: 0 new, 1-2 learning, 3-5
// reviewing, above 5 mastered.
func StageOf(repetitions int) Stage {
	switch {
	case repetitions == 0:
		return StageNew
	case repetitions <= 2:
		return StageLearning
	case repetitions <= 5:
		return StageReviewing
	default:
		return StageMastered
	}
}

// MemoryStages is the per-stage card histogram.
type MemoryStages struct {
	New       int `json:"new"`
	Learning  int `json:"learning"`
	Reviewing int `json:"reviewing"`
	Mastered  int `json:"mastered"`
}

// ReviewForecast buckets cards by when they come due, relative to the end
// of the current local day. A card with no schedule counts as due today.
// Cards scheduled beyond the 7-day horizon are not counted anywhere; the
// dashboard shows only the upcoming week.
type ReviewForecast struct {
	Today    int `json:"today"`
	Tomorrow int `json:"tomorrow"`
	In3Days  int `json:"in3Days"`
	In7Days  int `json:"in7Days"`
}

// OverviewStats is the card-derived dashboard block, computed per deck or
// across a user's whole collection.
type OverviewStats struct {
	MemoryStages   MemoryStages   `json:"memoryStages"`
	ReviewForecast ReviewForecast `json:"reviewForecast"`
}

// Overview aggregates memory stages and the review forecast over the given
// cards, with day boundaries taken in loc.
func Overview(cards []domain.Card, loc *time.Location, now time.Time) OverviewStats {
	dayStart := timezone.StartOfDay(now, loc)
	todayEnd := dayStart.AddDate(0, 0, 1)
	tomorrowEnd := dayStart.AddDate(0, 0, 2)
	threeDaysEnd := dayStart.AddDate(0, 0, 4)
	sevenDaysEnd := dayStart.AddDate(0, 0, 8)

	var out OverviewStats
	for _, card := range cards {
		_, reps := card.SchedulingState()
		switch StageOf(reps) {
		case StageNew:
			out.MemoryStages.New++
		case StageLearning:
			out.MemoryStages.Learning++
		case StageReviewing:
			out.MemoryStages.Reviewing++
		case StageMastered:
			out.MemoryStages.Mastered++
		}

		if card.NextReview == nil {
			out.ReviewForecast.Today++
			continue
		}
		next := *card.NextReview
		switch {
		case !next.After(todayEnd):
			out.ReviewForecast.Today++
		case !next.After(tomorrowEnd):
			out.ReviewForecast.Tomorrow++
		case !next.After(threeDaysEnd):
			out.ReviewForecast.In3Days++
		case !next.After(sevenDaysEnd):
			out.ReviewForecast.In7Days++
		}
	}
	return out
}

// GamificationStats is the motivational dashboard block. AccuracyRate is
// nil when no cards were studied in the window: "no data" is distinct
// from 0% accuracy.
type GamificationStats struct {
	Streak       int  `json:"streak"`
	TodayCards   int  `json:"todayCards"`
	WeekCards    int  `json:"weekCards"`
	AccuracyRate *int `json:"accuracyRate"`
}

// Gamification computes streak, today/week card counts, and accuracy from
// the user's sessions. Only completed sessions inside the trailing 90-day
// window count. The streak walks backward from the current local day and
// stops at the first day without a completed session.
func Gamification(sessions []domain.StudySession, loc *time.Location, now time.Time) GamificationStats {
	windowStart := now.AddDate(0, 0, -WindowDays)
	todayStart := timezone.StartOfDay(now, loc)
	weekStart := todayStart.AddDate(0, 0, -6)

	studiedDays := make(map[string]struct{})
	var out GamificationStats
	var totalCorrect, totalStudied int

	for _, s := range sessions {
		if !s.Completed() || s.StartedAt.Before(windowStart) {
			continue
		}
		studiedDays[timezone.DayKey(s.StartedAt, loc)] = struct{}{}

		if !s.StartedAt.Before(todayStart) {
			out.TodayCards += s.CardsStudied
		}
		if !s.StartedAt.Before(weekStart) {
			out.WeekCards += s.CardsStudied
		}
		totalCorrect += s.CardsCorrect
		totalStudied += s.CardsStudied
	}

	for check := todayStart; ; check = check.AddDate(0, 0, -1) {
		if _, ok := studiedDays[timezone.DayKey(check, loc)]; !ok {
			break
		}
		out.Streak++
	}

	if totalStudied > 0 {
		rate := int(math.Round(100 * float64(totalCorrect) / float64(totalStudied)))
		out.AccuracyRate = &rate
	}
	return out
}

// ActivityHistory sums cards studied per local day across completed
// sessions in the trailing window, keyed by YYYY-MM-DD for the heatmap.
func ActivityHistory(sessions []domain.StudySession, loc *time.Location, now time.Time) map[string]int {
	windowStart := now.AddDate(0, 0, -WindowDays)

	byDay := make(map[string]int)
	for _, s := range sessions {
		if !s.Completed() || s.StartedAt.Before(windowStart) {
			continue
		}
		byDay[timezone.DayKey(s.StartedAt, loc)] += s.CardsStudied
	}
	return byDay
}
