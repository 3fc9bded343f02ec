package srs

import (
	"fmt"
	"math"
	"time"
)

// Confidence is the user's self-assessment after flipping a card.
type Confidence string

const (
	Wrong Confidence = "wrong"
	Close Confidence = "close"
	Hard  Confidence = "hard"
	Easy  Confidence = "easy"
)

const (
	// MinEfactor is the SM-2 easiness floor.
	MinEfactor = 1.3

	// passThreshold is the quality below which a review counts as a lapse.
	passThreshold = 3
)

const day = 24 * time.Hour

// QualityFromConfidence maps a confidence level to the 0-5 SM-2 quality
// scale: wrong=0, close=2, hard=3, easy=5. The scale intentionally skips
// 1 and 4; only the four named levels are valid input.
func QualityFromConfidence(c Confidence) (int, error) {
	switch c {
	case Wrong:
		return 0, nil
	case Close:
		return 2, nil
	case Hard:
		return 3, nil
	case Easy:
		return 5, nil
	}
	return 0, fmt.Errorf("unknown confidence level %q", c)
}

// Schedule is the complete scheduling state produced by one review. All
// three fields are always populated.
type Schedule struct {
	Efactor     float64
	Repetitions int
	NextReview  time.Time
}

// ComputeNextReview applies the SM-2 algorithm to a card's current state.
//
// The easiness factor is updated on every review, lapse or not:
//
//	EF' = max(1.3, EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)))
//
// A quality below 3 is a lapse: repetitions reset to 0 and the next review
// is one day out. Otherwise repetitions increment and the interval follows
// the ladder 1 day, 6 days, then ceil(6 * EF'^(n-2)) days for the n-th
// consecutive success.
//
// Quality is handled for any integer 0-5, even though the confidence
// mapping only ever produces {0, 2, 3, 5}.
func ComputeNextReview(efactor float64, repetitions, quality int, now time.Time) Schedule {
	q := float64(quality)
	newEfactor := efactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if newEfactor < MinEfactor {
		newEfactor = MinEfactor
	}

	if quality < passThreshold {
		return Schedule{
			Efactor:     newEfactor,
			Repetitions: 0,
			NextReview:  now.Add(day),
		}
	}

	newRepetitions := repetitions + 1
	var intervalDays int
	switch newRepetitions {
	case 1:
		intervalDays = 1
	case 2:
		intervalDays = 6
	default:
		intervalDays = int(math.Ceil(6 * math.Pow(newEfactor, float64(newRepetitions-2))))
	}

	return Schedule{
		Efactor:     newEfactor,
		Repetitions: newRepetitions,
		NextReview:  now.Add(time.Duration(intervalDays) * day),
	}
}
