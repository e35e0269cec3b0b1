// Package priority implements the priority formulas that map an
// item's due-date, interval, review history, and difficulty into a
// [0,10] urgency score consumed by the queue builder.
package priority

import "time"

// Generic computes the due-based priority used for learning items
// (and as the unrated fallback).
func Generic(now, due time.Time, intervalDays float64, difficulty float64, reviewCount int) float64 {
	daysUntil := due.Sub(now).Hours() / 24.0

	var p float64
	if !due.After(now) {
		p = max0(10 - intervalDays/10)
		p += 0.1 * difficulty
		return clamp(p, 0, 10)
	}

	switch {
	case daysUntil <= 1:
		p = 8
	case daysUntil <= 3:
		p = 6
	case daysUntil <= 7:
		p = 4
	default:
		p = 2
	}

	p += 0.1 * difficulty
	if reviewCount < 3 {
		p++
	}
	return clamp(p, 0, 10)
}

// FSRSDocument computes the FSRS-shaped document priority.
// nextReadingDate is nil for a document that has never been read.
func FSRSDocument(now time.Time, nextReadingDate *time.Time, stability, difficulty *float64, userPriorityRating int) float64 {
	var p float64
	switch {
	case nextReadingDate == nil:
		p = 9.0
	case nextReadingDate.After(now):
		daysUntil := nextReadingDate.Sub(now).Hours() / 24.0
		switch {
		case daysUntil <= 1:
			p = 8
		case daysUntil <= 3:
			p = 6
		case daysUntil <= 7:
			p = 4
		default:
			p = 2
		}
	default:
		daysOverdue := now.Sub(*nextReadingDate).Hours() / 24.0
		p = maxf(10-0.1*daysOverdue, 5.0)
	}

	p *= ratingFactor(userPriorityRating)

	if stability != nil {
		if *stability < 5 {
			p += 0.5
		} else if *stability < 10 {
			p += 0.2
		}
	}
	if difficulty != nil {
		if *difficulty > 7 {
			p += 0.3
		} else if *difficulty > 5 {
			p += 0.1
		}
	}

	return clamp(p, 0, 10)
}

// ratingFactor maps a user priority rating in [1,10] onto a multiplier
// via linear interpolation: 1 -> 0.5, 5 -> 1.0, 10 -> 2.0. A rating of
// 0 (unset) is treated as the neutral midpoint.
func ratingFactor(rating int) float64 {
	if rating <= 0 {
		rating = 5
	}
	switch {
	case rating <= 5:
		// interpolate [1,5] -> [0.5,1.0]
		return 0.5 + (float64(rating)-1)/4*0.5
	default:
		// interpolate [5,10] -> [1.0,2.0]
		return 1.0 + (float64(rating)-5)/5*1.0
	}
}

// Extract computes the extract priority. New extracts (never
// reviewed) are urgent; reviewed ones return at a lower, still-elevated
// priority.
func Extract(reviewCount int) float64 {
	if reviewCount == 0 {
		return 9.0
	}
	return 7.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max0(v float64) float64 { return maxf(v, 0) }

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
