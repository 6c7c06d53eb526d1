// Package age infers an animal's age in months from free-form listing text.
package age

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultKittenMonths is the conservative estimate used when a listing says
// "kitten" without giving any number at all.
const DefaultKittenMonths = 4

var (
	digitRe = regexp.MustCompile(`\d`)
	monthRe = regexp.MustCompile(`(\d+)\s*[-\s]?months?`)
	yearRe  = regexp.MustCompile(`(\d+)\s*[-\s]?years?`)

	// Matches "July 19, 2025", "jul 19 2025", "September 3rd, 2024" etc.
	birthdateRe = regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// InferMonths extracts an age in whole months from arbitrary text.
// Rules are tried in order and the first match wins:
//
//  1. "kitten" with no digits anywhere -> DefaultKittenMonths
//  2. "N months" / "N-month-old"      -> N
//  3. "N years" / "N-year-old"        -> N * 12
//  4. a birthdate like "July 19, 2025" -> whole months between it and now
//
// The second return value is false when no rule matched.
func InferMonths(text string, now time.Time) (int, bool) {
	t := strings.ToLower(text)

	if strings.Contains(t, "kitten") && !digitRe.MatchString(t) {
		return DefaultKittenMonths, true
	}

	if m := monthRe.FindStringSubmatch(t); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n, true
		}
	}

	if y := yearRe.FindStringSubmatch(t); y != nil {
		n, err := strconv.Atoi(y[1])
		if err == nil {
			return n * 12, true
		}
	}

	if months, ok := monthsSinceBirthdate(t, now); ok {
		return months, true
	}

	return 0, false
}

// HasBirthdate reports whether the text contains a calendar-date expression
// the birthdate rule would consider. Used by the extractor to decide which
// ancestor block carries the age information.
func HasBirthdate(text string) bool {
	return birthdateRe.MatchString(strings.ToLower(text))
}

// Qualifies reports whether a listing with the given inferred age should
// trigger an alert. An unknown age never qualifies: the checker is
// conservative about alerts it cannot substantiate.
func Qualifies(months int, known bool, maxAgeMonths int) bool {
	return known && months <= maxAgeMonths
}

func monthsSinceBirthdate(t string, now time.Time) (int, bool) {
	m := birthdateRe.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}

	month, ok := monthsByPrefix[m[1]]
	if !ok {
		return 0, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, false
	}

	months := (now.Year()-year)*12 + int(now.Month()) - int(month)
	if months < 0 {
		months = 0
	}
	return months, true
}
