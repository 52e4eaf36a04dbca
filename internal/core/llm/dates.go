package llm

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	yearsAgoRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+years?\s+ago\b`)
	lastYearRe = regexp.MustCompile(`(?i)\blast\s+year\b`)
	thisYearRe = regexp.MustCompile(`(?i)\bthis\s+year\b`)
)

// NormalizeQuestionDates rewrites relative year phrases into absolute years
// before the question reaches the resolver, e.g. "5 years ago" -> "in 2021".
// Small models resolve absolute years far more reliably.
func NormalizeQuestionDates(question string, todayYear int) string {
	q := yearsAgoRe.ReplaceAllStringFunc(question, func(m string) string {
		groups := yearsAgoRe.FindStringSubmatch(m)
		k, err := strconv.Atoi(groups[1])
		if err != nil || k < 0 || k > 50 {
			return m
		}
		return fmt.Sprintf("in %d", todayYear-k)
	})
	q = lastYearRe.ReplaceAllString(q, fmt.Sprintf("in %d", todayYear-1))
	q = thisYearRe.ReplaceAllString(q, fmt.Sprintf("in %d", todayYear))
	return q
}
