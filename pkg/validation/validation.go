package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the calendar-date form conference dates are submitted and
// stored in: day.month.year.
const DateLayout = "02.01.2006"

var (
	// GroupNameRegex validates group name charset
	GroupNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateGroupName validates a group name: 2-20 characters, alphanumeric,
// underscore or hyphen only.
func ValidateGroupName(name string) error {
	if name == "" {
		return fmt.Errorf("group name is required")
	}
	length := utf8.RuneCountInString(name)
	if length < 2 {
		return fmt.Errorf("group name must be at least 2 characters")
	}
	if length > 20 {
		return fmt.Errorf("group name is too long (max 20 characters)")
	}
	if !GroupNameRegex.MatchString(name) {
		return fmt.Errorf("group name contains invalid characters (only letters, numbers, _, - allowed)")
	}
	return nil
}

// ValidateTopic validates a conference topic length (3-100 characters).
func ValidateTopic(topic string) error {
	length := utf8.RuneCountInString(topic)
	if length < 3 {
		return fmt.Errorf("topic must be at least 3 characters")
	}
	if length > 100 {
		return fmt.Errorf("topic is too long (max 100 characters)")
	}
	return nil
}

// ValidateConferenceDate validates a dd.mm.yyyy date that is not in the past.
// Same-day dates are allowed. The comparison uses the wall clock at call time;
// the result is not re-checked at commit time.
func ValidateConferenceDate(text string) error {
	return validateConferenceDateAt(text, time.Now())
}

func validateConferenceDateAt(text string, now time.Time) error {
	parsed, err := time.ParseInLocation(DateLayout, text, now.Location())
	if err != nil {
		return fmt.Errorf("invalid date format (expected DD.MM.YYYY)")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if parsed.Before(today) {
		return fmt.Errorf("date is in the past")
	}
	return nil
}

// ValidateConferenceLink validates a join link. This is a coarse sanity
// check: an http(s) prefix and more than 10 characters total. Callers must
// not assume the link is reachable or even well-formed.
func ValidateConferenceLink(link string) error {
	if link == "" {
		return fmt.Errorf("link is required")
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return fmt.Errorf("link must start with http:// or https://")
	}
	if len(link) <= 10 {
		return fmt.Errorf("link is too short")
	}
	return nil
}
