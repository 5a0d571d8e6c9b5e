package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const experienceField = "experience_years"

// Textual experience bands, tried in order. Ranges resolve to their lower bound.
var (
	plusYearsRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+\s*(?:years?|yrs?)?`)
	atLeastRe    = regexp.MustCompile(`(?:at least|minimum(?: of)?|min\.?)\s*(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`)
	rangeYearsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)\s*(?:years?|yrs?)?`)
	plainYearsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`)
)

// ParseExperienceYears coerces a number or a textual band such as "3-5 years",
// "5+ years" or "at least 4 years" into a single year count. Empty values mean
// no experience stated and yield 0.
func ParseExperienceYears(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return checkYears(v)
	case float32:
		return checkYears(float64(v))
	case int:
		return checkYears(float64(v))
	case int32:
		return checkYears(float64(v))
	case int64:
		return checkYears(float64(v))
	case uint:
		return float64(v), nil
	case json.Number:
		return parseExperienceText(v.String())
	case string:
		return parseExperienceText(v)
	default:
		return 0, &ValidationError{
			Field:   experienceField,
			Message: fmt.Sprintf("unsupported type %T", value),
		}
	}
}

func parseExperienceText(raw string) (float64, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return 0, nil
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return checkYears(f)
	}

	for _, re := range []*regexp.Regexp{plusYearsRe, atLeastRe, rangeYearsRe, plainYearsRe} {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if negated(text[:loc[2]]) {
			return 0, &ValidationError{Field: experienceField, Message: fmt.Sprintf("must not be negative, got %q", raw)}
		}
		f, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			return 0, &ValidationError{Field: experienceField, Message: fmt.Sprintf("cannot parse %q", raw), Cause: err}
		}
		return checkYears(f)
	}

	return 0, &ValidationError{
		Field:   experienceField,
		Message: fmt.Sprintf("cannot coerce %q to a number of years", raw),
	}
}

// negated reports whether the number following prefix carries a minus sign.
// A dash right after another number is a range separator, not a sign.
func negated(prefix string) bool {
	prefix = strings.TrimRight(prefix, " \t")
	if strings.HasSuffix(prefix, "minus") {
		return true
	}
	for _, sign := range []string{"-", "−"} {
		if rest, ok := strings.CutSuffix(prefix, sign); ok {
			rest = strings.TrimRight(rest, " \t")
			return rest == "" || !unicode.IsDigit(rune(rest[len(rest)-1]))
		}
	}
	return false
}

func checkYears(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: experienceField, Message: "must be a finite number"}
	}
	if v < 0 {
		return 0, &ValidationError{Field: experienceField, Message: fmt.Sprintf("must not be negative, got %v", v)}
	}
	return v, nil
}
