// api/pdp/engine/temporal_evaluator.go
package engine

import (
	"time"

	"go.uber.org/zap"

	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
)

const (
	defaultBusinessStart = "09:00"
	defaultBusinessEnd   = "18:00"
)

// TemporalSatisfied reports whether a rule's time restriction holds at the
// given instant. Rules with condition NONE always hold. The instant is shifted
// into the rule's timezone; an invalid or blank timezone falls back to the
// evaluator's local zone.
func TemporalSatisfied(rule *model.PolicyRule, now time.Time) bool {
	if rule.TemporalCondition == "" || rule.TemporalCondition == model.TemporalNone {
		return true
	}

	if rule.Timezone != "" {
		loc, err := time.LoadLocation(rule.Timezone)
		if err != nil {
			logger.Warn("Invalid timezone on policy rule, using local zone",
				zap.String("ruleID", rule.ID),
				zap.String("timezone", rule.Timezone))
		} else {
			now = now.In(loc)
		}
	}

	switch rule.TemporalCondition {
	case model.TemporalBusinessHours:
		return isWeekday(now) && withinClock(now, orDefault(rule.TimeFrom, defaultBusinessStart), orDefault(rule.TimeTo, defaultBusinessEnd))
	case model.TemporalWeekdaysOnly:
		return isWeekday(now)
	case model.TemporalWeekendsOnly:
		return !isWeekday(now)
	case model.TemporalWithinPeriod:
		return withinPeriod(rule, now)
	case model.TemporalOutsidePeriod:
		return !withinPeriod(rule, now)
	case model.TemporalTimeWindow:
		if rule.TimeFrom == "" || rule.TimeTo == "" {
			// Fail-open when a bound is missing. Deliberate, but a known
			// policy-authoring footgun, hence the warning.
			logger.Warn("TIME_WINDOW rule with missing bounds treated as satisfied",
				zap.String("ruleID", rule.ID),
				zap.String("attribute", rule.Attribute))
			return true
		}
		return withinClock(now, rule.TimeFrom, rule.TimeTo)
	default:
		logger.Warn("Unknown temporal condition",
			zap.String("ruleID", rule.ID),
			zap.String("condition", string(rule.TemporalCondition)))
		return false
	}
}

func isWeekday(t time.Time) bool {
	day := t.Weekday()
	return day != time.Saturday && day != time.Sunday
}

// withinClock checks current time-of-day against an inclusive [from, to]
// window of "HH:MM" bounds. Unparseable bounds fail the window: a missing
// TIME_WINDOW bound is the only sanctioned fail-open case and is handled
// before this point.
func withinClock(now time.Time, from, to string) bool {
	start, okFrom := parseClock(from)
	end, okTo := parseClock(to)
	if !okFrom || !okTo {
		logger.Warn("Unparseable time bound on policy rule",
			zap.String("from", from), zap.String("to", to))
		return false
	}
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= start && minutes <= end
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func withinPeriod(rule *model.PolicyRule, now time.Time) bool {
	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return false
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return false
	}
	return true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
