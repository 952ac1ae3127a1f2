// api/pdp/engine/operator_evaluator.go
package engine

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"go.uber.org/zap"

	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
)

// ApplyOperator applies one comparison to a resolved attribute value and a
// resolved comparison value. It never panics or errors: unknown operators and
// uncomparable operands evaluate to false.
func ApplyOperator(op model.Operator, attrValue, cmpValue interface{}) bool {
	switch op {
	case model.OpEquals:
		return looseEquals(attrValue, cmpValue)
	case model.OpNotEquals:
		return !looseEquals(attrValue, cmpValue)
	case model.OpIn:
		return containsValue(ToList(cmpValue), attrValue)
	case model.OpNotIn:
		return !containsValue(ToList(cmpValue), attrValue)
	case model.OpContains:
		return containsValue(ToList(attrValue), cmpValue)
	case model.OpContainsAny:
		attrList := ToList(attrValue)
		for _, item := range ToList(cmpValue) {
			if containsValue(attrList, item) {
				return true
			}
		}
		return false
	case model.OpGreaterThan:
		return compareNumeric(attrValue, cmpValue) > 0
	case model.OpGreaterThanOrEqual:
		return compareNumeric(attrValue, cmpValue) >= 0
	case model.OpLessThan:
		return compareNumeric(attrValue, cmpValue) < 0
	case model.OpLessThanOrEqual:
		return compareNumeric(attrValue, cmpValue) <= 0
	case model.OpStartsWith:
		return attrValue != nil && cmpValue != nil &&
			strings.HasPrefix(stringify(attrValue), stringify(cmpValue))
	case model.OpEndsWith:
		return attrValue != nil && cmpValue != nil &&
			strings.HasSuffix(stringify(attrValue), stringify(cmpValue))
	case model.OpMatchesRegex:
		return matchesRegex(attrValue, cmpValue)
	case model.OpIsNull:
		return attrValue == nil
	case model.OpIsNotNull:
		return attrValue != nil
	case model.OpIsTrue:
		return booleanValue(attrValue, true)
	case model.OpIsFalse:
		return booleanValue(attrValue, false)
	default:
		logger.Warn("Unknown operator", zap.String("operator", string(op)))
		return false
	}
}

// looseEquals is structural equality with a string-form fallback, so a
// numeric id and its string representation compare equal. Uncomparable
// operands (slices, maps) go straight to the string form: `==` on two
// interface values holding the same uncomparable type panics.
func looseEquals(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() && a == b {
		return true
	}
	return stringify(a) == stringify(b)
}

func containsValue(list []interface{}, value interface{}) bool {
	for _, item := range list {
		if looseEquals(item, value) {
			return true
		}
	}
	return false
}

// compareNumeric coerces both operands via ToNumber and returns -1, 0 or 1.
// A failed coercion compares as less-than, so the ordering operators fail
// closed instead of erroring.
func compareNumeric(a, b interface{}) int {
	left, okA := ToNumber(a)
	right, okB := ToNumber(b)
	if !okA || !okB {
		return -1
	}
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

func matchesRegex(attrValue, cmpValue interface{}) bool {
	if attrValue == nil || cmpValue == nil {
		return false
	}
	// Full match, as in Pattern.matches: the pattern must cover the whole
	// string form of the attribute value.
	re, err := regexp.Compile("^(?:" + stringify(cmpValue) + ")$")
	if err != nil {
		logger.Warn("Invalid regex in policy rule", zap.String("pattern", stringify(cmpValue)), zap.Error(err))
		return false
	}
	return re.MatchString(stringify(attrValue))
}

func booleanValue(value interface{}, want bool) bool {
	switch v := value.(type) {
	case bool:
		return v == want
	case string:
		return strings.EqualFold(v, fmt.Sprintf("%t", want))
	default:
		return false
	}
}

func stringify(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
