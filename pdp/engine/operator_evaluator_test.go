package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumafin/aegis/api/model"
)

func TestApplyOperator_Equality(t *testing.T) {
	tests := []struct {
		name string
		op   model.Operator
		attr interface{}
		cmp  interface{}
		want bool
	}{
		{"equal strings", model.OpEquals, "PENDING", "PENDING", true},
		{"unequal strings", model.OpEquals, "PENDING", "APPROVED", false},
		{"number equals its string form", model.OpEquals, float64(5000), "5000", true},
		{"int equals float form", model.OpEquals, 7, float64(7), true},
		{"nil equals nil", model.OpEquals, nil, nil, true},
		{"nil never equals a literal", model.OpEquals, nil, "x", false},
		{"not equals", model.OpNotEquals, "a", "b", true},
		{"not equals same", model.OpNotEquals, "a", "a", false},
		{"not equals against nil", model.OpNotEquals, nil, "a", true},
		{"equal slices", model.OpEquals, []string{"ADMIN"}, []string{"ADMIN"}, true},
		{"unequal slices", model.OpEquals, []string{"ADMIN"}, []string{"TELLER"}, false},
		{"slice against scalar", model.OpEquals, []string{"ADMIN"}, "ADMIN", false},
		{"not equals slices", model.OpNotEquals, []string{"READ"}, []string{"WRITE"}, true},
		{"equal maps", model.OpEquals, map[string]interface{}{"k": "v"}, map[string]interface{}{"k": "v"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, ApplyOperator(tt.op, tt.attr, tt.cmp))
			})
		})
	}
}

func TestApplyOperator_Membership(t *testing.T) {
	tests := []struct {
		name string
		op   model.Operator
		attr interface{}
		cmp  interface{}
		want bool
	}{
		{"in list", model.OpIn, "ADMIN", []interface{}{"MANAGER", "ADMIN"}, true},
		{"in list with string fallback", model.OpIn, 2, []interface{}{"1", "2"}, true},
		{"not in list", model.OpNotIn, "TELLER", []interface{}{"MANAGER", "ADMIN"}, true},
		{"in scalar wraps", model.OpIn, "ADMIN", "ADMIN", true},
		{"contains", model.OpContains, []string{"READ", "WRITE"}, "WRITE", true},
		{"contains miss", model.OpContains, []string{"READ"}, "WRITE", false},
		{"contains on scalar attr", model.OpContains, "READ", "READ", true},
		{"contains any overlap", model.OpContainsAny, []string{"ADMIN"}, []interface{}{"MANAGER", "ADMIN"}, true},
		{"contains any disjoint", model.OpContainsAny, []string{"TELLER"}, []interface{}{"MANAGER", "ADMIN"}, false},
		{"contains any nil attr", model.OpContainsAny, nil, []interface{}{"MANAGER"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyOperator(tt.op, tt.attr, tt.cmp))
		})
	}
}

func TestApplyOperator_NumericComparisons(t *testing.T) {
	tests := []struct {
		name string
		op   model.Operator
		attr interface{}
		cmp  interface{}
		want bool
	}{
		{"greater than", model.OpGreaterThan, 5000, 1000, true},
		{"greater than false", model.OpGreaterThan, 500, 1000, false},
		{"greater than equal values", model.OpGreaterThan, 1000, 1000, false},
		{"greater or equal", model.OpGreaterThanOrEqual, 1000, 1000, true},
		{"less than", model.OpLessThan, 500, 1000, true},
		{"less or equal", model.OpLessThanOrEqual, 1000, 1000, true},
		{"string operands coerce", model.OpGreaterThan, "5000", "1000", true},
		// fail-closed: a non-numeric operand compares as less-than
		{"non-numeric attr fails closed", model.OpGreaterThan, "abc", 10, false},
		{"non-numeric cmp fails closed", model.OpGreaterThanOrEqual, 10, "abc", false},
		{"nil attr fails closed", model.OpGreaterThan, nil, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, ApplyOperator(tt.op, tt.attr, tt.cmp))
			})
		})
	}
}

func TestApplyOperator_Strings(t *testing.T) {
	tests := []struct {
		name string
		op   model.Operator
		attr interface{}
		cmp  interface{}
		want bool
	}{
		{"starts with", model.OpStartsWith, "loan-origination", "loan-", true},
		{"starts with miss", model.OpStartsWith, "loan-origination", "memo-", false},
		{"starts with nil attr", model.OpStartsWith, nil, "loan-", false},
		{"ends with", model.OpEndsWith, "b-17", "-17", true},
		{"regex full match", model.OpMatchesRegex, "BR-0042", `BR-\d{4}`, true},
		{"regex partial is not a match", model.OpMatchesRegex, "XBR-0042X", `BR-\d{4}`, false},
		{"regex invalid pattern", model.OpMatchesRegex, "abc", "(", false},
		{"regex nil attr", model.OpMatchesRegex, nil, ".*", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyOperator(tt.op, tt.attr, tt.cmp))
		})
	}
}

func TestApplyOperator_NullAndBoolean(t *testing.T) {
	tests := []struct {
		name string
		op   model.Operator
		attr interface{}
		want bool
	}{
		{"is null on nil", model.OpIsNull, nil, true},
		{"is null on value", model.OpIsNull, "x", false},
		{"is not null on value", model.OpIsNotNull, "x", true},
		{"is not null on nil", model.OpIsNotNull, nil, false},
		{"is true on bool", model.OpIsTrue, true, true},
		{"is true on string", model.OpIsTrue, "TRUE", true},
		{"is true on false", model.OpIsTrue, false, false},
		{"is false on bool", model.OpIsFalse, false, true},
		{"is false on string", model.OpIsFalse, "False", true},
		{"is false on non-boolean", model.OpIsFalse, "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// comparison value is ignored by these operators
			assert.Equal(t, tt.want, ApplyOperator(tt.op, tt.attr, "ignored"))
		})
	}
}

func TestApplyOperator_Unknown(t *testing.T) {
	assert.False(t, ApplyOperator(model.Operator("BETWEEN"), 1, 2))
}
