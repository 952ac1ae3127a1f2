// api/model/policy.go
package model

import (
	"time"
)

type Effect string

const (
	EffectAllow Effect = "ALLOW"
	EffectDeny  Effect = "DENY"
)

// Operator is the fixed comparison vocabulary of policy rules.
type Operator string

const (
	OpEquals             Operator = "EQUALS"
	OpNotEquals          Operator = "NOT_EQUALS"
	OpIn                 Operator = "IN"
	OpNotIn              Operator = "NOT_IN"
	OpContains           Operator = "CONTAINS"
	OpContainsAny        Operator = "CONTAINS_ANY"
	OpGreaterThan        Operator = "GREATER_THAN"
	OpGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
	OpLessThan           Operator = "LESS_THAN"
	OpLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
	OpStartsWith         Operator = "STARTS_WITH"
	OpEndsWith           Operator = "ENDS_WITH"
	OpMatchesRegex       Operator = "MATCHES_REGEX"
	OpIsNull             Operator = "IS_NULL"
	OpIsNotNull          Operator = "IS_NOT_NULL"
	OpIsTrue             Operator = "IS_TRUE"
	OpIsFalse            Operator = "IS_FALSE"
)

// ValueType declares how a rule's comparison value is interpreted.
// EXPRESSION means the value is itself a dotted attribute path resolved
// against the same request.
type ValueType string

const (
	ValueTypeString     ValueType = "STRING"
	ValueTypeNumber     ValueType = "NUMBER"
	ValueTypeBoolean    ValueType = "BOOLEAN"
	ValueTypeArray      ValueType = "ARRAY"
	ValueTypeExpression ValueType = "EXPRESSION"
)

type TemporalCondition string

const (
	TemporalNone          TemporalCondition = "NONE"
	TemporalBusinessHours TemporalCondition = "BUSINESS_HOURS"
	TemporalWeekdaysOnly  TemporalCondition = "WEEKDAYS_ONLY"
	TemporalWeekendsOnly  TemporalCondition = "WEEKENDS_ONLY"
	TemporalWithinPeriod  TemporalCondition = "WITHIN_PERIOD"
	TemporalOutsidePeriod TemporalCondition = "OUTSIDE_PERIOD"
	TemporalTimeWindow    TemporalCondition = "TIME_WINDOW"
)

// Policy is a single authorization statement. A policy with zero rules
// matches unconditionally.
type Policy struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	ResourceType string            `json:"resource_type"`
	Action       string            `json:"action"`
	Effect       Effect            `json:"effect"`
	Priority     int               `json:"priority"`
	Active       bool              `json:"active"`
	Products     []string          `json:"products,omitempty"` // empty = global scope
	Rules        []PolicyRule      `json:"rules"`
	RuleGroups   []PolicyRuleGroup `json:"rule_groups,omitempty"`
	Version      int               `json:"version"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// PolicyRule is one condition. Rules sharing a RuleGroup label are conjoined
// before the group's pass/fail is recorded. Temporal fields are ignored when
// TemporalCondition is NONE.
type PolicyRule struct {
	ID        string    `json:"id"`
	Attribute string    `json:"attribute"` // dotted path, e.g. subject.approvalLimit
	Operator  Operator  `json:"operator"`
	ValueType ValueType `json:"value_type"`
	Value     string    `json:"value"`
	RuleGroup string    `json:"rule_group,omitempty"`
	SortOrder int       `json:"sort_order"`

	TemporalCondition TemporalCondition `json:"temporal_condition,omitempty"`
	TimeFrom          string            `json:"time_from,omitempty"` // HH:MM
	TimeTo            string            `json:"time_to,omitempty"`   // HH:MM
	ValidFrom         *time.Time        `json:"valid_from,omitempty"`
	ValidUntil        *time.Time        `json:"valid_until,omitempty"`
	Timezone          string            `json:"timezone,omitempty"`
}

// PolicyRuleGroup is persisted for policy authoring but not consulted by the
// evaluator: groups derive from each rule's RuleGroup label and are always
// ANDed, both within and across groups.
type PolicyRuleGroup struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LogicOperator string `json:"logic_operator"` // "AND" or "OR"
	SortOrder     int    `json:"sort_order"`
}
