// api/pdp/engine/evaluator.go
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumafin/aegis/api/catalog"
	aegis_errors "github.com/lumafin/aegis/api/errors"
	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
)

const defaultRuleGroup = "default"

// Reason strings are part of the decision contract; downstream consumers key
// on them for troubleshooting and UI display.
const (
	ReasonNoMatchingPolicy = "No matching policy found"
	ReasonNoConditionMatch = "No policy conditions matched"
)

// PolicyEvaluator walks the priority-ordered candidate list and returns the
// first matching policy's effect. It is stateless between calls: any number
// of evaluations may run concurrently against a shared catalog snapshot.
type PolicyEvaluator struct {
	catalog catalog.PolicyCatalog
	clock   func() time.Time
}

func NewPolicyEvaluator(cat catalog.PolicyCatalog) *PolicyEvaluator {
	return &PolicyEvaluator{catalog: cat, clock: time.Now}
}

// Evaluate produces a decision for the request. A catalog failure is the only
// hard error; every other irregularity degrades to a DENY with an explanatory
// reason.
func (pe *PolicyEvaluator) Evaluate(ctx context.Context, request *model.DecisionRequest) (*model.DecisionResponse, error) {
	start := time.Now()
	now := pe.clock()
	request.Normalize()

	policies, err := pe.catalog.FindActiveCandidates(ctx, request.Resource.Type, request.Action.Name, request.Product)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aegis_errors.ErrCatalogUnavailable, err)
	}

	details := []model.GroupResult{}

	if len(policies) == 0 {
		logger.Debug("No candidate policies for request",
			zap.String("resourceType", request.Resource.Type),
			zap.String("action", request.Action.Name),
			zap.String("product", request.Product))
		return pe.deny(start, details, "", "", ReasonNoMatchingPolicy), nil
	}

	for _, policy := range policies {
		matched, results := pe.evaluatePolicy(request, policy, now)
		details = append(details, results...)
		if !matched {
			continue
		}

		logger.Debug("Policy matched",
			zap.String("policyID", policy.ID),
			zap.String("policyName", policy.Name),
			zap.String("effect", string(policy.Effect)),
			zap.Int("priority", policy.Priority))

		if policy.Effect == model.EffectAllow {
			return &model.DecisionResponse{
				ID:               uuid.NewString(),
				Allowed:          true,
				Effect:           model.EffectAllow,
				MatchedPolicyID:  policy.ID,
				MatchedPolicy:    policy.Name,
				Reason:           fmt.Sprintf("Access granted by policy: %s", policy.Name),
				EvaluationTimeMs: time.Since(start).Milliseconds(),
				Details:          details,
			}, nil
		}
		return pe.deny(start, details, policy.ID, policy.Name,
			fmt.Sprintf("Explicit deny by policy: %s", policy.Name)), nil
	}

	return pe.deny(start, details, "", "", ReasonNoConditionMatch), nil
}

func (pe *PolicyEvaluator) deny(start time.Time, details []model.GroupResult, policyID, policyName, reason string) *model.DecisionResponse {
	return &model.DecisionResponse{
		ID:               uuid.NewString(),
		Allowed:          false,
		Effect:           model.EffectDeny,
		MatchedPolicyID:  policyID,
		MatchedPolicy:    policyName,
		Reason:           reason,
		EvaluationTimeMs: time.Since(start).Milliseconds(),
		Details:          details,
	}
}

// evaluatePolicy checks one policy against the request. A policy with no
// rules matches unconditionally. Otherwise rules are partitioned by their
// RuleGroup label and every group must pass; group evaluation short-circuits
// on the first failing group, keeping the detail entries recorded so far.
func (pe *PolicyEvaluator) evaluatePolicy(request *model.DecisionRequest, policy *model.Policy, now time.Time) (bool, []model.GroupResult) {
	if len(policy.Rules) == 0 {
		return true, nil
	}

	groupNames, groups := partitionRules(policy.Rules)

	var results []model.GroupResult
	for _, name := range groupNames {
		passed := true
		for i := range groups[name] {
			if !pe.evaluateRule(request, &groups[name][i], now) {
				passed = false
				break
			}
		}

		message := "All rules satisfied"
		if !passed {
			message = "Rule conditions not satisfied"
		}
		results = append(results, model.GroupResult{Group: name, Passed: passed, Message: message})

		if !passed {
			return false, results
		}
	}

	return true, results
}

// partitionRules splits rules by group label, preserving first-appearance
// group order and sorting each group's rules by SortOrder (stable, so
// catalog order breaks ties).
func partitionRules(rules []model.PolicyRule) ([]string, map[string][]model.PolicyRule) {
	ordered := make([]model.PolicyRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	var names []string
	groups := make(map[string][]model.PolicyRule)
	for _, rule := range ordered {
		name := rule.RuleGroup
		if name == "" {
			name = defaultRuleGroup
		}
		if _, seen := groups[name]; !seen {
			names = append(names, name)
		}
		groups[name] = append(groups[name], rule)
	}
	return names, groups
}

// evaluateRule passes iff the rule's temporal condition holds and its
// operator is satisfied for the resolved operand pair.
func (pe *PolicyEvaluator) evaluateRule(request *model.DecisionRequest, rule *model.PolicyRule, now time.Time) bool {
	if !TemporalSatisfied(rule, now) {
		return false
	}

	attrValue := ResolveAttribute(rule.Attribute, request)
	cmpValue := resolveComparisonValue(rule, request)

	satisfied := ApplyOperator(rule.Operator, attrValue, cmpValue)
	logger.Debug("Rule evaluated",
		zap.String("attribute", rule.Attribute),
		zap.String("operator", string(rule.Operator)),
		zap.Any("attrValue", attrValue),
		zap.Any("cmpValue", cmpValue),
		zap.Bool("satisfied", satisfied))
	return satisfied
}

// resolveComparisonValue materializes the rule's comparison operand. An
// EXPRESSION value is a second attribute path resolved live against the same
// request; static values parse per the rule's declared value type.
func resolveComparisonValue(rule *model.PolicyRule, request *model.DecisionRequest) interface{} {
	switch rule.ValueType {
	case model.ValueTypeExpression:
		return ResolveAttribute(rule.Value, request)
	case model.ValueTypeNumber:
		if n, ok := ToNumber(rule.Value); ok {
			return n
		}
		logger.Warn("Non-numeric literal on NUMBER rule", zap.String("value", rule.Value))
		return nil
	case model.ValueTypeBoolean:
		b, err := strconv.ParseBool(strings.ToLower(rule.Value))
		if err != nil {
			logger.Warn("Invalid boolean literal on rule", zap.String("value", rule.Value))
			return nil
		}
		return b
	case model.ValueTypeArray:
		var items []interface{}
		if err := json.Unmarshal([]byte(rule.Value), &items); err == nil {
			return items
		}
		// Authoring tools sometimes store arrays as comma-separated text.
		parts := strings.Split(rule.Value, ",")
		fallback := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			fallback = append(fallback, strings.TrimSpace(p))
		}
		return fallback
	default:
		return rule.Value
	}
}
