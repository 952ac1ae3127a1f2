package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumafin/aegis/api/model"
)

func sampleRequest() *model.DecisionRequest {
	req := &model.DecisionRequest{
		Subject: model.Subject{
			ID:             "u-100",
			Username:       "jkim",
			Roles:          []string{"LOAN_OFFICER"},
			BranchIDs:      []string{"b-1", "b-2"},
			ApprovalLimit:  25000,
			HierarchyLevel: 3,
			Attributes: map[string]interface{}{
				"employmentType": "FULL_TIME",
			},
		},
		Action: model.Action{Name: "APPROVE", Method: "POST", Path: "/loans/l-7/approve"},
		Resource: model.Resource{
			Type:     "LOAN",
			ID:       "l-7",
			BranchID: "b-1",
			Amount:   18000,
			OwnerID:  "u-200",
			Status:   "PENDING_APPROVAL",
			Attributes: map[string]interface{}{
				"riskGrade": "B",
			},
		},
		Product: "retail",
		Environment: map[string]interface{}{
			"clientIp":       "10.1.2.3",
			"calling_service": "loan-origination",
			"session": map[string]interface{}{
				"attributes": map[string]interface{}{
					"mfaVerified": true,
				},
			},
		},
	}
	req.Normalize()
	return req
}

func TestResolveAttribute_SubjectFields(t *testing.T) {
	req := sampleRequest()

	assert.Equal(t, "u-100", ResolveAttribute("subject.id", req))
	assert.Equal(t, "u-100", ResolveAttribute("subject.userId", req))
	assert.Equal(t, "jkim", ResolveAttribute("subject.username", req))
	assert.Equal(t, []string{"LOAN_OFFICER"}, ResolveAttribute("subject.roles", req))
	assert.Equal(t, []string{"b-1", "b-2"}, ResolveAttribute("subject.branchIds", req))
	assert.Equal(t, float64(25000), ResolveAttribute("subject.approvalLimit", req))
	assert.Equal(t, 3, ResolveAttribute("subject.hierarchyLevel", req))
}

func TestResolveAttribute_SubjectAttributeFallback(t *testing.T) {
	req := sampleRequest()

	assert.Equal(t, "FULL_TIME", ResolveAttribute("subject.employmentType", req))
	assert.Nil(t, ResolveAttribute("subject.noSuchAttribute", req))
}

func TestResolveAttribute_ResourceFields(t *testing.T) {
	req := sampleRequest()

	assert.Equal(t, "LOAN", ResolveAttribute("resource.type", req))
	assert.Equal(t, "b-1", ResolveAttribute("resource.branchId", req))
	assert.Equal(t, float64(18000), ResolveAttribute("resource.amount", req))
	assert.Equal(t, "u-200", ResolveAttribute("resource.ownerId", req))
	assert.Equal(t, "B", ResolveAttribute("resource.riskGrade", req))
}

func TestResolveAttribute_EnvironmentLookup(t *testing.T) {
	req := sampleRequest()

	// exact key
	assert.Equal(t, "10.1.2.3", ResolveAttribute("environment.clientIp", req))
	// camelCase falls back to the snake_case key
	assert.Equal(t, "loan-origination", ResolveAttribute("environment.callingService", req))
	// context is an alias for environment
	assert.Equal(t, "10.1.2.3", ResolveAttribute("context.clientIp", req))
	// nested attributes sub-map
	assert.Equal(t, true, ResolveAttribute("environment.session.mfaVerified", req))
}

func TestResolveAttribute_AbsentIsNil(t *testing.T) {
	req := sampleRequest()

	assert.Nil(t, ResolveAttribute("environment.noSuchKey", req))
	assert.Nil(t, ResolveAttribute("environment.clientIp.deeper", req))
}

func TestResolveAttribute_MalformedExpression(t *testing.T) {
	req := sampleRequest()

	// fewer than two segments
	assert.Nil(t, ResolveAttribute("subject", req))
	// unknown root
	assert.Nil(t, ResolveAttribute("payload.amount", req))
}

func TestToList(t *testing.T) {
	assert.Empty(t, ToList(nil))
	assert.Equal(t, []interface{}{"a"}, ToList("a"))
	assert.Equal(t, []interface{}{"a", "b"}, ToList([]string{"a", "b"}))
	assert.Equal(t, []interface{}{1, 2}, ToList([]int{1, 2}))
	assert.Equal(t, []interface{}{1.5, 2.5}, ToList([]float64{1.5, 2.5}))
	assert.Equal(t, []interface{}{"x", 1}, ToList([]interface{}{"x", 1}))
	assert.Equal(t, []interface{}{42}, ToList(42))
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"float64", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"integer string", "42", 42, true},
		{"float string", "3.25", 3.25, true},
		{"padded string", " 10 ", 10, true},
		{"empty string", "", 0, false},
		{"non-numeric string", "abc", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
