// api/model/decision.go
package model

// DecisionRequest is the input to every policy evaluation. All collection
// fields are normalized to empty, never nil, so attribute resolution does not
// have to special-case absence at the top level.
type DecisionRequest struct {
	Subject     Subject                `json:"subject"`
	Action      Action                 `json:"action"`
	Resource    Resource               `json:"resource"`
	Product     string                 `json:"product"`
	Environment map[string]interface{} `json:"environment"`
}

type Subject struct {
	ID             string                 `json:"id"`
	Username       string                 `json:"username"`
	Roles          []string               `json:"roles"`
	Permissions    []string               `json:"permissions"`
	BranchIDs      []string               `json:"branchIds"`
	DepartmentIDs  []string               `json:"departmentIds"`
	RegionIDs      []string               `json:"regionIds"`
	ApprovalLimit  float64                `json:"approvalLimit"`
	HierarchyLevel int                    `json:"hierarchyLevel"`
	Attributes     map[string]interface{} `json:"attributes"`
}

// Action carries the action name plus transport-level hints. Method and Path
// are informational only; evaluation keys on Name.
type Action struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

type Resource struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	BranchID   string                 `json:"branchId"`
	RegionID   string                 `json:"regionId"`
	Amount     float64                `json:"amount"`
	OwnerID    string                 `json:"ownerId"`
	Status     string                 `json:"status"`
	Attributes map[string]interface{} `json:"attributes"`
}

// Normalize replaces nil collection fields with empty ones.
func (r *DecisionRequest) Normalize() {
	if r.Subject.Roles == nil {
		r.Subject.Roles = []string{}
	}
	if r.Subject.Permissions == nil {
		r.Subject.Permissions = []string{}
	}
	if r.Subject.BranchIDs == nil {
		r.Subject.BranchIDs = []string{}
	}
	if r.Subject.DepartmentIDs == nil {
		r.Subject.DepartmentIDs = []string{}
	}
	if r.Subject.RegionIDs == nil {
		r.Subject.RegionIDs = []string{}
	}
	if r.Subject.Attributes == nil {
		r.Subject.Attributes = map[string]interface{}{}
	}
	if r.Resource.Attributes == nil {
		r.Resource.Attributes = map[string]interface{}{}
	}
	if r.Environment == nil {
		r.Environment = map[string]interface{}{}
	}
}

// GroupResult is one entry in the explainability trail: the outcome of a
// single rule group, in the order the groups were evaluated.
type GroupResult struct {
	Group   string `json:"group"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

type DecisionResponse struct {
	ID               string        `json:"id"`
	Allowed          bool          `json:"allowed"`
	Effect           Effect        `json:"effect"`
	MatchedPolicyID  string        `json:"matchedPolicyId,omitempty"`
	MatchedPolicy    string        `json:"matchedPolicy,omitempty"`
	Reason           string        `json:"reason"`
	EvaluationTimeMs int64         `json:"evaluationTimeMs"`
	Details          []GroupResult `json:"details"`
}
