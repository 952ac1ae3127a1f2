// api/audit/model.go
package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumafin/aegis/api/model"
)

// DecisionRecord is the immutable, write-once trace of one evaluation. The
// engine never reads these back; they exist for compliance review.
type DecisionRecord struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	PolicyID         string            `json:"policy_id,omitempty"`
	PolicyName       string            `json:"policy_name,omitempty"`
	SubjectID        string            `json:"subject_id"`
	ResourceType     string            `json:"resource_type"`
	ResourceID       string            `json:"resource_id"`
	Action           string            `json:"action"`
	Decision         model.Effect      `json:"decision"`
	Reason           string            `json:"reason"`
	EvaluationTimeMs int64             `json:"evaluation_time_ms"`
	Context          map[string]string `json:"context,omitempty"`
}

// NewDecisionRecord derives an audit record from a request/response pair.
func NewDecisionRecord(request *model.DecisionRequest, response *model.DecisionResponse) DecisionRecord {
	return DecisionRecord{
		ID:               uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		PolicyID:         response.MatchedPolicyID,
		PolicyName:       response.MatchedPolicy,
		SubjectID:        request.Subject.ID,
		ResourceType:     request.Resource.Type,
		ResourceID:       request.Resource.ID,
		Action:           request.Action.Name,
		Decision:         response.Effect,
		Reason:           response.Reason,
		EvaluationTimeMs: response.EvaluationTimeMs,
		Context:          flattenContext(request),
	}
}

// flattenContext collapses the request context into prefixed string keys so
// the snapshot stays queryable as flat fields.
func flattenContext(request *model.DecisionRequest) map[string]string {
	ctx := map[string]string{
		"product":         request.Product,
		"subject.roles":   strings.Join(request.Subject.Roles, ","),
		"resource.owner":  request.Resource.OwnerID,
		"resource.status": request.Resource.Status,
		"action.method":   request.Action.Method,
		"action.path":     request.Action.Path,
	}
	for k, v := range request.Environment {
		ctx["env."+k] = fmt.Sprintf("%v", v)
	}
	return ctx
}
