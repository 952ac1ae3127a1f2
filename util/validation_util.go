// api/util/validation_util.go

package util

import (
	"fmt"

	"github.com/lumafin/aegis/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

// ValidateDecisionRequest rejects requests the engine cannot meaningfully
// evaluate. Attribute-level absence is handled inside the engine; this only
// guards the identifying fields.
func (v *ValidationUtil) ValidateDecisionRequest(request model.DecisionRequest) error {
	if request.Subject.ID == "" {
		return fmt.Errorf("subject id cannot be empty")
	}
	if request.Action.Name == "" {
		return fmt.Errorf("action name cannot be empty")
	}
	if request.Resource.Type == "" {
		return fmt.Errorf("resource type cannot be empty")
	}
	return nil
}
