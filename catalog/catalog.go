// api/catalog/catalog.go
package catalog

import (
	"context"

	"github.com/lumafin/aegis/api/model"
)

// PolicyCatalog supplies the candidate policies for one evaluation: active
// policies matching the resource type, action and product scope, ordered by
// descending priority. The catalog must hand out an immutable view per call;
// the engine never mutates returned policies.
type PolicyCatalog interface {
	FindActiveCandidates(ctx context.Context, resourceType, action, product string) ([]*model.Policy, error)
}
