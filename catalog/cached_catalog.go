// api/catalog/cached_catalog.go
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/lumafin/aegis/api/db"
	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
	"github.com/lumafin/aegis/api/util"
)

// CachedCatalog is a read-through decorator over a PolicyCatalog. Candidate
// lists are cached in Redis under their full (resourceType, action, product)
// key and dropped when a policy.changed event arrives, so a new catalog
// version hot-swaps between calls without touching in-flight evaluations.
type CachedCatalog struct {
	delegate PolicyCatalog
}

func NewCachedCatalog(delegate PolicyCatalog, eventBus *util.EventBus) *CachedCatalog {
	c := &CachedCatalog{delegate: delegate}
	eventBus.Subscribe(util.EventPolicyChanged, c.handlePolicyChanged)
	return c
}

func (c *CachedCatalog) FindActiveCandidates(ctx context.Context, resourceType, action, product string) ([]*model.Policy, error) {
	cached, err := db.GetCachedCandidatePolicies(ctx, resourceType, action, product)
	if err != nil {
		// Cache trouble degrades to a catalog read, never to a failed decision.
		logger.Warn("Candidate cache read failed, falling back to catalog",
			zap.Error(err),
			zap.String("resourceType", resourceType),
			zap.String("action", action))
	} else if cached != nil {
		return cached, nil
	}

	policies, err := c.delegate.FindActiveCandidates(ctx, resourceType, action, product)
	if err != nil {
		return nil, err
	}

	if err := db.CacheCandidatePolicies(ctx, resourceType, action, product, policies); err != nil {
		logger.Warn("Failed to cache candidate policies", zap.Error(err))
	}

	return policies, nil
}

func (c *CachedCatalog) handlePolicyChanged(ctx context.Context, event util.Event) error {
	policy, ok := event.Payload.(model.Policy)
	if !ok {
		logger.Error("Invalid policy.changed payload", zap.Any("payload", event.Payload))
		return nil
	}
	return db.InvalidateCandidatePolicies(ctx, policy.ResourceType, policy.Action)
}
