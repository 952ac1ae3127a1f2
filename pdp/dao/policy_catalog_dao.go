// api/pdp/dao/policy_catalog_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
	aegis_neo4j "github.com/lumafin/aegis/api/model/neo4j"
	helper_util "github.com/lumafin/aegis/api/util/helper"
)

// PolicyCatalogDAO retrieves candidate policies from Neo4j. It implements
// catalog.PolicyCatalog.
type PolicyCatalogDAO struct {
	Driver neo4j.Driver
}

func NewPolicyCatalogDAO(driver neo4j.Driver) *PolicyCatalogDAO {
	return &PolicyCatalogDAO{Driver: driver}
}

// FindActiveCandidates returns the active policies governing the resource
// type and action, scoped to the product (policies with no product scope are
// global), ordered by descending priority. Ordering is part of the contract:
// the evaluator performs no further reordering.
func (dao *PolicyCatalogDAO) FindActiveCandidates(ctx context.Context, resourceType, action, product string) ([]*model.Policy, error) {
	start := time.Now()
	logger.Debug("Retrieving candidate policies",
		zap.String("resourceType", resourceType),
		zap.String("action", action),
		zap.String("product", product))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (p:` + aegis_neo4j.LabelPolicy + `)
        WHERE
            p.` + aegis_neo4j.AttrResourceType + ` = $resourceType
        AND
            p.` + aegis_neo4j.AttrAction + ` = $action
        AND
            p.` + aegis_neo4j.AttrActive + ` = true
        AND
            (p.` + aegis_neo4j.AttrProducts + ` IS NULL OR size(p.` + aegis_neo4j.AttrProducts + `) = 0 OR $product IN p.` + aegis_neo4j.AttrProducts + `)
        RETURN p
        ORDER BY p.` + aegis_neo4j.AttrPriority + ` DESC
        `

		params := map[string]interface{}{
			"resourceType": resourceType,
			"action":       action,
			"product":      product,
		}

		result, err := tx.Run(query, params)
		if err != nil {
			return nil, err
		}

		var policies []*model.Policy
		for result.Next() {
			record := result.Record()
			policyNode := record.Values[0].(neo4j.Node)
			policy, err := mapNodeToPolicy(policyNode)
			if err != nil {
				return nil, err
			}
			policies = append(policies, policy)
		}

		return policies, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to retrieve candidate policies",
			zap.Error(err),
			zap.Duration("duration", duration))
		return nil, err
	}

	policies := result.([]*model.Policy)
	logger.Debug("Retrieved candidate policies",
		zap.Int("policyCount", len(policies)),
		zap.Duration("duration", duration))

	return policies, nil
}

// mapNodeToPolicy maps a Neo4j policy node to the model. Rule lists are
// stored as JSON-encoded node properties.
func mapNodeToPolicy(node neo4j.Node) (*model.Policy, error) {
	props := node.Props
	policy := &model.Policy{}

	if id, ok := props[aegis_neo4j.AttrID].(string); ok {
		policy.ID = id
	} else {
		return nil, fmt.Errorf("failed to assert type for policy ID: %v", props[aegis_neo4j.AttrID])
	}

	if name, ok := props[aegis_neo4j.AttrName].(string); ok {
		policy.Name = name
	} else {
		return nil, fmt.Errorf("failed to assert type for policy name: %v", props[aegis_neo4j.AttrName])
	}

	if description, ok := props[aegis_neo4j.AttrDescription].(string); ok {
		policy.Description = description
	}

	if resourceType, ok := props[aegis_neo4j.AttrResourceType].(string); ok {
		policy.ResourceType = resourceType
	} else {
		return nil, fmt.Errorf("failed to assert type for policy resource type: %v", props[aegis_neo4j.AttrResourceType])
	}

	if action, ok := props[aegis_neo4j.AttrAction].(string); ok {
		policy.Action = action
	} else {
		return nil, fmt.Errorf("failed to assert type for policy action: %v", props[aegis_neo4j.AttrAction])
	}

	if effect, ok := props[aegis_neo4j.AttrEffect].(string); ok {
		if effect == aegis_neo4j.PolicyEffectAllow || effect == aegis_neo4j.PolicyEffectDeny {
			policy.Effect = model.Effect(effect)
		} else {
			return nil, fmt.Errorf("invalid policy effect: %v", effect)
		}
	} else {
		return nil, fmt.Errorf("failed to assert type for policy effect: %v", props[aegis_neo4j.AttrEffect])
	}

	if priority, ok := props[aegis_neo4j.AttrPriority].(int64); ok {
		policy.Priority = int(priority)
	} else {
		return nil, fmt.Errorf("failed to assert type for policy priority: %v", props[aegis_neo4j.AttrPriority])
	}

	if version, ok := props[aegis_neo4j.AttrVersion].(int64); ok {
		policy.Version = int(version)
	}

	if active, ok := props[aegis_neo4j.AttrActive].(bool); ok {
		policy.Active = active
	} else {
		return nil, fmt.Errorf("failed to assert type for policy active: %v", props[aegis_neo4j.AttrActive])
	}

	if products, ok := props[aegis_neo4j.AttrProducts].([]interface{}); ok {
		for _, p := range products {
			if code, ok := p.(string); ok {
				policy.Products = append(policy.Products, code)
			}
		}
	}

	if createdAt, ok := props[aegis_neo4j.AttrCreatedAt].(string); ok {
		policy.CreatedAt, _ = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props[aegis_neo4j.AttrUpdatedAt].(string); ok {
		policy.UpdatedAt, _ = helper_util.ParseTime(updatedAt)
	}

	if rulesJSON, ok := props[aegis_neo4j.AttrRules].(string); ok {
		if err := json.Unmarshal([]byte(rulesJSON), &policy.Rules); err != nil {
			return nil, fmt.Errorf("failed to unmarshal policy rules: %w", err)
		}
	} else {
		logger.Warn("Policy node has no rules property, treating as unconditional",
			zap.String("policyID", policy.ID))
	}

	if ruleGroupsJSON, ok := props[aegis_neo4j.AttrRuleGroups].(string); ok {
		if err := json.Unmarshal([]byte(ruleGroupsJSON), &policy.RuleGroups); err != nil {
			return nil, fmt.Errorf("failed to unmarshal policy rule groups: %w", err)
		}
	}

	return policy, nil
}
