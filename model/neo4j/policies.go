// api/model/neo4j/policies.go
package aegis_neo4j

// Node Labels
const (
	// LabelPolicy represents an authorization policy
	LabelPolicy = "Policy"

	// LabelResourceType represents a governed resource type (e.g. LOAN, MEMO)
	LabelResourceType = "ResourceType"

	// LabelProduct represents a tenant/product scope
	LabelProduct = "Product"
)

// Relationship Types
const (
	// RelGoverns links a policy to the resource type it governs
	RelGoverns = "GOVERNS"

	// RelScopedTo links a policy to the products it is scoped to
	RelScopedTo = "SCOPED_TO"
)

// Attribute Keys
const (
	AttrID           = "id"
	AttrName         = "name"
	AttrDescription  = "description"
	AttrResourceType = "resourceType"
	AttrAction       = "action"
	AttrEffect       = "effect"
	AttrPriority     = "priority"
	AttrActive       = "active"
	AttrProducts     = "products"
	AttrRules        = "rules"
	AttrRuleGroups   = "ruleGroups"
	AttrVersion      = "version"
	AttrCreatedAt    = "createdAt"
	AttrUpdatedAt    = "updatedAt"
)

// Policy effects as stored on Policy nodes
const (
	PolicyEffectAllow = "ALLOW"
	PolicyEffectDeny  = "DENY"
)
