// api/pdp/engine/attribute_resolver.go
package engine

import (
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
)

// ResolveAttribute extracts a value from the request by dotted path, e.g.
// "subject.approvalLimit" or "environment.clientIp". Roots are subject,
// resource and environment (context is accepted as an alias). Any missing
// root, missing segment or failed lookup resolves to nil rather than an
// error; callers treat nil as the distinct "absent" value.
func ResolveAttribute(path string, request *model.DecisionRequest) interface{} {
	segments := strings.Split(path, ".")
	if len(segments) < 2 {
		logger.Warn("Malformed attribute expression", zap.String("path", path))
		return nil
	}

	var current interface{}
	switch segments[0] {
	case "subject":
		current = &request.Subject
	case "resource":
		current = &request.Resource
	case "environment", "context":
		current = request.Environment
	default:
		logger.Warn("Unknown attribute root", zap.String("path", path), zap.String("root", segments[0]))
		return nil
	}

	for _, segment := range segments[1:] {
		if current == nil {
			return nil
		}
		current = resolveSegment(current, segment)
	}

	return current
}

func resolveSegment(value interface{}, key string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return lookupMap(v, key)
	case map[string]string:
		converted := make(map[string]interface{}, len(v))
		for k, s := range v {
			converted[k] = s
		}
		return lookupMap(converted, key)
	case *model.Subject:
		return resolveSubjectField(v, key)
	case model.Subject:
		return resolveSubjectField(&v, key)
	case *model.Resource:
		return resolveResourceField(v, key)
	case model.Resource:
		return resolveResourceField(&v, key)
	default:
		return nil
	}
}

// lookupMap tries the exact key, then its snake_case transliteration, then a
// nested "attributes" sub-map, in that order.
func lookupMap(m map[string]interface{}, key string) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	if v, ok := m[toSnakeCase(key)]; ok {
		return v
	}
	if nested, ok := m["attributes"].(map[string]interface{}); ok {
		return lookupMap(nested, key)
	}
	return nil
}

func resolveSubjectField(s *model.Subject, key string) interface{} {
	switch key {
	case "id", "userId":
		return s.ID
	case "username":
		return s.Username
	case "roles":
		return s.Roles
	case "permissions":
		return s.Permissions
	case "branchIds":
		return s.BranchIDs
	case "departmentIds":
		return s.DepartmentIDs
	case "regionIds":
		return s.RegionIDs
	case "approvalLimit":
		return s.ApprovalLimit
	case "hierarchyLevel":
		return s.HierarchyLevel
	default:
		return lookupMap(s.Attributes, key)
	}
}

func resolveResourceField(r *model.Resource, key string) interface{} {
	switch key {
	case "type":
		return r.Type
	case "id":
		return r.ID
	case "branchId":
		return r.BranchID
	case "regionId":
		return r.RegionID
	case "amount":
		return r.Amount
	case "ownerId":
		return r.OwnerID
	case "status":
		return r.Status
	default:
		return lookupMap(r.Attributes, key)
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToList shapes a resolved value for membership operators: sequences pass
// through, scalars wrap as a single-element list, nil becomes empty.
func ToList(value interface{}) []interface{} {
	switch v := value.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		return v
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []float64:
		out := make([]interface{}, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out
	case []int:
		out := make([]interface{}, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out
	default:
		return []interface{}{value}
	}
}

// ToNumber coerces a resolved value to float64. Strings parse as integer or
// floating point depending on the presence of a decimal point. The second
// return is false when the value has no numeric form.
func ToNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if strings.Contains(s, ".") {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, false
			}
			return f, true
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	default:
		return 0, false
	}
}
