// test/mock/catalog.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lumafin/aegis/api/model"
)

// MockPolicyCatalog is a mock implementation of catalog.PolicyCatalog
type MockPolicyCatalog struct {
	mock.Mock
}

func (m *MockPolicyCatalog) FindActiveCandidates(ctx context.Context, resourceType, action, product string) ([]*model.Policy, error) {
	args := m.Called(ctx, resourceType, action, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Policy), args.Error(1)
}
