// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lumafin/aegis/api/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordDecision(ctx context.Context, record audit.DecisionRecord) {
	m.Called(ctx, record)
}

func (m *MockAuditService) QueryDecisions(ctx context.Context, from, to time.Time, subjectID, resourceID string) ([]audit.DecisionRecord, error) {
	args := m.Called(ctx, from, to, subjectID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.DecisionRecord), args.Error(1)
}

func (m *MockAuditService) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) LogDecision(ctx context.Context, record audit.DecisionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) QueryDecisions(ctx context.Context, from, to time.Time, subjectID, resourceID string) ([]audit.DecisionRecord, error) {
	args := m.Called(ctx, from, to, subjectID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.DecisionRecord), args.Error(1)
}
