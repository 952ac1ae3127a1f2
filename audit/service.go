// api/audit/service.go
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logger "github.com/lumafin/aegis/api/logging"
)

// Service is the decision-audit sink. RecordDecision is fire-and-forget: the
// write happens off the decision path and its failure is logged, never
// surfaced to the caller.
type Service interface {
	RecordDecision(ctx context.Context, record DecisionRecord)
	QueryDecisions(ctx context.Context, from, to time.Time, subjectID, resourceID string) ([]DecisionRecord, error)
	Close() error
}

type service struct {
	repo         Repository
	group        *errgroup.Group
	writeTimeout time.Duration
}

func NewService(repo Repository, writeTimeout time.Duration) Service {
	g := &errgroup.Group{}
	g.SetLimit(64)
	return &service{
		repo:         repo,
		group:        g,
		writeTimeout: writeTimeout,
	}
}

func (s *service) RecordDecision(_ context.Context, record DecisionRecord) {
	s.group.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic while recording decision audit",
					zap.Any("panic", r),
					zap.String("recordID", record.ID))
			}
		}()

		// Detached from the request context: a cancelled evaluation request
		// must not abort the audit write.
		ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()

		if err := s.repo.LogDecision(ctx, record); err != nil {
			logger.Error("Failed to record decision audit",
				zap.Error(err),
				zap.String("recordID", record.ID),
				zap.String("subjectID", record.SubjectID),
				zap.String("decision", string(record.Decision)))
		}
		return nil
	})
}

func (s *service) QueryDecisions(ctx context.Context, from, to time.Time, subjectID, resourceID string) ([]DecisionRecord, error) {
	return s.repo.QueryDecisions(ctx, from, to, subjectID, resourceID)
}

// Close drains in-flight audit writes.
func (s *service) Close() error {
	return s.group.Wait()
}
