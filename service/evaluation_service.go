// api/service/evaluation_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lumafin/aegis/api/audit"
	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
	"github.com/lumafin/aegis/api/pdp/engine"
	"github.com/lumafin/aegis/api/util"
)

// IEvaluationService is the engine's outward-facing entry point.
type IEvaluationService interface {
	// Evaluate decides the request and emits a decision-audit record.
	Evaluate(ctx context.Context, request *model.DecisionRequest) (*model.DecisionResponse, error)

	// EvaluateDryRun decides the request without any audit side effect. Used
	// by policy-authoring previews.
	EvaluateDryRun(ctx context.Context, request *model.DecisionRequest) (*model.DecisionResponse, error)
}

// EvaluationService wraps the policy evaluator with decision auditing. Audit
// emission is best-effort and side-channel only: nothing that happens while
// building or writing the record may alter or fail the returned decision.
type EvaluationService struct {
	evaluator    *engine.PolicyEvaluator
	auditService audit.Service
	eventBus     *util.EventBus
}

func NewEvaluationService(evaluator *engine.PolicyEvaluator, auditService audit.Service, eventBus *util.EventBus) *EvaluationService {
	return &EvaluationService{
		evaluator:    evaluator,
		auditService: auditService,
		eventBus:     eventBus,
	}
}

func (s *EvaluationService) Evaluate(ctx context.Context, request *model.DecisionRequest) (*model.DecisionResponse, error) {
	response, err := s.evaluator.Evaluate(ctx, request)
	if err != nil {
		return nil, err
	}

	s.recordDecision(ctx, request, response)
	return response, nil
}

func (s *EvaluationService) EvaluateDryRun(ctx context.Context, request *model.DecisionRequest) (*model.DecisionResponse, error) {
	return s.evaluator.Evaluate(ctx, request)
}

// recordDecision builds and emits the audit record. Failures here are caught
// and logged; the decision has already been finalized.
func (s *EvaluationService) recordDecision(ctx context.Context, request *model.DecisionRequest, response *model.DecisionResponse) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while building decision audit record",
				zap.Any("panic", r),
				zap.String("decisionID", response.ID))
		}
	}()

	record := audit.NewDecisionRecord(request, response)
	s.auditService.RecordDecision(ctx, record)
	s.eventBus.Publish(ctx, util.EventDecisionRecorded, record)
}
