// api/service/evaluation_service_test.go
package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"

	"github.com/lumafin/aegis/api/audit"
	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
	"github.com/lumafin/aegis/api/pdp/engine"
	"github.com/lumafin/aegis/api/service"
	"github.com/lumafin/aegis/api/test/mock"
	"github.com/lumafin/aegis/api/util"
)

func TestMain(m *testing.M) {
	logger.InitLogger(os.TempDir())
	defer logger.Sync()
	os.Exit(m.Run())
}

func decisionRequest() *model.DecisionRequest {
	return &model.DecisionRequest{
		Subject:  model.Subject{ID: "u-1", Roles: []string{"LOAN_OFFICER"}},
		Action:   model.Action{Name: "APPROVE"},
		Resource: model.Resource{Type: "LOAN", ID: "l-1", Amount: 500},
		Product:  "retail",
	}
}

func allowAllCatalog() *mock.MockPolicyCatalog {
	cat := new(mock.MockPolicyCatalog)
	cat.On("FindActiveCandidates", tmock.Anything, "LOAN", "APPROVE", "retail").
		Return([]*model.Policy{
			{ID: "pol-1", Name: "AllowAll", Effect: model.EffectAllow, Priority: 1, Active: true},
		}, nil)
	return cat
}

func TestEvaluate_RecordsAuditAndPublishesEvent(t *testing.T) {
	auditSvc := new(mock.MockAuditService)
	auditSvc.On("RecordDecision", tmock.Anything, tmock.Anything).Return()

	bus := util.NewEventBus()
	published := make(chan util.Event, 1)
	bus.Subscribe(util.EventDecisionRecorded, func(_ context.Context, ev util.Event) error {
		published <- ev
		return nil
	})

	svc := service.NewEvaluationService(engine.NewPolicyEvaluator(allowAllCatalog()), auditSvc, bus)
	resp, err := svc.Evaluate(context.Background(), decisionRequest())

	assert.NoError(t, err)
	assert.True(t, resp.Allowed)

	auditSvc.AssertCalled(t, "RecordDecision", tmock.Anything, tmock.Anything)
	rec := auditSvc.Calls[0].Arguments.Get(1).(audit.DecisionRecord)
	assert.Equal(t, "pol-1", rec.PolicyID)
	assert.Equal(t, model.EffectAllow, rec.Decision)
	assert.Equal(t, "u-1", rec.SubjectID)

	select {
	case ev := <-published:
		assert.Equal(t, util.EventDecisionRecorded, ev.Type)
		assert.IsType(t, audit.DecisionRecord{}, ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("decision event was never published")
	}
}

func TestEvaluateDryRun_SkipsAudit(t *testing.T) {
	auditSvc := new(mock.MockAuditService)
	bus := util.NewEventBus()

	svc := service.NewEvaluationService(engine.NewPolicyEvaluator(allowAllCatalog()), auditSvc, bus)
	resp, err := svc.EvaluateDryRun(context.Background(), decisionRequest())

	assert.NoError(t, err)
	assert.True(t, resp.Allowed)
	auditSvc.AssertNotCalled(t, "RecordDecision", tmock.Anything, tmock.Anything)
}

func TestEvaluate_EvaluatorErrorSkipsAudit(t *testing.T) {
	cat := new(mock.MockPolicyCatalog)
	cat.On("FindActiveCandidates", tmock.Anything, "LOAN", "APPROVE", "retail").
		Return(nil, assert.AnError)

	auditSvc := new(mock.MockAuditService)
	svc := service.NewEvaluationService(engine.NewPolicyEvaluator(cat), auditSvc, util.NewEventBus())

	resp, err := svc.Evaluate(context.Background(), decisionRequest())

	assert.Error(t, err)
	assert.Nil(t, resp)
	auditSvc.AssertNotCalled(t, "RecordDecision", tmock.Anything, tmock.Anything)
}

func TestEvaluate_AuditPanicDoesNotFailDecision(t *testing.T) {
	auditSvc := new(mock.MockAuditService)
	auditSvc.On("RecordDecision", tmock.Anything, tmock.Anything).
		Run(func(tmock.Arguments) { panic("sink exploded") }).
		Return()

	svc := service.NewEvaluationService(engine.NewPolicyEvaluator(allowAllCatalog()), auditSvc, util.NewEventBus())

	var resp *model.DecisionResponse
	var err error
	assert.NotPanics(t, func() {
		resp, err = svc.Evaluate(context.Background(), decisionRequest())
	})
	assert.NoError(t, err)
	assert.True(t, resp.Allowed)
}
