// api/audit/service_test.go
package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"

	"github.com/lumafin/aegis/api/audit"
	"github.com/lumafin/aegis/api/model"
	"github.com/lumafin/aegis/api/test/mock"
)

func sampleRecord() audit.DecisionRecord {
	return audit.DecisionRecord{
		ID:           "rec-1",
		Timestamp:    time.Now().UTC(),
		PolicyID:     "pol-1",
		PolicyName:   "P1",
		SubjectID:    "u-1",
		ResourceType: "LOAN",
		ResourceID:   "l-1",
		Action:       "APPROVE",
		Decision:     model.EffectDeny,
		Reason:       "Explicit deny by policy: P1",
	}
}

func TestRecordDecision_WritesAsynchronously(t *testing.T) {
	repo := new(mock.MockAuditRepository)
	written := make(chan audit.DecisionRecord, 1)
	repo.On("LogDecision", tmock.Anything, tmock.Anything).
		Run(func(args tmock.Arguments) {
			written <- args.Get(1).(audit.DecisionRecord)
		}).
		Return(nil)

	svc := audit.NewService(repo, 2*time.Second)
	svc.RecordDecision(context.Background(), sampleRecord())

	select {
	case rec := <-written:
		assert.Equal(t, "rec-1", rec.ID)
		assert.Equal(t, model.EffectDeny, rec.Decision)
	case <-time.After(2 * time.Second):
		t.Fatal("audit write never reached the repository")
	}
	assert.NoError(t, svc.Close())
}

func TestRecordDecision_SurvivesCancelledRequestContext(t *testing.T) {
	repo := new(mock.MockAuditRepository)
	repo.On("LogDecision", tmock.Anything, tmock.Anything).
		Run(func(args tmock.Arguments) {
			// The write context is detached from the caller's.
			assert.NoError(t, args.Get(0).(context.Context).Err())
		}).
		Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := audit.NewService(repo, 2*time.Second)
	svc.RecordDecision(ctx, sampleRecord())
	assert.NoError(t, svc.Close())

	repo.AssertCalled(t, "LogDecision", tmock.Anything, tmock.Anything)
}

func TestRecordDecision_SwallowsRepositoryFailure(t *testing.T) {
	repo := new(mock.MockAuditRepository)
	repo.On("LogDecision", tmock.Anything, tmock.Anything).
		Return(errors.New("elasticsearch unreachable"))

	svc := audit.NewService(repo, time.Second)
	assert.NotPanics(t, func() {
		svc.RecordDecision(context.Background(), sampleRecord())
	})
	// Close drains the write and still reports no error
	assert.NoError(t, svc.Close())
}

func TestCloseDrainsInFlightWrites(t *testing.T) {
	repo := new(mock.MockAuditRepository)
	var wrote bool
	repo.On("LogDecision", tmock.Anything, tmock.Anything).
		Run(func(tmock.Arguments) {
			time.Sleep(50 * time.Millisecond)
			wrote = true
		}).
		Return(nil)

	svc := audit.NewService(repo, time.Second)
	svc.RecordDecision(context.Background(), sampleRecord())
	assert.NoError(t, svc.Close())
	assert.True(t, wrote, "Close must wait for the pending write")
}

func TestQueryDecisions_Delegates(t *testing.T) {
	repo := new(mock.MockAuditRepository)
	from := time.Now().Add(-time.Hour)
	to := time.Now()
	expected := []audit.DecisionRecord{sampleRecord()}
	repo.On("QueryDecisions", tmock.Anything, from, to, "u-1", "").
		Return(expected, nil)

	svc := audit.NewService(repo, time.Second)
	records, err := svc.QueryDecisions(context.Background(), from, to, "u-1", "")

	assert.NoError(t, err)
	assert.Equal(t, expected, records)
}

func TestNewDecisionRecord_FlattensContext(t *testing.T) {
	req := &model.DecisionRequest{
		Subject:  model.Subject{ID: "u-1", Roles: []string{"LOAN_OFFICER", "AUDITOR"}},
		Action:   model.Action{Name: "APPROVE", Method: "POST", Path: "/loans/l-1/approve"},
		Resource: model.Resource{Type: "LOAN", ID: "l-1", OwnerID: "u-2", Status: "PENDING"},
		Product:  "retail",
		Environment: map[string]interface{}{
			"clientIp": "10.0.0.4",
		},
	}
	resp := &model.DecisionResponse{
		Allowed:          false,
		Effect:           model.EffectDeny,
		MatchedPolicyID:  "pol-1",
		MatchedPolicy:    "P1",
		Reason:           "Explicit deny by policy: P1",
		EvaluationTimeMs: 3,
	}

	rec := audit.NewDecisionRecord(req, resp)

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Timestamp.IsZero())
	assert.Equal(t, "pol-1", rec.PolicyID)
	assert.Equal(t, "u-1", rec.SubjectID)
	assert.Equal(t, "LOAN", rec.ResourceType)
	assert.Equal(t, model.EffectDeny, rec.Decision)
	assert.Equal(t, int64(3), rec.EvaluationTimeMs)
	assert.Equal(t, "retail", rec.Context["product"])
	assert.Equal(t, "LOAN_OFFICER,AUDITOR", rec.Context["subject.roles"])
	assert.Equal(t, "u-2", rec.Context["resource.owner"])
	assert.Equal(t, "10.0.0.4", rec.Context["env.clientIp"])
}
