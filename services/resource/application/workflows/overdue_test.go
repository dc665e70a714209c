package workflows

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/testsuite"

	"github.com/ghuser/volunteerhub/pkg/config"
	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

type fakeAssignments map[uuid.UUID]*models.Assignment

func (f fakeAssignments) GetByID(_ context.Context, id uuid.UUID) (*models.Assignment, error) {
	a, ok := f[id]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	return a, nil
}

type fakeResources map[uuid.UUID]*models.Resource

func (f fakeResources) GetByID(_ context.Context, id uuid.UUID) (*models.Resource, error) {
	r, ok := f[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return r, nil
}

type recordingSink struct {
	mu   sync.Mutex
	sent []events.Notification
}

func (s *recordingSink) Emit(_ context.Context, n events.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

func fixture(status models.AssignmentStatus) (*Activities, *recordingSink, *models.Assignment) {
	res := &models.Resource{ID: uuid.New(), OrganizationID: uuid.New()}
	asg := models.NewAssignment(res.ID, models.AssignToVolunteer, uuid.New(), 1, uuid.New())
	asg.Status = status
	sink := &recordingSink{}
	return &Activities{
		Assignments: fakeAssignments{asg.ID: asg},
		Resources:   fakeResources{res.ID: res},
		Sink:        sink,
		Log:         logger.New(&config.Config{LogLevel: "error"}),
	}, sink, asg
}

func TestOverdueReturnWorkflow(t *testing.T) {
	tests := []struct {
		name         string
		status       models.AssignmentStatus
		wantNotified bool
	}{
		{"still in use", models.AssignmentInUse, true},
		{"return requested but not confirmed", models.AssignmentPendingReturn, true},
		{"returned on time", models.AssignmentReturned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts testsuite.WorkflowTestSuite
			env := ts.NewTestWorkflowEnvironment()

			acts, sink, asg := fixture(tt.status)
			env.RegisterActivity(acts)

			env.ExecuteWorkflow(OverdueReturnWorkflow, OverdueReturnInput{
				AssignmentID: asg.ID,
				DueAt:        env.Now().Add(72 * time.Hour),
			})

			if !env.IsWorkflowCompleted() {
				t.Fatal("workflow did not complete")
			}
			if err := env.GetWorkflowError(); err != nil {
				t.Fatalf("workflow error: %v", err)
			}
			var notified bool
			if err := env.GetWorkflowResult(&notified); err != nil {
				t.Fatalf("workflow result: %v", err)
			}
			if notified != tt.wantNotified {
				t.Fatalf("notified = %v, want %v", notified, tt.wantNotified)
			}
			if tt.wantNotified {
				if len(sink.sent) != 1 || sink.sent[0].Kind != events.NotifyReturnOverdue || sink.sent[0].AssignmentID != asg.ID {
					t.Fatalf("sent %+v", sink.sent)
				}
			} else if len(sink.sent) != 0 {
				t.Fatalf("unexpected notifications: %+v", sink.sent)
			}
		})
	}
}

func TestOverdueReturnWorkflow_UnknownAssignment(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	acts, _, _ := fixture(models.AssignmentInUse)
	env.RegisterActivity(acts)
	env.ExecuteWorkflow(OverdueReturnWorkflow, OverdueReturnInput{AssignmentID: uuid.New(), DueAt: env.Now()})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if env.GetWorkflowError() == nil {
		t.Fatal("expected workflow error for unknown assignment")
	}
}

func TestCheckOverdueReturn_StableEventID(t *testing.T) {
	acts, sink, asg := fixture(models.AssignmentInUse)

	for range 2 {
		if _, err := acts.CheckOverdueReturn(context.Background(), asg.ID); err != nil {
			t.Fatalf("CheckOverdueReturn: %v", err)
		}
	}
	if len(sink.sent) != 2 || sink.sent[0].EventID != sink.sent[1].EventID {
		t.Fatalf("retries must reuse the event id: %+v", sink.sent)
	}
}

func TestWorkflowID(t *testing.T) {
	id := uuid.MustParse("6f1c1d1e-0000-4000-8000-000000000001")
	if got := WorkflowID(id); got != "overdue-return-6f1c1d1e-0000-4000-8000-000000000001" {
		t.Fatalf("WorkflowID() = %q", got)
	}
}
