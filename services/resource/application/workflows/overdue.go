// Package workflows holds the Temporal workflows of the resource service.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

// OverdueReturnInput starts an OverdueReturnWorkflow.
type OverdueReturnInput struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	DueAt        time.Time `json:"due_at"`
}

// OverdueReturnWorkflow sleeps until the assignment's expected return time and
// then checks it once. Returns true if an overdue notification was sent.
func OverdueReturnWorkflow(ctx workflow.Context, in OverdueReturnInput) (bool, error) {
	if wait := in.DueAt.Sub(workflow.Now(ctx)); wait > 0 {
		if err := workflow.Sleep(ctx, wait); err != nil {
			return false, err
		}
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    5,
		},
	})

	var a *Activities
	var notified bool
	if err := workflow.ExecuteActivity(ctx, a.CheckOverdueReturn, in.AssignmentID).Get(ctx, &notified); err != nil {
		return false, err
	}
	return notified, nil
}

// AssignmentReader loads assignments.
type AssignmentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
}

// ResourceReader loads resources.
type ResourceReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error)
}

// Activities are the side-effecting steps of the resource workflows.
type Activities struct {
	Assignments AssignmentReader
	Resources   ResourceReader
	Sink        events.Sink
	Log         logger.Logger
}

// CheckOverdueReturn emits a return_overdue notification if the assignment
// has not been returned. Emit failures are returned so Temporal retries them.
func (a *Activities) CheckOverdueReturn(ctx context.Context, assignmentID uuid.UUID) (bool, error) {
	asg, err := a.Assignments.GetByID(ctx, assignmentID)
	if errors.Is(err, domain.ErrAssignmentNotFound) {
		return false, temporal.NewNonRetryableApplicationError("assignment not found", "AssignmentNotFound", err)
	}
	if err != nil {
		return false, fmt.Errorf("load assignment: %w", err)
	}
	if asg.Status == models.AssignmentReturned {
		return false, nil
	}

	res, err := a.Resources.GetByID(ctx, asg.ResourceID)
	if err != nil {
		return false, fmt.Errorf("load resource: %w", err)
	}

	n := events.NewNotification(events.NotifyReturnOverdue, res.ID, asg.ID, uuid.Nil, res.OrganizationID, asg.RelatedID)
	// Stable id so receivers drop duplicates from activity retries.
	n.EventID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("return_overdue:"+asg.ID.String()))
	if err := a.Sink.Emit(ctx, n); err != nil {
		return false, fmt.Errorf("emit overdue notification: %w", err)
	}

	a.Log.InfoContext(ctx, "overdue return notified",
		"assignment_id", asg.ID,
		"resource_id", res.ID,
		"status", asg.Status,
	)
	return true, nil
}

// Register adds the workflows and activities to w.
func Register(r worker.Registry, acts *Activities) {
	r.RegisterWorkflow(OverdueReturnWorkflow)
	r.RegisterActivity(acts)
}

// WorkflowID is the id of the overdue check of an assignment. One check runs per assignment.
func WorkflowID(assignmentID uuid.UUID) string {
	return "overdue-return-" + assignmentID.String()
}

// Scheduler starts overdue checks on a Temporal cluster.
type Scheduler struct {
	client    client.Client
	taskQueue string
}

// NewScheduler returns a Scheduler starting workflows on taskQueue.
func NewScheduler(c client.Client, taskQueue string) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue}
}

// ScheduleOverdueCheck starts the overdue check for an assignment due at dueAt.
func (s *Scheduler) ScheduleOverdueCheck(ctx context.Context, assignmentID uuid.UUID, dueAt time.Time) error {
	opts := client.StartWorkflowOptions{
		ID:        WorkflowID(assignmentID),
		TaskQueue: s.taskQueue,
	}
	if _, err := s.client.ExecuteWorkflow(ctx, opts, OverdueReturnWorkflow, OverdueReturnInput{
		AssignmentID: assignmentID,
		DueAt:        dueAt.UTC(),
	}); err != nil {
		return fmt.Errorf("start overdue workflow: %w", err)
	}
	return nil
}
