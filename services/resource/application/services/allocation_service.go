package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/events"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
	domainsvcs "github.com/ghuser/volunteerhub/services/resource/domain/services"
)

// errIdempotentReplay rolls back a distribute that matched an earlier request.
var errIdempotentReplay = errors.New("idempotent replay")

// OverdueScheduler starts the overdue check of an assignment.
type OverdueScheduler interface {
	ScheduleOverdueCheck(ctx context.Context, assignmentID uuid.UUID, dueAt time.Time) error
}

// AllocationService runs the custody operations. Each operation is one
// transaction: the resource row is locked first, then the assignment, and the
// custody entry is appended before commit. Notifications, cache invalidation
// and overdue scheduling happen after commit and never fail the operation.
type AllocationService struct {
	store     repositories.Store
	sink      events.Sink
	cache     ResourceCache    // nil when Redis is disabled
	scheduler OverdueScheduler // nil when Temporal is disabled
	log       logger.Logger
	inst      instruments
	now       func() time.Time
}

// AllocationOption configures optional collaborators of AllocationService.
type AllocationOption func(*AllocationService)

// WithSink sets the notification sink.
func WithSink(s events.Sink) AllocationOption {
	return func(a *AllocationService) {
		if s != nil {
			a.sink = s
		}
	}
}

// WithCache sets the resource cache to invalidate after each operation.
func WithCache(c ResourceCache) AllocationOption {
	return func(a *AllocationService) { a.cache = c }
}

// WithScheduler sets the overdue scheduler used when an expected return time is given.
func WithScheduler(s OverdueScheduler) AllocationOption {
	return func(a *AllocationService) { a.scheduler = s }
}

// NewAllocationService returns an AllocationService over store.
func NewAllocationService(store repositories.Store, log logger.Logger, opts ...AllocationOption) *AllocationService {
	s := &AllocationService{
		store: store,
		sink:  nopSink{},
		log:   log,
		inst:  newInstruments(log),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProvisionInput allocates resources to an organization.
type ProvisionInput struct {
	ResourceIDs    []uuid.UUID
	OrganizationID uuid.UUID
}

// Provision moves every listed resource to the organization and records one
// custody entry per resource, including resources already owned by it.
// Admin only. An unknown id rolls the whole call back. Returns the number of
// distinct resources provisioned.
func (s *AllocationService) Provision(ctx context.Context, actor models.Actor, in ProvisionInput) (n int, err error) {
	ctx, done := s.inst.start(ctx, "provision", attribute.String("organization_id", in.OrganizationID.String()))
	defer func() { done(err) }()

	if !actor.IsAdmin() {
		return 0, fmt.Errorf("%w: provisioning requires an admin", domain.ErrUnauthorized)
	}
	if in.OrganizationID == uuid.Nil {
		return 0, fmt.Errorf("%w: organization_id is required", domain.ErrInvalidResource)
	}
	if len(in.ResourceIDs) == 0 {
		return 0, fmt.Errorf("%w: at least one resource id is required", domain.ErrInvalidResource)
	}

	// Sorted ids give every provision the same lock order.
	ids := mapset.NewThreadUnsafeSet(in.ResourceIDs...).ToSlice()
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	err = s.store.WithinTx(ctx, func(repos repositories.Repositories) error {
		for _, id := range ids {
			res, err := repos.Resources.Lock(ctx, id)
			if err != nil {
				return fmt.Errorf("lock resource %s: %w", id, err)
			}
			before := res.State()
			if res.OrganizationID != in.OrganizationID {
				if err := repos.Resources.SetOwner(ctx, id, in.OrganizationID); err != nil {
					return fmt.Errorf("set owner of %s: %w", id, err)
				}
				res.OrganizationID = in.OrganizationID
			}
			ev := models.Provisioned{
				Resource:           models.ResourceTransition{Before: before, After: res.State()},
				FromOrganizationID: before.OrganizationID,
				ToOrganizationID:   in.OrganizationID,
			}
			if err := repos.Custody.Append(ctx, models.NewCustodyEntry(actor.UserID, id, res.CustodySeq, ev)); err != nil {
				return fmt.Errorf("append custody entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("provision: %w", err)
	}

	s.invalidate(ctx, ids...)
	s.log.InfoContext(ctx, "resources provisioned",
		"organization_id", in.OrganizationID,
		"count", len(ids),
		"actor_user_id", actor.UserID,
	)
	return len(ids), nil
}

// DistributeInput issues units of a resource to a volunteer or event.
type DistributeInput struct {
	ResourceID       uuid.UUID
	AssigneeType     models.AssignmentType // defaults to volunteer
	AssigneeID       uuid.UUID             // volunteer or event id
	Quantity         int                   // defaults to 1
	Notes            string
	ExpectedReturnAt *time.Time
	// IdempotencyKey makes retries return the original assignment.
	IdempotencyKey string
}

// Distribute issues units to the assignee and records the custody entry.
// Lenders only: admins, or coordinators of the owning organization.
func (s *AllocationService) Distribute(ctx context.Context, actor models.Actor, in DistributeInput) (asg *models.Assignment, err error) {
	ctx, done := s.inst.start(ctx, "distribute", attribute.String("resource_id", in.ResourceID.String()))
	defer func() { done(err) }()

	if in.AssigneeType == "" {
		in.AssigneeType = models.AssignToVolunteer
	}
	if !in.AssigneeType.Valid() {
		return nil, fmt.Errorf("%w: unknown assignment type %q", domain.ErrInvalidResource, in.AssigneeType)
	}
	if in.AssigneeID == uuid.Nil {
		return nil, fmt.Errorf("%w: assignee id is required", domain.ErrInvalidResource)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidResource)
	}

	var (
		res      *models.Resource
		replayed *models.Assignment
	)
	err = s.store.WithinTx(ctx, func(repos repositories.Repositories) error {
		var err error
		res, err = repos.Resources.Lock(ctx, in.ResourceID)
		if err != nil {
			return fmt.Errorf("lock resource: %w", err)
		}
		if !actor.CanLend(res.OrganizationID) {
			return fmt.Errorf("%w: only the owning organization's coordinators may distribute", domain.ErrUnauthorized)
		}

		if in.IdempotencyKey != "" {
			prior, err := repos.Assignments.FindByIdempotencyKey(ctx, res.ID, in.IdempotencyKey)
			switch {
			case err == nil:
				if prior.RelatedID != in.AssigneeID || prior.Type != in.AssigneeType || prior.Quantity != in.Quantity {
					return fmt.Errorf("%w: key %q", domain.ErrIdempotencyConflict, in.IdempotencyKey)
				}
				replayed = prior
				return errIdempotentReplay
			case !errors.Is(err, domain.ErrAssignmentNotFound):
				return fmt.Errorf("find by idempotency key: %w", err)
			}
		}

		if err := domainsvcs.CheckIssuable(res, in.Quantity); err != nil {
			return err
		}

		before := res.State()
		if err := repos.Resources.DecrementAvailable(ctx, res.ID, in.Quantity); err != nil {
			return err
		}
		res.QuantityAvailable -= in.Quantity
		if err := setDerivedStatus(ctx, repos, res); err != nil {
			return err
		}

		asg = models.NewAssignment(res.ID, in.AssigneeType, in.AssigneeID, in.Quantity, actor.UserID)
		asg.Notes = in.Notes
		asg.ExpectedReturnAt = in.ExpectedReturnAt
		asg.IdempotencyKey = in.IdempotencyKey
		if err := repos.Assignments.Create(ctx, asg); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}

		ev := models.Distributed{
			Resource:         models.ResourceTransition{Before: before, After: res.State()},
			AssignmentID:     asg.ID,
			AssigneeType:     asg.Type,
			AssigneeID:       asg.RelatedID,
			Quantity:         asg.Quantity,
			ExpectedReturnAt: asg.ExpectedReturnAt,
			Notes:            asg.Notes,
		}
		if err := repos.Custody.Append(ctx, models.NewCustodyEntry(actor.UserID, res.ID, res.CustodySeq, ev)); err != nil {
			return fmt.Errorf("append custody entry: %w", err)
		}
		return nil
	})
	if errors.Is(err, errIdempotentReplay) {
		s.log.InfoContext(ctx, "distribute replayed", "assignment_id", replayed.ID, "idempotency_key", in.IdempotencyKey)
		return replayed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("distribute: %w", err)
	}

	s.invalidate(ctx, res.ID)
	s.emit(ctx, events.NewNotification(events.NotifyDistributed, res.ID, asg.ID, actor.UserID, res.OrganizationID, asg.RelatedID))
	if asg.ExpectedReturnAt != nil && s.scheduler != nil {
		if err := s.scheduler.ScheduleOverdueCheck(ctx, asg.ID, *asg.ExpectedReturnAt); err != nil {
			s.log.WarnContext(ctx, "failed to schedule overdue check", "assignment_id", asg.ID, "error", err)
		}
	}
	s.log.InfoContext(ctx, "resource distributed",
		"resource_id", res.ID,
		"assignment_id", asg.ID,
		"assignee_type", asg.Type,
		"quantity", asg.Quantity,
	)
	return asg, nil
}

// RequestReturn lets the borrowing volunteer signal a return: IN_USE to PENDING_RETURN.
func (s *AllocationService) RequestReturn(ctx context.Context, actor models.Actor, assignmentID uuid.UUID) (asg *models.Assignment, err error) {
	ctx, done := s.inst.start(ctx, "request_return", attribute.String("assignment_id", assignmentID.String()))
	defer func() { done(err) }()

	var res *models.Resource
	err = s.store.WithinTx(ctx, func(repos repositories.Repositories) error {
		var err error
		res, asg, err = lockAssignment(ctx, repos, assignmentID)
		if err != nil {
			return err
		}
		if !asg.IsBorrower(actor.VolunteerID) {
			return fmt.Errorf("%w: only the borrowing volunteer may request a return", domain.ErrUnauthorized)
		}
		if !res.IsReturnable {
			return domain.ErrResourceNotReturnable
		}
		from := asg.Status
		if !asg.RequestReturn() {
			return fmt.Errorf("%w: assignment is %s", domain.ErrInvalidStateTransition, from)
		}
		if err := repos.Assignments.Transition(ctx, asg, from); err != nil {
			return err
		}

		state := res.State()
		ev := models.ReturnRequested{
			Resource:     models.ResourceTransition{Before: state, After: state},
			AssignmentID: asg.ID,
			VolunteerID:  actor.VolunteerID,
		}
		if err := repos.Custody.Append(ctx, models.NewCustodyEntry(actor.UserID, res.ID, res.CustodySeq, ev)); err != nil {
			return fmt.Errorf("append custody entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("request return: %w", err)
	}

	s.invalidate(ctx, res.ID)
	s.emit(ctx, events.NewNotification(events.NotifyReturnRequested, res.ID, asg.ID, actor.UserID, res.OrganizationID, asg.RelatedID))
	s.log.InfoContext(ctx, "return requested", "resource_id", res.ID, "assignment_id", asg.ID)
	return asg, nil
}

// ConfirmReturnInput reconciles a physical return.
type ConfirmReturnInput struct {
	AssignmentID uuid.UUID
	Condition    string
	Notes        string
}

// ConfirmReturn lets a lender close an assignment from IN_USE or
// PENDING_RETURN. Units come back into stock unless the condition is
// "damaged", which marks the resource damaged instead.
func (s *AllocationService) ConfirmReturn(ctx context.Context, actor models.Actor, in ConfirmReturnInput) (asg *models.Assignment, err error) {
	ctx, done := s.inst.start(ctx, "confirm_return", attribute.String("assignment_id", in.AssignmentID.String()))
	defer func() { done(err) }()

	condition := models.NormalizeCondition(in.Condition)
	if condition == "" {
		return nil, fmt.Errorf("%w: condition is required", domain.ErrInvalidResource)
	}

	var res *models.Resource
	err = s.store.WithinTx(ctx, func(repos repositories.Repositories) error {
		var err error
		res, asg, err = lockAssignment(ctx, repos, in.AssignmentID)
		if err != nil {
			return err
		}
		if !actor.CanLend(res.OrganizationID) {
			return fmt.Errorf("%w: only the owning organization's coordinators may confirm returns", domain.ErrUnauthorized)
		}
		from := asg.Status
		if !asg.ConfirmReturn(condition, in.Notes, s.now()) {
			return fmt.Errorf("%w: assignment is %s", domain.ErrInvalidStateTransition, from)
		}
		if err := repos.Assignments.Transition(ctx, asg, from); err != nil {
			return err
		}

		before := res.State()
		restocked := !models.IsDamaged(condition)
		if restocked {
			if err := repos.Resources.IncrementAvailable(ctx, res.ID, asg.Quantity); err != nil {
				return err
			}
			res.QuantityAvailable += asg.Quantity
			if err := setDerivedStatus(ctx, repos, res); err != nil {
				return err
			}
		} else if res.Status != models.StatusDamaged {
			if err := repos.Resources.SetStatus(ctx, res.ID, models.StatusDamaged); err != nil {
				return fmt.Errorf("set status: %w", err)
			}
			res.Status = models.StatusDamaged
		}

		ev := models.ReturnConfirmed{
			Resource:     models.ResourceTransition{Before: before, After: res.State()},
			AssignmentID: asg.ID,
			From:         from,
			Condition:    condition,
			Quantity:     asg.Quantity,
			Restocked:    restocked,
			Notes:        in.Notes,
		}
		if err := repos.Custody.Append(ctx, models.NewCustodyEntry(actor.UserID, res.ID, res.CustodySeq, ev)); err != nil {
			return fmt.Errorf("append custody entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("confirm return: %w", err)
	}

	s.invalidate(ctx, res.ID)
	s.log.InfoContext(ctx, "return confirmed",
		"resource_id", res.ID,
		"assignment_id", asg.ID,
		"condition", condition,
		"status", res.Status,
	)
	return asg, nil
}

// History returns the custody trail of a resource. Members of the owning
// organization and admins may read it.
func (s *AllocationService) History(ctx context.Context, actor models.Actor, resourceID uuid.UUID, opts repositories.HistoryOpts) (entries []*models.CustodyEntry, err error) {
	ctx, done := s.inst.start(ctx, "history", attribute.String("resource_id", resourceID.String()))
	defer func() { done(err) }()

	repos := s.store.Repositories()
	res, err := repos.Resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if !actor.CanView(res.OrganizationID) {
		return nil, fmt.Errorf("history: %w", domain.ErrUnauthorized)
	}
	entries, err = repos.Custody.History(ctx, resourceID, opts)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return entries, nil
}

// Verify replays the custody chain of a resource and checks it against the
// ledger and assignment rows. Lenders only.
func (s *AllocationService) Verify(ctx context.Context, actor models.Actor, resourceID uuid.UUID) (rec *domainsvcs.Reconstruction, err error) {
	ctx, done := s.inst.start(ctx, "verify", attribute.String("resource_id", resourceID.String()))
	defer func() { done(err) }()

	err = s.store.WithinTx(ctx, func(repos repositories.Repositories) error {
		res, err := repos.Resources.GetByID(ctx, resourceID)
		if err != nil {
			return err
		}
		if !actor.CanLend(res.OrganizationID) {
			return domain.ErrUnauthorized
		}
		assignments, err := repos.Assignments.ListByResource(ctx, resourceID)
		if err != nil {
			return err
		}
		entries, err := repos.Custody.History(ctx, resourceID, repositories.HistoryOpts{Ascending: true})
		if err != nil {
			return err
		}
		rec, err = domainsvcs.Verify(res, assignments, entries)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrCustodyChainBroken) {
			s.log.ErrorContext(ctx, "custody chain broken", "resource_id", resourceID, "error", err)
		}
		return nil, fmt.Errorf("verify: %w", err)
	}
	return rec, nil
}

// lockAssignment locks the assignment's resource, then re-reads the
// assignment under that lock.
func lockAssignment(ctx context.Context, repos repositories.Repositories, id uuid.UUID) (*models.Resource, *models.Assignment, error) {
	peek, err := repos.Assignments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	res, err := repos.Resources.Lock(ctx, peek.ResourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock resource: %w", err)
	}
	asg, err := repos.Assignments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return res, asg, nil
}

func setDerivedStatus(ctx context.Context, repos repositories.Repositories, res *models.Resource) error {
	status := res.DerivedStatus()
	if status == res.Status {
		return nil
	}
	if err := repos.Resources.SetStatus(ctx, res.ID, status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	res.Status = status
	return nil
}

func (s *AllocationService) emit(ctx context.Context, n events.Notification) {
	if err := s.sink.Emit(ctx, n); err != nil {
		s.log.WarnContext(ctx, "notification not delivered",
			"kind", n.Kind,
			"assignment_id", n.AssignmentID,
			"error", err,
		)
	}
}

func (s *AllocationService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, id := range ids {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.WarnContext(ctx, "resource cache invalidation failed", "resource_id", id, "error", err)
		}
	}
}

type nopSink struct{}

func (nopSink) Emit(context.Context, events.Notification) error { return nil }
