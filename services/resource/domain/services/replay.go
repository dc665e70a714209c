package services

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
)

// Reconstruction is the ledger and assignment state implied by a custody chain.
type Reconstruction struct {
	ResourceID   uuid.UUID
	Resource     models.ResourceState
	Assignments  map[uuid.UUID]models.AssignmentStatus
	Entries      int
	LastSequence int64
}

func chainBroken(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrCustodyChainBroken, fmt.Sprintf(format, args...))
}

// Replay folds a resource's complete custody chain, oldest first, and returns
// the state it reproduces. It fails with ErrCustodyChainBroken when sequence
// numbers skip, when an entry's before-state differs from the previous
// after-state, or when an assignment moves in a way the state machine forbids.
func Replay(entries []*models.CustodyEntry) (*Reconstruction, error) {
	rec := &Reconstruction{Assignments: make(map[uuid.UUID]models.AssignmentStatus)}

	for i, e := range entries {
		if i == 0 {
			rec.ResourceID = e.ResourceID
		} else if e.ResourceID != rec.ResourceID {
			return nil, chainBroken("entry %s belongs to resource %s, chain is for %s", e.ID, e.ResourceID, rec.ResourceID)
		}
		if want := int64(i + 1); e.Sequence != want {
			return nil, chainBroken("entry %s has sequence %d, expected %d", e.ID, e.Sequence, want)
		}

		change := e.Event.ResourceChange()
		if i > 0 && change.Before != rec.Resource {
			return nil, chainBroken("sequence %d starts from %+v but the chain left %+v", e.Sequence, change.Before, rec.Resource)
		}

		switch ev := e.Event.(type) {
		case models.Provisioned:
			if change.After.OrganizationID != ev.ToOrganizationID {
				return nil, chainBroken("sequence %d provisions to %s but records owner %s", e.Sequence, ev.ToOrganizationID, change.After.OrganizationID)
			}
		case models.Distributed:
			if _, seen := rec.Assignments[ev.AssignmentID]; seen {
				return nil, chainBroken("sequence %d issues assignment %s twice", e.Sequence, ev.AssignmentID)
			}
			rec.Assignments[ev.AssignmentID] = models.AssignmentInUse
		case models.ReturnRequested:
			if err := rec.move(e.Sequence, ev.AssignmentID, models.AssignmentPendingReturn); err != nil {
				return nil, err
			}
		case models.ReturnConfirmed:
			if cur := rec.Assignments[ev.AssignmentID]; cur != ev.From {
				return nil, chainBroken("sequence %d confirms assignment %s from %s but it was %s", e.Sequence, ev.AssignmentID, ev.From, cur)
			}
			if err := rec.move(e.Sequence, ev.AssignmentID, models.AssignmentReturned); err != nil {
				return nil, err
			}
		default:
			return nil, chainBroken("sequence %d has unknown event %T", e.Sequence, e.Event)
		}

		rec.Resource = change.After
		rec.LastSequence = e.Sequence
	}

	rec.Entries = len(entries)
	return rec, nil
}

func (r *Reconstruction) move(seq int64, id uuid.UUID, to models.AssignmentStatus) error {
	cur, ok := r.Assignments[id]
	if !ok {
		return chainBroken("sequence %d moves unknown assignment %s", seq, id)
	}
	if !models.CanTransition(cur, to) {
		return chainBroken("sequence %d moves assignment %s from %s to %s", seq, id, cur, to)
	}
	r.Assignments[id] = to
	return nil
}

// Verify replays entries and checks the result against the stored resource and
// its assignments. A resource with no custody entries verifies only if it has
// no assignments.
func Verify(res *models.Resource, assignments []*models.Assignment, entries []*models.CustodyEntry) (*Reconstruction, error) {
	rec, err := Replay(entries)
	if err != nil {
		return nil, err
	}

	if rec.Entries > 0 && rec.ResourceID != res.ID {
		return nil, chainBroken("chain is for resource %s, not %s", rec.ResourceID, res.ID)
	}
	if res.CustodySeq != rec.LastSequence {
		return nil, chainBroken("ledger issued %d custody sequences, chain holds %d", res.CustodySeq, rec.LastSequence)
	}
	if rec.Entries == 0 {
		rec.ResourceID = res.ID
		rec.Resource = res.State()
	} else if state := res.State(); state != rec.Resource {
		return nil, chainBroken("ledger holds %+v, chain reproduces %+v", state, rec.Resource)
	}

	stored := mapset.NewThreadUnsafeSet[uuid.UUID]()
	for _, a := range assignments {
		stored.Add(a.ID)
	}
	replayed := mapset.NewThreadUnsafeSet[uuid.UUID]()
	for id := range rec.Assignments {
		replayed.Add(id)
	}
	if missing := stored.Difference(replayed); missing.Cardinality() > 0 {
		return nil, chainBroken("assignments without custody entries: %v", sortedIDs(missing))
	}
	if orphaned := replayed.Difference(stored); orphaned.Cardinality() > 0 {
		return nil, chainBroken("custody entries for unknown assignments: %v", sortedIDs(orphaned))
	}

	for _, a := range assignments {
		if want := rec.Assignments[a.ID]; a.Status != want {
			return nil, chainBroken("assignment %s is %s, chain reproduces %s", a.ID, a.Status, want)
		}
	}
	return rec, nil
}

func sortedIDs(s mapset.Set[uuid.UUID]) []string {
	out := make([]string, 0, s.Cardinality())
	for id := range s.Iter() {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}
