package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AssignmentStatus
		want     bool
	}{
		{AssignmentInUse, AssignmentPendingReturn, true},
		{AssignmentInUse, AssignmentReturned, true},
		{AssignmentPendingReturn, AssignmentReturned, true},
		{AssignmentPendingReturn, AssignmentInUse, false},
		{AssignmentReturned, AssignmentInUse, false},
		{AssignmentReturned, AssignmentPendingReturn, false},
		{AssignmentReturned, AssignmentReturned, false},
		{AssignmentInUse, AssignmentInUse, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSourcesOf(t *testing.T) {
	got := SourcesOf(AssignmentReturned)
	if len(got) != 2 || got[0] != AssignmentInUse || got[1] != AssignmentPendingReturn {
		t.Fatalf("SourcesOf(RETURNED) = %v", got)
	}
	if got := SourcesOf(AssignmentInUse); len(got) != 0 {
		t.Fatalf("nothing may move to IN_USE, got %v", got)
	}
}

func TestAssignment_Lifecycle(t *testing.T) {
	volunteer := uuid.New()
	a := NewAssignment(uuid.New(), AssignToVolunteer, volunteer, 0, uuid.New())

	if a.Quantity != 1 || a.Status != AssignmentInUse {
		t.Fatalf("got quantity=%d status=%s", a.Quantity, a.Status)
	}
	if !a.IsBorrower(volunteer) || a.IsBorrower(uuid.New()) || a.IsBorrower(uuid.Nil) {
		t.Fatal("IsBorrower must match only the holding volunteer")
	}

	if !a.RequestReturn() || a.Status != AssignmentPendingReturn {
		t.Fatal("IN_USE -> PENDING_RETURN should succeed")
	}
	if a.RequestReturn() {
		t.Fatal("second RequestReturn should fail")
	}

	at := time.Now().UTC()
	if !a.ConfirmReturn("good", "all fine", at) {
		t.Fatal("PENDING_RETURN -> RETURNED should succeed")
	}
	if a.ReturnedAt == nil || !a.ReturnedAt.Equal(at) || a.Condition != "good" || a.Notes != "all fine" {
		t.Fatalf("reconciliation not recorded: %+v", a)
	}
	if a.ConfirmReturn("good", "", at) {
		t.Fatal("RETURNED is terminal")
	}
}

func TestAssignment_EventIsNeverBorrower(t *testing.T) {
	event := uuid.New()
	a := NewAssignment(uuid.New(), AssignToEvent, event, 1, uuid.New())
	if a.IsBorrower(event) {
		t.Fatal("event assignments have no volunteer borrower")
	}
}

func TestIsDamaged(t *testing.T) {
	for _, c := range []string{"damaged", " Damaged ", "DAMAGED"} {
		if !IsDamaged(c) {
			t.Errorf("%q should be damaged", c)
		}
	}
	for _, c := range []string{"", "good", "damaged-ish"} {
		if IsDamaged(c) {
			t.Errorf("%q should not be damaged", c)
		}
	}
}
