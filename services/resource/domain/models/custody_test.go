package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestResourceTransition_Describe(t *testing.T) {
	org := uuid.New()
	before := ResourceState{OrganizationID: org, Status: StatusAvailable, QuantityAvailable: 1, QuantityTotal: 1}
	after := ResourceState{OrganizationID: org, Status: StatusInUse, QuantityAvailable: 0, QuantityTotal: 1}

	got := ResourceTransition{Before: before, After: after}.Describe()
	if got != "status available -> in_use, available 1 -> 0" {
		t.Fatalf("Describe() = %q", got)
	}
	if got := (ResourceTransition{Before: before, After: before}).Describe(); got != "resource unchanged" {
		t.Fatalf("Describe() = %q", got)
	}
}

func TestDistributed_Action(t *testing.T) {
	if got := (Distributed{AssigneeType: AssignToVolunteer}).Action(); got != ActionAssignedToVolunteer {
		t.Fatalf("volunteer action = %q", got)
	}
	if got := (Distributed{AssigneeType: AssignToEvent}).Action(); got != ActionAssignedToEvent {
		t.Fatalf("event action = %q", got)
	}
}

func TestCustodyMetadata(t *testing.T) {
	org := uuid.New()
	assignment := uuid.New()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	ev := ReturnConfirmed{
		Resource: ResourceTransition{
			Before: ResourceState{OrganizationID: org, Status: StatusInUse, QuantityAvailable: 0, QuantityTotal: 1},
			After:  ResourceState{OrganizationID: org, Status: StatusDamaged, QuantityAvailable: 0, QuantityTotal: 1},
		},
		AssignmentID: assignment,
		From:         AssignmentPendingReturn,
		Condition:    ConditionDamaged,
		Quantity:     1,
	}

	raw, err := EncodeCustodyMetadata(ev, at)
	if err != nil {
		t.Fatalf("EncodeCustodyMetadata: %v", err)
	}

	t.Run("envelope carries kind, assignment and transition", func(t *testing.T) {
		var env map[string]any
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("metadata is not JSON: %v", err)
		}
		if env["kind"] != string(KindReturnConfirmed) {
			t.Errorf("kind = %v", env["kind"])
		}
		if env["assignment_id"] != assignment.String() {
			t.Errorf("assignment_id = %v", env["assignment_id"])
		}
		transition, _ := env["transition"].(string)
		if !strings.Contains(transition, "PENDING_RETURN -> RETURNED") || !strings.Contains(transition, "status in_use -> damaged") {
			t.Errorf("transition = %q", transition)
		}
	})

	t.Run("decodes to the typed variant", func(t *testing.T) {
		decoded, err := DecodeCustodyMetadata(raw)
		if err != nil {
			t.Fatalf("DecodeCustodyMetadata: %v", err)
		}
		got, ok := decoded.(ReturnConfirmed)
		if !ok {
			t.Fatalf("decoded %T, want ReturnConfirmed", decoded)
		}
		if got.AssignmentID != assignment || got.From != AssignmentPendingReturn || got.Resource != ev.Resource {
			t.Fatalf("decoded %+v", got)
		}
	})

	t.Run("provisioned omits assignment id", func(t *testing.T) {
		raw, err := EncodeCustodyMetadata(Provisioned{ToOrganizationID: org}, at)
		if err != nil {
			t.Fatalf("EncodeCustodyMetadata: %v", err)
		}
		if strings.Contains(string(raw), "assignment_id") {
			t.Fatalf("unexpected assignment_id in %s", raw)
		}
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		if _, err := DecodeCustodyMetadata([]byte(`{"kind":"lost","data":{}}`)); err == nil {
			t.Fatal("expected error for unknown kind")
		}
	})
}
