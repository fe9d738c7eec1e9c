package events

import (
	"context"
	"testing"

	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
)

func TestNewInMemoryBusDeliversDomainEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	leadID := uuid.New()
	var got []Event
	bus.Subscribe(LeadCreated{}.EventName(), HandlerFunc(func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	}))

	err := bus.PublishSync(context.Background(), LeadCreated{
		BaseEvent: NewBaseEvent(),
		LeadID:    leadID,
		Name:      "Acme Corp",
		Territory: "north",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("delivered %d events, want 1", len(got))
	}
	created, ok := got[0].(LeadCreated)
	if !ok {
		t.Fatalf("delivered %T, want LeadCreated", got[0])
	}
	if created.LeadID != leadID {
		t.Fatalf("leadId = %s, want %s", created.LeadID, leadID)
	}
}

func TestEventNames(t *testing.T) {
	cases := []struct {
		event Event
		want  string
	}{
		{LeadCreated{}, "leads.lead.created"},
		{LeadQualified{}, "leads.lead.qualified"},
		{LeadStageChanged{}, "leads.stage.changed"},
		{LeadWentStale{}, "leads.lead.went_stale"},
		{LeadAssigned{}, "routing.lead.assigned"},
		{LeadUnrouted{}, "routing.lead.unrouted"},
	}
	for _, tc := range cases {
		if got := tc.event.EventName(); got != tc.want {
			t.Errorf("%T.EventName() = %q, want %q", tc.event, got, tc.want)
		}
	}
}
