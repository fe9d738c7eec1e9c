package notification

import (
	"context"
	"errors"
	"testing"

	"salesdesk_backend/internal/events"
	platformevents "salesdesk_backend/platform/events"
	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
)

type sentMail struct {
	kind string
	to   string
	name string
}

type fakeSender struct {
	sent []sentMail
	fail bool
}

func (f *fakeSender) SendLeadAssignedEmail(_ context.Context, to, leadName, _, _ string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{kind: "assigned", to: to, name: leadName})
	return nil
}

func (f *fakeSender) SendStaleLeadEmail(_ context.Context, to, leadName string, _ int) error {
	f.sent = append(f.sent, sentMail{kind: "stale", to: to, name: leadName})
	return nil
}

func (f *fakeSender) SendStageChangedEmail(_ context.Context, to, leadName, _, _ string) error {
	f.sent = append(f.sent, sentMail{kind: "stage", to: to, name: leadName})
	return nil
}

type fakeLeadReader struct{ names map[uuid.UUID]string }

func (f fakeLeadReader) LeadName(_ context.Context, id uuid.UUID) (string, error) {
	return f.names[id], nil
}

type fakeAssignmentReader struct{ emails map[uuid.UUID]string }

func (f fakeAssignmentReader) AssignedRepEmail(_ context.Context, id uuid.UUID) (string, error) {
	email, ok := f.emails[id]
	if !ok {
		return "", errors.New("no assignment")
	}
	return email, nil
}

func newTestModule(sender *fakeSender) (*Module, *platformevents.InMemoryBus, uuid.UUID) {
	log := logger.New("test")
	bus := platformevents.NewInMemoryBus(log)

	leadID := uuid.New()
	m := New(sender, log)
	m.SetLeadReader(fakeLeadReader{names: map[uuid.UUID]string{leadID: "Acme Corp"}})
	m.SetAssignmentReader(fakeAssignmentReader{emails: map[uuid.UUID]string{leadID: "rep@example.com"}})
	m.RegisterHandlers(bus)
	return m, bus, leadID
}

func TestLeadAssignedSendsEmail(t *testing.T) {
	sender := &fakeSender{}
	_, bus, leadID := newTestModule(sender)

	err := bus.PublishSync(context.Background(), events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		RepID:     uuid.New(),
		RepEmail:  "rep@example.com",
		Territory: "north",
		Reason:    "territory match",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.kind != "assigned" || got.to != "rep@example.com" || got.name != "Acme Corp" {
		t.Fatalf("unexpected mail: %+v", got)
	}
}

func TestLeadAssignedWithoutRepEmailIsSkipped(t *testing.T) {
	sender := &fakeSender{}
	_, bus, leadID := newTestModule(sender)

	err := bus.PublishSync(context.Background(), events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		RepID:     uuid.New(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d mails, want none", len(sender.sent))
	}
}

func TestStaleLeadSendsNudge(t *testing.T) {
	sender := &fakeSender{}
	_, bus, leadID := newTestModule(sender)

	err := bus.PublishSync(context.Background(), events.LeadWentStale{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Stage:     "contacted",
		IdleHours: 80,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 || sender.sent[0].kind != "stale" {
		t.Fatalf("unexpected mails: %+v", sender.sent)
	}
}

func TestStaleLeadWithoutAssignmentIsSkipped(t *testing.T) {
	sender := &fakeSender{}
	_, bus, _ := newTestModule(sender)

	// A lead nobody owns: the reader errors and the handler drops the event.
	err := bus.PublishSync(context.Background(), events.LeadWentStale{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Stage:     "contacted",
		IdleHours: 80,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d mails, want none", len(sender.sent))
	}
}

func TestStageChangedNotifiesAssignedRep(t *testing.T) {
	sender := &fakeSender{}
	_, bus, leadID := newTestModule(sender)

	err := bus.PublishSync(context.Background(), events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		OldStage:  "contacted",
		NewStage:  "qualified",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 || sender.sent[0].kind != "stage" {
		t.Fatalf("unexpected mails: %+v", sender.sent)
	}
	if sender.sent[0].to != "rep@example.com" {
		t.Fatalf("sent to %q", sender.sent[0].to)
	}
}

func TestStageChangedUnassignedIsSkipped(t *testing.T) {
	sender := &fakeSender{}
	_, bus, _ := newTestModule(sender)

	err := bus.PublishSync(context.Background(), events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		OldStage:  "new",
		NewStage:  "contacted",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d mails, want none", len(sender.sent))
	}
}

func TestSenderFailureSurfacesError(t *testing.T) {
	sender := &fakeSender{fail: true}
	_, bus, leadID := newTestModule(sender)

	err := bus.PublishSync(context.Background(), events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		RepEmail:  "rep@example.com",
	})
	if err == nil {
		t.Fatal("expected the handler error to propagate through PublishSync")
	}
}
