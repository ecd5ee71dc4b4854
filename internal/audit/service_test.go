package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testService() (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc, repo
}

func TestAppendFillsDefaults(t *testing.T) {
	svc, repo := testService()

	err := svc.Append(context.Background(), Event{
		TenantID:     "tenant-1",
		Type:         EventTypeLogin,
		ActorSubject: "a@b.c",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events := repo.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.ID == "" {
		t.Fatal("expected generated id")
	}
	if !e.CreatedAt.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Fatalf("unexpected timestamp %v", e.CreatedAt)
	}
}

func TestAppendRejectsIncompleteEvents(t *testing.T) {
	svc, _ := testService()

	if err := svc.Append(context.Background(), Event{Type: EventTypeLogin}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("missing tenant: expected ErrInvalidEvent, got %v", err)
	}
	if err := svc.Append(context.Background(), Event{TenantID: "tenant-1"}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("missing type: expected ErrInvalidEvent, got %v", err)
	}
}

func TestHelpers(t *testing.T) {
	svc, repo := testService()
	ctx := context.Background()

	if err := svc.LogAuth(ctx, EventTypeRegister, "tenant-1", "a@b.c", "10.0.0.1"); err != nil {
		t.Fatalf("log auth: %v", err)
	}
	if err := svc.LogProductChange(ctx, "tenant-1", "s@b.c", "SELLER", "prod-1", "product created"); err != nil {
		t.Fatalf("log product change: %v", err)
	}
	if err := svc.LogDenied(ctx, "tenant-1", "x@b.c", "SELLER", "prod-1"); err != nil {
		t.Fatalf("log denied: %v", err)
	}

	events := repo.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Type != EventTypeRegister || events[0].IPAddress != "10.0.0.1" {
		t.Fatalf("unexpected register event %+v", events[0])
	}
	if events[1].Type != EventTypeProductChange || events[1].ProductID != "prod-1" {
		t.Fatalf("unexpected change event %+v", events[1])
	}
	if events[2].Type != EventTypeAccessDenied || events[2].ActorRoles != "SELLER" {
		t.Fatalf("unexpected denial event %+v", events[2])
	}
}
