package session

import (
	"context"
	"sync"
	"testing"

	"github.com/medtrack/bp-monitor/internal/domain"
)

func TestManagerPutGetDelete(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	if _, ok := m.Get(ctx, "missing"); ok {
		t.Fatal("expected no session for unknown token")
	}

	sess := domain.Session{Token: "tok-1", Username: "ana", Role: domain.RoleCaregiver, CaregiverID: 7}
	if err := m.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := m.Get(ctx, "tok-1")
	if !ok {
		t.Fatal("expected session for tok-1")
	}
	if got.Username != "ana" || got.Role != domain.RoleCaregiver || got.CaregiverID != 7 {
		t.Fatalf("unexpected session: %+v", got)
	}

	// Returned value is a copy; mutating it must not affect the store.
	got.Username = "mutated"
	again, _ := m.Get(ctx, "tok-1")
	if again.Username != "ana" {
		t.Fatal("store leaked internal state")
	}

	m.Delete(ctx, "tok-1")
	if _, ok := m.Get(ctx, "tok-1"); ok {
		t.Fatal("expected session gone after delete")
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tok := string(rune('a' + n))
			_ = m.Put(ctx, domain.Session{Token: tok, Username: tok, Role: domain.RoleAdministrator})
			m.Get(ctx, tok)
			m.Delete(ctx, tok)
		}(i)
	}
	wg.Wait()
}
