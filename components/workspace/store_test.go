package workspace

import "testing"

func TestStoreSnapshotIsCopy(t *testing.T) {
	store := NewStore(10)
	store.Update(func(snap *Snapshot) {
		snap.Widgets = []DashboardWidget{{ID: "a", Title: "one"}}
	})
	snap := store.Snapshot()
	snap.Widgets[0].Title = "mutated"
	if store.Snapshot().Widgets[0].Title != "one" {
		t.Fatalf("snapshot mutation leaked into the store")
	}
}

func TestStoreNotifiesSubscribersOnCommit(t *testing.T) {
	store := NewStore(10)
	var seen []int
	unsubscribe := store.Subscribe(func(snap Snapshot) {
		seen = append(seen, len(snap.Messages))
	})

	store.PushMessage(Message{Role: RoleUser, Text: "hello"})
	store.PushMessage(Message{Role: RoleAssistant, Text: "hi"})
	unsubscribe()
	store.PushMessage(Message{Role: RoleUser, Text: "silence"})

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("unexpected notification payloads %v", seen)
	}
}

func TestStoreDiscardsStaleHydration(t *testing.T) {
	store := NewStore(10)
	first := store.beginHydration()
	second := store.beginHydration()

	// The newer hydration finishes first.
	if !store.commitHydration(second, Snapshot{Title: "newer"}) {
		t.Fatalf("expected newest hydration to commit")
	}
	// The superseded one must be dropped.
	if store.commitHydration(first, Snapshot{Title: "older"}) {
		t.Fatalf("expected stale hydration to be discarded")
	}
	if got := store.Snapshot().Title; got != "newer" {
		t.Fatalf("store title = %q, want %q", got, "newer")
	}
}

func TestStoreHydrationCommitsInIssueOrder(t *testing.T) {
	store := NewStore(10)
	seq := store.beginHydration()
	if !store.commitHydration(seq, Snapshot{Title: "first pass"}) {
		t.Fatalf("expected commit to succeed")
	}
	next := store.beginHydration()
	if !store.commitHydration(next, Snapshot{Title: "second pass"}) {
		t.Fatalf("expected later hydration to commit")
	}
	if got := store.Snapshot().Title; got != "second pass" {
		t.Fatalf("store title = %q", got)
	}
}
