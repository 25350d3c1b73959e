package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/fairyhunter13/item-purchase-service/internal/model"
)

func note(i int) model.Notification {
	return model.Notification{Kind: model.NoteItemAdded, Message: fmt.Sprintf("n%d", i), At: time.Now()}
}

func TestFeedDrainReturnsEmissionOrder(t *testing.T) {
	f := newFeed(8)
	for i := 0; i < 3; i++ {
		f.push(note(i))
	}
	got := f.drain()
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	for i, n := range got {
		if n.Message != fmt.Sprintf("n%d", i) {
			t.Fatalf("order broken at %d: %+v", i, n)
		}
	}
	if len(f.drain()) != 0 {
		t.Fatalf("drain must clear the backlog")
	}
}

func TestFeedDropsOldestWhenFull(t *testing.T) {
	f := newFeed(2)
	for i := 0; i < 5; i++ {
		f.push(note(i))
	}
	got := f.drain()
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0].Message != "n3" || got[1].Message != "n4" {
		t.Fatalf("expected newest two, got %+v", got)
	}
	emitted, drained, dropped, pending := f.metrics()
	if emitted != 5 || drained != 2 || dropped != 3 || pending != 0 {
		t.Fatalf("metrics: emitted=%d drained=%d dropped=%d pending=%d", emitted, drained, dropped, pending)
	}
}

func TestFeedDefaultCap(t *testing.T) {
	f := newFeed(0)
	if f.cap != 128 {
		t.Fatalf("expected default cap, got %d", f.cap)
	}
}
