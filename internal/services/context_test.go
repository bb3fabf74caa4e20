package services

import (
	"context"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	id, ok := RunIDFromContext(ctx)
	if !ok || id != "run-1" {
		t.Fatalf("unexpected run id %q ok=%v", id, ok)
	}
	if got := WithRunID(ctx, ""); got != ctx {
		t.Fatal("expected empty run id to leave context untouched")
	}
}

func TestItemFromContext(t *testing.T) {
	if _, _, ok := ItemFromContext(context.Background()); ok {
		t.Fatal("expected no item on bare context")
	}
	ctx := WithItem(context.Background(), 3, "session")
	index, name, ok := ItemFromContext(ctx)
	if !ok || index != 3 || name != "session" {
		t.Fatalf("unexpected item %d %q ok=%v", index, name, ok)
	}
}
