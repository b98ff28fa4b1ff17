package repository

import (
	"context"
	"errors"
	"testing"
)

func TestResolveProfileLinkExplicitModes(t *testing.T) {
	// Explicit modes never reach the pool, so nil is fine here.
	link, err := ResolveProfileLink(context.Background(), nil, "user_id")
	if err != nil || link != LinkUserID {
		t.Fatalf("user_id: got (%q, %v)", link, err)
	}
	link, err = ResolveProfileLink(context.Background(), nil, "shared_id")
	if err != nil || link != LinkSharedID {
		t.Fatalf("shared_id: got (%q, %v)", link, err)
	}
}

func TestResolveProfileLinkRejectsUnknownMode(t *testing.T) {
	for _, mode := range []string{"userid", "sharedid", "AUTO ", "both"} {
		if _, err := ResolveProfileLink(context.Background(), nil, mode); !errors.Is(err, ErrInvalidProfileLink) {
			t.Fatalf("mode %q: expected ErrInvalidProfileLink, got %v", mode, err)
		}
	}
}
