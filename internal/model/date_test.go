package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(raw) != `"2026-09-01"` {
		t.Fatalf("unexpected wire form: %s", raw)
	}

	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestDateRejectsTimestamps(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2026-09-01T10:00:00Z"`), &d); err == nil {
		t.Fatalf("expected timestamp to be rejected")
	}
}

func TestNewDateTruncates(t *testing.T) {
	d := NewDate(time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC))
	if d.String() != "2026-09-01" {
		t.Fatalf("expected truncation to date, got %s", d)
	}
}
