package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus/courses/internal/model"
)

func TestCreateScheduleEntryRejectsInvalidInterval(t *testing.T) {
	// The interval check runs before any query, so a zero-value Store works.
	s := &Store{}
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	for name, end := range map[string]time.Time{
		"start equals end": start,
		"start after end":  start.Add(-time.Hour),
	} {
		_, err := s.CreateScheduleEntry(context.Background(), model.ScheduleEntry{
			CourseID:      1,
			StartDateTime: start,
			EndDateTime:   end,
		})
		if !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("%s: expected ErrInvalidInterval, got %v", name, err)
		}
	}
}

func TestScheduleUpdateApply(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	t.Run("partial update keeps stored bound", func(t *testing.T) {
		entry := model.ScheduleEntry{StartDateTime: start, EndDateTime: end}
		newStart := start.Add(30 * time.Minute)
		if err := (ScheduleUpdate{StartDateTime: &newStart}).apply(&entry); err != nil {
			t.Fatalf("apply error: %v", err)
		}
		if !entry.StartDateTime.Equal(newStart) || !entry.EndDateTime.Equal(end) {
			t.Fatalf("merged interval = [%v, %v]", entry.StartDateTime, entry.EndDateTime)
		}
	})

	t.Run("partial update cannot invert interval", func(t *testing.T) {
		entry := model.ScheduleEntry{StartDateTime: start, EndDateTime: end}
		newStart := end.Add(time.Hour)
		if err := (ScheduleUpdate{StartDateTime: &newStart}).apply(&entry); !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("expected ErrInvalidInterval, got %v", err)
		}
	})

	t.Run("both bounds replaced", func(t *testing.T) {
		entry := model.ScheduleEntry{StartDateTime: start, EndDateTime: end}
		newStart := start.Add(24 * time.Hour)
		newEnd := newStart.Add(time.Hour)
		if err := (ScheduleUpdate{StartDateTime: &newStart, EndDateTime: &newEnd}).apply(&entry); err != nil {
			t.Fatalf("apply error: %v", err)
		}
		if !entry.StartDateTime.Equal(newStart) || !entry.EndDateTime.Equal(newEnd) {
			t.Fatalf("merged interval = [%v, %v]", entry.StartDateTime, entry.EndDateTime)
		}
	})
}
