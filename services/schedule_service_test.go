package services

import (
	"errors"
	"testing"
	"time"

	"practicepro-backend/models"

	"github.com/google/uuid"
)

func daySession(at time.Time, durationMinutes int) models.Session {
	return models.Session{
		ID:              uuid.New(),
		ScheduledAt:     at,
		DurationMinutes: durationMinutes,
		Status:          models.SessionStatusScheduled,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 4, hour, minute, 0, 0, time.UTC)
}

func TestProposeNextSessionWeekly(t *testing.T) {
	client := models.Client{ID: uuid.New(), Recurrence: models.RecurrenceWeekly}
	completed := models.Session{
		ClientID:        client.ID,
		ScheduledAt:     time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 50,
		Status:          models.SessionStatusCompleted,
	}

	proposal, ok := ProposeNextSession(completed, client)
	if !ok {
		t.Fatal("expected a proposal for a weekly client")
	}

	want := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	if !proposal.ScheduledAt.Equal(want) {
		t.Errorf("proposed %v, want %v", proposal.ScheduledAt, want)
	}
	if proposal.ClientID != client.ID {
		t.Error("proposal carries the wrong client")
	}
	if proposal.DurationMinutes != 50 {
		t.Errorf("proposal duration = %d, want 50", proposal.DurationMinutes)
	}
}

func TestProposeNextSessionBiweekly(t *testing.T) {
	client := models.Client{ID: uuid.New(), Recurrence: models.RecurrenceBiweekly}
	completed := models.Session{
		ClientID:    client.ID,
		ScheduledAt: time.Date(2024, 3, 4, 18, 30, 0, 0, time.UTC),
	}

	proposal, ok := ProposeNextSession(completed, client)
	if !ok {
		t.Fatal("expected a proposal for a biweekly client")
	}

	want := time.Date(2024, 3, 18, 18, 30, 0, 0, time.UTC)
	if !proposal.ScheduledAt.Equal(want) {
		t.Errorf("proposed %v, want %v", proposal.ScheduledAt, want)
	}
}

func TestProposeNextSessionNoProposal(t *testing.T) {
	completed := models.Session{ScheduledAt: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)}

	for _, recurrence := range []string{models.RecurrenceTwiceWeekly, models.RecurrenceFlexible, "", "garbage"} {
		client := models.Client{ID: uuid.New(), Recurrence: recurrence}
		if _, ok := ProposeNextSession(completed, client); ok {
			t.Errorf("recurrence %q: expected no proposal", recurrence)
		}
	}
}

func TestFindConflictOverlapsPrevious(t *testing.T) {
	day := []models.Session{daySession(at(10, 0), 50)} // 10:00-10:50

	if err := findConflict(day, at(10, 30), 50); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("10:30 inside 10:00-10:50 should conflict, got %v", err)
	}
}

func TestFindConflictBackToBackAllowed(t *testing.T) {
	day := []models.Session{daySession(at(10, 0), 50)} // 10:00-10:50

	if err := findConflict(day, at(10, 50), 50); err != nil {
		t.Errorf("back-to-back at 10:50 should be allowed, got %v", err)
	}
}

func TestFindConflictRunsIntoNext(t *testing.T) {
	day := []models.Session{daySession(at(10, 0), 50)}

	// 09:00 + 65min ends 10:05, overlapping the 10:00 start
	if err := findConflict(day, at(9, 0), 65); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("09:00+65min over a 10:00 start should conflict, got %v", err)
	}

	// 09:00 + 60min ends exactly at 10:00, which is fine
	if err := findConflict(day, at(9, 0), 60); err != nil {
		t.Errorf("09:00+60min before a 10:00 start should be allowed, got %v", err)
	}
}

func TestFindConflictSameStartTime(t *testing.T) {
	day := []models.Session{daySession(at(10, 0), 50)}

	if err := findConflict(day, at(10, 0), 50); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("identical start time should conflict, got %v", err)
	}
}

func TestFindConflictEmptyDay(t *testing.T) {
	if err := findConflict(nil, at(10, 0), 50); err != nil {
		t.Errorf("empty day should never conflict, got %v", err)
	}
}

func TestFindConflictChecksOnlyNeighbors(t *testing.T) {
	// Unsorted on purpose: the checker sorts before picking neighbors.
	day := []models.Session{
		daySession(at(15, 0), 50),
		daySession(at(9, 0), 50),
		daySession(at(12, 0), 50),
	}

	// 10:00-10:50 fits between 9:00-9:50 and 12:00
	if err := findConflict(day, at(10, 0), 50); err != nil {
		t.Errorf("10:00 between 9:50 and 12:00 should be allowed, got %v", err)
	}

	// 11:30-12:20 runs into the 12:00 session
	if err := findConflict(day, at(11, 30), 50); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("11:30+50min over a 12:00 start should conflict, got %v", err)
	}
}
