// services/schedule_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"practicepro-backend/models"
	"practicepro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSlotTaken is the domain outcome of a failed conflict check. It is
// an expected result, not a system error.
var ErrSlotTaken = errors.New("this time is already taken")

// SessionProposal is a suggested follow-up slot. Accepting it only
// pre-fills the booking form; the proposal itself never creates a
// session.
type SessionProposal struct {
	ClientID        uuid.UUID `json:"clientId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// ProposeNextSession suggests the next slot for a client right after a
// session is completed. Weekly clients get the same clock time 7 days
// later, biweekly 14 days later. Twice-weekly and flexible cadences get
// no proposal: there is no single unambiguous next slot to suggest.
func ProposeNextSession(session models.Session, client models.Client) (*SessionProposal, bool) {
	var days int
	switch client.Recurrence {
	case models.RecurrenceWeekly:
		days = 7
	case models.RecurrenceBiweekly:
		days = 14
	default:
		return nil, false
	}

	return &SessionProposal{
		ClientID:        client.ID,
		ScheduledAt:     session.ScheduledAt.AddDate(0, 0, days),
		DurationMinutes: session.DurationMinutes,
	}, true
}

// CheckConflict validates a candidate slot against the user's other
// sessions on the same calendar day. excludeID skips the session being
// moved so it cannot conflict with itself. Returns ErrSlotTaken when
// the slot overlaps a neighbor, and a generic error (fail-closed) when
// the fetch itself fails.
func (s *ScheduleService) CheckConflict(userID uuid.UUID, candidate time.Time, durationMinutes int, excludeID uuid.UUID) error {
	dayStart := utils.BeginningOfDay(candidate)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var daySessions []models.Session
	query := s.db.
		Where("user_id = ? AND status <> ? AND scheduled_at >= ? AND scheduled_at < ?",
			userID, models.SessionStatusCancelled, dayStart, dayEnd)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Order("scheduled_at").Find(&daySessions).Error; err != nil {
		return fmt.Errorf("fetch day sessions: %w", err)
	}

	return findConflict(daySessions, candidate, durationMinutes)
}

// findConflict runs the neighbor overlap check over a day's sessions.
// Only the immediate predecessor and successor can conflict with a
// candidate once the day is sorted, so nothing else is inspected.
// Back-to-back placements are allowed.
func findConflict(daySessions []models.Session, candidate time.Time, durationMinutes int) error {
	sort.Slice(daySessions, func(i, j int) bool {
		return daySessions[i].ScheduledAt.Before(daySessions[j].ScheduledAt)
	})

	var prev, next *models.Session
	for i := range daySessions {
		if !daySessions[i].ScheduledAt.After(candidate) {
			prev = &daySessions[i]
		} else if next == nil {
			next = &daySessions[i]
			break
		}
	}

	if prev != nil {
		prevEnd := prev.ScheduledAt.Add(time.Duration(prev.DurationMinutes) * time.Minute)
		if candidate.Before(prevEnd) {
			return ErrSlotTaken
		}
	}
	if next != nil {
		candidateEnd := candidate.Add(time.Duration(durationMinutes) * time.Minute)
		if candidateEnd.After(next.ScheduledAt) {
			return ErrSlotTaken
		}
	}
	return nil
}

// NextSessionNumber returns the sequential number for a client's next
// session.
func (s *ScheduleService) NextSessionNumber(clientID uuid.UUID) (int, error) {
	var count int64
	if err := s.db.Model(&models.Session{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count client sessions: %w", err)
	}
	return int(count) + 1, nil
}
