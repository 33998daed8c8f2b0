package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"practicepro-backend/config"
	"practicepro-backend/models"
	"practicepro-backend/services"
	"practicepro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSessionInput defines the expected JSON structure for booking a session
type CreateSessionInput struct {
	ClientID        uuid.UUID `json:"clientId" binding:"required"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"omitempty,min=1"`
	Price           int64     `json:"price" binding:"min=0"`
	Note            string    `json:"note"`
}

// UpdateSessionInput defines the expected JSON structure for updating a session
type UpdateSessionInput struct {
	DurationMinutes *int    `json:"durationMinutes" binding:"omitempty,min=1"`
	Price           *int64  `json:"price" binding:"omitempty,min=0"`
	Note            *string `json:"note"`
}

type PaySessionInput struct {
	PaymentMethod *string `json:"paymentMethod" binding:"omitempty,oneof=cash card transfer platform"`
}

type TransferSessionInput struct {
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}

// CreateSession books a new session, rejecting slots that overlap an
// existing booking on the same day
func CreateSession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate client belongs to this practitioner
	var client models.Client
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, input.ClientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	duration := input.DurationMinutes
	if duration == 0 {
		duration = 50
	}

	var session models.Session
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		schedule := services.NewScheduleService(tx)
		if err := schedule.CheckConflict(userUUID, input.ScheduledAt, duration, uuid.Nil); err != nil {
			return err
		}

		number, err := schedule.NextSessionNumber(client.ID)
		if err != nil {
			return err
		}

		session = models.Session{
			ID:              uuid.New(),
			UserID:          userUUID,
			ClientID:        client.ID,
			SessionNumber:   number,
			ScheduledAt:     input.ScheduledAt,
			DurationMinutes: duration,
			Status:          models.SessionStatusScheduled,
			Price:           input.Price,
			Note:            input.Note,
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrSlotTaken) {
			utils.RespondWithError(c, http.StatusConflict, "This time is already taken")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create session")
		}
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSessions lists sessions with optional from/to/clientId/status filters
func GetSessions(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userUUID)

	if from := c.Query("from"); from != "" {
		t, _, err := utils.ParseDateParam(from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' date")
			return
		}
		query = query.Where("scheduled_at >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, dateOnly, err := utils.ParseDateParam(to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' date")
			return
		}
		// A bare date covers its whole day; an explicit timestamp is
		// taken literally.
		if dateOnly {
			t = utils.EndOfDay(t)
		}
		query = query.Where("scheduled_at <= ?", t)
	}
	if clientID := c.Query("clientId"); clientID != "" {
		clientUUID, err := uuid.Parse(clientID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		query = query.Where("client_id = ?", clientUUID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var sessions []models.Session
	if err := query.Order("scheduled_at").Find(&sessions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sessions")
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession retrieves a specific session by ID
func GetSession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, session)
}

// UpdateSession updates a session's price, duration or note
func UpdateSession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	if input.DurationMinutes != nil {
		session.DurationMinutes = *input.DurationMinutes
	}
	if input.Price != nil {
		session.Price = *input.Price
	}
	if input.Note != nil {
		session.Note = *input.Note
	}

	if err := config.DB.Save(&session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// CompleteSession marks a scheduled session as completed and, when the
// client has a weekly or biweekly cadence, returns a proposed slot for
// the next session. The proposal is a suggestion only; booking it goes
// through the normal create path.
func CompleteSession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	if session.Status != models.SessionStatusScheduled {
		utils.RespondWithError(c, http.StatusConflict, "Only a scheduled session can be completed")
		return
	}

	now := time.Now()
	session.Status = models.SessionStatusCompleted
	session.CompletedAt = &now

	if err := config.DB.Save(&session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete session")
		return
	}

	if err := config.DB.Model(&models.Client{}).Where("id = ?", session.ClientID).
		Update("last_visit", session.ScheduledAt).Error; err != nil {
		log.Printf("Failed to update last visit for client %s: %v", session.ClientID, err)
	}

	response := gin.H{"session": session}

	// A failed client lookup silently suppresses the proposal; the
	// suggestion is a convenience, not part of completing the session.
	var client models.Client
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, session.ClientID).
		First(&client).Error; err == nil {
		if proposal, found := services.ProposeNextSession(session, client); found {
			response["nextSessionProposal"] = proposal
		}
	}

	c.JSON(http.StatusOK, response)
}

// PaySession marks a session as paid
func PaySession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input PaySessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	now := time.Now()
	session.Paid = true
	session.PaidAt = &now
	session.PaymentMethod = input.PaymentMethod

	if err := config.DB.Save(&session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// UnpaySession reverts a paid session; an unpaid session cannot keep a
// sent receipt, so the receipt flags are cleared too
func UnpaySession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	session.Paid = false
	session.PaidAt = nil
	session.PaymentMethod = nil
	session.ReceiptSent = false
	session.ReceiptSentAt = nil

	if err := config.DB.Save(&session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// MarkReceiptSent flags a paid session's receipt as sent
func MarkReceiptSent(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	if !session.Paid {
		utils.RespondWithError(c, http.StatusConflict, "Cannot send receipt for an unpaid session")
		return
	}

	now := time.Now()
	session.ReceiptSent = true
	session.ReceiptSentAt = &now

	if err := config.DB.Save(&session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// MarkReceiptUnsent reverts the receipt flag
func MarkReceiptUnsent(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	session.ReceiptSent = false
	session.ReceiptSentAt = nil

	if err := config.DB.Save(&session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// CancelSession cancels a scheduled session; cancelled sessions drop
// out of every revenue and debt computation
func CancelSession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	if session.Status != models.SessionStatusScheduled {
		utils.RespondWithError(c, http.StatusConflict, "Only a scheduled session can be cancelled")
		return
	}

	now := time.Now()
	session.Status = models.SessionStatusCancelled
	session.CancelledAt = &now

	if err := config.DB.Save(&session).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// TransferSession moves a session to a new slot. The conflict check and
// the write run in one transaction so a concurrent transfer cannot slip
// between them.
func TransferSession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input TransferSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session, ok := findSession(c, userUUID)
	if !ok {
		return
	}

	if session.Status == models.SessionStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Cannot transfer a cancelled session")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		schedule := services.NewScheduleService(tx)
		if err := schedule.CheckConflict(userUUID, input.ScheduledAt, session.DurationMinutes, session.ID); err != nil {
			return err
		}
		session.ScheduledAt = input.ScheduledAt
		return tx.Save(&session).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrSlotTaken) {
			utils.RespondWithError(c, http.StatusConflict, "This time is already taken")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Could not reschedule the session")
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession soft deletes a session (administrative action)
func DeleteSession(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, sessionUUID).
		Delete(&models.Session{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Session not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

// findSession loads the :id session scoped to the practitioner. On
// failure it writes the error response itself, so callers just return.
func findSession(c *gin.Context, userUUID uuid.UUID) (models.Session, bool) {
	var session models.Session

	sessionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return session, false
	}

	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, sessionUUID).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Session not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return session, false
	}

	return session, true
}
