// controllers/reminder.go
package controllers

import (
	"net/http"

	"practicepro-backend/config"
	"practicepro-backend/models"
	"practicepro-backend/utils"

	"github.com/gin-gonic/gin"
)

// UpdateReminderTemplateInput defines the expected JSON structure
type UpdateReminderTemplateInput struct {
	Type     string  `json:"type" binding:"required,oneof=upcoming_session receipt"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"isActive"`
}

// GetReminderTemplates returns the practitioner's reminder templates
func GetReminderTemplates(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var templates []models.ReminderTemplate
	if err := config.DB.Where("user_id = ?", userUUID).Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch reminder templates")
		return
	}

	settings := gin.H{}
	for _, t := range templates {
		settings[t.Type+"_reminder"] = t.IsActive
		settings[t.Type+"_message"] = t.Message
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateReminderTemplate updates the message or active flag of one
// template type
func UpdateReminderTemplate(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.ReminderTemplate
	if err := config.DB.Where("user_id = ? AND type = ?", userUUID, input.Type).
		First(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Reminder template not found")
		return
	}

	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update reminder template")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder template updated"})
}

// GetReminderLogs lists delivery attempts, newest first
func GetReminderLogs(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var logs []models.ReminderLog
	if err := config.DB.Where("user_id = ?", userUUID).
		Order("sent_at DESC").Limit(100).Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch reminder logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
