package controllers

import (
	"errors"
	"net/http"
	"practicepro-backend/config"
	"practicepro-backend/models"
	"practicepro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Email       *string `json:"email"`
	PaymentType string  `json:"paymentType" binding:"omitempty,oneof=self-employed ip cash platform"`
	NeedReceipt *bool   `json:"needReceipt"`
	Recurrence  string  `json:"recurrence" binding:"omitempty,oneof=1x/week 1x/2weeks 2x/week flexible"`
	Notes       string  `json:"notes"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	PaymentType *string `json:"paymentType" binding:"omitempty,oneof=self-employed ip cash platform"`
	NeedReceipt *bool   `json:"needReceipt"`
	Recurrence  *string `json:"recurrence" binding:"omitempty,oneof=1x/week 1x/2weeks 2x/week flexible"`
	Notes       *string `json:"notes"`
	IsActive    *bool   `json:"isActive"`
}

// CreateClient creates a new client for the practitioner
func CreateClient(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if phone already exists for this practitioner
	var existingClient models.Client
	if err := config.DB.Where("user_id = ? AND phone = ?", userUUID, input.Phone).
		First(&existingClient).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Client with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	client := models.Client{
		ID:       uuid.New(),
		UserID:   userUUID,
		Name:     input.Name,
		Phone:    input.Phone,
		Notes:    input.Notes,
		IsActive: true,
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.PaymentType != "" {
		client.PaymentType = input.PaymentType
	} else {
		client.PaymentType = models.PaymentTypeCash
	}
	if input.Recurrence != "" {
		client.Recurrence = input.Recurrence
	} else {
		client.Recurrence = models.RecurrenceFlexible
	}
	client.NeedReceipt = true
	if input.NeedReceipt != nil {
		client.NeedReceipt = *input.NeedReceipt
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients retrieves all clients for the practitioner
func GetClients(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var clients []models.Client
	if err := config.DB.Where("user_id = ?", userUUID).Order("name").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a specific client by ID
func GetClient(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var client models.Client
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient updates an existing client
func UpdateClient(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}

		// Check if phone is being changed to another existing client
		if client.Phone != *input.Phone {
			var existingClient models.Client
			if err := config.DB.Where("user_id = ? AND phone = ?", userUUID, *input.Phone).
				First(&existingClient).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another client with this phone number already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		client.Phone = *input.Phone
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.PaymentType != nil {
		client.PaymentType = *input.PaymentType
	}
	if input.NeedReceipt != nil {
		client.NeedReceipt = *input.NeedReceipt
	}
	if input.Recurrence != nil {
		client.Recurrence = *input.Recurrence
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient soft deletes a client
func DeleteClient(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, clientUUID).
		Delete(&models.Client{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// currentUserID pulls the authenticated user id out of the gin context.
// On failure it writes the error response itself, so callers just return.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}
