// controllers/finance.go
package controllers

import (
	"net/http"
	"time"

	"practicepro-backend/config"
	"practicepro-backend/services"
	"practicepro-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetFinancialSummary computes the period summary for the practitioner.
// Income figures cover the requested period; debts and receipt
// reminders are practice-lifetime. Returns nothing on a fetch failure:
// a partial summary is worse than no summary.
func GetFinancialSummary(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	finance := services.NewFinanceService(config.DB)
	summary, err := finance.ComputeSummary(userUUID, start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute financial summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// parsePeriod reads start/end query params (YYYY-MM-DD or RFC3339),
// defaulting to the current calendar month.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)

	if s := c.Query("start"); s != "" {
		t, _, err := utils.ParseDateParam(s)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'start' date")
			return start, end, false
		}
		start = t
	}
	if e := c.Query("end"); e != "" {
		t, _, err := utils.ParseDateParam(e)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'end' date")
			return start, end, false
		}
		end = t
	}

	return start, end, true
}
