// controllers/export.go
package controllers

import (
	"fmt"
	"net/http"

	"practicepro-backend/config"
	"practicepro-backend/services"
	"practicepro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Дата", "Клиент", "ID клиента", "Источник", "Сумма", "Способ оплаты", "Чек"}

// ExportTransactions streams the period's paid sessions as an xlsx
// file with Russian labels. Unlike the dashboard summary there is no
// row cap, and the end date always covers the whole final day.
func ExportTransactions(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	finance := services.NewFinanceService(config.DB)
	rows, err := finance.ExportTransactions(userUUID, start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to export transactions")
		return
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		receipt := "Нет"
		if row.ReceiptSent {
			receipt = "Да"
		}
		method := ""
		if row.PaymentMethod != nil {
			method = utils.PaymentMethodLabel(*row.PaymentMethod)
		}
		values := []interface{}{
			row.Date.Format("02.01.2006 15:04"),
			row.ClientName,
			row.ClientID.String(),
			utils.PaymentTypeLabel(row.PaymentType),
			row.Amount,
			method,
			receipt,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("transactions_%s_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to write spreadsheet")
		return
	}
	c.Status(http.StatusOK)
}

