// services/finance_service.go
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

// UnknownClientName replaces the display name of any client id that
// cannot be resolved. An unresolved client never fails a computation.
const UnknownClientName = "Unknown Client"

const paymentMethodUnknown = "unknown"

const recentTransactionsLimit = 5

// Debtor is one client with completed-but-unpaid sessions.
type Debtor struct {
	ClientID   uuid.UUID `json:"clientId"`
	ClientName string    `json:"clientName"`
	Amount     int64     `json:"amount"`
}

// ReceiptReminder is one paid session whose receipt has not been sent yet.
type ReceiptReminder struct {
	SessionID   uuid.UUID `json:"sessionId"`
	ClientID    uuid.UUID `json:"clientId"`
	ClientName  string    `json:"clientName"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// Transaction is one paid session projected for display.
type Transaction struct {
	ID            uuid.UUID `json:"id"`
	ClientID      uuid.UUID `json:"clientId"`
	ClientName    string    `json:"clientName"`
	Amount        int64     `json:"amount"`
	Date          time.Time `json:"date"`
	PaymentMethod *string   `json:"paymentMethod"`
}

// FinancialSummary is computed fresh on every request, never persisted.
//
// TotalIncome, IncomeByMethod and ExpectedIncome cover the queried
// period only. TotalDebt, Debtors and the receipt reminders are
// practice-lifetime: they do not depend on the period at all.
type FinancialSummary struct {
	TotalIncome         int64             `json:"totalIncome"`
	IncomeByMethod      map[string]int64  `json:"incomeByMethod"`
	ExpectedIncome      int64             `json:"expectedIncome"`
	TotalDebt           int64             `json:"totalDebt"`
	DebtCount           int               `json:"debtCount"`
	Debtors             []Debtor          `json:"debtors"`
	ReceiptsToSend      []ReceiptReminder `json:"receiptsToSend"`
	ReceiptsToSendCount int               `json:"receiptsToSendCount"`
	RecentTransactions  []Transaction     `json:"recentTransactions"`
}

// ExportRow is one paid session in the downloadable report.
// PaymentType carries the client's billing source (self-employed, ip,
// cash, platform) so the sheet can label where the money came from.
type ExportRow struct {
	Date          time.Time
	ClientName    string
	ClientID      uuid.UUID
	PaymentType   string
	Amount        int64
	PaymentMethod *string
	ReceiptSent   bool
}

type FinanceService struct {
	db *gorm.DB
}

func NewFinanceService(db *gorm.DB) *FinanceService {
	return &FinanceService{db: db}
}

// ComputeSummary aggregates the user's sessions into a FinancialSummary.
// Reversed bounds simply produce an empty period set. Any fetch failure
// fails the whole call; no partial summary is ever returned.
func (s *FinanceService) ComputeSummary(userID uuid.UUID, start, end time.Time) (*FinancialSummary, error) {
	end = utils.EndOfDay(end)

	var period []models.Session
	if err := s.db.
		Where("user_id = ? AND scheduled_at >= ? AND scheduled_at <= ?", userID, start, end).
		Order("scheduled_at, id").
		Find(&period).Error; err != nil {
		return nil, fmt.Errorf("fetch period sessions: %w", err)
	}

	// Debts are practice-lifetime, deliberately not period-scoped.
	var debts []models.Session
	if err := s.db.
		Where("user_id = ? AND status = ? AND paid = false", userID, models.SessionStatusCompleted).
		Order("scheduled_at, id").
		Find(&debts).Error; err != nil {
		return nil, fmt.Errorf("fetch unpaid sessions: %w", err)
	}

	var unreceipted []models.Session
	if err := s.db.
		Where("user_id = ? AND paid = true AND receipt_sent = false", userID).
		Order("scheduled_at, id").
		Find(&unreceipted).Error; err != nil {
		return nil, fmt.Errorf("fetch unreceipted sessions: %w", err)
	}

	clients := resolveClients(s.db, userID, clientIDs(period, debts, unreceipted))

	return buildSummary(period, debts, unreceipted, clients), nil
}

// ExportTransactions returns every paid session in the period, oldest
// first, for the spreadsheet download. Unlike ComputeSummary's recent
// transactions there is no row cap. Fails closed on fetch errors.
func (s *FinanceService) ExportTransactions(userID uuid.UUID, start, end time.Time) ([]ExportRow, error) {
	end = utils.EndOfDay(end)

	var sessions []models.Session
	if err := s.db.
		Where("user_id = ? AND paid = true AND status <> ? AND scheduled_at >= ? AND scheduled_at <= ?",
			userID, models.SessionStatusCancelled, start, end).
		Order("scheduled_at, id").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	clients := resolveClients(s.db, userID, clientIDs(sessions))

	return buildExportRows(sessions, clients), nil
}

// resolveClients batch-loads the given client ids in a single query.
// A failed lookup degrades to an empty map: callers substitute
// UnknownClientName instead of aborting.
func resolveClients(db *gorm.DB, userID uuid.UUID, ids []uuid.UUID) map[uuid.UUID]models.Client {
	resolved := make(map[uuid.UUID]models.Client, len(ids))
	if len(ids) == 0 {
		return resolved
	}

	var clients []models.Client
	if err := db.
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&clients).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return resolved
	}
	for _, c := range clients {
		resolved[c.ID] = c
	}
	return resolved
}

// clientIDs collects the deduplicated union of client ids across all
// fetched session sets, so name resolution is one query, not N.
func clientIDs(sets ...[]models.Session) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, set := range sets {
		for _, sess := range set {
			if !seen[sess.ClientID] {
				seen[sess.ClientID] = true
				ids = append(ids, sess.ClientID)
			}
		}
	}
	return ids
}

func clientName(clients map[uuid.UUID]models.Client, id uuid.UUID) string {
	if c, ok := clients[id]; ok {
		return c.Name
	}
	return UnknownClientName
}

func buildSummary(period, debts, unreceipted []models.Session, clients map[uuid.UUID]models.Client) *FinancialSummary {
	summary := &FinancialSummary{
		IncomeByMethod:     map[string]int64{},
		Debtors:            []Debtor{},
		ReceiptsToSend:     []ReceiptReminder{},
		RecentTransactions: []Transaction{},
	}

	// Realized and expected income over the period. Method buckets are
	// discovered from the data; a missing method lands in "unknown".
	var paidInPeriod []models.Session
	for _, sess := range period {
		if sess.Status == models.SessionStatusCancelled {
			continue
		}
		if sess.Paid {
			summary.TotalIncome += sess.Price
			method := paymentMethodUnknown
			if sess.PaymentMethod != nil {
				method = *sess.PaymentMethod
			}
			summary.IncomeByMethod[method] += sess.Price
			paidInPeriod = append(paidInPeriod, sess)
		} else if sess.Status == models.SessionStatusScheduled {
			summary.ExpectedIncome += sess.Price
		}
	}

	// Outstanding debt, grouped per client.
	owed := make(map[uuid.UUID]int64)
	for _, sess := range debts {
		summary.TotalDebt += sess.Price
		summary.DebtCount++
		owed[sess.ClientID] += sess.Price
	}
	for id, amount := range owed {
		summary.Debtors = append(summary.Debtors, Debtor{
			ClientID:   id,
			ClientName: clientName(clients, id),
			Amount:     amount,
		})
	}
	// Name alone cannot break ties: unresolved clients all share the
	// same placeholder name, so the client id is the final tiebreak.
	sort.Slice(summary.Debtors, func(i, j int) bool {
		if summary.Debtors[i].Amount != summary.Debtors[j].Amount {
			return summary.Debtors[i].Amount > summary.Debtors[j].Amount
		}
		if summary.Debtors[i].ClientName != summary.Debtors[j].ClientName {
			return summary.Debtors[i].ClientName < summary.Debtors[j].ClientName
		}
		return summary.Debtors[i].ClientID.String() < summary.Debtors[j].ClientID.String()
	})

	for _, sess := range filterReceiptSessions(unreceipted, clients) {
		summary.ReceiptsToSend = append(summary.ReceiptsToSend, ReceiptReminder{
			SessionID:   sess.ID,
			ClientID:    sess.ClientID,
			ClientName:  clientName(clients, sess.ClientID),
			ScheduledAt: sess.ScheduledAt,
		})
	}
	sort.SliceStable(summary.ReceiptsToSend, func(i, j int) bool {
		if !summary.ReceiptsToSend[i].ScheduledAt.Equal(summary.ReceiptsToSend[j].ScheduledAt) {
			return summary.ReceiptsToSend[i].ScheduledAt.After(summary.ReceiptsToSend[j].ScheduledAt)
		}
		return summary.ReceiptsToSend[i].SessionID.String() < summary.ReceiptsToSend[j].SessionID.String()
	})
	summary.ReceiptsToSendCount = len(summary.ReceiptsToSend)

	sort.SliceStable(paidInPeriod, func(i, j int) bool {
		if !paidInPeriod[i].ScheduledAt.Equal(paidInPeriod[j].ScheduledAt) {
			return paidInPeriod[i].ScheduledAt.After(paidInPeriod[j].ScheduledAt)
		}
		return paidInPeriod[i].ID.String() < paidInPeriod[j].ID.String()
	})
	for i, sess := range paidInPeriod {
		if i >= recentTransactionsLimit {
			break
		}
		summary.RecentTransactions = append(summary.RecentTransactions, Transaction{
			ID:            sess.ID,
			ClientID:      sess.ClientID,
			ClientName:    clientName(clients, sess.ClientID),
			Amount:        sess.Price,
			Date:          sess.ScheduledAt,
			PaymentMethod: sess.PaymentMethod,
		})
	}

	return summary
}

// filterReceiptSessions drops sessions whose client is cash-only or
// marked as not needing receipts. A session whose client cannot be
// resolved is kept: with client data missing, assume a receipt may be
// owed.
func filterReceiptSessions(sessions []models.Session, clients map[uuid.UUID]models.Client) []models.Session {
	var kept []models.Session
	for _, sess := range sessions {
		if client, ok := clients[sess.ClientID]; ok {
			if client.PaymentType == models.PaymentTypeCash || !client.NeedReceipt {
				continue
			}
		}
		kept = append(kept, sess)
	}
	return kept
}

func buildExportRows(sessions []models.Session, clients map[uuid.UUID]models.Client) []ExportRow {
	rows := make([]ExportRow, 0, len(sessions))
	for _, sess := range sessions {
		row := ExportRow{
			Date:          sess.ScheduledAt,
			ClientName:    clientName(clients, sess.ClientID),
			ClientID:      sess.ClientID,
			Amount:        sess.Price,
			PaymentMethod: sess.PaymentMethod,
			ReceiptSent:   sess.ReceiptSent,
		}
		if client, ok := clients[sess.ClientID]; ok {
			row.PaymentType = client.PaymentType
		}
		rows = append(rows, row)
	}
	return rows
}
