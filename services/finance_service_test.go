package services

import (
	"reflect"
	"testing"
	"time"

	"practicepro-backend/models"

	"github.com/google/uuid"
)

func paidSession(clientID uuid.UUID, at time.Time, price int64, method string) models.Session {
	s := models.Session{
		ID:          uuid.New(),
		ClientID:    clientID,
		ScheduledAt: at,
		Status:      models.SessionStatusCompleted,
		Price:       price,
		Paid:        true,
	}
	if method != "" {
		s.PaymentMethod = &method
	}
	paidAt := at.Add(time.Hour)
	s.PaidAt = &paidAt
	return s
}

func scheduledSession(clientID uuid.UUID, at time.Time, price int64) models.Session {
	return models.Session{
		ID:          uuid.New(),
		ClientID:    clientID,
		ScheduledAt: at,
		Status:      models.SessionStatusScheduled,
		Price:       price,
	}
}

func debtSession(clientID uuid.UUID, at time.Time, price int64) models.Session {
	return models.Session{
		ID:          uuid.New(),
		ClientID:    clientID,
		ScheduledAt: at,
		Status:      models.SessionStatusCompleted,
		Price:       price,
	}
}

func testClient(name, paymentType string, needReceipt bool) models.Client {
	return models.Client{
		ID:          uuid.New(),
		Name:        name,
		PaymentType: paymentType,
		NeedReceipt: needReceipt,
	}
}

func clientMap(clients ...models.Client) map[uuid.UUID]models.Client {
	m := make(map[uuid.UUID]models.Client, len(clients))
	for _, c := range clients {
		m[c.ID] = c
	}
	return m
}

var baseDay = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func TestBuildSummaryIncomeMatchesMethodBreakdown(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	period := []models.Session{
		paidSession(anna.ID, baseDay, 3500, "card"),
		paidSession(anna.ID, baseDay.AddDate(0, 0, 1), 3500, "cash"),
		paidSession(anna.ID, baseDay.AddDate(0, 0, 2), 4000, "card"),
		paidSession(anna.ID, baseDay.AddDate(0, 0, 3), 3000, ""), // no method recorded
	}

	summary := buildSummary(period, nil, nil, clientMap(anna))

	if summary.TotalIncome != 14000 {
		t.Fatalf("TotalIncome = %d, want 14000", summary.TotalIncome)
	}

	var breakdownSum int64
	for _, amount := range summary.IncomeByMethod {
		breakdownSum += amount
	}
	if breakdownSum != summary.TotalIncome {
		t.Fatalf("method breakdown sums to %d, want %d", breakdownSum, summary.TotalIncome)
	}
	if summary.IncomeByMethod["card"] != 7500 {
		t.Errorf("card bucket = %d, want 7500", summary.IncomeByMethod["card"])
	}
	if summary.IncomeByMethod["unknown"] != 3000 {
		t.Errorf("unknown bucket = %d, want 3000", summary.IncomeByMethod["unknown"])
	}
}

func TestBuildSummaryExpectedIncomeCountsPastDueScheduled(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	period := []models.Session{
		scheduledSession(anna.ID, baseDay.AddDate(0, 0, -7), 3500), // date passed, still expected
		scheduledSession(anna.ID, baseDay.AddDate(0, 0, 7), 3500),
		debtSession(anna.ID, baseDay, 4000), // completed-unpaid is debt, not expected
	}

	summary := buildSummary(period, nil, nil, clientMap(anna))

	if summary.ExpectedIncome != 7000 {
		t.Fatalf("ExpectedIncome = %d, want 7000", summary.ExpectedIncome)
	}
}

func TestBuildSummaryExcludesCancelledSessions(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	cancelled := paidSession(anna.ID, baseDay, 3500, "card")
	cancelled.Status = models.SessionStatusCancelled

	summary := buildSummary([]models.Session{cancelled}, nil, nil, clientMap(anna))

	if summary.TotalIncome != 0 {
		t.Errorf("TotalIncome = %d, want 0", summary.TotalIncome)
	}
	if summary.ExpectedIncome != 0 {
		t.Errorf("ExpectedIncome = %d, want 0", summary.ExpectedIncome)
	}
	if len(summary.RecentTransactions) != 0 {
		t.Errorf("RecentTransactions has %d entries, want 0", len(summary.RecentTransactions))
	}
}

func TestBuildSummaryDebtIgnoresPeriod(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	boris := testClient("Boris", models.PaymentTypeCash, false)
	clients := clientMap(anna, boris)

	debts := []models.Session{
		debtSession(anna.ID, baseDay.AddDate(-1, 0, 0), 3500),
		debtSession(boris.ID, baseDay, 5000),
		debtSession(boris.ID, baseDay.AddDate(0, 1, 0), 2000),
	}

	narrow := buildSummary(nil, debts, nil, clients)
	wide := buildSummary([]models.Session{paidSession(anna.ID, baseDay, 3500, "card")}, debts, nil, clients)

	if narrow.TotalDebt != 10500 || narrow.DebtCount != 3 {
		t.Fatalf("TotalDebt/DebtCount = %d/%d, want 10500/3", narrow.TotalDebt, narrow.DebtCount)
	}
	if wide.TotalDebt != narrow.TotalDebt || wide.DebtCount != narrow.DebtCount {
		t.Fatalf("debt changed with the period set: %d/%d vs %d/%d",
			wide.TotalDebt, wide.DebtCount, narrow.TotalDebt, narrow.DebtCount)
	}
	if !reflect.DeepEqual(narrow.Debtors, wide.Debtors) {
		t.Fatal("debtors list changed with the period set")
	}
}

func TestBuildSummaryDebtorsSortedDescending(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	boris := testClient("Boris", models.PaymentTypeIP, true)
	vera := testClient("Vera", models.PaymentTypePlatform, true)
	clients := clientMap(anna, boris, vera)

	debts := []models.Session{
		debtSession(anna.ID, baseDay, 2000),
		debtSession(boris.ID, baseDay, 3000),
		debtSession(boris.ID, baseDay.AddDate(0, 0, 1), 3000),
		debtSession(vera.ID, baseDay, 4000),
	}

	summary := buildSummary(nil, debts, nil, clients)

	if len(summary.Debtors) != 3 {
		t.Fatalf("got %d debtors, want 3", len(summary.Debtors))
	}
	want := []string{"Boris", "Vera", "Anna"} // 6000, 4000, 2000
	for i, name := range want {
		if summary.Debtors[i].ClientName != name {
			t.Errorf("debtor[%d] = %s (%d), want %s",
				i, summary.Debtors[i].ClientName, summary.Debtors[i].Amount, name)
		}
	}
}

func TestFilterReceiptSessionsExclusionRules(t *testing.T) {
	selfEmployed := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	cashOnly := testClient("Boris", models.PaymentTypeCash, true)
	optedOut := testClient("Vera", models.PaymentTypePlatform, false)
	clients := clientMap(selfEmployed, cashOnly, optedOut)

	unresolvedID := uuid.New()
	sessions := []models.Session{
		paidSession(selfEmployed.ID, baseDay, 3500, "card"),
		paidSession(cashOnly.ID, baseDay, 3500, "cash"),
		paidSession(optedOut.ID, baseDay, 3500, "platform"),
		paidSession(unresolvedID, baseDay, 3500, "card"),
	}

	kept := filterReceiptSessions(sessions, clients)

	if len(kept) != 2 {
		t.Fatalf("kept %d sessions, want 2", len(kept))
	}
	for _, sess := range kept {
		if sess.ClientID == cashOnly.ID {
			t.Error("cash-only client must never appear in receipt reminders")
		}
		if sess.ClientID == optedOut.ID {
			t.Error("need_receipt=false client must never appear in receipt reminders")
		}
	}
}

func TestBuildSummaryReceiptsMostRecentFirst(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	unreceipted := []models.Session{
		paidSession(anna.ID, baseDay, 3500, "card"),
		paidSession(anna.ID, baseDay.AddDate(0, 0, 14), 3500, "card"),
		paidSession(anna.ID, baseDay.AddDate(0, 0, 7), 3500, "card"),
	}

	summary := buildSummary(nil, nil, unreceipted, clientMap(anna))

	if summary.ReceiptsToSendCount != 3 {
		t.Fatalf("ReceiptsToSendCount = %d, want 3", summary.ReceiptsToSendCount)
	}
	for i := 1; i < len(summary.ReceiptsToSend); i++ {
		if summary.ReceiptsToSend[i].ScheduledAt.After(summary.ReceiptsToSend[i-1].ScheduledAt) {
			t.Fatal("receipt reminders are not sorted most-recent-first")
		}
	}
}

func TestBuildSummaryRecentTransactionsCappedAtFive(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	var period []models.Session
	for i := 0; i < 7; i++ {
		period = append(period, paidSession(anna.ID, baseDay.AddDate(0, 0, i), 3500, "card"))
	}

	summary := buildSummary(period, nil, nil, clientMap(anna))

	if len(summary.RecentTransactions) != 5 {
		t.Fatalf("got %d recent transactions, want 5", len(summary.RecentTransactions))
	}
	if !summary.RecentTransactions[0].Date.Equal(baseDay.AddDate(0, 0, 6)) {
		t.Errorf("most recent transaction is %v, want %v",
			summary.RecentTransactions[0].Date, baseDay.AddDate(0, 0, 6))
	}
	for i := 1; i < len(summary.RecentTransactions); i++ {
		if summary.RecentTransactions[i].Date.After(summary.RecentTransactions[i-1].Date) {
			t.Fatal("recent transactions are not sorted by date descending")
		}
	}
}

func TestBuildSummaryUnknownClientNeverFails(t *testing.T) {
	ghostID := uuid.New()
	period := []models.Session{paidSession(ghostID, baseDay, 3500, "card")}
	debts := []models.Session{debtSession(ghostID, baseDay, 4000)}
	unreceipted := []models.Session{paidSession(ghostID, baseDay, 3500, "card")}

	summary := buildSummary(period, debts, unreceipted, clientMap())

	if summary.Debtors[0].ClientName != UnknownClientName {
		t.Errorf("debtor name = %q, want %q", summary.Debtors[0].ClientName, UnknownClientName)
	}
	if summary.RecentTransactions[0].ClientName != UnknownClientName {
		t.Errorf("transaction name = %q, want %q", summary.RecentTransactions[0].ClientName, UnknownClientName)
	}
	// Unresolved client is conservatively assumed to be owed a receipt
	if summary.ReceiptsToSendCount != 1 {
		t.Errorf("ReceiptsToSendCount = %d, want 1", summary.ReceiptsToSendCount)
	}
	if summary.ReceiptsToSend[0].ClientName != UnknownClientName {
		t.Errorf("receipt name = %q, want %q", summary.ReceiptsToSend[0].ClientName, UnknownClientName)
	}
}

func TestBuildSummaryIsDeterministic(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	boris := testClient("Boris", models.PaymentTypeIP, true)
	clients := clientMap(anna, boris)

	period := []models.Session{
		paidSession(anna.ID, baseDay, 3500, "card"),
		scheduledSession(boris.ID, baseDay.AddDate(0, 0, 1), 4000),
	}
	debts := []models.Session{
		debtSession(anna.ID, baseDay.AddDate(0, 0, -3), 3500),
		debtSession(boris.ID, baseDay.AddDate(0, 0, -2), 4000),
	}
	unreceipted := []models.Session{paidSession(anna.ID, baseDay, 3500, "card")}

	first := buildSummary(period, debts, unreceipted, clients)
	second := buildSummary(period, debts, unreceipted, clients)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different summaries")
	}
}

// Two unresolved clients both render as "Unknown Client", so an
// equal-amount tie cannot be broken by name. The client id tiebreak
// must keep the order fixed across repeated computations.
func TestBuildSummaryEqualUnknownDebtorsKeepStableOrder(t *testing.T) {
	ghostA := uuid.New()
	ghostB := uuid.New()
	debts := []models.Session{
		debtSession(ghostA, baseDay, 3000),
		debtSession(ghostB, baseDay.AddDate(0, 0, 1), 3000),
	}

	first := buildSummary(nil, debts, nil, clientMap())
	if len(first.Debtors) != 2 {
		t.Fatalf("got %d debtors, want 2", len(first.Debtors))
	}
	if first.Debtors[0].ClientID.String() > first.Debtors[1].ClientID.String() {
		t.Errorf("equal-amount debtors not ordered by client id: %s before %s",
			first.Debtors[0].ClientID, first.Debtors[1].ClientID)
	}
	for i := 0; i < 100; i++ {
		again := buildSummary(nil, debts, nil, clientMap())
		if !reflect.DeepEqual(first.Debtors, again.Debtors) {
			t.Fatalf("iteration %d: debtor order changed: %v vs %v", i, first.Debtors, again.Debtors)
		}
	}
}

func TestBuildSummaryReceiptTiesKeepStableOrder(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	unreceipted := []models.Session{
		paidSession(anna.ID, baseDay, 3500, "card"),
		paidSession(anna.ID, baseDay, 3500, "card"), // same minute, distinct session
	}
	clients := clientMap(anna)

	first := buildSummary(nil, nil, unreceipted, clients)
	for i := 0; i < 100; i++ {
		again := buildSummary(nil, nil, unreceipted, clients)
		if !reflect.DeepEqual(first.ReceiptsToSend, again.ReceiptsToSend) {
			t.Fatalf("iteration %d: receipt order changed", i)
		}
	}
}

func TestBuildExportRows(t *testing.T) {
	anna := testClient("Anna", models.PaymentTypeSelfEmployed, true)
	ghostID := uuid.New()

	sessions := []models.Session{
		paidSession(anna.ID, baseDay, 3500, "card"),
		paidSession(ghostID, baseDay.AddDate(0, 0, 1), 4000, ""),
	}

	rows := buildExportRows(sessions, clientMap(anna))

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ClientName != "Anna" || rows[0].PaymentType != models.PaymentTypeSelfEmployed {
		t.Errorf("row[0] = %q/%q", rows[0].ClientName, rows[0].PaymentType)
	}
	if rows[1].ClientName != UnknownClientName {
		t.Errorf("unresolved client name = %q, want %q", rows[1].ClientName, UnknownClientName)
	}
	if rows[1].PaymentMethod != nil {
		t.Error("missing payment method should stay nil in export rows")
	}
}

func TestClientIDsDeduplicatesAcrossSets(t *testing.T) {
	anna := uuid.New()
	boris := uuid.New()

	ids := clientIDs(
		[]models.Session{{ClientID: anna}, {ClientID: boris}},
		[]models.Session{{ClientID: anna}},
		[]models.Session{{ClientID: boris}, {ClientID: anna}},
	)

	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
}
