package http

import (
	"time"

	"tally/internal/core"
)

// Wire representations. Amounts travel as two-fraction-digit decimal
// strings on rows, and as plain numbers on aggregates.

type categoryJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type transactionJSON struct {
	ID           int64     `json:"id"`
	Amount       string    `json:"amount"`
	Date         time.Time `json:"date"`
	Type         string    `json:"type"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	CategoryType string    `json:"categoryType"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:           t.ID,
		Amount:       t.Amount.Decimal(),
		Date:         t.Date,
		Type:         string(t.Type),
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		CategoryType: string(t.CategoryType),
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toTransactionListJSON(items []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(items))
	for i, t := range items {
		out[i] = toTransactionJSON(t)
	}
	return out
}

type pageJSON struct {
	Transactions []transactionJSON `json:"transactions"`
	TotalCount   int64             `json:"totalCount"`
	Page         int               `json:"page"`
	PageSize     int               `json:"pageSize"`
	TotalPages   int               `json:"totalPages"`
	HasNextPage  bool              `json:"hasNextPage"`
	HasPrevPage  bool              `json:"hasPrevPage"`
}

func toPageJSON(p core.TransactionPage) pageJSON {
	return pageJSON{
		Transactions: toTransactionListJSON(p.Transactions),
		TotalCount:   p.TotalCount,
		Page:         p.Page,
		PageSize:     p.PageSize,
		TotalPages:   p.TotalPages,
		HasNextPage:  p.HasNextPage,
		HasPrevPage:  p.HasPrevPage,
	}
}

type monthlyStatJSON struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type statsJSON struct {
	TotalIncome      float64                    `json:"totalIncome"`
	TotalExpenses    float64                    `json:"totalExpenses"`
	NetBalance       float64                    `json:"netBalance"`
	TransactionCount int64                      `json:"transactionCount"`
	MonthlyStats     map[string]monthlyStatJSON `json:"monthlyStats"`
}

func toStatsJSON(s core.YearStats) statsJSON {
	monthly := make(map[string]monthlyStatJSON, len(s.Monthly))
	for month, bucket := range s.Monthly {
		monthly[month] = monthlyStatJSON{
			Income:   bucket.Income.Float(),
			Expenses: bucket.Expenses.Float(),
		}
	}
	return statsJSON{
		TotalIncome:      s.TotalIncome.Float(),
		TotalExpenses:    s.TotalExpenses.Float(),
		NetBalance:       core.Money{Cents: s.NetBalance()}.Float(),
		TransactionCount: s.TransactionCount,
		MonthlyStats:     monthly,
	}
}
