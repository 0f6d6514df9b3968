package core

// MonthlyStat is the income/expense bucket for one year-month key.
type MonthlyStat struct {
	Income   Money
	Expenses Money
}

// YearStats aggregates one shard. Months without activity carry no bucket;
// callers treat a missing key as zero.
type YearStats struct {
	TotalIncome      Money
	TotalExpenses    Money
	TransactionCount int64
	// Monthly is keyed by "YYYY-MM".
	Monthly map[string]MonthlyStat
}

// NetBalance is total income minus total expenses and may be negative.
func (s YearStats) NetBalance() int64 {
	return s.TotalIncome.Cents - s.TotalExpenses.Cents
}

// TransactionPage is one page of the deterministic (date desc, id desc)
// transaction ordering, with navigation metadata derived from the total.
type TransactionPage struct {
	Transactions []Transaction
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
	HasNextPage  bool
	HasPrevPage  bool
}

// NewTransactionPage fills navigation metadata for one result page.
func NewTransactionPage(items []Transaction, total int64, page, pageSize int) TransactionPage {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return TransactionPage{
		Transactions: items,
		TotalCount:   total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}
