package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

type (
	// EntryType classifies categories and transactions.
	EntryType string

	// Category is a shard-local classification row. Ids 1-14 are seeded
	// defaults and are protected from deletion.
	Category struct {
		ID        int64
		Name      string
		Type      EntryType
		IsDefault bool
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Transaction is a ledger row. CategoryName and CategoryType are
	// joined from the referenced category when a row is read back.
	Transaction struct {
		ID           int64
		Amount       Money
		Date         time.Time
		Type         EntryType
		CategoryID   int64
		CategoryName string
		CategoryType EntryType
		Description  string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// TransactionInput carries the caller-supplied fields for create and
	// update operations, validated before any storage call happens.
	TransactionInput struct {
		Amount      Money
		Date        time.Time
		Type        EntryType
		CategoryID  int64
		Description string
	}
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrInvalidAmount   = errors.New("amount must be a positive value")
	ErrMissingDate     = errors.New("date is required")
	ErrMissingCategory = errors.New("category id is required")
	ErrMissingRange    = errors.New("start and end dates are required")
	ErrUnknownCategory = errors.New("category does not exist")
	ErrDefaultCategory = errors.New("default categories cannot be deleted")
)

// CategoryInUseError reports a category delete blocked by live references.
type CategoryInUseError struct {
	Count int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category is referenced by %d transaction(s)", e.Count)
}

// IsBadRequest reports whether err is a caller-input validation failure,
// as opposed to a missing row, a conflict or a storage failure.
func IsBadRequest(err error) bool {
	for _, target := range []error{
		ErrEmptyName,
		ErrInvalidType,
		ErrInvalidAmount,
		ErrMissingDate,
		ErrMissingCategory,
		ErrMissingRange,
		ErrUnknownCategory,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err is a delete guard violation.
func IsConflict(err error) bool {
	var inUse *CategoryInUseError
	return errors.Is(err, ErrDefaultCategory) || errors.As(err, &inUse)
}

func (t EntryType) IsValid() bool {
	return t == Income || t == Expense
}

// ValidateCategoryName checks for a non-blank name.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (in TransactionInput) Validate() error {
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return ErrMissingDate
	}
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	if in.CategoryID <= 0 {
		return ErrMissingCategory
	}
	return nil
}
