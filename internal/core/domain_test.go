package core

import (
	"errors"
	"testing"
	"time"
)

func TestEntryTypeIsValid(t *testing.T) {
	cases := []struct {
		t  EntryType
		ok bool
	}{
		{Income, true},
		{Expense, true},
		{EntryType(""), false},
		{EntryType("transfer"), false},
		{EntryType("INCOME"), false},
	}
	for i, tc := range cases {
		if got := tc.t.IsValid(); got != tc.ok {
			t.Fatalf("case %d: IsValid(%q) = %v, want %v", i, tc.t, got, tc.ok)
		}
	}
}

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Amount:     Money{Cents: 10000},
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Type:       Expense,
		CategoryID: 9,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		in   TransactionInput
		want error
	}{
		{"zero amount", TransactionInput{Amount: Money{}, Date: good.Date, Type: Expense, CategoryID: 9}, ErrInvalidAmount},
		{"negative amount", TransactionInput{Amount: Money{Cents: -500}, Date: good.Date, Type: Expense, CategoryID: 9}, ErrInvalidAmount},
		{"missing date", TransactionInput{Amount: good.Amount, Type: Expense, CategoryID: 9}, ErrMissingDate},
		{"bad type", TransactionInput{Amount: good.Amount, Date: good.Date, Type: "transfer", CategoryID: 9}, ErrInvalidType},
		{"missing category", TransactionInput{Amount: good.Amount, Date: good.Date, Type: Expense}, ErrMissingCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.in.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsBadRequest(ErrInvalidAmount) || !IsBadRequest(ErrUnknownCategory) {
		t.Fatal("validation errors should classify as bad request")
	}
	if IsBadRequest(ErrNotFound) || IsBadRequest(ErrDefaultCategory) {
		t.Fatal("not-found and conflict errors are not bad requests")
	}
	if !IsConflict(ErrDefaultCategory) {
		t.Fatal("default-category delete is a conflict")
	}
	if !IsConflict(&CategoryInUseError{Count: 3}) {
		t.Fatal("in-use delete is a conflict")
	}
	if IsConflict(ErrNotFound) {
		t.Fatal("not-found is not a conflict")
	}
}

func TestCategoryInUseErrorMessage(t *testing.T) {
	err := &CategoryInUseError{Count: 5}
	want := "category is referenced by 5 transaction(s)"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestValidateCategoryName(t *testing.T) {
	if err := ValidateCategoryName("Groceries"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, name := range []string{"", "   ", "\t\n"} {
		if err := ValidateCategoryName(name); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("name %q: got %v, want ErrEmptyName", name, err)
		}
	}
}
