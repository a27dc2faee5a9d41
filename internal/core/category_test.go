package core

import (
	"errors"
	"testing"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()
	if !tax.IsIncome("income") || !tax.IsSavings(" Savings ") {
		t.Fatal("income/savings labels should match case-insensitively")
	}
	if k, ok := tax.Kind("Food"); !ok || k != KindSpending {
		t.Fatalf("Food: got %v,%v", k, ok)
	}
	if tax.Known("Lottery") {
		t.Fatal("Lottery should be unknown")
	}
	if len(tax.Labels()) != 2+len(DefaultSpending()) {
		t.Fatalf("unexpected labels %v", tax.Labels())
	}
}

func TestNewTaxonomyRejectsBadLabels(t *testing.T) {
	if _, err := NewTaxonomy("Income", "income"); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := NewTaxonomy("Income", "Savings", "Food", "FOOD"); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := NewTaxonomy("", "Savings"); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected empty label error, got %v", err)
	}
	tax, err := NewTaxonomy("Salary", "Piggy Bank", "Rent")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !tax.IsIncome("salary") || tax.IsIncome("Income") {
		t.Fatal("custom income label not honoured")
	}
}

func TestBucketText(t *testing.T) {
	b, _ := BucketSavingsTransfer.MarshalText()
	if string(b) != "savings_transfer" {
		t.Fatalf("unexpected %q", b)
	}
}
