package core

import (
	"fmt"
	"strings"
)

// Category is one of the known transaction labels.
type Category string

const (
	CategoryIncome        Category = "Income"
	CategorySavings       Category = "Savings"
	CategoryNeeds         Category = "Needs"
	CategoryWants         Category = "Wants"
	CategoryHousing       Category = "Housing"
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryHealth        Category = "Health"
	CategoryUtilities     Category = "Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

// Kind is what a category label means for classification.
type Kind int

const (
	KindSpending Kind = iota
	KindIncome
	KindSavings
)

func (k Kind) String() string {
	switch k {
	case KindIncome:
		return "income"
	case KindSavings:
		return "savings"
	default:
		return "spending"
	}
}

// Bucket is the derived classification of a transaction. It is never stored.
type Bucket int

const (
	BucketIncome Bucket = iota
	BucketExpense
	BucketSavingsTransfer
	BucketAnomaly
)

func (b Bucket) String() string {
	switch b {
	case BucketIncome:
		return "income"
	case BucketExpense:
		return "expense"
	case BucketSavingsTransfer:
		return "savings_transfer"
	default:
		return "anomaly"
	}
}

func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Taxonomy is the validated set of category labels. The zero value is not
// usable; build one with NewTaxonomy or DefaultTaxonomy.
type Taxonomy struct {
	income  string
	savings string
	kinds   map[string]Kind
	labels  []Category
}

// NewTaxonomy validates the labels and returns the taxonomy. Labels are
// compared case-insensitively; every label must be unique and the income and
// savings labels must be distinct.
func NewTaxonomy(income, savings Category, spending ...Category) (Taxonomy, error) {
	t := Taxonomy{kinds: make(map[string]Kind, len(spending)+2)}
	add := func(c Category, k Kind) error {
		key := labelKey(string(c))
		if key == "" {
			return fmt.Errorf("%w: empty label for %s", ErrUnknownLabel, k)
		}
		if _, dup := t.kinds[key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, c)
		}
		t.kinds[key] = k
		t.labels = append(t.labels, Category(strings.TrimSpace(string(c))))
		return nil
	}
	if err := add(income, KindIncome); err != nil {
		return Taxonomy{}, err
	}
	if err := add(savings, KindSavings); err != nil {
		return Taxonomy{}, err
	}
	for _, c := range spending {
		if err := add(c, KindSpending); err != nil {
			return Taxonomy{}, err
		}
	}
	t.income = labelKey(string(income))
	t.savings = labelKey(string(savings))
	return t, nil
}

// DefaultSpending lists the built-in spending labels.
func DefaultSpending() []Category {
	return []Category{
		CategoryNeeds, CategoryWants, CategoryHousing, CategoryFood, CategoryTransport,
		CategoryHealth, CategoryUtilities, CategoryEntertainment, CategoryOther,
	}
}

// DefaultTaxonomy is the built-in label set.
func DefaultTaxonomy() Taxonomy {
	t, err := NewTaxonomy(CategoryIncome, CategorySavings, DefaultSpending()...)
	if err != nil {
		panic(err)
	}
	return t
}

// Kind returns the kind of a label and whether the label is known.
func (t Taxonomy) Kind(label string) (Kind, bool) {
	k, ok := t.kinds[labelKey(label)]
	return k, ok
}

// IsIncome reports whether label is the income label.
func (t Taxonomy) IsIncome(label string) bool {
	return t.income != "" && labelKey(label) == t.income
}

// IsSavings reports whether label is the savings label.
func (t Taxonomy) IsSavings(label string) bool {
	return t.savings != "" && labelKey(label) == t.savings
}

// Known reports whether label belongs to the taxonomy.
func (t Taxonomy) Known(label string) bool {
	_, ok := t.kinds[labelKey(label)]
	return ok
}

// Labels returns the labels in declaration order.
func (t Taxonomy) Labels() []Category {
	return append([]Category(nil), t.labels...)
}

func labelKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
