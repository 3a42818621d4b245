package ir

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Value is a sealed interface for literal values that appear on the right
// side of a predicate. Only the types in this file implement it.
type Value interface {
	value() // Sealed
}

// String is a quoted text literal.
type String string

func (String) value() {}

// Int is an integer literal.
type Int int64

func (Int) value() {}

// Decimal is an exact decimal literal ("1.5 million", "$2,500.75").
// Floats are never used so rendering is exact and deterministic.
type Decimal struct {
	D decimal.Decimal
}

func (Decimal) value() {}

// Bool renders as TRUE or FALSE.
type Bool bool

func (Bool) value() {}

// Null renders as the null keyword.
type Null struct{}

func (Null) value() {}

// Date is a calendar date in YYYY-MM-DD form. Date values are unquoted.
type Date string

func (Date) value() {}

// DateLiteral is a relative date token such as TODAY or LAST_N_DAYS:30.
// N is only rendered when Parameterized is true.
type DateLiteral struct {
	Name          string
	N             int
	Parameterized bool
}

func (DateLiteral) value() {}

// Bind is an Apex bind variable (":recordId").
type Bind string

func (Bind) value() {}

// NewDecimal creates a Decimal value.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{D: d}
}

// Token returns the literal token for a date literal.
func (d DateLiteral) Token() string {
	if !d.Parameterized {
		return d.Name
	}
	return d.Name + ":" + strconv.Itoa(d.N)
}
