package bills

import (
	"math"
	"strings"
	"time"

	"github.com/nikmy/klaro/internal/entity"
	"github.com/nikmy/klaro/pkg/clock"
)

type Bill struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	DueDate string  `json:"dueDate"`
	Paid    bool    `json:"paid"`
}

func (b Bill) GetID() string { return b.ID }

func (b Bill) WithID(id string) Bill {
	b.ID = id
	return b
}

const (
	EntityName = "bill"
	IndexName  = "bills"
)

// dateOnly is accepted for due dates typed by hand.
const dateOnly = "2006-01-02"

func Kind(clk clock.Clock) entity.Kind[Bill] {
	return entity.Kind[Bill]{
		Name:      EntityName,
		IndexName: IndexName,
		Seed:      func() []Bill { return seedBills(clk) },
		Validate:  validate,
	}
}

func validate(b Bill) error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return entity.Invalidf("Bill name is required")
	case math.IsNaN(b.Amount) || math.IsInf(b.Amount, 0):
		return entity.Invalidf("Bill amount must be a number")
	case b.Amount < 0:
		return entity.Invalidf("Bill amount must not be negative")
	}

	_, ok := parseDueDate(b.DueDate)
	if !ok {
		return entity.Invalidf("Bill due date %q is not a date", b.DueDate)
	}
	return nil
}

func parseDueDate(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(dateOnly, s)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// Patch lists the fields of an update. Nil fields are kept as stored.
type Patch struct {
	Name    *string  `json:"name"`
	Amount  *float64 `json:"amount"`
	DueDate *string  `json:"dueDate"`
	Paid    *bool    `json:"paid"`
}

func (p Patch) apply(b Bill) Bill {
	if p.Name != nil {
		b.Name = strings.TrimSpace(*p.Name)
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.DueDate != nil {
		b.DueDate = strings.TrimSpace(*p.DueDate)
	}
	if p.Paid != nil {
		b.Paid = *p.Paid
	}
	return b
}

// byDueDate orders bills by due date, bills with unreadable dates last, then by name.
func byDueDate(a, b Bill) int {
	ta, okA := parseDueDate(a.DueDate)
	tb, okB := parseDueDate(b.DueDate)

	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB && !ta.Equal(tb):
		return ta.Compare(tb)
	}
	return strings.Compare(a.Name, b.Name)
}
