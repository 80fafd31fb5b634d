package bills

import (
	"time"

	"github.com/nikmy/klaro/pkg/clock"
)

// seedBills places the demo bills on fixed days of the current month,
// keeping the current time of day. Days are counted on the clock's local
// wall time and stored as UTC instants.
func seedBills(clk clock.Clock) []Bill {
	now := clk.Now()

	day := func(d int) string {
		h, m, s := now.Clock()
		local := time.Date(now.Year(), now.Month(), d, h, m, s, 0, time.UTC)
		return local.Add(-clk.UTCDiff()).Format(time.RFC3339)
	}

	return []Bill{
		{ID: "bill-1", Name: "Electricity", Amount: 75.50, DueDate: day(15), Paid: true},
		{ID: "bill-2", Name: "Water", Amount: 45.00, DueDate: day(20)},
		{ID: "bill-3", Name: "Internet", Amount: 60.00, DueDate: day(25)},
	}
}
