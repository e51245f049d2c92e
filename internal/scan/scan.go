// Package scan simulates reading a receipt. There is no OCR: after a fixed
// delay it returns one of a few canned expenses.
package scan

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"moneymanager/internal/core"
)

const DefaultDelay = 2 * time.Second

// Receipt is a canned scan result.
type Receipt struct {
	Description string
	Amount      int64
	Category    core.Category
}

// Receipts are the results the scanner picks from.
var Receipts = []Receipt{
	{"Makan Siang Warteg", 25000, core.Food},
	{"Kopi Kenangan", 32000, core.Food},
	{"Grab Bike", 18000, core.Transport},
	{"Belanja Indomaret", 87500, core.Shopping},
	{"Nasi Padang", 45000, core.Food},
}

type Scanner struct {
	delay time.Duration
	now   func() time.Time
	pick  func(n int) int
	group singleflight.Group
}

func New(delay time.Duration) *Scanner {
	if delay < 0 {
		delay = 0
	}
	return &Scanner{delay: delay, now: time.Now, pick: rand.IntN}
}

// WithPicker fixes the receipt selection, for tests.
func (s *Scanner) WithPicker(pick func(n int) int) *Scanner {
	s.pick = pick
	return s
}

// WithClock overrides the clock used for the draft date.
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// Scan waits for the scan delay and returns a prefilled expense draft dated
// today. Callers that arrive while a scan is running share its result; the
// next call after it finishes starts a new scan. A cancelled ctx returns
// ctx.Err() without waiting for the shared scan.
func (s *Scanner) Scan(ctx context.Context) (core.Draft, error) {
	ch := s.group.DoChan("scan", func() (any, error) {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		<-timer.C
		return s.draft(), nil
	})

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "Receipt scan cancelled", "error", ctx.Err())
		return core.Draft{}, ctx.Err()
	case res := <-ch:
		d := res.Val.(core.Draft)
		slog.InfoContext(ctx, "Receipt scanned", "description", d.Description, "amount", d.Amount, "shared", res.Shared)
		return d, nil
	}
}

func (s *Scanner) draft() core.Draft {
	r := Receipts[s.pick(len(Receipts))]
	return core.Draft{
		Description: r.Description,
		Amount:      strconv.FormatInt(r.Amount, 10),
		Category:    r.Category,
		Type:        core.Expense,
		Date:        core.DateOf(s.now()).String(),
	}
}
