package services

import (
	"context"
	"sync"
	"tableside_server/config"
	"tableside_server/structs"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

func testLogger() *gecho.Logger {
	return config.NewLogger(false)
}

func item(id string, price int64) structs.MenuItem {
	return structs.MenuItem{ID: id, Name: "Item " + id, Price: decimal.NewFromInt(price)}
}

var testRestaurant = structs.Restaurant{ID: "r1", Name: "Chez Test"}

type fakeKitchen struct {
	mu      sync.Mutex
	tickets []structs.KitchenTicket
	err     error
}

func (f *fakeKitchen) PublishTicket(_ context.Context, ticket structs.KitchenTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append(f.tickets, ticket)
	return f.err
}

type fakeStaff struct {
	mu     sync.Mutex
	alerts []structs.WaitstaffAlert
}

func (f *fakeStaff) NotifyWaitstaff(_ context.Context, alert structs.WaitstaffAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
	return nil
}

type fakeArchive struct {
	mu       sync.Mutex
	archived []*structs.Command
}

func (f *fakeArchive) Archive(_ context.Context, cmd *structs.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, cmd)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) SendReservationConfirmation(_ context.Context, to string, _ *structs.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestCommandService(hooks Hooks) *CommandService {
	cs := NewCommandService(testLogger(), NewIDRegistry(), hooks)
	cs.runner.async = false
	cs.now = fixedClock()
	return cs
}

func newTestSectionService(hooks Hooks, policy structs.SectionConfirmPolicy, known ...string) *SectionService {
	ss := NewSectionService(testLogger(), NewIDRegistry(), hooks, testRestaurant, &structs.SectionsConfig{
		ConfirmPolicy: policy,
		Known:         known,
	})
	ss.runner.async = false
	ss.now = fixedClock()
	return ss
}

func sumLines(cmd *structs.Command) decimal.Decimal {
	total := decimal.Zero
	for _, l := range cmd.Lines {
		total = total.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func assertTotal(t *testing.T, cmd *structs.Command, want int64) {
	t.Helper()
	if !cmd.TotalAmount.Equal(decimal.NewFromInt(want)) {
		t.Errorf("TotalAmount = %s, want %d", cmd.TotalAmount, want)
	}
	if !cmd.TotalAmount.Equal(sumLines(cmd)) {
		t.Errorf("TotalAmount = %s, but lines sum to %s", cmd.TotalAmount, sumLines(cmd))
	}
}
