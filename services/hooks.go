package services

import (
	"context"
	"tableside_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// KitchenPublisher receives the lines sent to the kitchen by a bulk submit.
type KitchenPublisher interface {
	PublishTicket(ctx context.Context, ticket structs.KitchenTicket) error
}

// StaffNotifier receives every waitstaff request.
type StaffNotifier interface {
	NotifyWaitstaff(ctx context.Context, alert structs.WaitstaffAlert) error
}

// CommandArchiver stores confirmed commands outside the process.
type CommandArchiver interface {
	Archive(ctx context.Context, cmd *structs.Command) error
}

// Mailer sends the reservation confirmation once the wizard completes.
type Mailer interface {
	SendReservationConfirmation(ctx context.Context, to string, cmd *structs.Command) error
}

// Hooks are the optional side effects of store mutations. Nil members are skipped.
type Hooks struct {
	Kitchen KitchenPublisher
	Staff   StaffNotifier
	Archive CommandArchiver
}

const hookTimeout = 10 * time.Second

// hookRunner fires side effects after the store lock is released. The store result
// never depends on them; failures are only logged.
type hookRunner struct {
	logger *gecho.Logger
	async  bool
}

func newHookRunner(logger *gecho.Logger) hookRunner {
	return hookRunner{logger: logger, async: true}
}

func (h hookRunner) run(name string, fn func(ctx context.Context) error) {
	call := func() {
		ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			hookFailures.WithLabelValues(name).Inc()
			h.logger.Error("Side effect failed", gecho.Field("hook", name), gecho.Field("error", err))
		}
	}
	if h.async {
		go call()
		return
	}
	call()
}

func (h hookRunner) kitchen(p KitchenPublisher, ticket structs.KitchenTicket) {
	if p == nil || len(ticket.Lines) == 0 {
		return
	}
	h.run("kitchen", func(ctx context.Context) error { return p.PublishTicket(ctx, ticket) })
}

func (h hookRunner) staff(n StaffNotifier, alert structs.WaitstaffAlert) {
	if n == nil {
		return
	}
	h.run("staff", func(ctx context.Context) error { return n.NotifyWaitstaff(ctx, alert) })
}

func (h hookRunner) archive(a CommandArchiver, cmd *structs.Command) {
	if a == nil {
		return
	}
	h.run("archive", func(ctx context.Context) error { return a.Archive(ctx, cmd) })
}

func (h hookRunner) mail(m Mailer, to string, cmd *structs.Command) {
	if m == nil || to == "" {
		return
	}
	h.run("mail", func(ctx context.Context) error { return m.SendReservationConfirmation(ctx, to, cmd) })
}
