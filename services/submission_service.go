package services

import (
	"context"
	"fmt"
	"sync"
	"tableside_server/lib"
	"tableside_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// SubmissionService pushes a command to the dining API as a table order. A failure part way
// leaves the lines already posted in place; the caller may retry, which creates a new order.
type SubmissionService struct {
	logger   *gecho.Logger
	dining   DiningAPI
	commands *CommandService
	sections *SectionService
	now      func() time.Time

	mu       sync.RWMutex
	receipts map[string]*structs.SubmissionReceipt
}

func NewSubmissionService(logger *gecho.Logger, dining DiningAPI, commands *CommandService, sections *SectionService) *SubmissionService {
	return &SubmissionService{
		logger:   logger,
		dining:   dining,
		commands: commands,
		sections: sections,
		now:      time.Now,
		receipts: make(map[string]*structs.SubmissionReceipt),
	}
}

// SubmitCurrent submits the owner's current command.
func (ss *SubmissionService) SubmitCurrent(ctx context.Context, owner string) (*structs.SubmissionReceipt, error) {
	cmd, err := ss.commands.Current(owner)
	if err != nil {
		return nil, err
	}
	return ss.submit(ctx, cmd)
}

// SubmitSection submits the command of a table section.
func (ss *SubmissionService) SubmitSection(ctx context.Context, section string) (*structs.SubmissionReceipt, error) {
	cmd, err := ss.sections.Section(section)
	if err != nil {
		return nil, err
	}
	return ss.submit(ctx, cmd)
}

func (ss *SubmissionService) submit(ctx context.Context, cmd *structs.Command) (*structs.SubmissionReceipt, error) {
	if len(cmd.Lines) == 0 {
		return nil, lib.ErrNothingToSubmit
	}

	receipt, err := ss.post(ctx, cmd)
	if err != nil {
		ExternalSubmissions.WithLabelValues("failed").Inc()
		ss.logger.Error("External order submission failed",
			gecho.Field("command_id", cmd.ID),
			gecho.Field("error", err),
		)
		return nil, fmt.Errorf("%w: %w", lib.ErrExternalSubmission, err)
	}

	ExternalSubmissions.WithLabelValues("ok").Inc()
	ss.mu.Lock()
	ss.receipts[receipt.OrderID] = receipt
	ss.mu.Unlock()

	ss.logger.Info("External order created",
		gecho.Field("command_id", cmd.ID),
		gecho.Field("order_id", receipt.OrderID),
		gecho.Field("table", receipt.TableNumber),
		gecho.Field("lines", receipt.LinesPosted),
	)
	copied := *receipt
	return &copied, nil
}

func (ss *SubmissionService) post(ctx context.Context, cmd *structs.Command) (*structs.SubmissionReceipt, error) {
	tables, err := ss.dining.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	table, ok := firstFreeTable(tables)
	if !ok {
		return nil, lib.ErrNoFreeTable
	}

	customers := cmd.Reservation.PartySize
	if customers < 1 {
		customers = 1
	}
	order, err := ss.dining.CreateTableOrder(ctx, structs.DiningTableOrderRequest{
		TableNumber:    table.Number,
		CustomersCount: customers,
	})
	if err != nil {
		return nil, err
	}

	posted := 0
	for _, line := range cmd.Lines {
		if line.Quantity <= 0 {
			continue
		}
		err := ss.dining.AddOrderLine(ctx, order.ID, structs.DiningOrderLineRequest{
			MenuItemID:        line.Item.ID,
			MenuItemShortName: line.Item.DisplayShortName(),
			HowMany:           line.Quantity,
		})
		if err != nil {
			return nil, fmt.Errorf("order %s, line %s after %d posted: %w", order.ID, line.Item.ID, posted, err)
		}
		posted++
	}

	payload, err := lib.BuildOrderQRPayload(order.ID, cmd)
	if err != nil {
		return nil, err
	}
	return &structs.SubmissionReceipt{
		OrderID:     order.ID,
		CommandID:   cmd.ID,
		TableNumber: table.Number,
		LinesPosted: posted,
		QRPayload:   payload,
		SubmittedAt: ss.now(),
	}, nil
}

func firstFreeTable(tables []structs.DiningTable) (structs.DiningTable, bool) {
	for _, t := range tables {
		if !t.Taken {
			return t, true
		}
	}
	return structs.DiningTable{}, false
}

func (ss *SubmissionService) Receipt(orderID string) (*structs.SubmissionReceipt, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	r, ok := ss.receipts[orderID]
	if !ok {
		return nil, lib.ErrReceiptNotFound
	}
	copied := *r
	return &copied, nil
}

// QRCode renders the receipt's proof-of-order payload as a PNG.
func (ss *SubmissionService) QRCode(orderID string, size int) ([]byte, error) {
	r, err := ss.Receipt(orderID)
	if err != nil {
		return nil, err
	}
	return lib.EncodeQRPNG(r.QRPayload, size)
}
