package services

import (
	"context"
	"fmt"
	"tableside_server/database"
	"tableside_server/structs"
	"tableside_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ArchiveService writes confirmed commands to Postgres. The in-memory stores stay the
// source of truth; the archive is only read back for history.
type ArchiveService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewArchiveService(logger *gecho.Logger, db *database.DB) *ArchiveService {
	return &ArchiveService{logger: logger, db: db}
}

// Migrate creates the archive tables.
func (as *ArchiveService) Migrate(ctx context.Context) error {
	return as.db.CreateSchema(ctx, (*tables.ArchivedCommand)(nil), (*tables.ArchivedCommandLine)(nil))
}

// Archive upserts the command with its lines. Re-confirming a command replaces its lines.
func (as *ArchiveService) Archive(ctx context.Context, cmd *structs.Command) error {
	row := ToArchivedCommand(cmd)

	err := database.WithRetry(ctx, func() error {
		return as.db.InTx(ctx, as.logger, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.NewInsert().
				Model(row).
				On("CONFLICT (id) DO UPDATE").
				Set("status = EXCLUDED.status").
				Set("total_amount = EXCLUDED.total_amount").
				Set("paid_amount = EXCLUDED.paid_amount").
				Set("requests_count = EXCLUDED.requests_count").
				Set("confirmed_at = EXCLUDED.confirmed_at").
				Set("archived_at = current_timestamp").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to upsert archived command: %w", err)
			}

			_, err = tx.NewDelete().
				Model((*tables.ArchivedCommandLine)(nil)).
				Where("command_id = ?", row.Id).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear archived lines: %w", err)
			}

			if len(row.Lines) == 0 {
				return nil
			}
			if _, err := tx.NewInsert().Model(&row.Lines).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert archived lines: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	as.logger.Debug("Command archived", gecho.Field("command_id", row.Id), gecho.Field("lines", len(row.Lines)))
	return nil
}

const (
	archiveByOwner   = "ac.owner_id = ?"
	archiveBySection = "ac.section_id = ?"
)

// ListByOwner returns the owner's archived commands, newest first.
func (as *ArchiveService) ListByOwner(ctx context.Context, owner string) ([]tables.ArchivedCommand, error) {
	return as.list(ctx, archiveByOwner, owner)
}

// ListBySection returns the archived commands of a table section, newest first. Section
// commands have no owner, so this is their only read path.
func (as *ArchiveService) ListBySection(ctx context.Context, section string) ([]tables.ArchivedCommand, error) {
	return as.list(ctx, archiveBySection, section)
}

func (as *ArchiveService) list(ctx context.Context, filter string, arg string) ([]tables.ArchivedCommand, error) {
	var rows []tables.ArchivedCommand
	err := database.WithRetry(ctx, func() error {
		rows = nil
		return as.listQuery(&rows, filter, arg).Scan(ctx)
	})
	if err != nil {
		as.logger.Error("Failed to list archived commands", gecho.Field("filter", filter), gecho.Field("value", arg), gecho.Field("error", err))
		return nil, err
	}
	return rows, nil
}

func (as *ArchiveService) listQuery(rows *[]tables.ArchivedCommand, filter string, arg string) *bun.SelectQuery {
	return as.db.NewSelect().
		Model(rows).
		Relation("Lines").
		Where(filter, arg).
		Order("ac.confirmed_at DESC")
}

func (as *ArchiveService) Health(ctx context.Context) error {
	return as.db.Health(ctx)
}

// ToArchivedCommand maps a confirmed command onto its archive rows.
func ToArchivedCommand(cmd *structs.Command) *tables.ArchivedCommand {
	row := &tables.ArchivedCommand{
		Id:              cmd.ID,
		OwnerId:         cmd.OwnerID,
		SectionId:       cmd.SectionID,
		RestaurantId:    cmd.Restaurant.ID,
		RestaurantName:  cmd.Restaurant.Name,
		ReservationDate: cmd.Reservation.Date,
		ReservationTime: cmd.Reservation.Time,
		PartySize:       cmd.Reservation.PartySize,
		PreOrder:        cmd.Reservation.PreOrder,
		Type:            string(cmd.Type),
		Status:          string(cmd.Status),
		TotalAmount:     cmd.TotalAmount,
		PaidAmount:      cmd.TotalAmount.Sub(RemainingBalance(cmd)),
		RequestsCount:   len(cmd.WaitstaffRequests),
		CreatedAt:       cmd.CreatedAt,
		ConfirmedAt:     cmd.UpdatedAt,
		Lines:           make([]*tables.ArchivedCommandLine, 0, len(cmd.Lines)),
	}
	if cmd.ConfirmedAt != nil {
		row.ConfirmedAt = *cmd.ConfirmedAt
	}

	for _, line := range cmd.Lines {
		row.Lines = append(row.Lines, &tables.ArchivedCommandLine{
			Id:           line.ID,
			CommandId:    cmd.ID,
			Quantity:     line.Quantity,
			Submitted:    line.Submitted,
			Paid:         line.Paid,
			MenuItemId:   line.Item.ID,
			MenuItemName: line.Item.Name,
			UnitPrice:    line.Item.Price,
			LineTotal:    line.Item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return row
}
