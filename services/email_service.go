package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.EmailConfig
	send   func(ctx context.Context, params *resend.SendEmailRequest) error
}

func NewEmailService(logger *gecho.Logger, cfg *structs.EmailConfig) *EmailService {
	client := resend.NewClient(cfg.ApiKey)
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		send: func(_ context.Context, params *resend.SendEmailRequest) error {
			_, err := client.Emails.Send(params)
			return err
		},
	}
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	if err := es.send(ctx, params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}
	return nil
}

// SendReservationConfirmation mails the booked reservation with its settled lines.
func (es *EmailService) SendReservationConfirmation(ctx context.Context, to string, cmd *structs.Command) error {
	subject := fmt.Sprintf("Your reservation at %s is confirmed", cmd.Restaurant.Name)
	return es.SendEmail(ctx, []string{to}, subject, reservationEmailBody(cmd))
}

func reservationEmailBody(cmd *structs.Command) string {
	var items strings.Builder
	for _, group := range GroupedAndSortedLines(cmd) {
		fmt.Fprintf(&items, "<li>%dx %s - €%s</li>",
			group.GroupQuantity, html.EscapeString(group.Item.Name), group.Subtotal.StringFixed(2))
	}
	if items.Len() == 0 {
		items.WriteString("<li>No pre-ordered items</li>")
	}

	kind := "Dine-in"
	if cmd.Type == structs.CommandTypeTakeaway {
		kind = "Takeaway"
	}

	return fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #B5523B; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.order-details { background-color: white; padding: 15px; margin: 15px 0; border-radius: 5px; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
				ul { list-style-type: none; padding: 0; }
				li { padding: 5px 0; border-bottom: 1px solid #eee; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>See you soon!</h1>
				</div>
				<div class="content">
					<p>Your reservation at <strong>%s</strong> is confirmed.</p>
					<div class="order-details">
						<h3>Reservation: <strong>%s</strong></h3>
						<p>%s on %s at %s for %d</p>
						<h4>Your order:</h4>
						<ul>%s</ul>
						<p><strong>Total paid: €%s</strong></p>
					</div>
				</div>
				<div class="footer">
					<p>%s</p>
				</div>
			</div>
		</body>
		</html>
	`,
		html.EscapeString(cmd.Restaurant.Name),
		cmd.ID,
		kind, html.EscapeString(cmd.Reservation.Date), html.EscapeString(cmd.Reservation.Time), cmd.Reservation.PartySize,
		items.String(),
		cmd.TotalAmount.Sub(RemainingBalance(cmd)).StringFixed(2),
		html.EscapeString(cmd.Restaurant.Address),
	)
}
