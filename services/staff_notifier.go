package services

import (
	"context"
	"fmt"
	"strings"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// StaffService pushes waitstaff requests into the floor staff's Telegram chat.
type StaffService struct {
	logger *gecho.Logger
	bot    telegramSender
	chatID int64
}

// NewStaffService logs in to the Bot API, which costs one network round trip.
func NewStaffService(logger *gecho.Logger, cfg *structs.TelegramConfig) (*StaffService, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to start telegram bot: %w", err)
	}
	logger.Info("Telegram staff bot ready", gecho.Field("bot", bot.Self.UserName))
	return &StaffService{logger: logger, bot: bot, chatID: cfg.StaffChatID}, nil
}

func (ss *StaffService) NotifyWaitstaff(_ context.Context, alert structs.WaitstaffAlert) error {
	msg := tgbotapi.NewMessage(ss.chatID, waitstaffMessage(alert))
	if _, err := ss.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send waitstaff alert: %w", err)
	}
	ss.logger.Debug("Waitstaff alerted",
		gecho.Field("command_id", alert.CommandID),
		gecho.Field("type", string(alert.Request.Type)),
	)
	return nil
}

func waitstaffMessage(alert structs.WaitstaffAlert) string {
	var b strings.Builder
	switch alert.Request.Type {
	case structs.WaitstaffRequestCheckout:
		b.WriteString("🧾 Checkout requested")
	case structs.WaitstaffRequestWater:
		b.WriteString("💧 Water requested")
	default:
		b.WriteString("🙋 Assistance requested")
	}

	if alert.SectionID != "" {
		fmt.Fprintf(&b, " at table %s", alert.SectionID)
	}
	fmt.Fprintf(&b, "\nOrder: %s", alert.CommandID)
	if note := strings.TrimSpace(alert.Request.Note); note != "" {
		fmt.Fprintf(&b, "\nNote: %s", note)
	}
	fmt.Fprintf(&b, "\nAt: %s", alert.Request.CreatedAt.Format("15:04"))
	return b.String()
}
