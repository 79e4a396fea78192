// Package telegram forwards moderation events to an operator chat, so a
// deployment's admins see role changes, bans, and room churn without
// watching logs.
package telegram

import (
	"fmt"
	"log"
	"strconv"

	"groupmod/backend/internal/eventhub"
	"groupmod/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier implements eventhub.Client, so the hub treats the operator chat
// like any other event subscriber.
type Notifier struct {
	BotAPI *tgbotapi.BotAPI
	ChatID int64
	Send   chan models.ModerationEvent
}

var _ eventhub.Client = (*Notifier)(nil)

// NewNotifier authenticates the bot and targets the given chat ID.
func NewNotifier(token, chatID string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id '%s': %w", chatID, err)
	}

	return &Notifier{
		BotAPI: bot,
		ChatID: id,
		Send:   make(chan models.ModerationEvent, 64),
	}, nil
}

func (n *Notifier) GetID() string                                 { return "telegram-notifier" }
func (n *Notifier) GetSendChannel() chan<- models.ModerationEvent { return n.Send }

// Run starts the write pump draining events into the chat.
func (n *Notifier) Run() {
	go n.writePump()
}

// Close closes the Send channel, stopping the write pump.
func (n *Notifier) Close() {
	close(n.Send)
}

func (n *Notifier) writePump() {
	defer log.Printf("Stopping Telegram notifier write pump")

	for evt := range n.Send {
		msg := tgbotapi.NewMessage(n.ChatID, formatEvent(evt))
		if _, err := n.BotAPI.Send(msg); err != nil {
			log.Printf("ERROR: Failed to send Telegram notification: %v", err)
		}
	}
}

func formatEvent(evt models.ModerationEvent) string {
	role := "moderator"
	if evt.Admin {
		role = "admin"
	}
	visibility := "hidden"
	if evt.Visible {
		visibility = "visible"
	}
	scope := "globally"
	if evt.RoomToken != "" {
		scope = "in room " + evt.RoomToken
	}

	switch evt.Type {
	case models.EventRoleAdded:
		return fmt.Sprintf("➕ %s added as %s %s %s by %s", evt.SessionID, visibility, role, scope, evt.Actor)
	case models.EventRoleRemoved:
		return fmt.Sprintf("➖ %s removed as moderator/admin %s by %s", evt.SessionID, scope, evt.Actor)
	case models.EventRoomCreated:
		return fmt.Sprintf("🆕 Room %s created by %s", evt.RoomToken, evt.Actor)
	case models.EventRoomDeleted:
		return fmt.Sprintf("🗑 Room %s deleted by %s", evt.RoomToken, evt.Actor)
	case models.EventUserBanned:
		return fmt.Sprintf("🚫 %s banned by %s", evt.SessionID, evt.Actor)
	case models.EventUserUnbanned:
		return fmt.Sprintf("✅ %s unbanned by %s", evt.SessionID, evt.Actor)
	case models.EventMessagePinned:
		return fmt.Sprintf("📌 Message pinned in room %s by %s", evt.RoomToken, evt.Actor)
	case models.EventMessageUnpinned:
		return fmt.Sprintf("📍 Message unpinned in room %s by %s", evt.RoomToken, evt.Actor)
	default:
		return fmt.Sprintf("Moderation event %s by %s", evt.Type, evt.Actor)
	}
}
