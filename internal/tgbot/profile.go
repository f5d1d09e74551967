package tgbot

import (
	"context"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stadium-bot/internal/models"
)

// showHistory renders the booking history, one card message per booking
// with its own cancel button. The fetched list is cached so a cancelled
// card can be removed without refetching.
func (a *App) showHistory(ctx context.Context, chatID int64) error {
	u, err := a.currentUser(ctx, chatID)
	if err != nil || u == nil {
		return err
	}

	token, err := a.sessions.Token(ctx, chatID)
	if err != nil {
		log.Printf("session token: %v", err)
		return a.SendText(chatID, "Ошибка соединения с сервером.")
	}

	bookings, err := a.api.MyBookings(ctx, token)
	if err != nil {
		return a.reportError(ctx, chatID, err)
	}
	a.history[chatID] = bookings

	if len(bookings) == 0 {
		return a.SendText(chatID, "У тебя пока нет бронирований.")
	}

	if err := a.SendText(chatID, "📖 Твои бронирования:"); err != nil {
		return err
	}
	for _, b := range bookings {
		msg := tgbotapi.NewMessage(chatID, bookingCard(b))
		msg.ReplyMarkup = cancelKeyboard(b.ID)
		if _, err := a.bot.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// askCancel swaps the card's button for a confirmation pair.
func (a *App) askCancel(q *tgbotapi.CallbackQuery, rawID string) error {
	if _, err := strconv.ParseInt(rawID, 10, 64); err != nil {
		return nil
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(
		q.Message.Chat.ID, q.Message.MessageID,
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Да, отменить", "u:cancel_yes:"+rawID),
				tgbotapi.NewInlineKeyboardButtonData("↩️ Нет", "u:cancel_no:"+rawID),
			),
		),
	)
	_, err := a.bot.Request(edit)
	return err
}

// keepBooking restores the card after a declined confirmation.
func (a *App) keepBooking(q *tgbotapi.CallbackQuery, rawID string) error {
	bookingID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(
		q.Message.Chat.ID, q.Message.MessageID, cancelKeyboard(bookingID),
	)
	_, err = a.bot.Request(edit)
	return err
}

// confirmCancel deletes the booking and, on success, removes only this
// card: the message disappears and the cached list drops the entry, no
// refetch.
func (a *App) confirmCancel(ctx context.Context, q *tgbotapi.CallbackQuery, rawID string) error {
	chatID := q.Message.Chat.ID
	bookingID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil
	}

	token, err := a.sessions.Token(ctx, chatID)
	if err != nil {
		log.Printf("session token: %v", err)
		return a.SendText(chatID, "Ошибка соединения с сервером.")
	}
	if token == "" {
		return a.SendText(chatID, "Ошибка: ты не авторизован! Нажми /start")
	}

	if err := a.api.DeleteBooking(ctx, token, bookingID); err != nil {
		log.Printf("delete booking %d: %v", bookingID, err)
		return a.reportError(ctx, chatID, err)
	}

	a.history[chatID] = dropBooking(a.history[chatID], bookingID)

	del := tgbotapi.NewDeleteMessage(chatID, q.Message.MessageID)
	if _, err := a.bot.Request(del); err != nil {
		log.Printf("delete card: %v", err)
	}
	return a.SendText(chatID, "Бронирование отменено.")
}

func dropBooking(bookings []models.Booking, id int64) []models.Booking {
	out := bookings[:0]
	for _, b := range bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
