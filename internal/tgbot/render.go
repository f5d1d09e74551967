package tgbot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stadium-bot/internal/models"
	"stadium-bot/internal/schedule"
	"stadium-bot/internal/util"
)

// Keyboard and text builders, kept free of bot I/O so they can be tested.

func schedCallback(stadiumID int64, date string) string {
	return fmt.Sprintf("u:sched:%d:%s", stadiumID, date)
}

// parseSchedParams splits "<stadium_id>:<date>" callback payloads.
func parseSchedParams(raw string) (stadiumID int64, date string, ok bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, parts[1], true
}

func slotButtonText(label string, st schedule.Status, selected bool) string {
	switch {
	case selected:
		return "🔘 " + label
	case st == schedule.StatusMine:
		return "✅ " + label
	case st == schedule.StatusBooked:
		return "⛔ " + label
	default:
		return label
	}
}

// scheduleKeyboard lays the slot grid out two slots per row, then the day
// navigation, the submit button and the way back to the menu.
func scheduleKeyboard(view *scheduleView) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	var row []tgbotapi.InlineKeyboardButton
	for _, label := range view.Day.Labels() {
		st := view.Day.Status(label)
		btn := tgbotapi.NewInlineKeyboardButtonData(
			slotButtonText(label, st, view.Selection.Has(label)),
			"u:slot:"+label,
		)
		row = append(row, btn)
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}

	prev, next := navDates(view.Date)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️", schedCallback(view.StadiumID, prev)),
		tgbotapi.NewInlineKeyboardButtonData(util.FormatDayMonthRU(view.Date), schedCallback(view.StadiumID, view.Date)),
		tgbotapi.NewInlineKeyboardButtonData("➡️", schedCallback(view.StadiumID, next)),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📌 Забронировать", "u:book"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 В меню", "u:menu"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func navDates(date string) (prev, next string) {
	prev, err := util.ShiftDate(date, -1)
	if err != nil {
		prev = date
	}
	next, err = util.ShiftDate(date, 1)
	if err != nil {
		next = date
	}
	return prev, next
}

func bookingCard(b models.Booking) string {
	return fmt.Sprintf(
		"🏟 %s\n📅 Дата: %s\n🕒 Время: %s - %s\n📍 Адрес: %s\n💰 Цена: %s ₽",
		b.Stadium.Name,
		util.FormatDateRU(b.StartTime),
		schedule.Clock(b.StartTime),
		schedule.Clock(b.EndTime),
		b.Stadium.Address,
		util.FormatPrice(b.Price),
	)
}

func cancelKeyboard(bookingID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "u:cancel:"+strconv.FormatInt(bookingID, 10)),
		),
	)
}
