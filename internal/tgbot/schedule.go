package tgbot

import (
	"context"
	"errors"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stadium-bot/internal/api"
	"stadium-bot/internal/models"
	"stadium-bot/internal/schedule"
	"stadium-bot/internal/util"
)

// scheduleView is the open day view of one chat: the classified grid, the
// current selection and the in-flight flag guarding against a double
// submit. A new view replaces the old one on every date change, which also
// clears the selection.
type scheduleView struct {
	StadiumID  int64
	Date       string // YYYY-MM-DD
	Day        *schedule.Day
	Selection  *schedule.Selection
	Submitting bool
	MessageID  int
}

func (a *App) showStadiumPicker(ctx context.Context, chatID int64) error {
	stadiums, err := a.api.Stadiums(ctx)
	if err != nil {
		return a.reportError(ctx, chatID, err)
	}
	if len(stadiums) == 0 {
		return a.SendText(chatID, "Стадионов пока нет.")
	}

	today := time.Now().Format("2006-01-02")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, s := range stadiums {
		a.stadiums[s.ID] = s
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏟 "+s.Name, schedCallback(s.ID, today)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 В меню", "u:menu"),
	))

	msg := tgbotapi.NewMessage(chatID, "Выбери стадион:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err = a.bot.Send(msg)
	return err
}

// showSchedule renders the day view of one stadium. It refetches the
// bookings of that date and recomputes the whole grid; slot ownership
// needs the current user, so the session gate runs first.
func (a *App) showSchedule(ctx context.Context, chatID int64, stadiumID int64, date string) error {
	u, err := a.currentUser(ctx, chatID)
	if err != nil || u == nil {
		return err
	}

	bookings, err := a.api.BookingsFromDate(ctx, stadiumID, date)
	if err != nil {
		return a.reportError(ctx, chatID, err)
	}

	day, err := schedule.NewDay(a.cfg.OpenTime, a.cfg.CloseTime)
	if err != nil {
		return err
	}
	day.Mark(bookings, u.ID)

	view := &scheduleView{
		StadiumID: stadiumID,
		Date:      date,
		Day:       day,
		Selection: schedule.NewSelection(),
	}
	a.views[chatID] = view

	text := "📅 " + util.FormatDayMonthRU(date)
	if s, ok := a.stadiums[stadiumID]; ok {
		text = "🏟 " + s.Name + "\n" + text
	}
	text += "\n\nВыбери свободные слоты и нажми «Забронировать»."

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = scheduleKeyboard(view)
	sent, err := a.bot.Send(msg)
	if err != nil {
		return err
	}
	view.MessageID = sent.MessageID
	return nil
}

// toggleSlot flips the selection of one slot and redraws the keyboard in
// place. Slots booked by others stay untouchable.
func (a *App) toggleSlot(chatID int64, label string) error {
	view := a.views[chatID]
	if view == nil {
		return a.SendText(chatID, "Расписание устарело. Нажми /start")
	}
	if !view.Day.Has(label) {
		log.Printf("toggle: slot %s is outside the grid, skipped", label)
		return nil
	}
	st := view.Day.Status(label)
	if st == schedule.StatusBooked {
		log.Printf("toggle: slot %s already booked, ignored", label)
		return nil
	}
	view.Selection.Toggle(label, st)
	return a.redrawSchedule(chatID, view)
}

func (a *App) redrawSchedule(chatID int64, view *scheduleView) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, view.MessageID, scheduleKeyboard(view))
	_, err := a.bot.Request(edit)
	return err
}

// submitBooking books one contiguous interval spanning the earliest
// selected start to the latest selected end. On success the selected
// slots flip to "mine" locally; on failure the selection stays so the
// user can retry.
func (a *App) submitBooking(ctx context.Context, chatID int64) error {
	view := a.views[chatID]
	if view == nil {
		return a.SendText(chatID, "Расписание устарело. Нажми /start")
	}
	if view.Submitting {
		return a.SendText(chatID, "Запрос уже выполняется, подожди.")
	}
	if view.Selection.Empty() {
		return a.SendText(chatID, "Выбери хотя бы один слот.")
	}

	token, err := a.sessions.Token(ctx, chatID)
	if err != nil {
		log.Printf("session token: %v", err)
		return a.SendText(chatID, "Ошибка соединения с сервером.")
	}
	if token == "" {
		return a.SendText(chatID, "Ошибка: ты не авторизован! Нажми /start")
	}

	view.Submitting = true
	defer func() { view.Submitting = false }()

	start, end := view.Selection.Span()
	req := models.BookingCreate{
		StadiumID: view.StadiumID,
		StartTime: view.Date + "T" + start + ":00.000",
		EndTime:   view.Date + "T" + end + ":00.000",
	}

	if _, err := a.api.CreateBooking(ctx, token, req); err != nil {
		log.Printf("create booking: %v", err)
		if errors.Is(err, api.ErrUnauthorized) {
			return a.reportError(ctx, chatID, err)
		}
		// selection is kept for a retry
		return a.SendText(chatID, "Не удалось забронировать. Попробуй снова.")
	}

	for _, label := range view.Selection.Labels() {
		view.Day.Set(label, schedule.StatusMine)
	}
	view.Selection.Clear()

	if err := a.redrawSchedule(chatID, view); err != nil {
		log.Printf("redraw schedule: %v", err)
	}
	return a.SendText(chatID, "Бронирование успешно!")
}
