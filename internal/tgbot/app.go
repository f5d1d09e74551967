package tgbot

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stadium-bot/internal/api"
	"stadium-bot/internal/config"
	"stadium-bot/internal/models"
	"stadium-bot/internal/session"
)

type App struct {
	cfg      config.Config
	bot      *tgbotapi.BotAPI
	api      *api.Client
	sessions *session.Store

	// very simple in-memory state for the login flow and open screens;
	// everything is touched only from the single update loop
	state    map[int64]userState
	views    map[int64]*scheduleView
	history  map[int64][]models.Booking
	stadiums map[int64]models.Stadium
}

type userState struct {
	Flow string
	Step int
	Data map[string]string
}

func New(cfg config.Config, apiClient *api.Client, sessions *session.Store) (*App, error) {
	b, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	b.Debug = false
	return &App{
		cfg:      cfg,
		bot:      b,
		api:      apiClient,
		sessions: sessions,
		state:    map[int64]userState{},
		views:    map[int64]*scheduleView{},
		history:  map[int64][]models.Booking{},
		stadiums: map[int64]models.Stadium{},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				if err := a.handleMessage(ctx, upd.Message); err != nil {
					log.Printf("handle msg: %v", err)
				}
			} else if upd.CallbackQuery != nil {
				if err := a.handleCallback(ctx, upd.CallbackQuery); err != nil {
					log.Printf("handle cb: %v", err)
				}
			}
		}
	}
}

func (a *App) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := a.bot.Send(msg)
	return err
}

// ---------- Message handling ----------

func (a *App) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	chatID := m.Chat.ID
	txt := strings.TrimSpace(m.Text)

	if strings.HasPrefix(txt, "/start") {
		a.state[chatID] = userState{}
		return a.showStart(ctx, chatID)
	}
	if strings.HasPrefix(txt, "/logout") {
		a.state[chatID] = userState{}
		return a.logout(ctx, chatID)
	}

	st := a.state[chatID]
	if st.Flow != "" {
		return a.handleFlowInput(ctx, chatID, txt, st)
	}

	return a.showStart(ctx, chatID)
}

func (a *App) handleFlowInput(ctx context.Context, chatID int64, txt string, st userState) error {
	switch st.Flow {
	case "login":
		return a.handleLoginFlow(ctx, chatID, txt, st)
	default:
		a.state[chatID] = userState{}
		return a.SendText(chatID, "Сброс состояния. Нажми /start")
	}
}

// ---------- Auth gate ----------

// showStart is the entry screen: the menu depends only on whether a
// session token is present, the profile itself is loaded right after.
func (a *App) showStart(ctx context.Context, chatID int64) error {
	if !a.sessions.IsAuthenticated(ctx, chatID) {
		return a.showGuestMenu(chatID)
	}
	u, err := a.currentUser(ctx, chatID)
	if err != nil || u == nil {
		return err
	}
	return a.showProfileMenu(chatID, u)
}

// currentUser resolves the session to a user. Without a token it answers
// nil without touching the network. A 401 drops the token and sends the
// user back to the login screen; any other failure is reported once and
// swallowed, so callers treat nil as "already handled".
func (a *App) currentUser(ctx context.Context, chatID int64) (*models.User, error) {
	token, err := a.sessions.Token(ctx, chatID)
	if err != nil {
		log.Printf("session token: %v", err)
		return nil, a.SendText(chatID, "Ошибка соединения с сервером.")
	}
	if token == "" {
		return nil, nil
	}

	u, err := a.api.Me(ctx, token)
	if err != nil {
		return nil, a.reportError(ctx, chatID, err)
	}
	return u, nil
}

// reportError turns an API failure into exactly one user-visible message.
// 401 additionally ends the session and shows the login screen.
func (a *App) reportError(ctx context.Context, chatID int64, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		if derr := a.sessions.Delete(ctx, chatID); derr != nil {
			log.Printf("drop session: %v", derr)
		}
		if serr := a.SendText(chatID, "Сессия истекла. Пожалуйста, войдите в систему снова."); serr != nil {
			return serr
		}
		return a.showGuestMenu(chatID)
	}
	var se *api.StatusError
	if errors.As(err, &se) {
		log.Printf("backend error: %v", err)
		return a.SendText(chatID, "Ошибка: "+http.StatusText(se.Code))
	}
	log.Printf("api error: %v", err)
	return a.SendText(chatID, "Ошибка соединения с сервером.")
}

func (a *App) showGuestMenu(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "⚽ Бот бронирования стадионов.\n\nВойди, чтобы посмотреть расписание и свои бронирования.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔑 Войти", "u:login"),
		),
	)
	_, err := a.bot.Send(msg)
	return err
}

func (a *App) showProfileMenu(chatID int64, u *models.User) error {
	msg := tgbotapi.NewMessage(chatID, "👤 "+u.FirstName+"\n✉️ "+u.Email)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Расписание", "u:stadiums"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Мои бронирования", "u:history"),
			tgbotapi.NewInlineKeyboardButtonData("🚪 Выйти", "u:logout"),
		),
	)
	_, err := a.bot.Send(msg)
	return err
}

func (a *App) logout(ctx context.Context, chatID int64) error {
	if err := a.sessions.Delete(ctx, chatID); err != nil {
		log.Printf("logout: %v", err)
	}
	delete(a.views, chatID)
	delete(a.history, chatID)
	if err := a.SendText(chatID, "Вы вышли из аккаунта."); err != nil {
		return err
	}
	return a.showGuestMenu(chatID)
}

// ---------- Login flow ----------

func (a *App) handleLoginFlow(ctx context.Context, chatID int64, txt string, st userState) error {
	if st.Data == nil {
		st.Data = map[string]string{}
	}

	switch st.Step {
	case 1:
		st.Data["email"] = txt
		st.Step = 2
		a.state[chatID] = st
		return a.SendText(chatID, "Введи пароль:")
	case 2:
		a.state[chatID] = userState{}
		token, err := a.api.Login(ctx, st.Data["email"], txt)
		if err != nil {
			var se *api.StatusError
			if errors.As(err, &se) && se.Code == http.StatusBadRequest {
				if serr := a.SendText(chatID, "Неверный email или пароль."); serr != nil {
					return serr
				}
				return a.showGuestMenu(chatID)
			}
			return a.reportError(ctx, chatID, err)
		}
		if err := a.sessions.Set(ctx, chatID, token); err != nil {
			log.Printf("store session: %v", err)
			return a.SendText(chatID, "Ошибка соединения с сервером.")
		}
		if err := a.SendText(chatID, "✅ Вход выполнен!"); err != nil {
			return err
		}
		return a.showStart(ctx, chatID)
	default:
		a.state[chatID] = userState{}
		return a.SendText(chatID, "Сброс состояния. Нажми /start")
	}
}

// ---------- Callback handling ----------

func (a *App) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	data := q.Data

	// ack
	cb := tgbotapi.NewCallback(q.ID, "")
	_, _ = a.bot.Request(cb)

	if q.Message == nil {
		return nil
	}
	if strings.HasPrefix(data, "u:") {
		return a.handleUserCallback(ctx, q, data)
	}
	return nil
}

func (a *App) handleUserCallback(ctx context.Context, q *tgbotapi.CallbackQuery, data string) error {
	chatID := q.Message.Chat.ID

	switch data {
	case "u:login":
		a.state[chatID] = userState{Flow: "login", Step: 1, Data: map[string]string{}}
		return a.SendText(chatID, "Введи email:")
	case "u:logout":
		return a.logout(ctx, chatID)
	case "u:menu":
		return a.showStart(ctx, chatID)
	case "u:stadiums":
		return a.showStadiumPicker(ctx, chatID)
	case "u:history":
		return a.showHistory(ctx, chatID)
	case "u:book":
		return a.submitBooking(ctx, chatID)
	}

	if strings.HasPrefix(data, "u:sched:") {
		stadiumID, date, ok := parseSchedParams(strings.TrimPrefix(data, "u:sched:"))
		if !ok {
			return nil
		}
		return a.showSchedule(ctx, chatID, stadiumID, date)
	}

	if strings.HasPrefix(data, "u:slot:") {
		label := strings.TrimPrefix(data, "u:slot:")
		return a.toggleSlot(chatID, label)
	}

	if strings.HasPrefix(data, "u:cancel:") {
		return a.askCancel(q, strings.TrimPrefix(data, "u:cancel:"))
	}
	if strings.HasPrefix(data, "u:cancel_yes:") {
		return a.confirmCancel(ctx, q, strings.TrimPrefix(data, "u:cancel_yes:"))
	}
	if strings.HasPrefix(data, "u:cancel_no:") {
		return a.keepBooking(q, strings.TrimPrefix(data, "u:cancel_no:"))
	}

	return nil
}
