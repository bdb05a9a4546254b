package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vk-ticket-bot/internal/domain"
	"vk-ticket-bot/internal/domain/model"
	"vk-ticket-bot/internal/domain/ports/adapter"
	"vk-ticket-bot/internal/domain/ports/repository"
	"vk-ticket-bot/internal/infra/logging"
	"vk-ticket-bot/internal/infra/metrics"
	kb "vk-ticket-bot/internal/infra/vk/keyboard"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ DialogUseCase = (*dialogUC)(nil)

// DialogUseCase is the conversation state machine. One inbound message goes
// through an ordered pipeline: admin command (any state, short-circuits) ->
// command table lookup (idle only) -> state handler -> idle free-text router.
type DialogUseCase interface {
	ProcessInboundMessage(ctx context.Context, senderID, peerID int64, text string) error
}

type dialogUC struct {
	states   repository.StateRepository
	commands repository.CommandRepository
	venue    adapter.VenueAPI
	msgr     adapter.Messenger
	admin    AdminUseCase
	now      func() time.Time
	log      *zerolog.Logger
}

func NewDialogUseCase(
	states repository.StateRepository,
	commands repository.CommandRepository,
	venue adapter.VenueAPI,
	msgr adapter.Messenger,
	admin AdminUseCase,
	logger *zerolog.Logger,
) *dialogUC {
	l := logger.With().Str("component", "DialogUC").Logger()
	return &dialogUC{
		states:   states,
		commands: commands,
		venue:    venue,
		msgr:     msgr,
		admin:    admin,
		now:      time.Now,
		log:      &l,
	}
}

func (d *dialogUC) ProcessInboundMessage(ctx context.Context, senderID, peerID int64, text string) error {
	log := logging.With(ctx, d.log)
	defer logging.TraceDuration(log, "DialogUC.ProcessInboundMessage")()

	// Admin commands are privileged overrides, not part of the conversation:
	// they run in every state and leave conversation state untouched.
	if reply, ok := d.admin.TryExecute(ctx, senderID, text); ok {
		return d.send(ctx, peerID, reply, "")
	}

	// State is re-read on every message; the engine never caches it.
	st, err := d.states.GetState(ctx, senderID)
	if err != nil {
		log.Warn().Err(err).Msg("state read failed, handling as idle")
		st = repository.NewIdleState()
	}

	switch st.Step {
	case repository.StepWaitingForDate:
		return d.handleWaitingDate(ctx, senderID, peerID, st, text)
	case repository.StepWaitingForSession:
		return d.handleWaitingSession(ctx, senderID, peerID, st, text)
	case repository.StepWaitingForCategory:
		return d.handleWaitingCategory(ctx, senderID, peerID, st, text)
	case repository.StepWaitingForPayment:
		return d.handleWaitingPayment(ctx, senderID, peerID, st, text)
	default:
		return d.handleIdle(ctx, senderID, peerID, text)
	}
}

// handleIdle routes free text. The command table outranks built-in keywords,
// but only here: inside a flow the state handlers take over.
func (d *dialogUC) handleIdle(ctx context.Context, senderID, peerID int64, text string) error {
	log := logging.With(ctx, d.log)

	if cmd, err := d.commands.FindByText(ctx, text); err == nil {
		reply := cmd.Keyboard
		if reply == "" {
			reply = kb.MainMenu()
		}
		return d.send(ctx, peerID, cmd.Response, reply)
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Warn().Err(err).Msg("command lookup failed")
	}

	switch classifyIntent(text) {
	case IntentTickets:
		st := repository.NewIdleState()
		d.setStep(ctx, senderID, st, repository.StepWaitingForDate)
		return d.send(ctx, peerID, msgChooseDate, kb.TicketDates(d.now()))

	case IntentLoad:
		snap, err := d.venue.FetchCurrentLoad(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("load fetch failed")
			return d.send(ctx, peerID, msgLoadFailed, kb.MainMenu())
		}
		return d.send(ctx, peerID,
			fmt.Sprintf(msgLoad, snap.VisitorCount, snap.LoadPercent), kb.MainMenu())

	case IntentInfo:
		return d.send(ctx, peerID, msgInfoMenu, kb.InfoMenu())
	case IntentHours:
		return d.send(ctx, peerID, msgHours, kb.BackToInfo())
	case IntentContacts:
		return d.send(ctx, peerID, msgContacts, kb.BackToInfo())
	case IntentLocation:
		return d.send(ctx, peerID, msgLocation, kb.BackToInfo())

	case IntentMenu, IntentBack:
		return d.resetToMain(ctx, senderID, peerID, repository.StepIdle)

	default:
		return d.send(ctx, peerID, msgUnknown, kb.MainMenu())
	}
}

func (d *dialogUC) handleWaitingDate(ctx context.Context, senderID, peerID int64, st *repository.ConversationState, text string) error {
	log := logging.With(ctx, d.log)

	switch classifyIntent(text) {
	case IntentMenu, IntentBack:
		return d.resetToMain(ctx, senderID, peerID, st.Step)

	case IntentDateButton:
		date := extractDate(text)
		sessions, err := d.venue.FetchSessions(ctx, date)
		if err != nil {
			// Keep the user on this step so a retry is one tap away.
			log.Warn().Err(err).Str("date", date).Msg("sessions fetch failed")
			return d.send(ctx, peerID, msgSessionsFailed, kb.TicketDates(d.now()))
		}
		if len(sessions) == 0 {
			return d.send(ctx, peerID, msgNoSessions, kb.TicketDates(d.now()))
		}

		st.Selection = repository.Selection{Date: date}
		d.setStep(ctx, senderID, st, repository.StepWaitingForSession)
		return d.send(ctx, peerID, renderSessions(date, sessions), kb.Sessions(sessionLabels(sessions)))

	default:
		// The one mid-flow step that still consults the command table:
		// a match aborts the flow and answers as if idle.
		if cmd, err := d.commands.FindByText(ctx, text); err == nil {
			if err := d.states.ClearState(ctx, senderID); err != nil {
				log.Warn().Err(err).Msg("state clear failed")
			}
			metrics.IncStateTransition(string(st.Step), string(repository.StepIdle))
			reply := cmd.Keyboard
			if reply == "" {
				reply = kb.MainMenu()
			}
			return d.send(ctx, peerID, cmd.Response, reply)
		} else if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Msg("command lookup failed")
		}
		return d.send(ctx, peerID, msgChooseDateAgain, kb.TicketDates(d.now()))
	}
}

func (d *dialogUC) handleWaitingSession(ctx context.Context, senderID, peerID int64, st *repository.ConversationState, text string) error {
	switch classifyIntent(text) {
	case IntentMenu:
		return d.resetToMain(ctx, senderID, peerID, st.Step)

	case IntentBack:
		st.Selection = repository.Selection{}
		d.setStep(ctx, senderID, st, repository.StepWaitingForDate)
		return d.send(ctx, peerID, msgChooseDate, kb.TicketDates(d.now()))

	case IntentSessionButton:
		st.Selection.Session = extractSession(text)
		d.setStep(ctx, senderID, st, repository.StepWaitingForCategory)
		return d.send(ctx, peerID, renderOrderSoFar(st), kb.Categories(""))

	default:
		// The keyboard the user already has stays in place.
		return d.send(ctx, peerID, msgChooseSessionAgain, "")
	}
}

func (d *dialogUC) handleWaitingCategory(ctx context.Context, senderID, peerID int64, st *repository.ConversationState, text string) error {
	log := logging.With(ctx, d.log)

	intent := classifyIntent(text)
	switch intent {
	case IntentMenu:
		return d.resetToMain(ctx, senderID, peerID, st.Step)

	case IntentBack:
		sessions, err := d.venue.FetchSessions(ctx, st.Selection.Date)
		if err != nil {
			log.Warn().Err(err).Msg("sessions re-fetch failed")
			return d.send(ctx, peerID, msgSessionsFailed, "")
		}
		st.Selection.Session = ""
		st.Selection.Category = ""
		d.setStep(ctx, senderID, st, repository.StepWaitingForSession)
		return d.send(ctx, peerID, renderSessions(st.DateOrFallback(), sessions), kb.Sessions(sessionLabels(sessions)))

	case IntentAdult, IntentChild:
		category := model.TariffAdult
		if intent == IntentChild {
			category = model.TariffChild
		}

		tariffs, err := d.venue.FetchTariffs(ctx, st.Selection.Date)
		if err != nil {
			log.Warn().Err(err).Msg("tariffs fetch failed")
			return d.send(ctx, peerID, msgTariffsFailed, "")
		}
		offers := filterTariffs(tariffs, category)
		if len(offers) == 0 {
			return d.send(ctx, peerID, msgNoTariffs, kb.Categories(string(category)))
		}

		st.Selection.Category = category
		d.setStep(ctx, senderID, st, repository.StepWaitingForPayment)
		return d.send(ctx, peerID, renderPaymentOffer(st, offers), kb.Payment())

	default:
		return d.send(ctx, peerID, msgChooseCategoryAgain, kb.Categories(string(st.Selection.Category)))
	}
}

func (d *dialogUC) handleWaitingPayment(ctx context.Context, senderID, peerID int64, st *repository.ConversationState, text string) error {
	log := logging.With(ctx, d.log)

	switch classifyIntent(text) {
	case IntentMenu:
		return d.resetToMain(ctx, senderID, peerID, st.Step)

	case IntentBack:
		st.Selection.Category = ""
		d.setStep(ctx, senderID, st, repository.StepWaitingForCategory)
		return d.send(ctx, peerID, renderOrderSoFar(st), kb.Categories(""))

	case IntentPay:
		confirmation := fmt.Sprintf(
			"Спасибо! Ваш заказ оформлен ✅\n\n📅 Дата: %s\n🕐 Сеанс: %s\n👤 Категория: %s\n\nПокажите это сообщение на кассе. Ждём вас!",
			st.DateOrFallback(), st.SessionOrFallback(), st.CategoryLabel())
		if err := d.states.ClearState(ctx, senderID); err != nil {
			log.Warn().Err(err).Msg("state clear failed")
		}
		metrics.IncStateTransition(string(st.Step), string(repository.StepIdle))
		return d.send(ctx, peerID, confirmation, kb.MainMenu())

	default:
		return d.send(ctx, peerID, msgChoosePayAgain, "")
	}
}

func (d *dialogUC) setStep(ctx context.Context, vkID int64, st *repository.ConversationState, to repository.Step) {
	from := st.Step
	st.Step = to
	if err := d.states.SetState(ctx, vkID, st); err != nil {
		// The send still goes out; the next message simply finds the old
		// step and re-prompts.
		logging.With(ctx, d.log).Warn().Err(err).Msg("state write failed")
		return
	}
	metrics.IncStateTransition(string(from), string(to))
}

func (d *dialogUC) resetToMain(ctx context.Context, vkID, peerID int64, from repository.Step) error {
	if err := d.states.ClearState(ctx, vkID); err != nil {
		logging.With(ctx, d.log).Warn().Err(err).Msg("state clear failed")
	}
	metrics.IncStateTransition(string(from), string(repository.StepIdle))
	return d.send(ctx, peerID, msgMainMenu, kb.MainMenu())
}

func (d *dialogUC) send(ctx context.Context, peerID int64, text, keyboard string) error {
	if err := d.msgr.SendMessage(ctx, peerID, text, keyboard); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func sessionLabels(sessions []model.Session) []string {
	labels := make([]string, 0, len(sessions))
	for _, s := range sessions {
		labels = append(labels, s.TimeLabel)
	}
	return labels
}

func renderSessions(date string, sessions []model.Session) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Сеансы на %s:\n\n", date))
	for _, s := range sessions {
		sb.WriteString(fmt.Sprintf("🕐 %s — свободно %d из %d\n", s.TimeLabel, s.FreeCount, s.TotalCount))
	}
	sb.WriteString("\nВыберите сеанс 👇")
	return sb.String()
}

func renderOrderSoFar(st *repository.ConversationState) string {
	return fmt.Sprintf("Ваш заказ:\n📅 Дата: %s\n🕐 Сеанс: %s\n\nВыберите категорию билетов 👇",
		st.DateOrFallback(), st.SessionOrFallback())
}

func renderPaymentOffer(st *repository.ConversationState, offers []model.Tariff) string {
	return fmt.Sprintf("Ваш заказ:\n📅 Дата: %s\n🕐 Сеанс: %s\n👤 Категория: %s\n\nДоступные тарифы:\n%s\n\nДля оплаты нажмите кнопку 💳",
		st.DateOrFallback(), st.SessionOrFallback(), st.CategoryLabel(), renderTariffs(offers))
}
