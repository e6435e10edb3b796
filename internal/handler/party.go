package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"party-finder-bot/internal/format"
	"party-finder-bot/internal/metrics"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/repository"
	"party-finder-bot/internal/service"
	"party-finder-bot/internal/session"
)

// PartyHandler covers the party wizard, group applications, and the
// organizer's accept/reject decisions.
type PartyHandler struct {
	parties      *service.PartyService
	heroes       *service.HeroService
	registration *service.RegistrationService
	sessions     *session.Store
	groupChatID  int64
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(
	parties *service.PartyService,
	heroes *service.HeroService,
	registration *service.RegistrationService,
	sessions *session.Store,
	groupChatID int64,
) *PartyHandler {
	return &PartyHandler{
		parties:      parties,
		heroes:       heroes,
		registration: registration,
		sessions:     sessions,
		groupChatID:  groupChatID,
	}
}

func (h *PartyHandler) groupChat() *tele.Chat {
	return &tele.Chat{ID: h.groupChatID}
}

func (h *PartyHandler) rosterMessage(messageID int) *tele.StoredMessage {
	return &tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    h.groupChatID,
	}
}

// StartWizard begins the party wizard with the game mode choice.
func (h *PartyHandler) StartWizard(c tele.Context, user *model.User) error {
	ctx := context.Background()
	lang := user.Language

	state := &session.State{Kind: session.KindPartyWizard, Party: &session.PartyDraft{}}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		return c.Send(format.MsgError(lang))
	}
	return c.Edit(format.MsgChooseMode(lang), format.GameModeKeyboard(lang))
}

// draft returns the wizard state, or nil when the wizard is not active
// (expired session, stale button).
func (h *PartyHandler) draft(ctx context.Context, userID int64) *session.State {
	state, err := h.sessions.Get(ctx, userID)
	if err != nil || state == nil || state.Kind != session.KindPartyWizard || state.Party == nil {
		return nil
	}
	return state
}

// HandleMode records the game mode. Arcade asks for the applicant count,
// fixed modes go straight to the class choice.
func (h *PartyHandler) HandleMode(c tele.Context, user *model.User, mode model.GameMode) error {
	ctx := context.Background()
	lang := user.Language

	state := h.draft(ctx, user.TelegramID)
	if state == nil {
		return c.Send(format.MsgUseMenu(lang))
	}
	state.Party.Mode = mode
	state.Party.PlayerCount = mode.FixedPlayerCount()
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		return c.Send(format.MsgError(lang))
	}

	if mode == model.ModeArcade {
		return c.Edit(format.MsgChoosePlayers(lang), format.PlayerCountKeyboard(lang))
	}
	return c.Edit(format.MsgChooseClass(lang), format.PartyClassKeyboard(lang))
}

// HandlePlayers records how many applicants an arcade party needs. The
// roster size includes the organizer.
func (h *PartyHandler) HandlePlayers(c tele.Context, user *model.User, count int) error {
	ctx := context.Background()
	lang := user.Language

	state := h.draft(ctx, user.TelegramID)
	if state == nil {
		return c.Send(format.MsgUseMenu(lang))
	}
	state.Party.PlayerCount = count + 1
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		return c.Send(format.MsgError(lang))
	}
	return c.Edit(format.MsgChooseClass(lang), format.PartyClassKeyboard(lang))
}

// HandleClass records the organizer's class and offers their heroes.
func (h *PartyHandler) HandleClass(c tele.Context, user *model.User, classID string) error {
	ctx := context.Background()
	lang := user.Language

	state := h.draft(ctx, user.TelegramID)
	if state == nil {
		return c.Send(format.MsgUseMenu(lang))
	}

	heroes, err := h.heroes.ListByClass(ctx, user.TelegramID, classID)
	if err != nil {
		return c.Send(format.MsgError(lang))
	}
	if len(heroes) == 0 {
		return c.Edit(format.MsgNoHeroesOfClass(lang), format.PartyClassKeyboard(lang))
	}

	state.Party.ClassID = classID
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		return c.Send(format.MsgError(lang))
	}
	return c.Edit(format.MsgChoosePartyHero(lang), format.PartyHeroKeyboard(heroes, lang))
}

// HandleHero finishes the wizard: the party is persisted and the roster
// is posted to the community group.
func (h *PartyHandler) HandleHero(c tele.Context, user *model.User, classID, heroID string) error {
	ctx := context.Background()
	lang := user.Language

	state := h.draft(ctx, user.TelegramID)
	if state == nil || state.Party.Mode == "" {
		return c.Send(format.MsgUseMenu(lang))
	}

	party, err := h.parties.CreateParty(ctx, user.TelegramID, state.Party.Mode, state.Party.PlayerCount, classID, heroID)
	if err != nil {
		if errors.Is(err, service.ErrHeroNotOwned) {
			return c.Send(format.MsgUseMenu(lang))
		}
		return c.Send(format.MsgError(lang))
	}

	hero, err := h.heroes.Get(ctx, user.TelegramID, classID, heroID)
	if err != nil {
		return c.Send(format.MsgError(lang))
	}

	roster := format.PartyMessage(party, []format.Member{{User: user, Hero: hero}}, model.LangRU)
	posted, err := c.Bot().Send(h.groupChat(), roster, tele.ModeHTML)
	if err != nil {
		log.Error().Err(err).Int64("party_id", party.ID).Msg("Failed to post party roster")
		return c.Send(format.MsgError(lang))
	}
	if err := h.parties.SetGroupMessageID(ctx, party.ID, posted.ID); err != nil {
		return c.Send(format.MsgError(lang))
	}

	_ = h.sessions.Clear(ctx, user.TelegramID)
	metrics.PartiesCreated.WithLabelValues(string(party.GameMode)).Inc()
	return c.Send(format.MsgPartyPosted(lang), format.MainReplyKeyboard(lang))
}

// HandleGroupMessage processes a group reply of the form
// "пати <hero>" / "party <hero>" to a roster message. All feedback goes
// to the applicant's private chat.
func (h *PartyHandler) HandleGroupMessage(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.ReplyTo == nil {
		return nil
	}
	heroName, ok := service.ParseApplication(msg.Text)
	if !ok {
		return nil
	}

	ctx := context.Background()
	sender := c.Sender()
	private := &tele.User{ID: sender.ID}

	applicant, err := h.registration.GetUser(ctx, sender.ID)
	if err != nil || !applicant.Registered() {
		_, _ = c.Bot().Send(private, format.MsgNotRegistered(model.LangRU))
		return nil
	}
	lang := applicant.Language

	party, err := h.parties.GetByGroupMessageID(ctx, msg.ReplyTo.ID)
	if err != nil {
		_, _ = c.Bot().Send(private, format.MsgPartyNotFound(lang))
		return nil
	}

	app, ref, err := h.parties.Apply(ctx, party, sender.ID, heroName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOwnParty):
			_, _ = c.Bot().Send(private, format.MsgOwnParty(lang))
		case errors.Is(err, repository.ErrDuplicateApplication):
			_, _ = c.Bot().Send(private, format.MsgAlreadyApplied(lang))
		case errors.Is(err, service.ErrUnknownHero), errors.Is(err, service.ErrHeroNotOwned), errors.Is(err, service.ErrBadApplication):
			_, _ = c.Bot().Send(private, format.MsgHeroNotFound(heroName, lang))
		default:
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to submit application")
			_, _ = c.Bot().Send(private, format.MsgError(lang))
		}
		return nil
	}

	hero, err := h.heroes.Get(ctx, sender.ID, ref.ClassID, ref.HeroID)
	if err != nil {
		return nil
	}
	organizer, err := h.registration.GetUser(ctx, party.OrganizerID)
	if err != nil {
		return nil
	}

	notice := format.ApplicationMessage(applicant, hero, app.AppliedAt, organizer.Language)
	markup := format.ApplicationKeyboard(party.ShortID, sender.ID, ref.HeroID, organizer.Language)
	if _, err := c.Bot().Send(&tele.User{ID: organizer.TelegramID}, notice, markup, tele.ModeHTML); err != nil {
		log.Error().Err(err).Int64("organizer_id", organizer.TelegramID).Msg("Failed to notify organizer")
	}

	_, _ = c.Bot().Send(private, format.MsgApplicationSent(lang))
	return nil
}

// HandleDecision applies the organizer's accept or reject.
func (h *PartyHandler) HandleDecision(c tele.Context, user *model.User, accept bool, shortID string, applicantID int64, heroID string) error {
	if accept {
		return h.handleAccept(c, user, shortID, applicantID, heroID)
	}
	return h.handleReject(c, user, shortID, applicantID, heroID)
}

func (h *PartyHandler) handleAccept(c tele.Context, user *model.User, shortID string, applicantID int64, heroID string) error {
	ctx := context.Background()
	lang := user.Language

	res, err := h.parties.Accept(ctx, user.TelegramID, shortID, applicantID, heroID)
	if err != nil {
		return c.Send(h.decisionErrorText(err, lang))
	}
	party := res.Party
	metrics.ApplicationsDecided.WithLabelValues("accepted").Inc()

	h.notifyApplicant(c, applicantID, heroID, true)

	if !res.Completed {
		members, err := h.collectMembers(ctx, party, res.Accepted)
		if err == nil && party.GroupMessageID != nil {
			roster := format.PartyMessage(party, members, model.LangRU)
			if _, err := c.Bot().Edit(h.rosterMessage(*party.GroupMessageID), roster, tele.ModeHTML); err != nil {
				log.Error().Err(err).Int64("party_id", party.ID).Msg("Failed to update roster message")
			}
		}
		return c.Send(format.MsgDecisionDone(true, lang))
	}

	members, err := h.collectMembers(ctx, party, res.Accepted)
	if err != nil {
		return c.Send(format.MsgError(lang))
	}

	metrics.PartiesCompleted.Inc()
	motivation := format.RandomMotivation(party.GameMode, model.LangRU)
	completed := format.CompletedPartyMessage(party, members, motivation, model.LangRU)
	if _, err := c.Bot().Send(h.groupChat(), completed, tele.ModeHTML); err != nil {
		log.Error().Err(err).Int64("party_id", party.ID).Msg("Failed to post completed party")
	}
	if party.GroupMessageID != nil {
		if err := c.Bot().Delete(h.rosterMessage(*party.GroupMessageID)); err != nil {
			log.Error().Err(err).Int64("party_id", party.ID).Msg("Failed to delete roster message")
		}
	}

	for _, m := range members {
		memberLang := m.User.Language
		text := format.MsgPartyAssembledContact(party.GameMode, user, memberLang)
		if _, err := c.Bot().Send(&tele.User{ID: m.User.TelegramID}, text, format.MainReplyKeyboard(memberLang)); err != nil {
			log.Error().Err(err).Int64("member_id", m.User.TelegramID).Msg("Failed to notify party member")
		}
	}

	return c.Send(format.MsgDecisionDone(true, lang))
}

func (h *PartyHandler) handleReject(c tele.Context, user *model.User, shortID string, applicantID int64, heroID string) error {
	ctx := context.Background()
	lang := user.Language

	if _, err := h.parties.Reject(ctx, user.TelegramID, shortID, applicantID, heroID); err != nil {
		return c.Send(h.decisionErrorText(err, lang))
	}
	metrics.ApplicationsDecided.WithLabelValues("rejected").Inc()

	h.notifyApplicant(c, applicantID, heroID, false)
	return c.Send(format.MsgDecisionDone(false, lang))
}

func (h *PartyHandler) decisionErrorText(err error, lang model.Language) string {
	switch {
	case errors.Is(err, service.ErrNotOrganizer):
		return format.MsgNotOrganizer(lang)
	case errors.Is(err, repository.ErrPartyNotFound):
		return format.MsgPartyNotFound(lang)
	case errors.Is(err, repository.ErrApplicationNotFound):
		return format.MsgApplicationNotFound(lang)
	case errors.Is(err, repository.ErrPartyFull):
		return format.MsgPartyAlreadyFull(lang)
	default:
		return format.MsgError(lang)
	}
}

// notifyApplicant tells the applicant the decision in their language.
func (h *PartyHandler) notifyApplicant(c tele.Context, applicantID int64, heroID string, accepted bool) {
	ctx := context.Background()
	applicant, err := h.registration.GetUser(ctx, applicantID)
	if err != nil {
		return
	}
	var text string
	if accepted {
		text = format.MsgApplicationAccepted(applicant.Language)
	} else {
		text = format.MsgApplicationRejected(applicant.Language)
	}
	if _, err := c.Bot().Send(&tele.User{ID: applicantID}, text); err != nil {
		log.Error().Err(err).Int64("applicant_id", applicantID).Msg("Failed to notify applicant")
	}
}

// collectMembers builds the roster entries: the organizer first, then
// every accepted applicant. A missing hero record falls back to zeroed
// stats so the roster still renders.
func (h *PartyHandler) collectMembers(ctx context.Context, party *model.Party, accepted []*model.Application) ([]format.Member, error) {
	organizer, err := h.registration.GetUser(ctx, party.OrganizerID)
	if err != nil {
		return nil, err
	}
	organizerHero, err := h.heroes.Get(ctx, party.OrganizerID, party.ClassID, party.HeroID)
	if err != nil {
		organizerHero = &model.Hero{UserID: party.OrganizerID, ClassID: party.ClassID, HeroID: party.HeroID}
	}
	members := []format.Member{{User: organizer, Hero: organizerHero}}

	for _, app := range accepted {
		applicant, err := h.registration.GetUser(ctx, app.ApplicantID)
		if err != nil {
			continue
		}
		hero, err := h.heroes.Get(ctx, app.ApplicantID, app.ClassID, app.HeroID)
		if err != nil {
			hero = &model.Hero{UserID: app.ApplicantID, ClassID: app.ClassID, HeroID: app.HeroID}
		}
		members = append(members, format.Member{User: applicant, Hero: hero})
	}
	return members, nil
}
