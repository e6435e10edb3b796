package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"party-finder-bot/internal/catalog"
	"party-finder-bot/internal/format"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/repository"
	"party-finder-bot/internal/service"
)

// GroupHandler serves the /info and /hero lookup commands in the group
// chat. Unlike the private-chat flows the requester is loaded here, not
// by the dispatcher, so unregistered users can still get a hint.
type GroupHandler struct {
	registration *service.RegistrationService
	search       *service.SearchService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(registration *service.RegistrationService, search *service.SearchService) *GroupHandler {
	return &GroupHandler{registration: registration, search: search}
}

// requester loads the sender and enforces the registered-and-in-group
// preconditions shared by both commands. A nil user with nil error
// means the command was answered with a hint and should stop.
func (h *GroupHandler) requester(c tele.Context) (*model.User, error) {
	ctx := context.Background()
	user, err := h.registration.GetUser(ctx, c.Sender().ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, c.Send(format.MsgRegisterFirst)
		}
		log.Error().Err(err).Int64("user_id", c.Sender().ID).Msg("Failed to load requester")
		return nil, c.Send(format.MsgError(model.LangRU))
	}
	if !user.Registered() {
		return nil, c.Send(format.MsgRegisterFirst)
	}
	if c.Chat().Type != tele.ChatGroup && c.Chat().Type != tele.ChatSuperGroup {
		return nil, c.Send(format.MsgGroupsOnly(user.Language))
	}
	return user, nil
}

// HandleInfo answers /info <query> with the target's profile and their
// best hero in each class.
func (h *GroupHandler) HandleInfo(c tele.Context) error {
	requester, err := h.requester(c)
	if requester == nil {
		return err
	}
	lang := requester.Language

	query := strings.TrimSpace(c.Message().Payload)
	if query == "" {
		return nil
	}

	target, heroes, err := h.search.Lookup(context.Background(), query)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Send(format.MsgUserNotFound(lang))
		}
		log.Error().Err(err).Str("query", query).Msg("Failed to look up user")
		return c.Send(format.MsgError(lang))
	}
	return c.Send(format.UserCard(target, heroes, lang), tele.ModeHTML)
}

// HandleHero answers /hero <user> <heroname> with one hero's stats. The
// hero name may span several words and is matched in both languages.
func (h *GroupHandler) HandleHero(c tele.Context) error {
	requester, err := h.requester(c)
	if requester == nil {
		return err
	}
	lang := requester.Language

	identifier, heroName, ok := strings.Cut(strings.TrimSpace(c.Message().Payload), " ")
	heroName = strings.TrimSpace(heroName)
	if !ok || heroName == "" {
		return nil
	}

	target, hero, err := h.search.LookupHero(context.Background(), identifier, heroName)
	switch {
	case err == nil:
		return c.Send(format.HeroBlock(hero, lang), tele.ModeHTML)
	case errors.Is(err, repository.ErrUserNotFound):
		return c.Send(format.MsgUserNotFound(lang))
	case errors.Is(err, service.ErrUnknownHero):
		return c.Send(format.MsgHeroNameUnknown(lang))
	case errors.Is(err, repository.ErrHeroNotFound):
		ref, _ := catalog.ResolveHeroName(heroName)
		name := catalog.HeroName(ref.ClassID, ref.HeroID, lang)
		return c.Send(format.MsgUserHasNoHero(orNickname(target), name, lang))
	default:
		log.Error().Err(err).Str("identifier", identifier).Str("hero", heroName).Msg("Failed to look up hero")
		return c.Send(format.MsgError(lang))
	}
}

func orNickname(user *model.User) string {
	if user.Nickname != nil && *user.Nickname != "" {
		return *user.Nickname
	}
	if user.TelegramUsername != nil && *user.TelegramUsername != "" {
		return "@" + *user.TelegramUsername
	}
	return "?"
}
