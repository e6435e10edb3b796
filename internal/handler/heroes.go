package handler

import (
	"context"
	"errors"

	tele "gopkg.in/telebot.v3"

	"party-finder-bot/internal/format"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/repository"
	"party-finder-bot/internal/service"
	"party-finder-bot/internal/session"
)

// HeroHandler covers the hero roster: listing, adding, stat edits and
// the primary mark.
type HeroHandler struct {
	heroes   *service.HeroService
	sessions *session.Store
}

// NewHeroHandler creates a new HeroHandler.
func NewHeroHandler(heroes *service.HeroService, sessions *session.Store) *HeroHandler {
	return &HeroHandler{heroes: heroes, sessions: sessions}
}

// ShowClasses shows the hero class menu.
func (h *HeroHandler) ShowClasses(c tele.Context, user *model.User) error {
	lang := user.Language
	return c.Send(format.MsgChooseClass(lang), format.HeroClassesKeyboard(lang))
}

// ShowClass lists the user's heroes of one class.
func (h *HeroHandler) ShowClass(c tele.Context, user *model.User, classID string) error {
	ctx := context.Background()
	lang := user.Language

	heroes, err := h.heroes.ListByClass(ctx, user.TelegramID, classID)
	if err != nil {
		return c.Send(format.MsgError(lang))
	}
	text := format.HeroesText(classID, heroes, lang)
	markup := format.ClassHeroesKeyboard(classID, heroes, lang)
	if c.Callback() != nil {
		return c.Edit(text, markup, tele.ModeHTML)
	}
	return c.Send(text, markup, tele.ModeHTML)
}

// ShowAddMenu lists catalog heroes of a class the user can still add.
func (h *HeroHandler) ShowAddMenu(c tele.Context, user *model.User, classID string) error {
	ctx := context.Background()
	lang := user.Language

	heroes, err := h.heroes.ListByClass(ctx, user.TelegramID, classID)
	if err != nil {
		return c.Send(format.MsgError(lang))
	}
	owned := make(map[string]bool, len(heroes))
	for _, hero := range heroes {
		owned[hero.HeroID] = true
	}
	return c.Edit(format.MsgChooseHeroToAdd(lang), format.AddHeroKeyboard(classID, owned, lang))
}

// HandleAdd adds a catalog hero to the roster.
func (h *HeroHandler) HandleAdd(c tele.Context, user *model.User, classID, heroID string) error {
	ctx := context.Background()
	lang := user.Language

	if _, err := h.heroes.AddHero(ctx, user.TelegramID, classID, heroID); err != nil {
		if errors.Is(err, repository.ErrDuplicateHero) {
			return c.Send(format.MsgDuplicateHero(lang))
		}
		return c.Send(format.MsgError(lang))
	}
	if err := c.Send(format.MsgHeroAdded(lang)); err != nil {
		return err
	}
	return h.ShowClass(c, user, classID)
}

// ShowHero shows one hero's stats with the edit keyboard.
func (h *HeroHandler) ShowHero(c tele.Context, user *model.User, classID, heroID string) error {
	ctx := context.Background()
	lang := user.Language

	hero, err := h.heroes.Get(ctx, user.TelegramID, classID, heroID)
	if err != nil {
		return c.Send(format.MsgError(lang))
	}
	return c.Edit(format.HeroBlock(hero, lang), format.HeroDetailKeyboard(classID, heroID, lang), tele.ModeHTML)
}

// StartStatEdit records the stat edit in the session store and asks for
// a value.
func (h *HeroHandler) StartStatEdit(c tele.Context, user *model.User, field model.HeroField, classID, heroID string) error {
	ctx := context.Background()
	lang := user.Language

	state := &session.State{
		Kind:      session.KindHeroEdit,
		HeroField: field,
		ClassID:   classID,
		HeroID:    heroID,
	}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		return c.Send(format.MsgError(lang))
	}
	return c.Send(format.HeroFieldPrompt(field, lang))
}

// HandleStatInput applies the new stat value.
func (h *HeroHandler) HandleStatInput(c tele.Context, user *model.User, state *session.State) error {
	ctx := context.Background()
	lang := user.Language

	hero, err := h.heroes.UpdateStat(ctx, user.TelegramID, state.ClassID, state.HeroID, state.HeroField, c.Text())
	if err != nil {
		if errors.Is(err, service.ErrInvalidNumber) {
			return c.Send(format.MsgEnterNonNegative(lang))
		}
		return c.Send(format.MsgError(lang))
	}

	_ = h.sessions.Clear(ctx, user.TelegramID)
	if err := c.Send(format.MsgHeroStatsUpdated(lang)); err != nil {
		return err
	}
	return c.Send(format.HeroBlock(hero, lang), format.HeroDetailKeyboard(state.ClassID, state.HeroID, lang), tele.ModeHTML)
}

// HandleSetPrimary marks one hero as the class primary.
func (h *HeroHandler) HandleSetPrimary(c tele.Context, user *model.User, classID, heroID string) error {
	ctx := context.Background()
	lang := user.Language

	if err := h.heroes.SetPrimary(ctx, user.TelegramID, classID, heroID); err != nil {
		return c.Send(format.MsgError(lang))
	}
	if err := c.Send(format.MsgPrimaryHeroSet(lang)); err != nil {
		return err
	}
	return h.ShowHero(c, user, classID, heroID)
}
