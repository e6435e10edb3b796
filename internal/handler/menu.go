// Package handler provides Telegram bot command and callback handlers.
package handler

import (
	"context"

	tele "gopkg.in/telebot.v3"

	"party-finder-bot/internal/format"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/service"
	"party-finder-bot/internal/session"
)

// MenuHandler covers /start, the main menu, and the settings menu.
type MenuHandler struct {
	registration *service.RegistrationService
	sessions     *session.Store
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(registration *service.RegistrationService, sessions *session.Store) *MenuHandler {
	return &MenuHandler{registration: registration, sessions: sessions}
}

// HandleStart handles /start in a private chat. New and unregistered
// users get the language chooser; registered ones get the main menu.
func (h *MenuHandler) HandleStart(c tele.Context, user *model.User) error {
	ctx := context.Background()
	_ = h.sessions.Clear(ctx, user.TelegramID)

	if !user.Registered() {
		return c.Send(format.MsgChooseLanguage(), format.LanguageKeyboard(user.Language))
	}
	return h.ShowMain(c, user)
}

// ShowMain shows the main menu with the persistent reply keyboard.
func (h *MenuHandler) ShowMain(c tele.Context, user *model.User) error {
	_ = h.sessions.Clear(context.Background(), user.TelegramID)
	lang := user.Language
	text := format.MsgMainMenu(lang)
	return c.Send(text, format.MainReplyKeyboard(lang))
}

// ShowSettings shows the settings menu with the language switch.
func (h *MenuHandler) ShowSettings(c tele.Context, user *model.User) error {
	lang := user.Language
	return c.Send(format.MsgSettings(lang), format.LanguageKeyboard(lang))
}

// HandleLanguage applies a language button press. During onboarding this
// also starts the profile pipeline.
func (h *MenuHandler) HandleLanguage(c tele.Context, user *model.User, lang model.Language) error {
	ctx := context.Background()
	wasOnboarding := user.RegistrationStep == model.StepLanguage

	if err := h.registration.ChooseLanguage(ctx, user, lang); err != nil {
		return c.Send(format.MsgError(user.Language))
	}

	if wasOnboarding {
		return c.Send(format.FieldPrompt(model.ProfileFields[0], lang))
	}
	return c.Send(format.MsgFieldUpdated(lang), format.MainReplyKeyboard(lang))
}
