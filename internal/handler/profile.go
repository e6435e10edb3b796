package handler

import (
	"context"
	"errors"

	tele "gopkg.in/telebot.v3"

	"party-finder-bot/internal/format"
	"party-finder-bot/internal/metrics"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/service"
	"party-finder-bot/internal/session"
)

// ProfileHandler covers the onboarding pipeline and profile viewing and
// editing.
type ProfileHandler struct {
	registration *service.RegistrationService
	sessions     *session.Store
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(registration *service.RegistrationService, sessions *session.Store) *ProfileHandler {
	return &ProfileHandler{registration: registration, sessions: sessions}
}

// HandlePipelineInput applies one text message to the onboarding
// pipeline.
func (h *ProfileHandler) HandlePipelineInput(c tele.Context, user *model.User) error {
	ctx := context.Background()
	lang := user.Language

	res, err := h.registration.SubmitStep(ctx, user, c.Text())
	if err != nil {
		if errors.Is(err, service.ErrInvalidNumber) {
			return c.Send(format.MsgEnterNonNegative(lang))
		}
		if errors.Is(err, service.ErrEmptyValue) {
			return c.Send(format.FieldPrompt(model.ProfileField(user.RegistrationStep), lang))
		}
		return c.Send(format.MsgError(lang))
	}

	if res.Done {
		metrics.RegistrationsCompleted.Inc()
		return c.Send(format.MsgRegistrationCompleted(lang), format.MainReplyKeyboard(lang))
	}
	return c.Send(format.FieldPrompt(res.Next, lang))
}

// ShowProfile shows the user's profile card.
func (h *ProfileHandler) ShowProfile(c tele.Context, user *model.User) error {
	lang := user.Language
	return c.Send(format.ProfileText(user, lang), format.ProfileKeyboard(lang), tele.ModeHTML)
}

// ShowEditMenu shows the profile field chooser.
func (h *ProfileHandler) ShowEditMenu(c tele.Context, user *model.User) error {
	lang := user.Language
	return c.Edit(format.MsgChooseField(lang), format.ProfileEditKeyboard(lang))
}

// StartFieldEdit records the chosen field in the session store and asks
// for a value.
func (h *ProfileHandler) StartFieldEdit(c tele.Context, user *model.User, field model.ProfileField) error {
	ctx := context.Background()
	lang := user.Language

	state := &session.State{Kind: session.KindProfileEdit, ProfileField: field}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		return c.Send(format.MsgError(lang))
	}
	return c.Send(format.FieldPrompt(field, lang))
}

// HandleEditInput applies the value of an ad-hoc profile field edit.
func (h *ProfileHandler) HandleEditInput(c tele.Context, user *model.User, state *session.State) error {
	ctx := context.Background()
	lang := user.Language

	if err := h.registration.UpdateField(ctx, user.TelegramID, state.ProfileField, c.Text()); err != nil {
		if errors.Is(err, service.ErrInvalidNumber) {
			return c.Send(format.MsgEnterNonNegative(lang))
		}
		if errors.Is(err, service.ErrEmptyValue) {
			return c.Send(format.FieldPrompt(state.ProfileField, lang))
		}
		return c.Send(format.MsgError(lang))
	}

	_ = h.sessions.Clear(ctx, user.TelegramID)
	return c.Send(format.MsgFieldUpdated(lang), format.MainReplyKeyboard(lang))
}
