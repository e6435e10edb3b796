// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"party-finder-bot/internal/model"
	"party-finder-bot/internal/repository"
)

// Common errors for registration and profile operations.
var (
	ErrInvalidNumber = errors.New("value must be a non-negative integer")
	ErrEmptyValue    = errors.New("value must not be empty")
	ErrUnknownField  = errors.New("unknown profile field")
)

// skipWords mark an optional field as intentionally left empty.
var skipWords = map[string]bool{
	"-":          true,
	"skip":       true,
	"пропустить": true,
}

// RegistrationService walks users through the onboarding pipeline and
// applies ad-hoc profile edits after it.
type RegistrationService struct {
	userRepo *repository.UserRepository
}

// NewRegistrationService creates a new RegistrationService instance.
func NewRegistrationService(userRepo *repository.UserRepository) *RegistrationService {
	return &RegistrationService{userRepo: userRepo}
}

// EnsureUser ensures a user row exists, creating one at the language step
// if necessary. Returns the user and whether it was newly created. A
// changed Telegram username is written back so search stays accurate.
func (s *RegistrationService) EnsureUser(ctx context.Context, telegramID int64, username *string) (*model.User, bool, error) {
	user, created, err := s.userRepo.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}

	if !created && username != nil &&
		(user.TelegramUsername == nil || *user.TelegramUsername != *username) {
		if err := s.userRepo.UpdateUsername(ctx, telegramID, *username); err != nil {
			return nil, false, fmt.Errorf("failed to refresh username: %w", err)
		}
		user.TelegramUsername = username
	}

	return user, created, nil
}

// GetUser retrieves a user by their Telegram ID.
func (s *RegistrationService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, telegramID)
}

// ChooseLanguage stores the display language. During onboarding it also
// advances the pipeline to its first field; after registration it is a
// plain settings change.
func (s *RegistrationService) ChooseLanguage(ctx context.Context, user *model.User, lang model.Language) error {
	if err := s.userRepo.SetLanguage(ctx, user.TelegramID, lang); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	user.Language = lang

	if user.RegistrationStep == model.StepLanguage {
		first := string(model.ProfileFields[0])
		if err := s.userRepo.SetRegistrationStep(ctx, user.TelegramID, first); err != nil {
			return fmt.Errorf("failed to advance registration: %w", err)
		}
		user.RegistrationStep = first
	}
	return nil
}

// StepResult describes what SubmitStep did with one message.
type StepResult struct {
	Field model.ProfileField // the field that was filled
	Next  model.ProfileField // the field now awaited, empty when Done
	Done  bool               // pipeline finished with this message
}

// SubmitStep applies one text message to the onboarding pipeline. The
// user must currently be on a pipeline field. Empty input is rejected
// with ErrEmptyValue; integer fields reject anything but a non-negative
// integer with ErrInvalidNumber; optional fields accept a skip word and
// store NULL. On failure the step does not advance.
func (s *RegistrationService) SubmitStep(ctx context.Context, user *model.User, input string) (*StepResult, error) {
	field := model.ProfileField(user.RegistrationStep)
	idx := -1
	for i, f := range model.ProfileFields {
		if f == field {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, user.RegistrationStep)
	}

	if err := s.applyField(ctx, user.TelegramID, field, input); err != nil {
		return nil, err
	}

	res := &StepResult{Field: field}
	if idx+1 < len(model.ProfileFields) {
		res.Next = model.ProfileFields[idx+1]
		if err := s.userRepo.SetRegistrationStep(ctx, user.TelegramID, string(res.Next)); err != nil {
			return nil, fmt.Errorf("failed to advance registration: %w", err)
		}
		user.RegistrationStep = string(res.Next)
		return res, nil
	}

	res.Done = true
	if err := s.userRepo.SetRegistrationStep(ctx, user.TelegramID, model.StepCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete registration: %w", err)
	}
	user.RegistrationStep = model.StepCompleted
	return res, nil
}

// UpdateField applies an ad-hoc edit of a single profile field for an
// already registered user. Same validation rules as the pipeline.
func (s *RegistrationService) UpdateField(ctx context.Context, telegramID int64, field model.ProfileField, input string) error {
	if !model.ValidProfileField(string(field)) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return s.applyField(ctx, telegramID, field, input)
}

func (s *RegistrationService) applyField(ctx context.Context, telegramID int64, field model.ProfileField, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return ErrEmptyValue
	}

	if model.OptionalProfileFields[field] && skipWords[strings.ToLower(input)] {
		if model.IntegerProfileFields[field] {
			return s.userRepo.SetIntField(ctx, telegramID, field, nil)
		}
		return s.userRepo.SetTextField(ctx, telegramID, field, nil)
	}

	if model.IntegerProfileFields[field] {
		value, err := parseNonNegativeInt(input)
		if err != nil {
			return err
		}
		return s.userRepo.SetIntField(ctx, telegramID, field, &value)
	}

	return s.userRepo.SetTextField(ctx, telegramID, field, &input)
}

func parseNonNegativeInt(s string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || value < 0 {
		return 0, ErrInvalidNumber
	}
	return value, nil
}
