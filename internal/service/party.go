package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"party-finder-bot/internal/catalog"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/repository"
)

// Common errors for party operations.
var (
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrHeroNotOwned       = errors.New("hero is not in your roster")
	ErrOwnParty           = errors.New("cannot apply to your own party")
	ErrNotOrganizer       = errors.New("only the organizer can decide on applications")
	ErrBadApplication     = errors.New("application must name a hero")
)

// shortIDAttempts bounds the retry loop on short id collisions.
const shortIDAttempts = 5

// applyPrefixes are the leading words that mark a group reply as a party
// application, in either language.
var applyPrefixes = []string{"пати", "party"}

// PartyService runs the matchmaking workflow: party creation, group
// applications, and the organizer's accept/reject decisions.
type PartyService struct {
	partyRepo  *repository.PartyRepository
	heroRepo   *repository.HeroRepository
	shortIDLen int
}

// NewPartyService creates a new PartyService instance.
func NewPartyService(partyRepo *repository.PartyRepository, heroRepo *repository.HeroRepository, shortIDLen int) *PartyService {
	return &PartyService{
		partyRepo:  partyRepo,
		heroRepo:   heroRepo,
		shortIDLen: shortIDLen,
	}
}

// CreateParty persists a party assembled by the wizard. Modes with a fixed
// roster size ignore playerCount; arcade requires 2..5 players total. The
// organizer must own the hero they advertise.
func (s *PartyService) CreateParty(ctx context.Context, organizerID int64, mode model.GameMode, playerCount int, classID, heroID string) (*model.Party, error) {
	if fixed := mode.FixedPlayerCount(); fixed > 0 {
		playerCount = fixed
	} else if playerCount < 2 || playerCount > 5 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, playerCount)
	}

	if !catalog.HeroExists(classID, heroID) {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownHero, classID, heroID)
	}
	if _, err := s.heroRepo.Get(ctx, organizerID, classID, heroID); err != nil {
		if errors.Is(err, repository.ErrHeroNotFound) {
			return nil, ErrHeroNotOwned
		}
		return nil, fmt.Errorf("failed to verify hero ownership: %w", err)
	}

	for i := 0; i < shortIDAttempts; i++ {
		shortID := uuid.NewString()[:s.shortIDLen]
		party, err := s.partyRepo.Create(ctx, shortID, organizerID, mode, playerCount, classID, heroID)
		if err != nil {
			if errors.Is(err, repository.ErrShortIDTaken) {
				continue
			}
			return nil, err
		}
		return party, nil
	}
	return nil, fmt.Errorf("failed to allocate a unique party id")
}

// SetGroupMessageID records the roster message the bot posted to the
// group, so replies and edits can find the party.
func (s *PartyService) SetGroupMessageID(ctx context.Context, partyID int64, messageID int) error {
	return s.partyRepo.SetGroupMessageID(ctx, partyID, messageID)
}

// GetByShortID retrieves a party by its short id.
func (s *PartyService) GetByShortID(ctx context.Context, shortID string) (*model.Party, error) {
	return s.partyRepo.GetByShortID(ctx, shortID)
}

// GetByGroupMessageID retrieves the party whose roster message was replied
// to.
func (s *PartyService) GetByGroupMessageID(ctx context.Context, messageID int) (*model.Party, error) {
	return s.partyRepo.GetByGroupMessageID(ctx, messageID)
}

// AcceptedCount returns how many applicants have been accepted so far.
func (s *PartyService) AcceptedCount(ctx context.Context, partyID int64) (int, error) {
	apps, err := s.partyRepo.AcceptedApplications(ctx, partyID)
	if err != nil {
		return 0, err
	}
	return len(apps), nil
}

// ParseApplication extracts the hero name from a group reply of the form
// "пати <hero>" or "party <hero>". Returns false when the reply is not an
// application at all.
func ParseApplication(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	head := strings.ToLower(fields[0])
	for _, p := range applyPrefixes {
		if head == p {
			return strings.Join(fields[1:], " "), true
		}
	}
	return "", false
}

// Apply submits an application to a party. The hero name is resolved
// case-insensitively in both languages; the applicant must own the hero
// and must not be the organizer. One application per user per party.
func (s *PartyService) Apply(ctx context.Context, party *model.Party, applicantID int64, heroName string) (*model.Application, catalog.Ref, error) {
	if applicantID == party.OrganizerID {
		return nil, catalog.Ref{}, ErrOwnParty
	}

	heroName = strings.TrimSpace(heroName)
	if heroName == "" {
		return nil, catalog.Ref{}, ErrBadApplication
	}
	ref, ok := catalog.ResolveHeroName(heroName)
	if !ok {
		return nil, catalog.Ref{}, fmt.Errorf("%w: %q", ErrUnknownHero, heroName)
	}

	if _, err := s.heroRepo.Get(ctx, applicantID, ref.ClassID, ref.HeroID); err != nil {
		if errors.Is(err, repository.ErrHeroNotFound) {
			return nil, ref, ErrHeroNotOwned
		}
		return nil, ref, fmt.Errorf("failed to verify hero ownership: %w", err)
	}

	app, err := s.partyRepo.AddApplication(ctx, party.ID, applicantID, ref.ClassID, ref.HeroID)
	if err != nil {
		return nil, ref, err
	}
	return app, ref, nil
}

// AcceptResult describes the outcome of accepting one application.
type AcceptResult struct {
	Party     *model.Party
	Collected int                  // members on the roster now, organizer included
	Completed bool                 // roster reached capacity with this accept
	Accepted  []*model.Application // all accepted applications after the flip
}

// Accept flips a pending application to accepted. Only the organizer may
// call it. When the roster reaches capacity the party is deleted; the
// accepted applications are returned either way so the roster can be
// rendered and members notified.
func (s *PartyService) Accept(ctx context.Context, clickerID int64, shortID string, applicantID int64, heroID string) (*AcceptResult, error) {
	party, err := s.partyRepo.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, err
	}
	if clickerID != party.OrganizerID {
		return nil, ErrNotOrganizer
	}

	accepted, full, err := s.partyRepo.AcceptApplication(ctx, party.ID, applicantID, heroID)
	if err != nil {
		return nil, err
	}

	apps, err := s.partyRepo.AcceptedApplications(ctx, party.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect party members: %w", err)
	}
	res := &AcceptResult{
		Party:     party,
		Collected: accepted + 1,
		Completed: full,
		Accepted:  apps,
	}
	if !full {
		return res, nil
	}

	if err := s.partyRepo.Delete(ctx, party.ID); err != nil {
		return nil, fmt.Errorf("failed to close completed party: %w", err)
	}
	return res, nil
}

// Reject flips a pending application to rejected. Only the organizer may
// call it.
func (s *PartyService) Reject(ctx context.Context, clickerID int64, shortID string, applicantID int64, heroID string) (*model.Party, error) {
	party, err := s.partyRepo.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, err
	}
	if clickerID != party.OrganizerID {
		return nil, ErrNotOrganizer
	}
	if err := s.partyRepo.RejectApplication(ctx, party.ID, applicantID, heroID); err != nil {
		return nil, err
	}
	return party, nil
}
