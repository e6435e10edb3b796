package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"party-finder-bot/internal/catalog"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/repository"
)

// Common errors for hero operations.
var (
	ErrUnknownHero = errors.New("no such hero in the game")
)

// HeroService manages per-user hero records and their self-reported stats.
type HeroService struct {
	heroRepo *repository.HeroRepository
}

// NewHeroService creates a new HeroService instance.
func NewHeroService(heroRepo *repository.HeroRepository) *HeroService {
	return &HeroService{heroRepo: heroRepo}
}

// AddHero adds a hero from the catalog to the user's roster. The pair must
// exist in the catalog; adding the same hero twice yields
// repository.ErrDuplicateHero.
func (s *HeroService) AddHero(ctx context.Context, userID int64, classID, heroID string) (*model.Hero, error) {
	if !catalog.HeroExists(classID, heroID) {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownHero, classID, heroID)
	}
	return s.heroRepo.Create(ctx, userID, classID, heroID)
}

// Get retrieves one of the user's heroes.
func (s *HeroService) Get(ctx context.Context, userID int64, classID, heroID string) (*model.Hero, error) {
	return s.heroRepo.Get(ctx, userID, classID, heroID)
}

// ListByClass lists the user's heroes of one class, primary first.
func (s *HeroService) ListByClass(ctx context.Context, userID int64, classID string) ([]*model.Hero, error) {
	return s.heroRepo.ListByClass(ctx, userID, classID)
}

// ListByUser lists all of the user's heroes.
func (s *HeroService) ListByUser(ctx context.Context, userID int64) ([]*model.Hero, error) {
	return s.heroRepo.ListByUser(ctx, userID)
}

// BestByClass returns the user's representative hero per class: the
// primary one, or the strongest when none is marked primary.
func (s *HeroService) BestByClass(ctx context.Context, userID int64) ([]*model.Hero, error) {
	return s.heroRepo.BestByClass(ctx, userID)
}

// SetPrimary marks one hero as the user's primary for its class and
// unmarks the rest of the class in the same statement.
func (s *HeroService) SetPrimary(ctx context.Context, userID int64, classID, heroID string) error {
	return s.heroRepo.SetPrimary(ctx, userID, classID, heroID)
}

// UpdateStat parses raw user input for one hero stat and stores it. Win
// percentage accepts comma or dot decimals and is clamped to [0,100];
// every other stat requires a non-negative integer.
func (s *HeroService) UpdateStat(ctx context.Context, userID int64, classID, heroID string, field model.HeroField, raw string) (*model.Hero, error) {
	var value float64
	if field == model.HeroFieldWinPercentage {
		parsed, err := ParsePercentage(raw)
		if err != nil {
			return nil, err
		}
		value = parsed
	} else {
		parsed, err := parseNonNegativeInt(raw)
		if err != nil {
			return nil, err
		}
		value = float64(parsed)
	}
	return s.heroRepo.UpdateStat(ctx, userID, classID, heroID, field, value)
}

// ParsePercentage parses a win percentage. Both "52,3" and "52.3" are
// accepted; the result is clamped to [0,100].
func ParsePercentage(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return value, nil
}
