package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"party-finder-bot/internal/catalog"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/repository"
)

// searchPageSize is how many users a results page shows.
const searchPageSize = 5

// SearchService finds registered users for the global search and the
// /info and /hero group commands.
type SearchService struct {
	userRepo *repository.UserRepository
	heroRepo *repository.HeroRepository
}

// NewSearchService creates a new SearchService instance.
func NewSearchService(userRepo *repository.UserRepository, heroRepo *repository.HeroRepository) *SearchService {
	return &SearchService{userRepo: userRepo, heroRepo: heroRepo}
}

// SearchPage is one page of global search results.
type SearchPage struct {
	Users []*model.User
	Total int
	Page  int // 1-based
	Pages int
}

// Search runs an exact case-insensitive match on one user attribute and
// returns the requested page. Only registered users are matched.
func (s *SearchService) Search(ctx context.Context, field model.SearchField, value string, page int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	users, total, err := s.userRepo.Search(ctx, field, strings.TrimSpace(value), searchPageSize, (page-1)*searchPageSize)
	if err != nil {
		return nil, err
	}

	pages := (total + searchPageSize - 1) / searchPageSize
	if pages == 0 {
		pages = 1
	}
	return &SearchPage{Users: users, Total: total, Page: page, Pages: pages}, nil
}

// Lookup finds one user by @username, Telegram id, nickname, or game user
// id, together with their representative hero per class.
func (s *SearchService) Lookup(ctx context.Context, identifier string) (*model.User, []*model.Hero, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, nil, err
	}
	heroes, err := s.heroRepo.BestByClass(ctx, user.TelegramID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load heroes: %w", err)
	}
	return user, heroes, nil
}

// LookupHero finds one specific hero of a user identified as in Lookup.
// The hero name is resolved case-insensitively in both languages.
func (s *SearchService) LookupHero(ctx context.Context, identifier, heroName string) (*model.User, *model.Hero, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, nil, err
	}

	ref, ok := catalog.ResolveHeroName(strings.TrimSpace(heroName))
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownHero, heroName)
	}

	hero, err := s.heroRepo.Get(ctx, user.TelegramID, ref.ClassID, ref.HeroID)
	if err != nil {
		if errors.Is(err, repository.ErrHeroNotFound) {
			return user, nil, err
		}
		return nil, nil, err
	}
	return user, hero, nil
}
