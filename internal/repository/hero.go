package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"party-finder-bot/internal/model"
)

// Hero repository errors.
var (
	ErrHeroNotFound  = errors.New("hero not found")
	ErrDuplicateHero = errors.New("hero already added")
)

const heroColumns = `
	id, user_id, class_id, hero_id, level, battles_played, heroes_killed,
	win_percentage, heroes_revived, strength, is_primary, updated_at
`

// HeroRepository handles hero data persistence.
type HeroRepository struct {
	pool *pgxpool.Pool
}

// NewHeroRepository creates a new HeroRepository instance.
func NewHeroRepository(pool *pgxpool.Pool) *HeroRepository {
	return &HeroRepository{pool: pool}
}

func scanHero(row pgx.Row) (*model.Hero, error) {
	var h model.Hero
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.ClassID,
		&h.HeroID,
		&h.Level,
		&h.BattlesPlayed,
		&h.HeroesKilled,
		&h.WinPercentage,
		&h.HeroesRevived,
		&h.Strength,
		&h.IsPrimary,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HeroRepository) queryHeroes(ctx context.Context, query string, args ...any) ([]*model.Hero, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query heroes: %w", err)
	}
	defer rows.Close()

	var heroes []*model.Hero
	for rows.Next() {
		hero, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hero: %w", err)
		}
		heroes = append(heroes, hero)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating heroes: %w", err)
	}
	return heroes, nil
}

// Create adds a hero with zeroed stats. The (user_id, class_id, hero_id)
// unique index turns a duplicate insert into ErrDuplicateHero.
func (r *HeroRepository) Create(ctx context.Context, userID int64, classID, heroID string) (*model.Hero, error) {
	query := `
		INSERT INTO heroes (user_id, class_id, hero_id, level, updated_at)
		VALUES ($1, $2, $3, 1, NOW())
		RETURNING ` + heroColumns

	hero, err := scanHero(r.pool.QueryRow(ctx, query, userID, classID, heroID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateHero
		}
		return nil, fmt.Errorf("failed to create hero: %w", err)
	}
	return hero, nil
}

// Get retrieves one hero of a user.
func (r *HeroRepository) Get(ctx context.Context, userID int64, classID, heroID string) (*model.Hero, error) {
	query := `SELECT ` + heroColumns + ` FROM heroes WHERE user_id = $1 AND class_id = $2 AND hero_id = $3`

	hero, err := scanHero(r.pool.QueryRow(ctx, query, userID, classID, heroID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHeroNotFound
		}
		return nil, fmt.Errorf("failed to get hero: %w", err)
	}
	return hero, nil
}

// ListByClass lists a user's heroes of one class, primaries first.
func (r *HeroRepository) ListByClass(ctx context.Context, userID int64, classID string) ([]*model.Hero, error) {
	query := `
		SELECT ` + heroColumns + `
		FROM heroes
		WHERE user_id = $1 AND class_id = $2
		ORDER BY is_primary DESC, hero_id
	`
	return r.queryHeroes(ctx, query, userID, classID)
}

// ListByUser lists all heroes of a user.
func (r *HeroRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Hero, error) {
	query := `
		SELECT ` + heroColumns + `
		FROM heroes
		WHERE user_id = $1
		ORDER BY class_id, is_primary DESC, hero_id
	`
	return r.queryHeroes(ctx, query, userID)
}

// BestByClass returns one hero per class for a user: the primary if set,
// otherwise the strongest.
func (r *HeroRepository) BestByClass(ctx context.Context, userID int64) ([]*model.Hero, error) {
	query := `
		SELECT DISTINCT ON (class_id) ` + heroColumns + `
		FROM heroes
		WHERE user_id = $1
		ORDER BY class_id, is_primary DESC, strength DESC
	`
	return r.queryHeroes(ctx, query, userID)
}

// SetPrimary flags one hero as the user's featured hero for its class and
// unsets every other hero of that class in the same statement, so the
// one-primary-per-class invariant holds even under concurrent updates.
func (r *HeroRepository) SetPrimary(ctx context.Context, userID int64, classID, heroID string) error {
	query := `
		UPDATE heroes
		SET is_primary = (hero_id = $3)
		WHERE user_id = $1 AND class_id = $2
	`

	result, err := r.pool.Exec(ctx, query, userID, classID, heroID)
	if err != nil {
		return fmt.Errorf("failed to set primary hero: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrHeroNotFound
	}
	return nil
}

// heroStatColumns maps editable hero stats to their columns. Dynamic
// column names in UpdateStat must come from this table.
var heroStatColumns = map[model.HeroField]string{
	model.HeroFieldLevel:         "level",
	model.HeroFieldBattlesPlayed: "battles_played",
	model.HeroFieldHeroesKilled:  "heroes_killed",
	model.HeroFieldWinPercentage: "win_percentage",
	model.HeroFieldHeroesRevived: "heroes_revived",
	model.HeroFieldStrength:      "strength",
}

// UpdateStat stores one hero stat and refreshes the hero's updated_at.
func (r *HeroRepository) UpdateStat(ctx context.Context, userID int64, classID, heroID string, field model.HeroField, value float64) (*model.Hero, error) {
	col, ok := heroStatColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown hero field %q", field)
	}

	query := fmt.Sprintf(`
		UPDATE heroes
		SET %s = $4, updated_at = NOW()
		WHERE user_id = $1 AND class_id = $2 AND hero_id = $3
		RETURNING `+heroColumns, col)

	hero, err := scanHero(r.pool.QueryRow(ctx, query, userID, classID, heroID, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHeroNotFound
		}
		return nil, fmt.Errorf("failed to update %s: %w", col, err)
	}
	return hero, nil
}
