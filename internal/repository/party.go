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

// Party repository errors.
var (
	ErrPartyNotFound        = errors.New("party not found")
	ErrShortIDTaken         = errors.New("party short id already taken")
	ErrDuplicateApplication = errors.New("application already submitted")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrPartyFull            = errors.New("party is already full")
)

const partyColumns = `
	id, short_id, organizer_id, game_mode, player_count, class_id, hero_id,
	group_message_id, created_at, updated_at
`

const applicationColumns = `
	id, party_id, applicant_id, class_id, hero_id, status, applied_at
`

// PartyRepository handles party and application persistence.
type PartyRepository struct {
	pool *pgxpool.Pool
}

// NewPartyRepository creates a new PartyRepository instance.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{pool: pool}
}

func scanParty(row pgx.Row) (*model.Party, error) {
	var p model.Party
	err := row.Scan(
		&p.ID,
		&p.ShortID,
		&p.OrganizerID,
		&p.GameMode,
		&p.PlayerCount,
		&p.ClassID,
		&p.HeroID,
		&p.GroupMessageID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	err := row.Scan(
		&a.ID,
		&a.PartyID,
		&a.ApplicantID,
		&a.ClassID,
		&a.HeroID,
		&a.Status,
		&a.AppliedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persists a new party. A colliding short_id yields ErrShortIDTaken
// so the caller can retry with a fresh token.
func (r *PartyRepository) Create(ctx context.Context, shortID string, organizerID int64, mode model.GameMode, playerCount int, classID, heroID string) (*model.Party, error) {
	query := `
		INSERT INTO parties (short_id, organizer_id, game_mode, player_count, class_id, hero_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + partyColumns

	party, err := scanParty(r.pool.QueryRow(ctx, query, shortID, organizerID, mode, playerCount, classID, heroID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrShortIDTaken
		}
		return nil, fmt.Errorf("failed to create party: %w", err)
	}
	return party, nil
}

// GetByShortID retrieves a party by its public short token.
func (r *PartyRepository) GetByShortID(ctx context.Context, shortID string) (*model.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE short_id = $1`

	party, err := scanParty(r.pool.QueryRow(ctx, query, shortID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	return party, nil
}

// GetByGroupMessageID retrieves the party whose roster message was replied to.
func (r *PartyRepository) GetByGroupMessageID(ctx context.Context, messageID int) (*model.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE group_message_id = $1`

	party, err := scanParty(r.pool.QueryRow(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	return party, nil
}

// SetGroupMessageID records the roster message the bot posted to the group.
func (r *PartyRepository) SetGroupMessageID(ctx context.Context, partyID int64, messageID int) error {
	query := `UPDATE parties SET group_message_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, partyID, messageID)
	if err != nil {
		return fmt.Errorf("failed to set group message id: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPartyNotFound
	}
	return nil
}

// Delete removes a party; applications cascade.
func (r *PartyRepository) Delete(ctx context.Context, partyID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM parties WHERE id = $1`, partyID)
	if err != nil {
		return fmt.Errorf("failed to delete party: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPartyNotFound
	}
	return nil
}

// AddApplication appends a pending application. One application per
// applicant per party is enforced by a unique index, surfaced as
// ErrDuplicateApplication.
func (r *PartyRepository) AddApplication(ctx context.Context, partyID, applicantID int64, classID, heroID string) (*model.Application, error) {
	query := `
		INSERT INTO party_applications (party_id, applicant_id, class_id, hero_id, status, applied_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.pool.QueryRow(ctx, query, partyID, applicantID, classID, heroID, model.ApplicationPending))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("failed to add application: %w", err)
	}
	return app, nil
}

// Applications lists a party's applications in submission order.
func (r *PartyRepository) Applications(ctx context.Context, partyID int64) ([]*model.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM party_applications
		WHERE party_id = $1
		ORDER BY applied_at, id
	`

	rows, err := r.pool.Query(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}
	return apps, nil
}

// AcceptedApplications lists a party's accepted applications in the order
// they were accepted into the roster.
func (r *PartyRepository) AcceptedApplications(ctx context.Context, partyID int64) ([]*model.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM party_applications
		WHERE party_id = $1 AND status = $2
		ORDER BY applied_at, id
	`

	rows, err := r.pool.Query(ctx, query, partyID, model.ApplicationAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to query accepted applications: %w", err)
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}
	return apps, nil
}

// AcceptApplication flips one pending application to accepted inside a
// transaction that locks the party row, so concurrent accepts cannot push
// the roster past player_count-1. It returns the accepted count after the
// flip and whether the roster is now full.
func (r *PartyRepository) AcceptApplication(ctx context.Context, partyID, applicantID int64, heroID string) (int, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var playerCount int
	err = tx.QueryRow(ctx, `SELECT player_count FROM parties WHERE id = $1 FOR UPDATE`, partyID).Scan(&playerCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, ErrPartyNotFound
		}
		return 0, false, fmt.Errorf("failed to lock party: %w", err)
	}

	var accepted int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM party_applications WHERE party_id = $1 AND status = $2`,
		partyID, model.ApplicationAccepted,
	).Scan(&accepted)
	if err != nil {
		return 0, false, fmt.Errorf("failed to count accepted applications: %w", err)
	}
	if accepted >= playerCount-1 {
		return accepted, true, ErrPartyFull
	}

	result, err := tx.Exec(ctx, `
		UPDATE party_applications
		SET status = $4
		WHERE party_id = $1 AND applicant_id = $2 AND hero_id = $3 AND status = $5
	`, partyID, applicantID, heroID, model.ApplicationAccepted, model.ApplicationPending)
	if err != nil {
		return 0, false, fmt.Errorf("failed to accept application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, false, ErrApplicationNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, fmt.Errorf("failed to commit: %w", err)
	}

	accepted++
	return accepted, accepted >= playerCount-1, nil
}

// RejectApplication flips one pending application to rejected.
func (r *PartyRepository) RejectApplication(ctx context.Context, partyID, applicantID int64, heroID string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE party_applications
		SET status = $4
		WHERE party_id = $1 AND applicant_id = $2 AND hero_id = $3 AND status = $5
	`, partyID, applicantID, heroID, model.ApplicationRejected, model.ApplicationPending)
	if err != nil {
		return fmt.Errorf("failed to reject application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
