// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"party-finder-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = `
	telegram_id, telegram_username, language, nickname, game_user_id,
	trophies, valor_path, syndicate, name, age, gender, country, city,
	registration_step, created_at, updated_at
`

// UserRepository handles user data persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.TelegramID,
		&u.TelegramUsername,
		&u.Language,
		&u.Nickname,
		&u.GameUserID,
		&u.Trophies,
		&u.ValorPath,
		&u.Syndicate,
		&u.Name,
		&u.Age,
		&u.Gender,
		&u.Country,
		&u.City,
		&u.RegistrationStep,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user at the start of the registration pipeline.
func (r *UserRepository) Create(ctx context.Context, telegramID int64, username *string) (*model.User, error) {
	query := `
		INSERT INTO users (telegram_id, telegram_username, registration_step, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID, username, model.StepLanguage))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by their Telegram ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetOrCreate retrieves a user, creating one at the first pipeline step if
// it doesn't exist. The second return value reports whether a new record
// was created.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username *string) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, telegramID, username)
	if err != nil {
		// Another update for the same user may have created it first.
		user, err = r.GetByID(ctx, telegramID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	return user, true, nil
}

// SetLanguage stores the user's display language.
func (r *UserRepository) SetLanguage(ctx context.Context, telegramID int64, lang model.Language) error {
	query := `UPDATE users SET language = $2, updated_at = NOW() WHERE telegram_id = $1`

	result, err := r.pool.Exec(ctx, query, telegramID, lang)
	if err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetRegistrationStep advances or resets the registration pipeline marker.
func (r *UserRepository) SetRegistrationStep(ctx context.Context, telegramID int64, step string) error {
	query := `UPDATE users SET registration_step = $2, updated_at = NOW() WHERE telegram_id = $1`

	result, err := r.pool.Exec(ctx, query, telegramID, step)
	if err != nil {
		return fmt.Errorf("failed to set registration step: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// profileColumns maps editable profile fields to their columns. Dynamic
// column names in SetTextField/SetIntField must come from this table.
var profileColumns = map[model.ProfileField]string{
	model.FieldNickname:   "nickname",
	model.FieldGameUserID: "game_user_id",
	model.FieldTrophies:   "trophies",
	model.FieldValorPath:  "valor_path",
	model.FieldSyndicate:  "syndicate",
	model.FieldName:       "name",
	model.FieldAge:        "age",
	model.FieldGender:     "gender",
	model.FieldCountry:    "country",
	model.FieldCity:       "city",
}

// SetTextField stores a free-text profile field. A nil value clears the
// field (the localized "skip" keyword).
func (r *UserRepository) SetTextField(ctx context.Context, telegramID int64, field model.ProfileField, value *string) error {
	col, ok := profileColumns[field]
	if !ok {
		return fmt.Errorf("unknown profile field %q", field)
	}

	query := fmt.Sprintf(`UPDATE users SET %s = $2, updated_at = NOW() WHERE telegram_id = $1`, col)
	result, err := r.pool.Exec(ctx, query, telegramID, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", col, err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetIntField stores a numeric profile field. A nil value clears it.
func (r *UserRepository) SetIntField(ctx context.Context, telegramID int64, field model.ProfileField, value *int64) error {
	col, ok := profileColumns[field]
	if !ok {
		return fmt.Errorf("unknown profile field %q", field)
	}

	query := fmt.Sprintf(`UPDATE users SET %s = $2, updated_at = NOW() WHERE telegram_id = $1`, col)
	result, err := r.pool.Exec(ctx, query, telegramID, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", col, err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUsername refreshes the cached Telegram username.
func (r *UserRepository) UpdateUsername(ctx context.Context, telegramID int64, username string) error {
	query := `UPDATE users SET telegram_username = $2, updated_at = NOW() WHERE telegram_id = $1`

	result, err := r.pool.Exec(ctx, query, telegramID, username)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindByIdentifier resolves a user from a group-command argument: an
// @username, a Telegram ID, a nickname, or an in-game user ID. Usernames
// are stored without the @ prefix.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(telegram_username) = LOWER($1)
		   OR telegram_id::TEXT = $1
		   OR nickname = $2
		   OR game_user_id = $2
		LIMIT 1
	`

	bare := strings.TrimPrefix(identifier, "@")

	user, err := scanUser(r.pool.QueryRow(ctx, query, bare, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// searchColumns maps searchable fields to their columns.
var searchColumns = map[model.SearchField]string{
	model.SearchByNickname:   "nickname",
	model.SearchByGameUserID: "game_user_id",
	model.SearchByCity:       "city",
	model.SearchBySyndicate:  "syndicate",
	model.SearchByUsername:   "telegram_username",
}

// Search finds registered users whose field matches the value exactly,
// case-insensitively, with offset pagination. It returns the page and the
// total match count.
func (r *UserRepository) Search(ctx context.Context, field model.SearchField, value string, limit, offset int) ([]*model.User, int, error) {
	col, ok := searchColumns[field]
	if !ok {
		return nil, 0, fmt.Errorf("unknown search field %q", field)
	}
	if field == model.SearchByUsername {
		value = strings.TrimPrefix(value, "@")
	}

	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM users WHERE LOWER(%s) = LOWER($1) AND registration_step = $2`, col)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, value, model.StepCompleted).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(%s) = LOWER($1) AND registration_step = $2
		ORDER BY telegram_id
		LIMIT $3 OFFSET $4
	`, col)

	rows, err := r.pool.Query(ctx, query, value, model.StepCompleted, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	return users, total, nil
}
