// Package repository provides data access layer implementations.
// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"party-finder-bot/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	err = runMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runMigrations applies the database schema
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			telegram_username VARCHAR(255),
			language VARCHAR(2) NOT NULL DEFAULT 'RU',
			nickname VARCHAR(255),
			game_user_id VARCHAR(255),
			trophies INT NOT NULL DEFAULT 0,
			valor_path INT NOT NULL DEFAULT 0,
			syndicate VARCHAR(255),
			name VARCHAR(255),
			age INT,
			gender VARCHAR(50),
			country VARCHAR(255),
			city VARCHAR(255),
			registration_step VARCHAR(50) NOT NULL DEFAULT 'language',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS heroes (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			class_id VARCHAR(50) NOT NULL,
			hero_id VARCHAR(50) NOT NULL,
			level INT NOT NULL DEFAULT 1,
			battles_played INT NOT NULL DEFAULT 0,
			heroes_killed INT NOT NULL DEFAULT 0,
			win_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			heroes_revived INT NOT NULL DEFAULT 0,
			strength INT NOT NULL DEFAULT 0,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, class_id, hero_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS parties (
			id BIGSERIAL PRIMARY KEY,
			short_id VARCHAR(16) NOT NULL UNIQUE,
			organizer_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			game_mode VARCHAR(50) NOT NULL,
			player_count INT NOT NULL,
			class_id VARCHAR(50) NOT NULL,
			hero_id VARCHAR(50) NOT NULL,
			group_message_id INT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS party_applications (
			id BIGSERIAL PRIMARY KEY,
			party_id BIGINT NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
			applicant_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			class_id VARCHAR(50) NOT NULL,
			hero_id VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (party_id, applicant_id)
		)
	`)
	return err
}

func strPtr(s string) *string { return &s }

// registeredUser inserts a completed user with a nickname for tests that
// need searchable records.
func registeredUser(t *testing.T, repo *UserRepository, id int64, username, nickname string) *model.User {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Create(ctx, id, strPtr(username))
	require.NoError(t, err)
	require.NoError(t, repo.SetTextField(ctx, id, model.FieldNickname, strPtr(nickname)))
	require.NoError(t, repo.SetRegistrationStep(ctx, id, string(model.StepCompleted)))

	user, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	return user
}

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository_GetOrCreate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, created, err := repo.GetOrCreate(ctx, 12345, strPtr("alice"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(12345), user.TelegramID)
	assert.Equal(t, string(model.StepLanguage), user.RegistrationStep)
	assert.False(t, user.Registered())

	again, created, err := repo.GetOrCreate(ctx, 12345, strPtr("alice"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.TelegramID, again.TelegramID)

	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_ProfileFields(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, strPtr("bob"))
	require.NoError(t, err)

	require.NoError(t, repo.SetLanguage(ctx, 1, model.LangEN))
	require.NoError(t, repo.SetTextField(ctx, 1, model.FieldNickname, strPtr("Shadow")))
	trophies := int64(4200)
	require.NoError(t, repo.SetIntField(ctx, 1, model.FieldTrophies, &trophies))

	user, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.LangEN, user.Language)
	require.NotNil(t, user.Nickname)
	assert.Equal(t, "Shadow", *user.Nickname)
	assert.Equal(t, int64(4200), user.Trophies)

	// Clearing an optional field stores NULL.
	require.NoError(t, repo.SetTextField(ctx, 1, model.FieldSyndicate, nil))
	user, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, user.Syndicate)

	assert.ErrorIs(t, repo.SetLanguage(ctx, 2, model.LangRU), ErrUserNotFound)
}

func TestUserRepository_FindByIdentifier(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	target := registeredUser(t, repo, 777, "NightOwl", "Сова")
	require.NoError(t, repo.SetTextField(ctx, 777, model.FieldGameUserID, strPtr("ABC123")))

	for _, identifier := range []string{"@nightowl", "NightOwl", "777", "Сова", "ABC123"} {
		found, err := repo.FindByIdentifier(ctx, identifier)
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, target.TelegramID, found.TelegramID, "identifier %q", identifier)
	}

	_, err := repo.FindByIdentifier(ctx, "@nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Search(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	for i := int64(1); i <= 7; i++ {
		registeredUser(t, repo, i, "", "dup")
	}
	// Unregistered users never match, even on an exact value.
	_, err := repo.Create(ctx, 100, nil)
	require.NoError(t, err)
	require.NoError(t, repo.SetTextField(ctx, 100, model.FieldNickname, strPtr("dup")))

	users, total, err := repo.Search(ctx, model.SearchByNickname, "DUP", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, users, 5)

	users, total, err = repo.Search(ctx, model.SearchByNickname, "dup", 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, users, 2)

	users, total, err = repo.Search(ctx, model.SearchByCity, "Atlantis", 5, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
}

// ============================================================================
// HeroRepository Tests
// ============================================================================

func TestHeroRepository_CreateDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(pool)
	repo := NewHeroRepository(pool)
	ctx := context.Background()

	registeredUser(t, users, 1, "", "owner")

	hero, err := repo.Create(ctx, 1, "enforcer", "sparkle")
	require.NoError(t, err)
	assert.Equal(t, 1, hero.Level)
	assert.False(t, hero.IsPrimary)

	_, err = repo.Create(ctx, 1, "enforcer", "sparkle")
	assert.ErrorIs(t, err, ErrDuplicateHero)

	// Same hero id under a different user is fine.
	registeredUser(t, users, 2, "", "other")
	_, err = repo.Create(ctx, 2, "enforcer", "sparkle")
	require.NoError(t, err)
}

func TestHeroRepository_SetPrimary(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(pool)
	repo := NewHeroRepository(pool)
	ctx := context.Background()

	registeredUser(t, users, 1, "", "owner")
	_, err := repo.Create(ctx, 1, "scout", "ghost")
	require.NoError(t, err)
	_, err = repo.Create(ctx, 1, "scout", "raven")
	require.NoError(t, err)

	require.NoError(t, repo.SetPrimary(ctx, 1, "scout", "ghost"))
	require.NoError(t, repo.SetPrimary(ctx, 1, "scout", "raven"))

	heroes, err := repo.ListByClass(ctx, 1, "scout")
	require.NoError(t, err)
	require.Len(t, heroes, 2)

	primaries := 0
	for _, h := range heroes {
		if h.IsPrimary {
			primaries++
			assert.Equal(t, "raven", h.HeroID)
		}
	}
	assert.Equal(t, 1, primaries)

	assert.ErrorIs(t, repo.SetPrimary(ctx, 1, "sniper", "lynx"), ErrHeroNotFound)
}

func TestHeroRepository_UpdateStatAndBestByClass(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(pool)
	repo := NewHeroRepository(pool)
	ctx := context.Background()

	registeredUser(t, users, 1, "", "owner")
	_, err := repo.Create(ctx, 1, "enforcer", "sparkle")
	require.NoError(t, err)
	_, err = repo.Create(ctx, 1, "enforcer", "arnie")
	require.NoError(t, err)

	hero, err := repo.UpdateStat(ctx, 1, "enforcer", "arnie", model.HeroFieldStrength, 900)
	require.NoError(t, err)
	assert.Equal(t, int64(900), hero.Strength)

	hero, err = repo.UpdateStat(ctx, 1, "enforcer", "arnie", model.HeroFieldWinPercentage, 64.5)
	require.NoError(t, err)
	assert.InDelta(t, 64.5, hero.WinPercentage, 0.001)

	// Without a primary the strongest hero represents the class.
	best, err := repo.BestByClass(ctx, 1)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, "arnie", best[0].HeroID)

	// A primary always wins over raw strength.
	require.NoError(t, repo.SetPrimary(ctx, 1, "enforcer", "sparkle"))
	best, err = repo.BestByClass(ctx, 1)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, "sparkle", best[0].HeroID)

	_, err = repo.UpdateStat(ctx, 1, "scout", "ghost", model.HeroFieldLevel, 10)
	assert.ErrorIs(t, err, ErrHeroNotFound)
}

// ============================================================================
// PartyRepository Tests
// ============================================================================

func TestPartyRepository_CreateAndLookup(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(pool)
	repo := NewPartyRepository(pool)
	ctx := context.Background()

	registeredUser(t, users, 1, "", "org")

	party, err := repo.Create(ctx, "abc123", 1, model.ModeBattleRoyale, 3, "enforcer", "sparkle")
	require.NoError(t, err)
	assert.Equal(t, 3, party.PlayerCount)
	assert.Nil(t, party.GroupMessageID)

	_, err = repo.Create(ctx, "abc123", 1, model.ModeArcade, 4, "scout", "ghost")
	assert.ErrorIs(t, err, ErrShortIDTaken)

	require.NoError(t, repo.SetGroupMessageID(ctx, party.ID, 555))
	found, err := repo.GetByGroupMessageID(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, party.ID, found.ID)
	require.NotNil(t, found.GroupMessageID)
	assert.Equal(t, 555, *found.GroupMessageID)

	found, err = repo.GetByShortID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, party.ID, found.ID)

	_, err = repo.GetByShortID(ctx, "missing")
	assert.ErrorIs(t, err, ErrPartyNotFound)
}

func TestPartyRepository_ApplicationLifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(pool)
	repo := NewPartyRepository(pool)
	ctx := context.Background()

	registeredUser(t, users, 1, "", "org")
	for i := int64(2); i <= 5; i++ {
		registeredUser(t, users, i, "", "player")
	}

	// Roster of three: organizer plus two accepted applicants.
	party, err := repo.Create(ctx, "p1", 1, model.ModeBattleRoyale, 3, "enforcer", "sparkle")
	require.NoError(t, err)

	for i := int64(2); i <= 5; i++ {
		_, err := repo.AddApplication(ctx, party.ID, i, "scout", "ghost")
		require.NoError(t, err)
	}
	_, err = repo.AddApplication(ctx, party.ID, 2, "scout", "raven")
	assert.ErrorIs(t, err, ErrDuplicateApplication)

	accepted, full, err := repo.AcceptApplication(ctx, party.ID, 2, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)
	assert.False(t, full)

	// Accepting an application that is not pending fails.
	_, _, err = repo.AcceptApplication(ctx, party.ID, 2, "ghost")
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	require.NoError(t, repo.RejectApplication(ctx, party.ID, 3, "ghost"))
	assert.ErrorIs(t, repo.RejectApplication(ctx, party.ID, 3, "ghost"), ErrApplicationNotFound)

	accepted, full, err = repo.AcceptApplication(ctx, party.ID, 4, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)
	assert.True(t, full)

	// A full roster refuses further accepts.
	_, _, err = repo.AcceptApplication(ctx, party.ID, 5, "ghost")
	assert.ErrorIs(t, err, ErrPartyFull)

	apps, err := repo.AcceptedApplications(ctx, party.ID)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, int64(2), apps[0].ApplicantID)
	assert.Equal(t, int64(4), apps[1].ApplicantID)

	// Deleting the party cascades to its applications.
	require.NoError(t, repo.Delete(ctx, party.ID))
	_, err = repo.GetByShortID(ctx, "p1")
	assert.ErrorIs(t, err, ErrPartyNotFound)
	apps, err = repo.Applications(ctx, party.ID)
	require.NoError(t, err)
	assert.Empty(t, apps)
}
