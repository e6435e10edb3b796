package service

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
	"party-finder-bot/internal/repository"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupRegistration spins up a PostgreSQL container with the users table
// and returns a service over it. Skips the test if Docker is unavailable.
func setupRegistration(t *testing.T) (*RegistrationService, func()) {
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

	_, err = pool.Exec(ctx, `
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
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return NewRegistrationService(repository.NewUserRepository(pool)), cleanup
}

func TestRegistrationPipeline(t *testing.T) {
	svc, cleanup := setupRegistration(t)
	defer cleanup()

	ctx := context.Background()
	username := "nightowl"

	user, created, err := svc.EnsureUser(ctx, 100, &username)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.StepLanguage, user.RegistrationStep)
	assert.False(t, user.Registered())

	require.NoError(t, svc.ChooseLanguage(ctx, user, model.LangRU))
	assert.Equal(t, string(model.ProfileFields[0]), user.RegistrationStep)

	inputs := map[model.ProfileField]string{
		model.FieldNickname:   "Сова",
		model.FieldGameUserID: "ABC123",
		model.FieldTrophies:   "4200",
		model.FieldValorPath:  "17",
		model.FieldSyndicate:  "skip",
		model.FieldName:       "Olga",
		model.FieldAge:        "-",
		model.FieldGender:     "пропустить",
		model.FieldCountry:    "Россия",
		model.FieldCity:       "Казань",
	}

	// Walk the whole pipeline. Every field must come up exactly once,
	// in order, and only the last message may finish it.
	for i, field := range model.ProfileFields {
		res, err := svc.SubmitStep(ctx, user, inputs[field])
		require.NoError(t, err)
		assert.Equal(t, field, res.Field)
		if i+1 < len(model.ProfileFields) {
			assert.False(t, res.Done)
			assert.Equal(t, model.ProfileFields[i+1], res.Next)
		} else {
			assert.True(t, res.Done)
		}
	}

	stored, err := svc.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.True(t, stored.Registered())
	require.NotNil(t, stored.Nickname)
	assert.Equal(t, "Сова", *stored.Nickname)
	assert.Equal(t, int64(4200), stored.Trophies)
	assert.Nil(t, stored.Syndicate)
	assert.Nil(t, stored.Age)
	require.NotNil(t, stored.City)
	assert.Equal(t, "Казань", *stored.City)
}

func TestRegistrationRejectsBadNumbers(t *testing.T) {
	svc, cleanup := setupRegistration(t)
	defer cleanup()

	ctx := context.Background()

	user, _, err := svc.EnsureUser(ctx, 200, nil)
	require.NoError(t, err)
	require.NoError(t, svc.ChooseLanguage(ctx, user, model.LangEN))

	// Empty text at a required text step does not advance.
	_, err = svc.SubmitStep(ctx, user, "   ")
	assert.ErrorIs(t, err, ErrEmptyValue)
	assert.Equal(t, string(model.FieldNickname), user.RegistrationStep)

	_, err = svc.SubmitStep(ctx, user, "Falcon")
	require.NoError(t, err)
	_, err = svc.SubmitStep(ctx, user, "XYZ789")
	require.NoError(t, err)

	// trophies requires a non-negative integer; bad input must not
	// advance the step.
	for _, raw := range []string{"abc", "-5", "12.5"} {
		_, err = svc.SubmitStep(ctx, user, raw)
		assert.ErrorIs(t, err, ErrInvalidNumber)
		assert.Equal(t, string(model.FieldTrophies), user.RegistrationStep)
	}

	res, err := svc.SubmitStep(ctx, user, "300")
	require.NoError(t, err)
	assert.Equal(t, model.FieldTrophies, res.Field)
	assert.Equal(t, model.FieldValorPath, res.Next)
}

func TestEnsureUserRefreshesUsername(t *testing.T) {
	svc, cleanup := setupRegistration(t)
	defer cleanup()

	ctx := context.Background()
	oldName := "before"
	newName := "after"

	_, created, err := svc.EnsureUser(ctx, 300, &oldName)
	require.NoError(t, err)
	assert.True(t, created)

	user, created, err := svc.EnsureUser(ctx, 300, &newName)
	require.NoError(t, err)
	assert.False(t, created)
	require.NotNil(t, user.TelegramUsername)
	assert.Equal(t, "after", *user.TelegramUsername)

	stored, err := svc.GetUser(ctx, 300)
	require.NoError(t, err)
	require.NotNil(t, stored.TelegramUsername)
	assert.Equal(t, "after", *stored.TelegramUsername)
}
