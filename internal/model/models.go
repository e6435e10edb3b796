// Package model defines the data models for the party finder bot.
package model

import "time"

// Language is a supported display language.
type Language string

const (
	LangEN Language = "EN"
	LangRU Language = "RU"
)

// IsRU reports whether the language is Russian.
func (l Language) IsRU() bool { return l == LangRU }

// User represents a registered community member.
type User struct {
	TelegramID       int64     `db:"telegram_id"`
	TelegramUsername *string   `db:"telegram_username"`
	Language         Language  `db:"language"`
	Nickname         *string   `db:"nickname"`
	GameUserID       *string   `db:"game_user_id"`
	Trophies         int64     `db:"trophies"`
	ValorPath        int64     `db:"valor_path"`
	Syndicate        *string   `db:"syndicate"`
	Name             *string   `db:"name"`
	Age              *int      `db:"age"`
	Gender           *string   `db:"gender"`
	Country          *string   `db:"country"`
	City             *string   `db:"city"`
	RegistrationStep string    `db:"registration_step"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Registered reports whether the user has finished the onboarding pipeline.
func (u *User) Registered() bool { return u.RegistrationStep == StepCompleted }

// Registration step markers. Every other registration_step value is one of
// ProfileFields.
const (
	StepLanguage  = "language"
	StepCompleted = "completed"
)

// ProfileField identifies one editable profile field.
type ProfileField string

const (
	FieldNickname   ProfileField = "nickname"
	FieldGameUserID ProfileField = "game_user_id"
	FieldTrophies   ProfileField = "trophies"
	FieldValorPath  ProfileField = "valor_path"
	FieldSyndicate  ProfileField = "syndicate"
	FieldName       ProfileField = "name"
	FieldAge        ProfileField = "age"
	FieldGender     ProfileField = "gender"
	FieldCountry    ProfileField = "country"
	FieldCity       ProfileField = "city"
)

// ProfileFields is the onboarding pipeline, in order. Registration walks
// this list one field per message; registration_step holds the field
// currently awaited.
var ProfileFields = []ProfileField{
	FieldNickname,
	FieldGameUserID,
	FieldTrophies,
	FieldValorPath,
	FieldSyndicate,
	FieldName,
	FieldAge,
	FieldGender,
	FieldCountry,
	FieldCity,
}

// ValidProfileField reports whether s names a known profile field.
func ValidProfileField(s string) bool {
	for _, f := range ProfileFields {
		if string(f) == s {
			return true
		}
	}
	return false
}

// OptionalProfileFields can be skipped during onboarding; a skip stores NULL.
var OptionalProfileFields = map[ProfileField]bool{
	FieldSyndicate: true,
	FieldName:      true,
	FieldAge:       true,
	FieldGender:    true,
	FieldCountry:   true,
	FieldCity:      true,
}

// IntegerProfileFields require a non-negative integer value.
var IntegerProfileFields = map[ProfileField]bool{
	FieldTrophies:  true,
	FieldValorPath: true,
	FieldAge:       true,
}

// Hero is one user's tracked hero with self-reported stats.
type Hero struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	ClassID       string    `db:"class_id"`
	HeroID        string    `db:"hero_id"`
	Level         int       `db:"level"`
	BattlesPlayed int64     `db:"battles_played"`
	HeroesKilled  int64     `db:"heroes_killed"`
	WinPercentage float64   `db:"win_percentage"`
	HeroesRevived int64     `db:"heroes_revived"`
	Strength      int64     `db:"strength"`
	IsPrimary     bool      `db:"is_primary"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// HeroField identifies one editable hero stat.
type HeroField string

const (
	HeroFieldLevel         HeroField = "level"
	HeroFieldBattlesPlayed HeroField = "battles_played"
	HeroFieldHeroesKilled  HeroField = "heroes_killed"
	HeroFieldWinPercentage HeroField = "win_percentage"
	HeroFieldHeroesRevived HeroField = "heroes_revived"
	HeroFieldStrength      HeroField = "strength"
)

// HeroFields lists every editable hero stat.
var HeroFields = []HeroField{
	HeroFieldLevel,
	HeroFieldBattlesPlayed,
	HeroFieldHeroesKilled,
	HeroFieldWinPercentage,
	HeroFieldHeroesRevived,
	HeroFieldStrength,
}

// ValidHeroField reports whether s names a known hero stat.
func ValidHeroField(s string) bool {
	for _, f := range HeroFields {
		if string(f) == s {
			return true
		}
	}
	return false
}

// SearchField identifies one user attribute the global search can match.
type SearchField string

const (
	SearchByNickname   SearchField = "nickname"
	SearchByGameUserID SearchField = "game_user_id"
	SearchByCity       SearchField = "city"
	SearchBySyndicate  SearchField = "syndicate"
	SearchByUsername   SearchField = "telegram_username"
)

// SearchFields lists every searchable attribute, in keyboard order.
var SearchFields = []SearchField{
	SearchByNickname,
	SearchByGameUserID,
	SearchByCity,
	SearchBySyndicate,
	SearchByUsername,
}

// ValidSearchField reports whether s names a known search field.
func ValidSearchField(s string) bool {
	for _, f := range SearchFields {
		if string(f) == s {
			return true
		}
	}
	return false
}

// GameMode is a party game mode.
type GameMode string

const (
	ModeBattleRoyale   GameMode = "battle_royale"
	ModeTeamVsTeam     GameMode = "team_vs_team"
	ModeArcade         GameMode = "arcade"
	ModeSabotage       GameMode = "sabotage"
	ModeTeamDeathmatch GameMode = "team_deathmatch"
)

// GameModes lists every selectable mode, in keyboard order.
var GameModes = []GameMode{
	ModeBattleRoyale,
	ModeTeamVsTeam,
	ModeArcade,
	ModeSabotage,
	ModeTeamDeathmatch,
}

// FixedPlayerCount returns the roster size a mode dictates, or 0 when the
// organizer picks the size (arcade).
func (m GameMode) FixedPlayerCount() int {
	switch m {
	case ModeBattleRoyale, ModeTeamDeathmatch:
		return 3
	case ModeTeamVsTeam, ModeSabotage:
		return 5
	default:
		return 0
	}
}

// ValidGameMode reports whether s names a known game mode.
func ValidGameMode(s string) bool {
	for _, m := range GameModes {
		if string(m) == s {
			return true
		}
	}
	return false
}

// ApplicationStatus is the state of one party application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Party is an open matchmaking request. PlayerCount is the total roster
// size including the organizer, so a party completes once PlayerCount-1
// applications are accepted.
type Party struct {
	ID             int64     `db:"id"`
	ShortID        string    `db:"short_id"`
	OrganizerID    int64     `db:"organizer_id"`
	GameMode       GameMode  `db:"game_mode"`
	PlayerCount    int       `db:"player_count"`
	ClassID        string    `db:"class_id"`
	HeroID         string    `db:"hero_id"`
	GroupMessageID *int      `db:"group_message_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Application is one user's request to join a party.
type Application struct {
	ID          int64             `db:"id"`
	PartyID     int64             `db:"party_id"`
	ApplicantID int64             `db:"applicant_id"`
	ClassID     string            `db:"class_id"`
	HeroID      string            `db:"hero_id"`
	Status      ApplicationStatus `db:"status"`
	AppliedAt   time.Time         `db:"applied_at"`
}
