package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party-finder-bot/internal/model"
)

func strPtr(s string) *string { return &s }

func testUser() *model.User {
	return &model.User{
		TelegramID:       100,
		TelegramUsername: strPtr("nightowl"),
		Language:         model.LangRU,
		Nickname:         strPtr("Сова"),
		GameUserID:       strPtr("ABC123"),
		Trophies:         4200,
		ValorPath:        7,
		RegistrationStep: model.StepCompleted,
	}
}

func testHero() *model.Hero {
	return &model.Hero{
		UserID:        100,
		ClassID:       "enforcer",
		HeroID:        "sparkle",
		Level:         30,
		BattlesPlayed: 120,
		HeroesKilled:  300,
		WinPercentage: 64.5,
		HeroesRevived: 12,
		Strength:      900,
		UpdatedAt:     time.Date(2025, 3, 7, 18, 30, 0, 0, time.UTC),
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "64,50", Percentage(64.5, model.LangRU))
	assert.Equal(t, "64.50", Percentage(64.5, model.LangEN))
	assert.Equal(t, "0,00", Percentage(0, model.LangRU))
	assert.Equal(t, "100.00", Percentage(100, model.LangEN))
}

func TestDateTime(t *testing.T) {
	ts := time.Date(2025, 3, 7, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "07.03.2025 18:30", DateTime(ts, model.LangRU))
	assert.Equal(t, "03/07/2025 18:30", DateTime(ts, model.LangEN))
}

func TestProfileText(t *testing.T) {
	text := ProfileText(testUser(), model.LangRU)

	assert.Contains(t, text, "@nightowl")
	assert.Contains(t, text, "Сова")
	assert.Contains(t, text, "<code>ABC123</code>")
	assert.Contains(t, text, "4200")
	// Unset optional fields render as a placeholder, not as empty gaps.
	assert.Contains(t, text, NotSpecified(model.LangRU))
}

func TestProfileTextFallsBackToTelegramID(t *testing.T) {
	user := testUser()
	user.TelegramUsername = nil
	text := ProfileText(user, model.LangEN)
	assert.Contains(t, text, "Telegram: 100")
}

func TestHeroBlock(t *testing.T) {
	hero := testHero()
	text := HeroBlock(hero, model.LangRU)

	assert.Contains(t, text, "🦸 ИСКРА ур. 30")
	assert.Contains(t, text, "✊ 900")
	assert.Contains(t, text, "⚔️ 64,50%")
	assert.Contains(t, text, "Битвы/Убито/Воскр.: 120/300/12")
	assert.Contains(t, text, "Обновлено: 07.03.2025 18:30")
	assert.NotContains(t, text, "⭐")

	hero.IsPrimary = true
	assert.True(t, strings.HasPrefix(HeroBlock(hero, model.LangRU), "⭐ "))

	en := HeroBlock(hero, model.LangEN)
	assert.Contains(t, en, "SPARKLE lvl. 30")
	assert.Contains(t, en, "Battles/Killed/Rev.: 120/300/12")
}

func TestHeroesTextEmpty(t *testing.T) {
	text := HeroesText("enforcer", nil, model.LangRU)
	assert.Contains(t, text, "КАРАТЕЛЬ")
	assert.Contains(t, text, "У вас нет героев этого класса.")
}

func TestPartyMessage(t *testing.T) {
	party := &model.Party{
		ID:          1,
		ShortID:     "abc123",
		OrganizerID: 100,
		GameMode:    model.ModeBattleRoyale,
		PlayerCount: 3,
		ClassID:     "enforcer",
		HeroID:      "sparkle",
	}
	members := []Member{{User: testUser(), Hero: testHero()}}
	text := PartyMessage(party, members, model.LangRU)

	assert.Contains(t, text, "⚠️ Набор в пати")
	assert.Contains(t, text, "Собрано 1 из 3")
	assert.Contains(t, text, "1. Сова | <code>ABC123</code> | 🏆 4200")
	assert.Contains(t, text, "🦸 ИСКРА (ур. 30, ✊ 900, ⚔️ 64,50%)")

	second := testUser()
	second.Nickname = strPtr("Второй")
	members = append(members, Member{User: second, Hero: testHero()})
	text = PartyMessage(party, members, model.LangRU)
	assert.Contains(t, text, "Собрано 2 из 3")
	assert.Contains(t, text, "2. Второй")
}

func TestCompletedPartyMessage(t *testing.T) {
	party := &model.Party{GameMode: model.ModeSabotage, PlayerCount: 5}
	members := []Member{{User: testUser(), Hero: testHero()}}

	text := CompletedPartyMessage(party, members, "вперёд!", model.LangRU)
	assert.Contains(t, text, "собрана!")
	assert.Contains(t, text, "<blockquote>вперёд!</blockquote>")
	assert.Contains(t, text, "1. Сова")
}

func TestApplicationMessage(t *testing.T) {
	applied := time.Date(2025, 3, 7, 18, 30, 0, 0, time.UTC)
	text := ApplicationMessage(testUser(), testHero(), applied, model.LangEN)

	assert.Contains(t, text, "⚠️ New application for your party")
	assert.Contains(t, text, "SPARKLE")
	assert.Contains(t, text, "Updated: 03/07/2025 18:30")
}

func TestSearchResults(t *testing.T) {
	empty := &SearchPageView{Page: 1, Pages: 1}
	assert.Equal(t, MsgNothingFound(model.LangEN), SearchResults(empty, model.LangEN))

	page := &SearchPageView{Users: []*model.User{testUser()}, Total: 7, Page: 2, Pages: 3}
	text := SearchResults(page, model.LangRU)
	assert.Contains(t, text, "Найдено: 7")
	assert.Contains(t, text, "Страница 2/3")
	assert.Contains(t, text, "Сова")
}

func TestRandomMotivation(t *testing.T) {
	for _, mode := range []model.GameMode{
		model.ModeBattleRoyale, model.ModeTeamVsTeam, model.ModeArcade,
		model.ModeSabotage, model.ModeTeamDeathmatch,
	} {
		for _, lang := range []model.Language{model.LangRU, model.LangEN} {
			line := RandomMotivation(mode, lang)
			require.NotEmpty(t, line, "mode %s lang %s", mode, lang)
		}
	}
}

func TestMsgPartyAssembledContact(t *testing.T) {
	organizer := testUser()
	text := MsgPartyAssembledContact(model.ModeBattleRoyale, organizer, model.LangRU)
	assert.Contains(t, text, "собрана!")
	assert.Contains(t, text, "@nightowl")

	organizer.TelegramUsername = nil
	text = MsgPartyAssembledContact(model.ModeBattleRoyale, organizer, model.LangEN)
	assert.Contains(t, text, "100")
}
