package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party-finder-bot/internal/model"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		data string
		want Action
	}{
		{"menu_main", MenuAction{Menu: MenuMain}},
		{"menu_profile", MenuAction{Menu: MenuProfile}},
		{"menu_party_search", MenuAction{Menu: MenuPartySearch}},
		{"lang_RU", LanguageAction{Lang: model.LangRU}},
		{"lang_EN", LanguageAction{Lang: model.LangEN}},
		{"profile_edit", ProfileEditMenuAction{}},
		{"profile_edit_nickname", ProfileEditFieldAction{Field: model.FieldNickname}},
		{"profile_edit_game_user_id", ProfileEditFieldAction{Field: model.FieldGameUserID}},
		{"profile_edit_valor_path", ProfileEditFieldAction{Field: model.FieldValorPath}},
		{"heroes_class_gunner", HeroClassAction{ClassID: "gunner"}},
		{"heroes_add_sniper", HeroAddMenuAction{ClassID: "sniper"}},
		{"heroes_add_confirm_gunner_bertha", HeroAddConfirmAction{ClassID: "gunner", HeroID: "bertha"}},
		{"heroes_edit_scout_ghost", HeroEditAction{ClassID: "scout", HeroID: "ghost"}},
		{"hero_field_level_gunner_bertha", HeroFieldAction{Field: model.HeroFieldLevel, ClassID: "gunner", HeroID: "bertha"}},
		{"hero_field_battles_played_trooper_doc", HeroFieldAction{Field: model.HeroFieldBattlesPlayed, ClassID: "trooper", HeroID: "doc"}},
		{"hero_field_win_percentage_sniper_lynx", HeroFieldAction{Field: model.HeroFieldWinPercentage, ClassID: "sniper", HeroID: "lynx"}},
		{"set_primary_enforcer_molly", SetPrimaryAction{ClassID: "enforcer", HeroID: "molly"}},
		{"search_field_nickname", SearchFieldAction{Field: model.SearchByNickname}},
		{"search_field_telegram_username", SearchFieldAction{Field: model.SearchByUsername}},
		{"search_page_3", SearchPageAction{Page: 3}},
		{"party_mode_battle_royale", PartyModeAction{Mode: model.ModeBattleRoyale}},
		{"party_mode_team_vs_team", PartyModeAction{Mode: model.ModeTeamVsTeam}},
		{"party_players_2", PartyPlayersAction{Count: 2}},
		{"party_class_trooper", PartyClassAction{ClassID: "trooper"}},
		{"party_hero_gunner_kwon", PartyHeroAction{ClassID: "gunner", HeroID: "kwon"}},
		{"party_accept_a1b2c3_12345_bertha", PartyDecisionAction{Accept: true, ShortID: "a1b2c3", ApplicantID: 12345, HeroID: "bertha"}},
		{"party_reject_a1b2c3_12345_bertha", PartyDecisionAction{Accept: false, ShortID: "a1b2c3", ApplicantID: 12345, HeroID: "bertha"}},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, ok := ParseAction(tt.data)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseActionRejectsMalformed(t *testing.T) {
	for _, data := range []string{
		"",
		"menu_unknown",
		"lang_DE",
		"profile_edit_balance",
		"heroes_class_wizard",
		"heroes_add_confirm_gunner_ghost", // ghost is a scout, not a gunner
		"hero_field_level_gunner",
		"hero_field_mana_gunner_bertha",
		"set_primary_gunner",
		"search_page_0",
		"search_page_x",
		"party_mode_ranked",
		"party_players_5",
		"party_players_0",
		"party_accept_a1b2c3_notanumber_bertha",
		"party_accept_a1b2c3_12345",
		"totally_unknown",
	} {
		t.Run(data, func(t *testing.T) {
			_, ok := ParseAction(data)
			assert.False(t, ok)
		})
	}
}
