package format

import (
	"fmt"

	tele "gopkg.in/telebot.v3"

	"party-finder-bot/internal/catalog"
	"party-finder-bot/internal/model"
)

func backBtn(markup *tele.ReplyMarkup, lang model.Language, target string) tele.Btn {
	return markup.Data(pick(lang, "⬅️ Назад", "⬅️ Back"), target)
}

// MainReplyKeyboard is the persistent reply keyboard registered users see.
func MainReplyKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(
			markup.Text(pick(lang, "ЛК", "Profile")),
			markup.Text(pick(lang, "Герои", "Heroes")),
		),
		markup.Row(
			markup.Text(pick(lang, "Поиск", "Search")),
			markup.Text(pick(lang, "Настройки", "Settings")),
		),
	)
	return markup
}

// LanguageKeyboard offers the two display languages. The current one is
// checkmarked.
func LanguageKeyboard(current model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	ru, en := "Русский", "English"
	if current.IsRU() {
		ru += " ✅"
	} else {
		en += " ✅"
	}
	markup.Inline(markup.Row(
		markup.Data(ru, "lang_RU"),
		markup.Data(en, "lang_EN"),
	))
	return markup
}

// ProfileKeyboard is shown under the profile card.
func ProfileKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data(pick(lang, "Редактировать профиль", "Edit Profile"), "profile_edit"),
		backBtn(markup, lang, "menu_main"),
	))
	return markup
}

// ProfileEditKeyboard lists every editable profile field.
func ProfileEditKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	var current []tele.Btn
	for _, field := range model.ProfileFields {
		current = append(current, markup.Data(FieldLabel(field, lang), "profile_edit_"+string(field)))
		if len(current) == 2 {
			rows = append(rows, markup.Row(current...))
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, markup.Row(current...))
	}
	rows = append(rows, markup.Row(backBtn(markup, lang, "menu_profile")))
	markup.Inline(rows...)
	return markup
}

// HeroClassesKeyboard lists the hero classes.
func HeroClassesKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, class := range catalog.Classes {
		rows = append(rows, markup.Row(markup.Data(class.Name.In(lang), "heroes_class_"+class.ID)))
	}
	rows = append(rows, markup.Row(backBtn(markup, lang, "menu_main")))
	markup.Inline(rows...)
	return markup
}

// ClassHeroesKeyboard lists the user's heroes of one class plus the add
// button.
func ClassHeroesKeyboard(classID string, heroes []*model.Hero, lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, hero := range heroes {
		label := fmt.Sprintf("%s (%s %d)",
			catalog.HeroName(hero.ClassID, hero.HeroID, lang), pick(lang, "ур.", "lvl."), hero.Level)
		rows = append(rows, markup.Row(markup.Data(label, fmt.Sprintf("heroes_edit_%s_%s", hero.ClassID, hero.HeroID))))
	}
	rows = append(rows, markup.Row(
		markup.Data(pick(lang, "Добавить героя", "Add Hero"), "heroes_add_"+classID),
		backBtn(markup, lang, "menu_heroes"),
	))
	markup.Inline(rows...)
	return markup
}

// AddHeroKeyboard lists catalog heroes of a class the user has not added
// yet.
func AddHeroKeyboard(classID string, owned map[string]bool, lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	if class := catalog.ClassByID(classID); class != nil {
		for _, hero := range class.Heroes {
			if owned[hero.ID] {
				continue
			}
			rows = append(rows, markup.Row(markup.Data(hero.Name.In(lang), fmt.Sprintf("heroes_add_confirm_%s_%s", classID, hero.ID))))
		}
	}
	rows = append(rows, markup.Row(backBtn(markup, lang, "heroes_class_"+classID)))
	markup.Inline(rows...)
	return markup
}

// HeroDetailKeyboard edits one hero: a button per stat, set-primary, back.
func HeroDetailKeyboard(classID, heroID string, lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	var current []tele.Btn
	for _, field := range model.HeroFields {
		current = append(current, markup.Data(HeroFieldLabel(field, lang),
			fmt.Sprintf("hero_field_%s_%s_%s", field, classID, heroID)))
		if len(current) == 2 {
			rows = append(rows, markup.Row(current...))
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, markup.Row(current...))
	}
	rows = append(rows,
		markup.Row(markup.Data(pick(lang, "⭐ Сделать основным", "⭐ Set primary"),
			fmt.Sprintf("set_primary_%s_%s", classID, heroID))),
		markup.Row(backBtn(markup, lang, "heroes_class_"+classID)),
	)
	markup.Inline(rows...)
	return markup
}

// SearchMenuKeyboard chooses between global search and party search.
func SearchMenuKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data(pick(lang, "Глобальный поиск", "Global search"), "menu_global_search"),
		markup.Data(pick(lang, "Поиск пати", "Party search"), "menu_party_search"),
	))
	return markup
}

// SearchFieldKeyboard lists the searchable user attributes.
func SearchFieldKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, field := range model.SearchFields {
		rows = append(rows, markup.Row(markup.Data(SearchFieldLabel(field, lang), "search_field_"+string(field))))
	}
	rows = append(rows, markup.Row(backBtn(markup, lang, "menu_search")))
	markup.Inline(rows...)
	return markup
}

// SearchPageKeyboard pages through search results.
func SearchPageKeyboard(page, pages int, lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var nav []tele.Btn
	if page > 1 {
		nav = append(nav, markup.Data("⬅️", fmt.Sprintf("search_page_%d", page-1)))
	}
	if page < pages {
		nav = append(nav, markup.Data("➡️", fmt.Sprintf("search_page_%d", page+1)))
	}
	var rows []tele.Row
	if len(nav) > 0 {
		rows = append(rows, markup.Row(nav...))
	}
	rows = append(rows, markup.Row(backBtn(markup, lang, "menu_search")))
	markup.Inline(rows...)
	return markup
}

// GameModeKeyboard starts the party wizard.
func GameModeKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data(GameModeLabel(model.ModeBattleRoyale, lang), "party_mode_battle_royale"),
			markup.Data(GameModeLabel(model.ModeTeamVsTeam, lang), "party_mode_team_vs_team"),
		),
		markup.Row(
			markup.Data(GameModeLabel(model.ModeArcade, lang), "party_mode_arcade"),
			markup.Data(GameModeLabel(model.ModeSabotage, lang), "party_mode_sabotage"),
		),
		markup.Row(markup.Data(GameModeLabel(model.ModeTeamDeathmatch, lang), "party_mode_team_deathmatch")),
		markup.Row(backBtn(markup, lang, "menu_search")),
	)
	return markup
}

// PlayerCountKeyboard asks how many applicants an arcade party needs.
func PlayerCountKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("1", "party_players_1"),
			markup.Data("2", "party_players_2"),
			markup.Data("3", "party_players_3"),
			markup.Data("4", "party_players_4"),
		),
		markup.Row(backBtn(markup, lang, "menu_party_search")),
	)
	return markup
}

// PartyClassKeyboard picks the class the organizer will play.
func PartyClassKeyboard(lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, class := range catalog.Classes {
		rows = append(rows, markup.Row(markup.Data(class.Name.In(lang), "party_class_"+class.ID)))
	}
	rows = append(rows, markup.Row(backBtn(markup, lang, "menu_party_search")))
	markup.Inline(rows...)
	return markup
}

// PartyHeroKeyboard picks the organizer's hero among their roster.
func PartyHeroKeyboard(heroes []*model.Hero, lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, hero := range heroes {
		label := fmt.Sprintf("%s (%s %d)",
			catalog.HeroName(hero.ClassID, hero.HeroID, lang), pick(lang, "ур.", "lvl."), hero.Level)
		rows = append(rows, markup.Row(markup.Data(label, fmt.Sprintf("party_hero_%s_%s", hero.ClassID, hero.HeroID))))
	}
	rows = append(rows, markup.Row(backBtn(markup, lang, "menu_party_search")))
	markup.Inline(rows...)
	return markup
}

// ApplicationKeyboard lets the organizer decide on one application.
func ApplicationKeyboard(shortID string, applicantID int64, heroID string, lang model.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data(pick(lang, "✅ Принять", "✅ Accept"),
			fmt.Sprintf("party_accept_%s_%d_%s", shortID, applicantID, heroID)),
		markup.Data(pick(lang, "❌ Отклонить", "❌ Reject"),
			fmt.Sprintf("party_reject_%s_%d_%s", shortID, applicantID, heroID)),
	))
	return markup
}
