// Package format renders bot messages and keyboards. Every function is
// pure: records plus a language in, text or markup out.
package format

import (
	"fmt"
	"strings"
	"time"

	"party-finder-bot/internal/catalog"
	"party-finder-bot/internal/model"
)

const divider = "➖➖➖➖➖➖➖➖➖➖➖"
const partyDivider = "➖➖➖➖➖➖➖➖➖➖➖➖➖"

// Percentage renders a win percentage with two decimals. Russian output
// uses a comma separator.
func Percentage(value float64, lang model.Language) string {
	s := fmt.Sprintf("%.2f", value)
	if lang.IsRU() {
		return strings.ReplaceAll(s, ".", ",")
	}
	return s
}

// DateTime renders a timestamp, dd.mm.yyyy for Russian and mm/dd/yyyy
// otherwise.
func DateTime(t time.Time, lang model.Language) string {
	if lang.IsRU() {
		return t.Format("02.01.2006 15:04")
	}
	return t.Format("01/02/2006 15:04")
}

func orText(value *string, lang model.Language) string {
	if value == nil || *value == "" {
		return NotSpecified(lang)
	}
	return *value
}

// genderDisplay collapses free-form gender input to a one-letter display.
func genderDisplay(gender *string, lang model.Language) string {
	if gender == nil {
		return NotSpecified(lang)
	}
	switch strings.ToLower(strings.TrimSpace(*gender)) {
	case "male", "m", "мужской", "м":
		return pick(lang, "М", "M")
	case "female", "f", "женский", "ж":
		return pick(lang, "Ж", "F")
	default:
		return NotSpecified(lang)
	}
}

// ProfileText renders a user's profile card.
func ProfileText(user *model.User, lang model.Language) string {
	age := NotSpecified(lang)
	if user.Age != nil {
		age = fmt.Sprintf("%d", *user.Age)
	}
	telegram := fmt.Sprintf("%d", user.TelegramID)
	if user.TelegramUsername != nil && *user.TelegramUsername != "" {
		telegram = "@" + *user.TelegramUsername
	}

	lines := []string{
		fmt.Sprintf("%s, %s, %s %s", orText(user.Name, lang), genderDisplay(user.Gender, lang), age, pick(lang, "лет", "years")),
		fmt.Sprintf("%s, %s", orText(user.Country, lang), orText(user.City, lang)),
		"Telegram: " + telegram,
		fmt.Sprintf("%s: %s", FieldLabel(model.FieldNickname, lang), orText(user.Nickname, lang)),
		fmt.Sprintf("%s: <code>%s</code>", FieldLabel(model.FieldGameUserID, lang), orText(user.GameUserID, lang)),
		fmt.Sprintf("%s: %d", FieldLabel(model.FieldTrophies, lang), user.Trophies),
		fmt.Sprintf("%s: %d", FieldLabel(model.FieldValorPath, lang), user.ValorPath),
		fmt.Sprintf("%s: %s", FieldLabel(model.FieldSyndicate, lang), orText(user.Syndicate, lang)),
	}
	return strings.Join(lines, "\n")
}

// HeroBlock renders one hero's full stats block.
func HeroBlock(hero *model.Hero, lang model.Language) string {
	star := ""
	if hero.IsPrimary {
		star = "⭐ "
	}
	name := catalog.HeroName(hero.ClassID, hero.HeroID, lang)
	return fmt.Sprintf("%s🦸 %s %s %d, ✊ %d, ⚔️ %s%%\n%s.: %d/%d/%d\n\n%s: %s",
		star, name, pick(lang, "ур.", "lvl."), hero.Level, hero.Strength, Percentage(hero.WinPercentage, lang),
		pick(lang, "Битвы/Убито/Воскр", "Battles/Killed/Rev"),
		hero.BattlesPlayed, hero.HeroesKilled, hero.HeroesRevived,
		pick(lang, "Обновлено", "Updated"), DateTime(hero.UpdatedAt, lang))
}

// HeroesText renders a user's heroes of one class.
func HeroesText(classID string, heroes []*model.Hero, lang model.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n\n", pick(lang, "Класс", "Class"), catalog.ClassName(classID, lang))
	if len(heroes) == 0 {
		b.WriteString(pick(lang, "У вас нет героев этого класса.", "You have no heroes of this class."))
		return b.String()
	}
	for i, hero := range heroes {
		b.WriteString(HeroBlock(hero, lang))
		if i < len(heroes)-1 {
			b.WriteString("\n" + divider + "\n")
		}
	}
	return b.String()
}

// Member pairs a party member with the hero they bring.
type Member struct {
	User *model.User
	Hero *model.Hero
}

// rosterLine renders one numbered roster entry.
func rosterLine(index int, m Member, lang model.Language) string {
	name := catalog.HeroName(m.Hero.ClassID, m.Hero.HeroID, lang)
	return fmt.Sprintf("%d. %s | <code>%s</code> | 🏆 %d\n🦸 %s (%s %d, ✊ %d, ⚔️ %s%%)\n",
		index, orText(m.User.Nickname, lang), orText(m.User.GameUserID, lang), m.User.Trophies,
		name, pick(lang, "ур.", "lvl."), m.Hero.Level, m.Hero.Strength, Percentage(m.Hero.WinPercentage, lang))
}

// PartyMessage renders the group roster message. members[0] is the
// organizer; the rest are accepted applicants.
func PartyMessage(party *model.Party, members []Member, lang model.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n%s %d %s %d\n%s\n",
		pick(lang, "⚠️ Набор в пати", "⚠️ Recruiting for party"), GameModeLabel(party.GameMode, lang),
		pick(lang, "Собрано", "Collected"), len(members), pick(lang, "из", "out of"), party.PlayerCount,
		partyDivider)
	for i, m := range members {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rosterLine(i+1, m, lang))
	}
	return b.String()
}

// CompletedPartyMessage renders the final roster with a motivational
// quote once the party is assembled.
func CompletedPartyMessage(party *model.Party, members []Member, motivation string, lang model.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n\n<blockquote>%s</blockquote>\n\n",
		pick(lang, "✅ Пати на", "✅ Party for"), GameModeLabel(party.GameMode, lang),
		pick(lang, "собрана!", "is complete!"), motivation)
	for i, m := range members {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rosterLine(i+1, m, lang))
	}
	return b.String()
}

// ApplicationMessage renders the private notice an organizer receives
// about a new application.
func ApplicationMessage(applicant *model.User, hero *model.Hero, appliedAt time.Time, lang model.Language) string {
	name := catalog.HeroName(hero.ClassID, hero.HeroID, lang)
	heroText := strings.Join([]string{
		fmt.Sprintf("🦸 %s (%s %d, ✊ %d, ⚔️ %s%%)",
			name, pick(lang, "ур.", "lvl."), hero.Level, hero.Strength, Percentage(hero.WinPercentage, lang)),
		fmt.Sprintf("%s.: %d/%d/%d",
			pick(lang, "Битвы/Убито/Воскр", "Battles/Killed/Rev"),
			hero.BattlesPlayed, hero.HeroesKilled, hero.HeroesRevived),
		fmt.Sprintf("%s: %s", pick(lang, "Обновлено", "Updated"), DateTime(appliedAt, lang)),
	}, "\n")

	return strings.Join([]string{
		pick(lang, "⚠️ Новая заявка на вашу пати", "⚠️ New application for your party"),
		divider,
		ProfileText(applicant, lang),
		divider,
		heroText,
	}, "\n")
}

// SearchResults renders one page of global search results.
func SearchResults(page *SearchPageView, lang model.Language) string {
	if page.Total == 0 {
		return MsgNothingFound(lang)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d\n%s %d/%d\n",
		pick(lang, "Найдено", "Found"), page.Total,
		pick(lang, "Страница", "Page"), page.Page, page.Pages)
	for _, user := range page.Users {
		b.WriteString(divider + "\n")
		b.WriteString(ProfileText(user, lang) + "\n")
	}
	return b.String()
}

// SearchPageView is the slice of search results a page shows.
type SearchPageView struct {
	Users []*model.User
	Total int
	Page  int
	Pages int
}

// UserCard renders a profile together with the best hero per class, used
// by the /info group command.
func UserCard(user *model.User, heroes []*model.Hero, lang model.Language) string {
	var b strings.Builder
	b.WriteString(ProfileText(user, lang))
	for _, hero := range heroes {
		b.WriteString("\n" + divider + "\n")
		b.WriteString(HeroBlock(hero, lang))
	}
	return b.String()
}
