package bot

import (
	"strconv"
	"strings"

	"party-finder-bot/internal/catalog"
	"party-finder-bot/internal/model"
)

// Action is a parsed callback payload. Parsing happens once, at the
// dispatch boundary; handlers only ever see a typed action.
type Action interface {
	isAction()
}

// MenuAction opens a named menu.
type MenuAction struct {
	Menu string
}

// Menu names carried by MenuAction.
const (
	MenuMain         = "main"
	MenuProfile      = "profile"
	MenuHeroes       = "heroes"
	MenuSearch       = "search"
	MenuSettings     = "settings"
	MenuGlobalSearch = "global_search"
	MenuPartySearch  = "party_search"
)

// LanguageAction switches the display language.
type LanguageAction struct {
	Lang model.Language
}

// ProfileEditMenuAction opens the profile field chooser.
type ProfileEditMenuAction struct{}

// ProfileEditFieldAction starts editing one profile field.
type ProfileEditFieldAction struct {
	Field model.ProfileField
}

// HeroClassAction lists the user's heroes of one class.
type HeroClassAction struct {
	ClassID string
}

// HeroAddMenuAction lists catalog heroes available to add.
type HeroAddMenuAction struct {
	ClassID string
}

// HeroAddConfirmAction adds one catalog hero.
type HeroAddConfirmAction struct {
	ClassID string
	HeroID  string
}

// HeroEditAction opens one hero's stats view.
type HeroEditAction struct {
	ClassID string
	HeroID  string
}

// HeroFieldAction starts editing one hero stat.
type HeroFieldAction struct {
	Field   model.HeroField
	ClassID string
	HeroID  string
}

// SetPrimaryAction marks a hero as the class primary.
type SetPrimaryAction struct {
	ClassID string
	HeroID  string
}

// SearchFieldAction picks the attribute for the global search.
type SearchFieldAction struct {
	Field model.SearchField
}

// SearchPageAction flips to another results page.
type SearchPageAction struct {
	Page int
}

// PartyModeAction picks the game mode in the party wizard.
type PartyModeAction struct {
	Mode model.GameMode
}

// PartyPlayersAction picks the applicant count for an arcade party.
type PartyPlayersAction struct {
	Count int
}

// PartyClassAction picks the organizer's class in the party wizard.
type PartyClassAction struct {
	ClassID string
}

// PartyHeroAction picks the organizer's hero and finishes the wizard.
type PartyHeroAction struct {
	ClassID string
	HeroID  string
}

// PartyDecisionAction is the organizer accepting or rejecting an
// application.
type PartyDecisionAction struct {
	Accept      bool
	ShortID     string
	ApplicantID int64
	HeroID      string
}

func (MenuAction) isAction()             {}
func (LanguageAction) isAction()         {}
func (ProfileEditMenuAction) isAction()  {}
func (ProfileEditFieldAction) isAction() {}
func (HeroClassAction) isAction()        {}
func (HeroAddMenuAction) isAction()      {}
func (HeroAddConfirmAction) isAction()   {}
func (HeroEditAction) isAction()         {}
func (HeroFieldAction) isAction()        {}
func (SetPrimaryAction) isAction()       {}
func (SearchFieldAction) isAction()      {}
func (SearchPageAction) isAction()       {}
func (PartyModeAction) isAction()        {}
func (PartyPlayersAction) isAction()     {}
func (PartyClassAction) isAction()       {}
func (PartyHeroAction) isAction()        {}
func (PartyDecisionAction) isAction()    {}

var menuNames = map[string]bool{
	MenuMain:         true,
	MenuProfile:      true,
	MenuHeroes:       true,
	MenuSearch:       true,
	MenuSettings:     true,
	MenuGlobalSearch: true,
	MenuPartySearch:  true,
}

// classHero splits a "<class>_<hero>" payload tail. Class ids never
// contain underscores.
func classHero(s string) (string, string, bool) {
	classID, heroID, ok := strings.Cut(s, "_")
	if !ok || classID == "" || heroID == "" {
		return "", "", false
	}
	if !catalog.HeroExists(classID, heroID) {
		return "", "", false
	}
	return classID, heroID, true
}

// ParseAction parses one callback payload. Unknown or malformed payloads
// return false; the dispatcher answers those with a menu hint.
func ParseAction(data string) (Action, bool) {
	switch {
	case strings.HasPrefix(data, "menu_"):
		menu := strings.TrimPrefix(data, "menu_")
		if !menuNames[menu] {
			return nil, false
		}
		return MenuAction{Menu: menu}, true

	case data == "lang_EN":
		return LanguageAction{Lang: model.LangEN}, true
	case data == "lang_RU":
		return LanguageAction{Lang: model.LangRU}, true

	case data == "profile_edit":
		return ProfileEditMenuAction{}, true
	case strings.HasPrefix(data, "profile_edit_"):
		field := strings.TrimPrefix(data, "profile_edit_")
		if !model.ValidProfileField(field) {
			return nil, false
		}
		return ProfileEditFieldAction{Field: model.ProfileField(field)}, true

	case strings.HasPrefix(data, "heroes_class_"):
		classID := strings.TrimPrefix(data, "heroes_class_")
		if catalog.ClassByID(classID) == nil {
			return nil, false
		}
		return HeroClassAction{ClassID: classID}, true

	case strings.HasPrefix(data, "heroes_add_confirm_"):
		classID, heroID, ok := classHero(strings.TrimPrefix(data, "heroes_add_confirm_"))
		if !ok {
			return nil, false
		}
		return HeroAddConfirmAction{ClassID: classID, HeroID: heroID}, true

	case strings.HasPrefix(data, "heroes_add_"):
		classID := strings.TrimPrefix(data, "heroes_add_")
		if catalog.ClassByID(classID) == nil {
			return nil, false
		}
		return HeroAddMenuAction{ClassID: classID}, true

	case strings.HasPrefix(data, "heroes_edit_"):
		classID, heroID, ok := classHero(strings.TrimPrefix(data, "heroes_edit_"))
		if !ok {
			return nil, false
		}
		return HeroEditAction{ClassID: classID, HeroID: heroID}, true

	case strings.HasPrefix(data, "hero_field_"):
		rest := strings.TrimPrefix(data, "hero_field_")
		// Field names contain underscores, so try each known field.
		for _, field := range model.HeroFields {
			prefix := string(field) + "_"
			if !strings.HasPrefix(rest, prefix) {
				continue
			}
			classID, heroID, ok := classHero(strings.TrimPrefix(rest, prefix))
			if !ok {
				return nil, false
			}
			return HeroFieldAction{Field: field, ClassID: classID, HeroID: heroID}, true
		}
		return nil, false

	case strings.HasPrefix(data, "set_primary_"):
		classID, heroID, ok := classHero(strings.TrimPrefix(data, "set_primary_"))
		if !ok {
			return nil, false
		}
		return SetPrimaryAction{ClassID: classID, HeroID: heroID}, true

	case strings.HasPrefix(data, "search_field_"):
		field := strings.TrimPrefix(data, "search_field_")
		if !model.ValidSearchField(field) {
			return nil, false
		}
		return SearchFieldAction{Field: model.SearchField(field)}, true

	case strings.HasPrefix(data, "search_page_"):
		page, err := strconv.Atoi(strings.TrimPrefix(data, "search_page_"))
		if err != nil || page < 1 {
			return nil, false
		}
		return SearchPageAction{Page: page}, true

	case strings.HasPrefix(data, "party_mode_"):
		mode := strings.TrimPrefix(data, "party_mode_")
		if !model.ValidGameMode(mode) {
			return nil, false
		}
		return PartyModeAction{Mode: model.GameMode(mode)}, true

	case strings.HasPrefix(data, "party_players_"):
		count, err := strconv.Atoi(strings.TrimPrefix(data, "party_players_"))
		if err != nil || count < 1 || count > 4 {
			return nil, false
		}
		return PartyPlayersAction{Count: count}, true

	case strings.HasPrefix(data, "party_class_"):
		classID := strings.TrimPrefix(data, "party_class_")
		if catalog.ClassByID(classID) == nil {
			return nil, false
		}
		return PartyClassAction{ClassID: classID}, true

	case strings.HasPrefix(data, "party_hero_"):
		classID, heroID, ok := classHero(strings.TrimPrefix(data, "party_hero_"))
		if !ok {
			return nil, false
		}
		return PartyHeroAction{ClassID: classID, HeroID: heroID}, true

	case strings.HasPrefix(data, "party_accept_"):
		return parseDecision(strings.TrimPrefix(data, "party_accept_"), true)
	case strings.HasPrefix(data, "party_reject_"):
		return parseDecision(strings.TrimPrefix(data, "party_reject_"), false)
	}
	return nil, false
}

func parseDecision(rest string, accept bool) (Action, bool) {
	parts := strings.SplitN(rest, "_", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return nil, false
	}
	applicantID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, false
	}
	return PartyDecisionAction{
		Accept:      accept,
		ShortID:     parts[0],
		ApplicantID: applicantID,
		HeroID:      parts[2],
	}, true
}
