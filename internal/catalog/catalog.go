// Package catalog holds the static hero and class roster with EN/RU
// display names, and resolves free-text hero names back to identifiers.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"party-finder-bot/internal/model"
)

// Name is a bilingual display name.
type Name struct {
	EN string
	RU string
}

// In returns the name in the given language.
func (n Name) In(lang model.Language) string {
	if lang.IsRU() {
		return n.RU
	}
	return n.EN
}

// Class is one hero class with its heroes in display order.
type Class struct {
	ID     string
	Name   Name
	Heroes []HeroEntry
}

// HeroEntry is one hero in the static roster.
type HeroEntry struct {
	ID   string
	Name Name
}

// Classes is the full roster, in menu order.
var Classes = []Class{
	{
		ID:   "enforcer",
		Name: Name{EN: "ENFORCER", RU: "КАРАТЕЛЬ"},
		Heroes: []HeroEntry{
			{ID: "sparkle", Name: Name{EN: "SPARKLE", RU: "ИСКРА"}},
			{ID: "arnie", Name: Name{EN: "ARNIE", RU: "АРНИ"}},
			{ID: "cyclops", Name: Name{EN: "CYCLOPS", RU: "ЦИКЛОП"}},
			{ID: "hurricane", Name: Name{EN: "HURRICANE", RU: "УРАГАН"}},
			{ID: "shenji", Name: Name{EN: "SHENJI", RU: "ШЕНДЖИ"}},
			{ID: "molly", Name: Name{EN: "MOLLY", RU: "МОЛЛИ"}},
		},
	},
	{
		ID:   "scout",
		Name: Name{EN: "SCOUT", RU: "РАЗВЕДЧИК"},
		Heroes: []HeroEntry{
			{ID: "ghost", Name: Name{EN: "GHOST", RU: "ПРИЗРАК"}},
			{ID: "angel", Name: Name{EN: "ANGEL", RU: "АНГЕЛ"}},
			{ID: "raven", Name: Name{EN: "RAVEN", RU: "ВОРОН"}},
			{ID: "alice", Name: Name{EN: "ALICE", RU: "АЛИСА"}},
			{ID: "twinkle", Name: Name{EN: "TWINKLE", RU: "ТВИНКЛ"}},
			{ID: "freddie", Name: Name{EN: "FREDDIE", RU: "ФРЕДДИ"}},
		},
	},
	{
		ID:   "sniper",
		Name: Name{EN: "SNIPER", RU: "СНАЙПЕР"},
		Heroes: []HeroEntry{
			{ID: "firefly", Name: Name{EN: "FIREFLY", RU: "ОГОНЕК"}},
			{ID: "slayer", Name: Name{EN: "SLAYER", RU: "ГУБИТЕЛЬ"}},
			{ID: "mirage", Name: Name{EN: "MIRAGE", RU: "МИРАЖ"}},
			{ID: "lynx", Name: Name{EN: "LYNX", RU: "ЛИНКС"}},
			{ID: "blizzard", Name: Name{EN: "BLIZZARD", RU: "ВЬЮГА"}},
			{ID: "blot", Name: Name{EN: "BLOT", RU: "БЛОТ"}},
		},
	},
	{
		ID:   "gunner",
		Name: Name{EN: "GUNNER", RU: "ПУЛЕМЕТЧИК"},
		Heroes: []HeroEntry{
			{ID: "smog", Name: Name{EN: "SMOG", RU: "СМОГ"}},
			{ID: "bastion", Name: Name{EN: "BASTION", RU: "БАСТИОН"}},
			{ID: "leviathan", Name: Name{EN: "LEVIATHAN", RU: "ЛЕВИАФАН"}},
			{ID: "ramsay", Name: Name{EN: "RAMSAY", RU: "РАМЗИ"}},
			{ID: "dragoon", Name: Name{EN: "DRAGOON", RU: "ДРАГУН"}},
			{ID: "bertha", Name: Name{EN: "BERTHA", RU: "БЕРТА"}},
			{ID: "kwon", Name: Name{EN: "KWON", RU: "КВОН"}},
		},
	},
	{
		ID:   "trooper",
		Name: Name{EN: "TROOPER", RU: "ШТУРМОВИК"},
		Heroes: []HeroEntry{
			{ID: "doc", Name: Name{EN: "DOC", RU: "ДОК"}},
			{ID: "satoshi", Name: Name{EN: "SATOSHI", RU: "САТОШИ"}},
			{ID: "tess", Name: Name{EN: "TESS", RU: "ТЕСС"}},
			{ID: "vi", Name: Name{EN: "VI", RU: "ВИ"}},
			{ID: "stalker", Name: Name{EN: "STALKER", RU: "СТАЛКЕР"}},
			{ID: "levi", Name: Name{EN: "LEVI", RU: "ЛЕВИ"}},
		},
	},
}

// Ref identifies one hero in the roster.
type Ref struct {
	ClassID string
	HeroID  string
}

var (
	byClass = make(map[string]*Class)
	byRef   = make(map[Ref]Name)
	byName  = make(map[string]Ref)
)

func init() {
	for i := range Classes {
		c := &Classes[i]
		byClass[c.ID] = c
		for _, h := range c.Heroes {
			ref := Ref{ClassID: c.ID, HeroID: h.ID}
			byRef[ref] = h.Name
			byName[normalizeName(h.Name.EN)] = ref
			byName[normalizeName(h.Name.RU)] = ref
		}
	}
}

// ClassByID returns the class with the given id, or nil.
func ClassByID(classID string) *Class {
	return byClass[classID]
}

// ClassName returns the display name for a class id, falling back to the
// id itself for unknown classes.
func ClassName(classID string, lang model.Language) string {
	if c := byClass[classID]; c != nil {
		return c.Name.In(lang)
	}
	return classID
}

// HeroName returns the display name for a hero, falling back to the hero
// id for unknown heroes.
func HeroName(classID, heroID string, lang model.Language) string {
	if n, ok := byRef[Ref{ClassID: classID, HeroID: heroID}]; ok {
		return n.In(lang)
	}
	return heroID
}

// HeroExists reports whether the roster contains the given hero.
func HeroExists(classID, heroID string) bool {
	_, ok := byRef[Ref{ClassID: classID, HeroID: heroID}]
	return ok
}

// ResolveHeroName resolves a free-text hero name, case-insensitively and
// across both languages, to its roster identifiers.
func ResolveHeroName(input string) (Ref, bool) {
	ref, ok := byName[normalizeName(input)]
	return ref, ok
}

// normalizeName folds case, collapses inner whitespace and strips
// combining marks so that user-typed names match roster names.
func normalizeName(s string) string {
	s = norm.NFKD.String(strings.TrimSpace(s))
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark, dropped
		case unicode.IsSpace(r):
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
