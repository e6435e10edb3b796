package catalog

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"party-finder-bot/internal/model"
)

func TestClassByID(t *testing.T) {
	for _, class := range Classes {
		got := ClassByID(class.ID)
		require.NotNil(t, got)
		assert.Equal(t, class.ID, got.ID)
	}
	assert.Nil(t, ClassByID("warlock"))
}

func TestHeroName(t *testing.T) {
	assert.Equal(t, "ИСКРА", HeroName("enforcer", "sparkle", model.LangRU))
	assert.Equal(t, "SPARKLE", HeroName("enforcer", "sparkle", model.LangEN))
	assert.Equal(t, "no_such", HeroName("enforcer", "no_such", model.LangEN))
}

func TestResolveHeroNameUnknown(t *testing.T) {
	for _, input := range []string{"", "nobody", "спаркл", "sparkle extra"} {
		_, ok := ResolveHeroName(input)
		assert.False(t, ok, "input %q", input)
	}
}

// Every roster name must resolve back to its own identifiers regardless
// of letter case or surrounding whitespace, in both languages.
func TestResolveHeroNameRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		class := rapid.SampledFrom(Classes).Draw(t, "class")
		hero := rapid.SampledFrom(class.Heroes).Draw(t, "hero")

		name := hero.Name.EN
		if rapid.Bool().Draw(t, "russian") {
			name = hero.Name.RU
		}

		// Randomize the case letter by letter.
		var b strings.Builder
		for _, r := range name {
			if rapid.Bool().Draw(t, "upper") {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
		}
		input := b.String()
		if rapid.Bool().Draw(t, "pad") {
			input = "  " + input + " "
		}

		ref, ok := ResolveHeroName(input)
		if !ok {
			t.Fatalf("name %q did not resolve", input)
		}
		if ref.ClassID != class.ID || ref.HeroID != hero.ID {
			t.Fatalf("name %q resolved to %s/%s, want %s/%s",
				input, ref.ClassID, ref.HeroID, class.ID, hero.ID)
		}
	})
}

// Hero ids must be unique across classes, or the roster cannot resolve
// names unambiguously.
func TestHeroIDsUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, class := range Classes {
		for _, hero := range class.Heroes {
			if prev, ok := seen[hero.ID]; ok {
				t.Errorf("hero id %q appears in both %s and %s", hero.ID, prev, class.ID)
			}
			seen[hero.ID] = class.ID
			assert.NotContains(t, hero.ID, "_")
		}
		assert.NotContains(t, class.ID, "_")
	}
}
