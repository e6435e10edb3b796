package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseApplication(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantHero string
		wantOK   bool
	}{
		{"russian prefix", "пати Берта", "Берта", true},
		{"english prefix", "party Bertha", "Bertha", true},
		{"uppercase prefix", "PARTY bertha", "bertha", true},
		{"multi word hero", "пати большая берта", "большая берта", true},
		{"extra spaces", "  party   bertha  ", "bertha", true},
		{"prefix only", "party", "", true},
		{"not an application", "hello there", "", false},
		{"prefix inside word", "partying bertha", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hero, ok := ParseApplication(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantHero, hero)
		})
	}
}
