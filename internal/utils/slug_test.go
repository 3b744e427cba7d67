package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Devworks Bootcamp", "devworks-bootcamp"},
		{"punctuation", "ModernTech, Inc!", "moderntech-inc"},
		{"accents", "Café Académie", "cafe-academie"},
		{"multiple spaces", "Dev  Central   Bootcamp", "dev-central-bootcamp"},
		{"leading and trailing", "  Codemasters  ", "codemasters"},
		{"numbers", "Bootcamp 101", "bootcamp-101"},
		{"only symbols", "!@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
