package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeckTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		language, difficulty, want string
	}{
		{"spanish", "", "Spanish vocabulary"},
		{"spanish", "beginner", "Spanish vocabulary (beginner)"},
		{"german", "expert", "German vocabulary"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, deckTitle(tt.language, tt.difficulty))
	}
}
