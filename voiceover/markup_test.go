package voiceover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		markup    string
		wantText  string
		wantMarks []Mark
	}{
		{"plain", "  a  squared\nplus b ", "a squared plus b", nil},
		{"double quotes", `Let <bookmark mark="A"/>a be`, "Let a be", []Mark{{"A", 1}}},
		{"single quotes", `x <bookmark mark='B' /> y`, "x y", []Mark{{"B", 1}}},
		{"leading", `<bookmark mark="start"/>Now`, "Now", []Mark{{"start", 0}}},
		{"trailing", `done <bookmark mark="end"/>`, "done", []Mark{{"end", 1}}},
		{"several", `one <bookmark mark="A"/> two three <bookmark mark="B"/> four`,
			"one two three four", []Mark{{"A", 1}, {"B", 3}}},
		{"empty", "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, marks, err := Parse(tt.markup)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantMarks, marks)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, _, err := Parse(`a <bookmark mark="A"> b`)
	assert.ErrorIs(t, err, ErrMalformedMarkup)

	_, _, err = Parse(`a <bookmark name="A"/> b`)
	assert.ErrorIs(t, err, ErrMalformedMarkup)

	_, _, err = Parse(`a <bookmark mark="A"/> b <bookmark mark="A"/>`)
	assert.ErrorIs(t, err, ErrDuplicateBookmark)
}
