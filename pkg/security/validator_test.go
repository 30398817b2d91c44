package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValidator(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"single char", "a", false},
		{"exactly max", strings.Repeat("x", 300), false},
		{"multibyte counted as runes", strings.Repeat("好", 300), false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", 301), true},
		{"control char", "hi\x00there", true},
		{"newline allowed", "line one\nline two", false},
		{"markup kept as is", "<b>bold</b>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PostContent.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNicknameValidator(t *testing.T) {
	assert.NoError(t, Nickname.Validate("alice"))
	assert.Error(t, Nickname.Validate(strings.Repeat("n", 33)))
}
