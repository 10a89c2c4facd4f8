package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBookingWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"exactly one hour", "10:00", "11:00", false},
		{"exactly eight hours", "08:00", "16:00", false},
		{"ninety minutes", "10:00", "11:30", false},
		{"below minimum", "10:00", "10:30", true},
		{"above maximum", "08:00", "16:30", true},
		{"inverted window", "11:00", "10:00", true},
		{"zero duration", "10:00", "10:00", true},
		{"malformed clock", "10h00", "11:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBookingWindow(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
