package mobilesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid lowercase", "64b0a1a1a1a1a1a1a1a1a1a1", true},
		{"valid uppercase", "64B0A1A1A1A1A1A1A1A1A1A1", true},
		{"too short", "64b0a1a1a1a1a1a1a1a1a1a", false},
		{"too long", "64b0a1a1a1a1a1a1a1a1a1a1a", false},
		{"non-hex characters", "64b0a1a1a1a1a1a1a1a1a1gz", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidObjectID(tt.id))
		})
	}
}

func TestValidateTimeFormat(t *testing.T) {
	tests := []struct {
		name string
		time string
		want bool
	}{
		{"padded", "08:30", true},
		{"unpadded hour", "8:30", true},
		{"midnight", "0:00", true},
		{"last minute", "23:59", true},
		{"hour out of range", "24:00", false},
		{"minute out of range", "12:60", false},
		{"missing minutes", "12", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateTimeFormat(tt.time))
		})
	}
}

func TestValidateTimeLogic(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		isFullDay bool
		wantOK    bool
	}{
		{"ordered pair", "08:00", "16:00", false, true},
		{"inverted pair", "16:00", "08:00", false, false},
		{"equal pair", "08:00", "08:00", false, false},
		{"inverted but full day", "16:00", "08:00", true, true},
		{"bad start format", "8am", "16:00", false, false},
		{"bad end format", "08:00", "sixteen", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateTimeLogic(tt.start, tt.end, tt.isFullDay)
			if tt.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2026-03-02"))
	assert.False(t, IsValidDate("2026-13-02"))
	assert.False(t, IsValidDate("02/03/2026"))
	assert.False(t, IsValidDate(""))
}
