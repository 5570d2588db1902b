package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"canonical", "2f34b7d2-54a4-4f3c-8493-33f1a0b4d2f1", true},
		{"uppercase", "2F34B7D2-54A4-4F3C-8493-33F1A0B4D2F1", true},
		{"empty", "", false},
		{"too short", "2f34b7d2-54a4-4f3c-8493", false},
		{"not hex", "zf34b7d2-54a4-4f3c-8493-33f1a0b4d2f1", false},
		{"braced form rejected", "{2f34b7d2-54a4-4f3c-8493-33f1a0b4d2f}", false},
		{"random text", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUUID(tt.input))
		})
	}
}

func TestIsIP(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"ipv4", "192.168.0.10", true},
		{"ipv6", "2001:db8::68", true},
		{"octet out of range", "256.1.1.1", false},
		{"hostname", "charger.local", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIP(tt.input))
		})
	}
}

func TestUnknownFields(t *testing.T) {
	allowed := []string{"name", "priority", "charging_station_id"}

	t.Run("subset passes", func(t *testing.T) {
		fields := map[string]any{"priority": true}
		assert.Empty(t, UnknownFields(allowed, fields))
	})

	t.Run("empty payload passes", func(t *testing.T) {
		assert.Empty(t, UnknownFields(allowed, map[string]any{}))
	})

	t.Run("immutable field rejected", func(t *testing.T) {
		fields := map[string]any{"id": "x", "priority": true}
		assert.Equal(t, []string{"id"}, UnknownFields(allowed, fields))
	})

	t.Run("unknown fields sorted", func(t *testing.T) {
		fields := map[string]any{"zz": 1, "aa": 2}
		assert.Equal(t, []string{"aa", "zz"}, UnknownFields(allowed, fields))
	})
}
