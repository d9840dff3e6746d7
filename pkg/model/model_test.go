package model

import (
	"strings"
	"testing"
)

func TestStatusValid(t *testing.T) {
	tests := []struct {
		name  string
		input Status
		want  bool
	}{
		{"online", StatusOnline, true},
		{"invisible", StatusInvisible, true},
		{"away", StatusAway, true},
		{"busy", StatusBusy, true},
		{"offline", StatusOffline, true},
		{"empty", Status(""), false},
		{"uppercase", Status("Online"), false},
		{"unknown", Status("sleeping"), false},
		{"whitespace", Status(" online"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Valid(); got != tt.want {
				t.Errorf("Status(%q).Valid() = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("busy")
	if err != nil {
		t.Fatalf("ParseStatus(busy): %v", err)
	}
	if s != StatusBusy {
		t.Errorf("ParseStatus(busy) = %q, want %q", s, StatusBusy)
	}

	if _, err := ParseStatus("BUSY"); err != ErrInvalidStatus {
		t.Errorf("ParseStatus(BUSY) err = %v, want ErrInvalidStatus", err)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid simple", "alice", nil},
		{"valid with space", "John Doe", nil},
		{"valid with digits", "user123", nil},
		{"valid max length", strings.Repeat("a", MaxNameLength), nil},
		{"empty", "", ErrNameEmpty},
		{"too long", strings.Repeat("a", MaxNameLength+1), ErrNameTooLong},
		{"colon", "a:b", ErrNameInvalidChars},
		{"comma", "a,b", ErrNameInvalidChars},
		{"newline", "a\nb", ErrNameInvalidChars},
		{"null byte", "a\x00b", ErrNameInvalidChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateName(tt.input); err != tt.wantErr {
				t.Errorf("ValidateName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
