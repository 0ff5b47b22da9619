package core

import (
	"testing"
	"time"
)

func TestParsePublished(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"original layout", "2023-01-01 09:00:00", time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)},
		{"rfc3339", "2023-01-01T09:00:00Z", time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)},
		{"iso without zone", "2023-01-01T09:00:00", time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)},
		{"date only", "2023-01-02", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"surrounding spaces", "  2023-01-01 09:00:00 ", time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePublished(tt.input)
			if err != nil {
				t.Fatalf("ParsePublished(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParsePublished(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePublished_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2023/01/01"} {
		if _, err := ParsePublished(input); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}
