package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		// Valid token conversions
		{
			name:   "YYYY converts to Go year format",
			format: "YYYY",
			want:   "2006",
		},
		{
			name:   "MMMM converts to full month name",
			format: "MMMM",
			want:   "January",
		},
		{
			name:   "MM converts to zero-padded month",
			format: "MM",
			want:   "01",
		},
		{
			name:   "mm converts to minutes",
			format: "mm",
			want:   "04",
		},
		{
			name:   "HH converts to 24h hour",
			format: "HH",
			want:   "15",
		},
		{
			name:   "ss converts to seconds",
			format: "ss",
			want:   "05",
		},
		// Combined formats
		{
			name:   "ISO date format YYYY-MM-DD",
			format: "YYYY-MM-DD",
			want:   "2006-01-02",
		},
		{
			name:   "date and time",
			format: "YYYY-MM-DD HH:mm",
			want:   "2006-01-02 15:04",
		},
		{
			name:   "escaped T with zone",
			format: "YYYY-MM-DD[T]HH:mm:ssZ",
			want:   "2006-01-02T15:04:05Z07:00",
		},
		{
			name:   "long format with full month name",
			format: "MMMM D, YYYY",
			want:   "January 2, 2006",
		},
		// Bracket escape syntax
		{
			name:   "brackets preserve tokens as literals",
			format: "[YYYY]-MM-DD",
			want:   "YYYY-01-02",
		},
		{
			name:    "unclosed bracket returns error",
			format:  "[Date YYYY",
			wantErr: ErrInvalidDateFormat,
		},
		// Edge cases
		{
			name:    "empty format returns error",
			format:  "",
			wantErr: ErrInvalidDateFormat,
		},
		{
			name:    "format exceeding max length returns error",
			format:  string(make([]byte, MaxDateFormatLength+1)),
			wantErr: ErrInvalidDateFormat,
		},
		{
			name:   "only literal characters",
			format: "---",
			want:   "---",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
				return
			}

			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestLayouts(t *testing.T) {
	t.Parallel()

	t.Run("presets and tokens keep order", func(t *testing.T) {
		t.Parallel()

		got, err := Layouts([]string{"RFC3339", "DD/MM/YYYY", "iso"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{time.RFC3339, "02/01/2006", "2006-01-02"}
		if len(got) != len(want) {
			t.Fatalf("Layouts() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("layout[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("empty input uses defaults", func(t *testing.T) {
		t.Parallel()

		got, err := Layouts(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(DefaultDateFormats) {
			t.Errorf("len = %d, want %d", len(got), len(DefaultDateFormats))
		}
	})

	t.Run("invalid format propagates", func(t *testing.T) {
		t.Parallel()

		_, err := Layouts([]string{"[YYYY"})
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("error = %v, want ErrInvalidDateFormat", err)
		}
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	layouts, err := Layouts(nil)
	if err != nil {
		t.Fatalf("Layouts: %v", err)
	}
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name    string
		value   string
		loc     *time.Location
		want    time.Time
		wantErr error
	}{
		{
			name:  "date only",
			value: "2024-03-15",
			want:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date and minutes",
			value: "2024-03-15 10:30",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace trimmed",
			value: "  2024-03-15 10:30:45 ",
			want:  time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC),
		},
		{
			name:  "rfc3339 keeps its zone",
			value: "2024-03-15T10:30:00Z",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "location applied to zoneless value",
			value: "2024-03-15",
			loc:   paris,
			want:  time.Date(2024, 3, 15, 0, 0, 0, 0, paris),
		},
		{
			name:    "garbage fails",
			value:   "next tuesday",
			wantErr: ErrNoMatchingFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.value, layouts, tt.loc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Parse(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
