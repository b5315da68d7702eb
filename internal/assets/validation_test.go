package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple name", input: "default"},
		{name: "hyphen and digits", input: "dark-2"},
		{name: "underscore", input: "my_style"},
		{name: "max length", input: strings.Repeat("a", MaxNameLength)},
		{name: "empty", input: "", wantErr: true},
		{name: "too long", input: strings.Repeat("a", MaxNameLength+1), wantErr: true},
		{name: "forward slash", input: "../etc/passwd", wantErr: true},
		{name: "backslash", input: `..\windows`, wantErr: true},
		{name: "extension", input: "default.css", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "null byte", input: "a\x00b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetName) {
					t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestValidateAssetName_ErrorMessages(t *testing.T) {
	t.Parallel()

	err := ValidateAssetName(strings.Repeat("x", 70))
	if err == nil || !strings.Contains(err.Error(), "max 64") {
		t.Errorf("error = %v, want mention of the limit", err)
	}
}
