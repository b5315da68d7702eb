package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mdreader/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict_Input - Input guards and decoding
// ---------------------------------------------------------------------------

func TestUnmarshalStrict_Input(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\nenabled: true"),
			dest: &testConfig{},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			cfg := tt.dest.(*testConfig)
			if cfg.Name != "test" || cfg.Count != 42 || !cfg.Enabled {
				t.Errorf("decoded = %+v", cfg)
			}
		})
	}
}

func TestUnmarshalStrict_InvalidSyntax(t *testing.T) {
	t.Parallel()

	err := yamlutil.UnmarshalStrict([]byte("name: [unclosed"), &testConfig{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error %q should be prefixed with yamlutil:", err)
	}
}

func TestUnmarshalStrict_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("name: " + strings.Repeat("x", yamlutil.MaxInputSize))
	err := yamlutil.UnmarshalStrict(data, &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("known fields decode", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		if err := yamlutil.UnmarshalStrict([]byte("name: ok"), &cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Name != "ok" {
			t.Errorf("Name = %q, want %q", cfg.Name, "ok")
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		if err := yamlutil.UnmarshalStrict([]byte("name: ok\nbogus: 1"), &cfg); err == nil {
			t.Fatal("expected error for unknown field, got nil")
		}
	})
}

// ---------------------------------------------------------------------------
// TestUnmarshalOrdered - Keeps mapping order
// ---------------------------------------------------------------------------

func TestUnmarshalOrdered(t *testing.T) {
	t.Parallel()

	t.Run("keeps key order", func(t *testing.T) {
		t.Parallel()

		ms, err := yamlutil.UnmarshalOrdered([]byte("zeta: 1\nalpha: two\nmid: [a, b]\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"zeta", "alpha", "mid"}
		if len(ms) != len(want) {
			t.Fatalf("len = %d, want %d", len(ms), len(want))
		}
		for i, key := range want {
			if ms[i].Key != key {
				t.Errorf("key[%d] = %v, want %q", i, ms[i].Key, key)
			}
		}
	})

	t.Run("comment-only document is empty", func(t *testing.T) {
		t.Parallel()

		ms, err := yamlutil.UnmarshalOrdered([]byte("# nothing here\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ms) != 0 {
			t.Errorf("len = %d, want 0", len(ms))
		}
	})

	t.Run("scalar document rejected", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.UnmarshalOrdered([]byte("just a string\n"))
		if !errors.Is(err, yamlutil.ErrNotMapping) {
			t.Errorf("error = %v, want ErrNotMapping", err)
		}
	})

	t.Run("sequence document rejected", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.UnmarshalOrdered([]byte("- a\n- b\n"))
		if !errors.Is(err, yamlutil.ErrNotMapping) {
			t.Errorf("error = %v, want ErrNotMapping", err)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		if _, err := yamlutil.UnmarshalOrdered([]byte("key: [unclosed\n")); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(testConfig{Name: "x", Count: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "name: x") {
		t.Errorf("output %q missing name", out)
	}
}
