package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUnwrapEnvelope(t *testing.T) {
	require.Equal(t, "plain", Unwrap("plain"))
	require.Equal(t, "wrapped", Unwrap(map[string]any{"value": "wrapped"}))
	require.Nil(t, Unwrap(map[string]any{"value": nil}))

	// Objects without a value key pass through unchanged.
	obj := map[string]any{"other": 1}
	require.Equal(t, obj, Unwrap(obj))
}

func TestStringCoercion(t *testing.T) {
	require.Equal(t, "abc", String("abc"))
	require.Equal(t, "abc", String(" abc "))
	require.Equal(t, "abc", String(map[string]any{"value": "abc"}))
	require.Equal(t, "42", String(float64(42)))
	require.Equal(t, "", String(nil))
	require.Equal(t, "", String(map[string]any{"nested": "obj"}))
	require.Equal(t, "", String([]any{"a"}))

	require.Nil(t, StringPtr(""))
	require.Nil(t, StringPtr(nil))
	if got := StringPtr("x"); got == nil || *got != "x" {
		t.Fatalf("expected pointer to x, got %v", got)
	}
}

func TestNumberCoercion(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want *float64
	}{
		{"float", float64(12.5), f(12.5)},
		{"numeric string", "12.5", f(12.5)},
		{"wrapped", map[string]any{"value": "99"}, f(99)},
		{"empty string", "", nil},
		{"blank string", "  ", nil},
		{"null", nil, nil},
		{"non-numeric", "twelve", nil},
		{"object", map[string]any{"a": 1}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Number(tc.in)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, *tc.want, *got)
		})
	}
}

func TestIntTruncates(t *testing.T) {
	got := Int("3.9")
	require.NotNil(t, got)
	require.Equal(t, 3, *got)

	require.Nil(t, Int(nil))
	require.Nil(t, Int("abc"))
}

func TestInt64NumberLong(t *testing.T) {
	got := Int64(map[string]any{"$numberLong": "102400"})
	require.NotNil(t, got)
	require.Equal(t, int64(102400), *got)

	got = Int64(float64(2048))
	require.NotNil(t, got)
	require.Equal(t, int64(2048), *got)

	require.Nil(t, Int64(map[string]any{"other": "1"}))
	require.Nil(t, Int64(""))
}

func TestDateShapes(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for name, in := range map[string]any{
		"date only":      "2024-03-15",
		"rfc3339":        "2024-03-15T00:00:00Z",
		"dollar date":    map[string]any{"$date": "2024-03-15T00:00:00Z"},
		"epoch millis":   float64(want.UnixMilli()),
		"nested wrapper": map[string]any{"$date": map[string]any{"$numberLong": "1710460800000"}},
		"enveloped":      map[string]any{"value": "2024-03-15"},
	} {
		t.Run(name, func(t *testing.T) {
			got := Date(in)
			require.NotNil(t, got)
			require.True(t, got.Equal(want), "got %v want %v", got, want)
		})
	}

	require.Nil(t, Date(nil))
	require.Nil(t, Date(""))
	require.Nil(t, Date("not a date"))
	require.Nil(t, Date(map[string]any{"unrelated": true}))
}

func TestSectionTolerance(t *testing.T) {
	llm := map[string]any{
		"vendor":  map[string]any{"vendorName": "Acme"},
		"summary": map[string]any{"value": map[string]any{"currencySymbol": "USD"}},
		"broken":  "not an object",
	}

	require.Equal(t, "Acme", String(Section(llm, "vendor")["vendorName"]))
	require.Equal(t, "USD", String(Section(llm, "summary")["currencySymbol"]))
	require.Nil(t, Section(llm, "broken"))
	require.Nil(t, Section(llm, "missing"))
	require.Nil(t, Section(nil, "vendor"))
}

func f(v float64) *float64 { return &v }
