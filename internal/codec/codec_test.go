package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/haise314/exam-management-system/pkg/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		opts    Options
		correct string
	}{
		{"first option correct", Options{"A": "red", "B": "green", "C": "blue", "D": "yellow"}, "A"},
		{"last option correct", Options{"A": "1", "B": "2", "C": "3", "D": "4"}, "D"},
		{"empty texts allowed", Options{"A": "", "B": "", "C": "", "D": ""}, "B"},
		{"texts with colons", Options{"A": "10:30", "B": "11:00", "C": "12:15", "D": "noon"}, "C"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := Encode(tc.opts, tc.correct)
			require.NoError(t, err)

			opts, correct, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.opts, opts)
			assert.Equal(t, tc.correct, correct)
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	encoded, err := Encode(Options{"A": "ant", "B": "bee", "C": "cat", "D": "dog"}, "B")
	require.NoError(t, err)
	assert.Equal(t, "A:ant|*B:bee|C:cat|D:dog", encoded)
}

func TestEncodeErrors(t *testing.T) {
	full := Options{"A": "a", "B": "b", "C": "c", "D": "d"}

	_, err := Encode(full, "E")
	assert.True(t, errors.Is(err, appErrors.ErrEncoding))

	_, err = Encode(full, "")
	assert.True(t, errors.Is(err, appErrors.ErrEncoding))

	_, err = Encode(Options{"A": "a", "B": "b", "C": "c"}, "A")
	assert.True(t, errors.Is(err, appErrors.ErrEncoding))
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"single option", "*A:only"},
		{"empty string", ""},
		{"no correct marker", "A:a|B:b|C:c|D:d"},
		{"missing colon", "*A:a|Bb|C:c|D:d"},
		{"empty letter", "*A:a|:text|C:c|D:d"},
		{"double marker", "*A:a|*B:b|C:c|D:d"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode(tc.encoded)
			assert.True(t, errors.Is(err, appErrors.ErrDecoding))
		})
	}
}

func TestDecodeToleratesNonCanonicalLayout(t *testing.T) {
	// Letter order and marker position vary in legacy rows.
	opts, correct, err := Decode("D:dog|*C:cat|A:ant|B:bee")
	require.NoError(t, err)
	assert.Equal(t, "C", correct)
	assert.Equal(t, Options{"A": "ant", "B": "bee", "C": "cat", "D": "dog"}, opts)
}
