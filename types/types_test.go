package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	id, err := ParseIdentifier("76561199999999999")
	require.NoError(t, err)
	assert.Equal(t, Identifier("76561199999999999"), id)

	for _, bad := range []string{
		"",
		"12345",
		"7656119999999999",   // 16 digits
		"765611999999999999", // 18 digits
		"12345678901234567",  // wrong prefix
		"7656119999999999x",
		" 76561199999999999",
	} {
		_, err := ParseIdentifier(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", bad)

		var ife *InvalidFormatError
		require.True(t, errors.As(err, &ife))
		assert.Equal(t, bad, ife.Value)
	}
}

func TestParseInput(t *testing.T) {
	id, err := ParseInput("  7656 1199 9999 9999 9\n")
	require.NoError(t, err)
	assert.Equal(t, Identifier("76561199999999999"), id)

	id, err = ParseInput("7656-1199-9999-99999")
	require.NoError(t, err)
	assert.Equal(t, Identifier("76561199999999999"), id)

	_, err = ParseInput("7656 1199")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseInput("steam 12345678901234567")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("12345678901234567"))
	assert.True(t, IsDigits("76561199999999999"))
	assert.False(t, IsDigits("1234567890123456"))
	assert.False(t, IsDigits("1234567890123456a"))
}

func TestIdentifierUint64(t *testing.T) {
	n, err := Identifier("76561199999999999").Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(76561199999999999), n)
}

func TestSessionReady(t *testing.T) {
	s := Session{}
	assert.ErrorIs(t, s.Ready(), ErrNoFile)

	s.FilePath = "save.sav"
	assert.ErrorIs(t, s.Ready(), ErrNoCurrentID)

	s.CurrentID = "76561190000000001"
	assert.ErrorIs(t, s.Ready(), ErrNoNewID)

	s.NewID = "1234"
	assert.ErrorIs(t, s.Ready(), ErrNoNewID)
	assert.False(t, s.IsReady())

	s.NewID = "76561190000000002"
	assert.NoError(t, s.Ready())
	assert.True(t, s.IsReady())
}

func TestReportWarning(t *testing.T) {
	r := &Report{}
	for outcome, want := range map[Outcome]bool{
		Renamed:  false,
		Skipped:  false,
		Conflict: true,
		Failed:   true,
	} {
		r.Relocation.Outcome = outcome
		assert.Equal(t, want, r.Warning(), string(outcome))
	}
}
