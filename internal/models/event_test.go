package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAutoApprove(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"yes", false},
		{"TRUE", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, ParseAutoApprove(tc.raw), "raw=%q", tc.raw)
	}
}

func TestPhotoStatusValid(t *testing.T) {
	require.True(t, PhotoStatusPending.Valid())
	require.True(t, PhotoStatusApproved.Valid())
	require.False(t, PhotoStatus("rejected").Valid())
	require.False(t, PhotoStatus("").Valid())
}

func TestBoothSettingsAllowsMIME(t *testing.T) {
	settings := BoothSettings{
		MaxImageSizeBytes: DefaultMaxImageSizeBytes,
		AllowedMIMETypes:  DefaultAllowedMIMETypes(),
	}

	require.True(t, settings.AllowsMIME("image/jpeg"))
	require.True(t, settings.AllowsMIME("image/png"))
	require.True(t, settings.AllowsMIME("image/webp"))
	require.False(t, settings.AllowsMIME("image/gif"))
	require.False(t, settings.AllowsMIME(""))
}
