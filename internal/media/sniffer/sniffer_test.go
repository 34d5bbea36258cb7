package sniffer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, "image/png"},
		{"gif", []byte("GIF89a......"), "image/gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			require.NoError(t, err)
			require.Equal(t, tc.want, result.MIME)
		})
	}
}

func TestDetectHeadUnknown(t *testing.T) {
	_, err := DetectHead([]byte("plain text, definitely not an image"))
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = DetectHead(nil)
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestMimeTypeFromHTTP(t *testing.T) {
	header := http.Header{}
	require.Equal(t, "", MimeTypeFromHTTP(header))

	header.Set("Content-Type", "image/jpeg")
	require.Equal(t, "image/jpeg", MimeTypeFromHTTP(header))

	header.Set("Content-Type", "image/png; charset=binary")
	require.Equal(t, "image/png", MimeTypeFromHTTP(header))
}
