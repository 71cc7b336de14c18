package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvatarKey(t *testing.T) {
	require.Equal(t, "avatars/U123.png", avatarKey("U123", "image/png"))
	require.Equal(t, "avatars/U123.jpg", avatarKey("U123", "image/jpeg"))
	require.Equal(t, "avatars/U123.webp", avatarKey("U123", "image/webp"))
	require.Equal(t, "avatars/U123.bin", avatarKey("U123", "application/octet-stream"))
}

func TestUploadAvatar_RejectsUnsupportedContentType(t *testing.T) {
	s := &MinIOStorage{}
	_, err := s.UploadAvatar(context.Background(), "U123", strings.NewReader("x"), 1, "text/html")
	require.Error(t, err)
}
