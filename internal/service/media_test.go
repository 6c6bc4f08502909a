package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	t.Run("image", func(t *testing.T) {
		media, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "image/png", media.ContentType)
		assert.Equal(t, []byte("hello"), media.Body)
		assert.Equal(t, "image", media.Kind())
	})

	t.Run("kinds", func(t *testing.T) {
		assert.Equal(t, "video", Media{ContentType: "video/mp4"}.Kind())
		assert.Equal(t, "audio", Media{ContentType: "audio/ogg"}.Kind())
		assert.Equal(t, "", Media{ContentType: "text/plain"}.Kind())
	})

	t.Run("malformed", func(t *testing.T) {
		for _, uri := range []string{
			"https://example.com/a.png",
			"data:image/png;base64",
			"data:image/png,raw",
			"data:image/png;base64,!!!",
		} {
			_, err := ParseDataURI(uri)
			assert.Error(t, err, uri)
		}
	})
}
