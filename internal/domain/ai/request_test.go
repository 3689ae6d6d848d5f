package ai

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeImage_Defaults(t *testing.T) {
	req, err := EncodeImage([]byte{0xFF, 0xD8, 0xFF}, "analyze", Options{})
	require.NoError(t, err)

	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF}), req.ImageB64)
	assert.Equal(t, "analyze", req.Instruction)
	assert.Equal(t, DefaultTemperature, req.Temperature)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
}

func TestEncodeImage_Overrides(t *testing.T) {
	req, err := EncodeImage([]byte("x"), "analyze", Options{Temperature: 0.7, MaxTokens: 512})
	require.NoError(t, err)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 512, req.MaxTokens)
}

func TestEncodeImage_Empty(t *testing.T) {
	_, err := EncodeImage(nil, "analyze", Options{})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestEncodeImageBase64_DataURLPrefixStripped(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("leaf"))

	req, err := EncodeImageBase64("data:image/jpeg;base64,"+payload, "analyze", Options{})
	require.NoError(t, err)
	assert.Equal(t, payload, req.ImageB64)
}

func TestEncodeImageBase64_Empty(t *testing.T) {
	_, err := EncodeImageBase64("", "analyze", Options{})
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = EncodeImageBase64("data:image/png;base64,", "analyze", Options{})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestEncodeImageBase64_Invalid(t *testing.T) {
	_, err := EncodeImageBase64("not base64 at all!!!", "analyze", Options{})
	assert.ErrorIs(t, err, ErrInvalidImage)
}
