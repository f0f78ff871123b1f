package intake

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisight/paddy/internal/domain"
)

var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
)

func jpegPayload(size int) []byte {
	data := make([]byte, size)
	copy(data, jpegHeader)
	return data
}

func TestValidate(t *testing.T) {
	v := NewValidator(1024, []string{"image/jpeg", "image/png"})

	tests := []struct {
		name        string
		data        []byte
		contentType string
		size        int64
		wantErr     error
	}{
		{name: "jpeg ok", data: jpegPayload(100), contentType: "image/jpeg", size: 100},
		{name: "png ok", data: append(bytes.Clone(pngHeader), make([]byte, 50)...), contentType: "image/png", size: 58},
		{name: "declared type with params ok", data: jpegPayload(100), contentType: "image/jpeg; charset=binary", size: 100},
		{name: "empty declared type ok", data: jpegPayload(100), size: 100},
		{name: "missing file", data: nil, wantErr: domain.ErrMissingFile},
		{name: "too large by content", data: jpegPayload(2048), contentType: "image/jpeg", size: 2048, wantErr: domain.ErrPayloadTooLarge},
		{name: "too large by declared size", data: jpegPayload(100), contentType: "image/jpeg", size: 4096, wantErr: domain.ErrPayloadTooLarge},
		{name: "gif rejected", data: []byte("GIF89a\x01\x00\x01\x00"), contentType: "image/gif", wantErr: domain.ErrUnsupportedType},
		{name: "text rejected", data: []byte("definitely not an image"), contentType: "text/plain", wantErr: domain.ErrUnsupportedType},
		{name: "declared type lies", data: jpegPayload(100), contentType: "image/gif", size: 100, wantErr: domain.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := v.Validate(tt.data, tt.contentType, tt.size)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				assert.Nil(t, img)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.data)), img.Size)
			assert.NotEmpty(t, img.ContentType)
		})
	}
}

func TestValidateSniffsContentType(t *testing.T) {
	v := NewValidator(0, []string{"image/jpeg"})
	img, err := v.Validate(jpegPayload(64), "", 64)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)
}
