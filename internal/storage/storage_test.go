package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/platform/logger"
)

var pngURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG fake"))

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI(pngURI)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "png", img.Ext)
	assert.Equal(t, []byte("\x89PNG fake"), img.Data)

	for _, bad := range []string{
		"",
		"not a uri",
		"data:text/plain;base64,aGk=",
		"data:image/png,raw",
		"data:image/png;base64,!!!",
		"data:image/png;base64,",
	} {
		_, err := DecodeDataURI(bad)
		assert.ErrorIs(t, err, ErrInvalidImage, bad)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore("http://localhost:8080/")
	url, err := m.Save(context.Background(), "recipes/images", pngURI)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/media/recipes/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	img, ok := m.Get(strings.TrimPrefix(url, "http://localhost:8080/media/"))
	require.True(t, ok)
	assert.Equal(t, "image/png", img.ContentType)

	_, ok = m.Get("missing.png")
	assert.False(t, ok)
}

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if out, ok := args.Get(0).(*s3.PutObjectOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestS3StoreSave(t *testing.T) {
	putter := new(mockPutter)
	putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "media" && *in.ContentType == "image/png" && strings.HasPrefix(*in.Key, "users/")
	})).Run(func(args mock.Arguments) {
		body, _ := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		assert.Equal(t, "\x89PNG fake", string(body))
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	s := NewS3StoreWithClient(putter, "media", "", logger.NewNop())
	url, err := s.Save(context.Background(), "users", pngURI)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://media.s3.amazonaws.com/users/"))
	putter.AssertExpectations(t)
}

func TestS3StoreSaveErrors(t *testing.T) {
	putter := new(mockPutter)
	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied")).Once()
	s := NewS3StoreWithClient(putter, "media", "https://cdn.example.com", logger.NewNop())

	_, err := s.Save(context.Background(), "users", pngURI)
	assert.ErrorContains(t, err, "access denied")

	_, err = s.Save(context.Background(), "users", "data:image/png;base64,###")
	assert.ErrorIs(t, err, ErrInvalidImage)
	putter.AssertExpectations(t)
}
