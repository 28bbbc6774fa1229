package minio

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"growpreen/pkg/config"
	"growpreen/pkg/errutil"
	"growpreen/pkg/gen"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newStore(t *testing.T, publicURL string) *ProofStore {
	t.Helper()
	cfg := &config.Config{}
	cfg.Minio.Endpoint = "localhost:9000"
	cfg.Minio.BucketName = "proofs"
	cfg.Minio.PublicURL = publicURL
	cfg.Minio.PresignTTL = 5 * time.Minute

	// A fixed region keeps presigning offline.
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)

	ids, err := gen.NewNode(1)
	require.NoError(t, err)

	return NewProofStore(client, ids, cfg)
}

func TestPresignProof(t *testing.T) {
	s := newStore(t, "")

	up, err := s.PresignProof(context.Background(), "u-1", "Screen Shot.PNG")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(up.ObjectKey, "proofs/u-1/"))
	require.True(t, strings.HasSuffix(up.ObjectKey, ".png"))
	require.Equal(t, "image/png", up.ContentType)
	require.Equal(t, "http://localhost:9000/proofs/"+up.ObjectKey, up.ScreenshotURL)

	u, err := url.Parse(up.UploadURL)
	require.NoError(t, err)
	require.Equal(t, "/proofs/"+up.ObjectKey, u.Path)
	require.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	require.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
}

func TestPresignProofPublicURL(t *testing.T) {
	s := newStore(t, "https://cdn.example.com/")

	up, err := s.PresignProof(context.Background(), "u-1", "a.webp")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/proofs/"+up.ObjectKey, up.ScreenshotURL)
}

func TestPresignProofRejectsNonImage(t *testing.T) {
	s := newStore(t, "")

	_, err := s.PresignProof(context.Background(), "u-1", "payload.exe")
	require.ErrorIs(t, err, errutil.BaseError{Code: errutil.StatusBadRequest})
}

func TestNewProofStoreDisabled(t *testing.T) {
	require.Nil(t, NewProofStore(nil, nil, &config.Config{}))
}
