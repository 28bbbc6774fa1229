package minio

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"growpreen/pkg/config"
	"growpreen/pkg/errutil"
	"growpreen/pkg/gen"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Client = fx.Module("minio.client", fx.Provide(registerClient, NewProofStore))

// registerClient returns nil when MINIO.ENABLE is off; NewProofStore follows suit.
func registerClient(c *config.Config) (*minio.Client, error) {
	if !c.Minio.Enable {
		zap.L().Info("[MinIO] disabled, proof uploads unavailable")
		return nil, nil
	}

	client, err := minio.New(c.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.Minio.AccessKey, c.Minio.SecretKey, ""),
		Secure: c.Minio.Secure,
		Region: c.Minio.Region,
	})
	if err != nil {
		zap.L().Error("[MinIO] failed to create client", zap.Error(err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, c.Minio.BucketName)
	if err != nil {
		zap.L().Warn("[MinIO] bucket check failed", zap.String("bucket", c.Minio.BucketName), zap.Error(err))
	}
	zap.L().Info("[MinIO] client initialized",
		zap.String("endpoint", c.Minio.Endpoint),
		zap.String("bucket", c.Minio.BucketName),
		zap.Bool("bucketExists", exists),
	)
	return client, nil
}

var allowedExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// Upload is a presigned slot for a single proof screenshot. The client PUTs the
// image to UploadURL and submits ScreenshotURL as the proof.
type Upload struct {
	UploadURL     string    `json:"uploadUrl"`
	ObjectKey     string    `json:"objectKey"`
	ScreenshotURL string    `json:"screenshotUrl"`
	ContentType   string    `json:"contentType"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type ProofStore struct {
	client    *minio.Client
	ids       gen.IDGenerator
	bucket    string
	publicURL string
	ttl       time.Duration
}

func NewProofStore(client *minio.Client, ids gen.IDGenerator, c *config.Config) *ProofStore {
	if client == nil {
		return nil
	}
	public := strings.TrimRight(c.Minio.PublicURL, "/")
	if public == "" {
		scheme := "http"
		if c.Minio.Secure {
			scheme = "https"
		}
		public = scheme + "://" + c.Minio.Endpoint
	}
	ttl := c.Minio.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ProofStore{
		client:    client,
		ids:       ids,
		bucket:    c.Minio.BucketName,
		publicURL: public,
		ttl:       ttl,
	}
}

// PresignProof reserves proofs/<user>/<id><ext> and signs a PUT for it.
func (s *ProofStore) PresignProof(ctx context.Context, userID, filename string) (*Upload, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedExt[ext]
	if !ok {
		return nil, errutil.BadRequest("Screenshot must be a png, jpg or webp image", nil)
	}

	key := fmt.Sprintf("proofs/%s/%s%s", userID, s.ids.NewID(), ext)
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, s.ttl)
	if err != nil {
		zap.L().Error("[MinIO] presign failed", zap.String("key", key), zap.Error(err))
		return nil, errutil.Internal("Could not prepare upload", err)
	}

	public, err := url.JoinPath(s.publicURL, s.bucket, key)
	if err != nil {
		return nil, errutil.Internal("Could not prepare upload", err)
	}

	return &Upload{
		UploadURL:     u.String(),
		ObjectKey:     key,
		ScreenshotURL: public,
		ContentType:   contentType,
		ExpiresAt:     time.Now().Add(s.ttl),
	}, nil
}
