package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/marmushop/booking-api/internal/config"
)

// Gallery stores the haircut and tattoo showcase images in S3, one
// prefix per service.
type Gallery struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type Image struct {
	Name string `json:"name"`
	URL  string `json:"image"`
}

func NewGallery(cfg *config.Config) *Gallery {
	client := s3.New(s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	})

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &Gallery{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// List returns the images under the service prefix sorted by display
// name.
func (g *Gallery) List(ctx context.Context, service string) ([]Image, error) {
	prefix := service + "/"

	out, err := g.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(out.Contents))
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		if key == prefix {
			continue
		}
		images = append(images, Image{
			Name: displayName(key),
			URL:  g.publicURL + "/" + key,
		})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}

// Upload re-encodes the image to WebP and writes it under the service
// prefix with a uuid suffix to avoid key collisions.
func (g *Gallery) Upload(ctx context.Context, service, name string, raw []byte) (string, error) {
	encoded, err := Reencode(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if base == "" {
		base = "image"
	}
	key := fmt.Sprintf("%s/%s-%s.webp", service, slug(base), uuid.NewString()[:8])

	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(encoded),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", err
	}

	return g.publicURL + "/" + key, nil
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")
	return name
}

// displayName turns "tattoo/rose-sleeve-1a2b3c4d.webp" into "Rose Sleeve".
func displayName(key string) string {
	base := strings.TrimSuffix(path.Base(key), path.Ext(key))

	// Drop the uuid suffix appended on upload.
	if i := strings.LastIndex(base, "-"); i > 0 && len(base)-i == 9 {
		base = base[:i]
	}

	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
