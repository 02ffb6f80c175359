package gallery

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/ttravel/hospitality/internal/pkg/logger"
)

const (
	keyPrefix      = "gallery/"
	originalSuffix = "_original"
	thumbSuffix    = "_300w"
	thumbWidth     = 300
	jpegQuality    = 85
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config locates the bucket and its public URL.
type S3Config struct {
	Bucket    string
	Region    string
	CDNDomain string
}

// NewS3Client builds an S3 client, preferring static keys when both are set.
func NewS3Client(ctx context.Context, region, accessKey, secretKey string) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// S3Store lists stock images followed by uploads under gallery/, newest
// upload first. Each upload is stored as an original plus a 300px-wide
// thumbnail.
type S3Store struct {
	client S3API
	cfg    S3Config
	stock  []Image
	now    func() time.Time
}

// NewS3Store creates a store over the given bucket.
func NewS3Store(client S3API, cfg S3Config, stock []string) *S3Store {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return &S3Store{client: client, cfg: cfg, stock: stockImages(stock), now: time.Now}
}

func (s *S3Store) List(ctx context.Context) ([]Image, error) {
	var uploaded []Image
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(keyPrefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list gallery objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			base := strings.TrimSuffix(key, path.Ext(key))
			if !strings.HasSuffix(base, originalSuffix) {
				continue
			}
			img := Image{
				URL:          s.publicURL(key),
				ThumbnailURL: s.publicURL(thumbKey(key)),
				Key:          key,
				Size:         aws.ToInt64(obj.Size),
				UploadedAt:   aws.ToTime(obj.LastModified),
			}
			uploaded = append(uploaded, img)
		}
	}
	sort.SliceStable(uploaded, func(i, j int) bool {
		return uploaded[i].UploadedAt.After(uploaded[j].UploadedAt)
	})

	out := make([]Image, 0, len(s.stock)+len(uploaded))
	out = append(out, s.stock...)
	return append(out, uploaded...), nil
}

func (s *S3Store) Upload(ctx context.Context, filename string, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	contentType := detectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}

	now := s.now().UTC()
	key := fmt.Sprintf("%s%s/%s%s%s", keyPrefix, now.Format("2006/01"), uuid.New().String(), originalSuffix, ext)
	if err := s.put(ctx, key, data, contentType, filename); err != nil {
		return nil, fmt.Errorf("upload original: %w", err)
	}

	thumb, err := resize(src, thumbWidth, format)
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}
	if err := s.put(ctx, thumbKey(key), thumb, contentType, filename); err != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	b := src.Bounds()
	logger.Info("gallery image uploaded", "key", key, "bytes", len(data), "width", b.Dx(), "height", b.Dy())
	return &Image{
		URL:          s.publicURL(key),
		ThumbnailURL: s.publicURL(thumbKey(key)),
		Key:          key,
		ContentType:  contentType,
		Size:         int64(len(data)),
		Width:        b.Dx(),
		Height:       b.Dy(),
		UploadedAt:   now,
	}, nil
}

func (s *S3Store) put(ctx context.Context, key string, data []byte, contentType, filename string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
		Metadata:     map[string]string{"original-filename": sanitizeFilename(filename)},
	})
	return err
}

func (s *S3Store) publicURL(key string) string {
	if s.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cfg.CDNDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func thumbKey(originalKey string) string {
	return strings.Replace(originalKey, originalSuffix, thumbSuffix, 1)
}

// resize scales img down to maxWidth, keeping the aspect ratio. Narrower
// images are re-encoded at their own size.
func resize(img image.Image, maxWidth int, format string) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	return buf.Bytes(), err
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// detectContentType sniffs magic bytes rather than trusting the client.
func detectContentType(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case len(data) >= 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, name)
	if len(name) > 200 {
		ext := path.Ext(name)
		name = name[:200-len(ext)] + ext
	}
	return name
}
