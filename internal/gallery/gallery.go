// Package gallery serves the photo gallery: a configured list of stock
// images, optionally extended with admin uploads stored in S3.
package gallery

import (
	"context"
	"errors"
	"io"
	"time"
)

// MaxUploadBytes is the largest accepted upload.
const MaxUploadBytes = 10 << 20

var (
	ErrUploadsDisabled = errors.New("gallery uploads are not configured")
	ErrTooLarge        = errors.New("image exceeds 10 MB")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// Image is one gallery entry.
type Image struct {
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Key          string    `json:"key,omitempty"`
	ContentType  string    `json:"contentType,omitempty"`
	Size         int64     `json:"size,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt,omitzero"`
}

// Store lists and accepts gallery images.
type Store interface {
	List(ctx context.Context) ([]Image, error)
	Upload(ctx context.Context, filename string, r io.Reader) (*Image, error)
}

// DefaultStockImages are shown when no stock list is configured.
var DefaultStockImages = []string{
	"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1524492412937-b28074a5d7da?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1436491865332-7a61a109cc05?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=800&h=600&fit=crop",
	"https://images.unsplash.com/photo-1493246507139-91e8fad9978e?w=800&h=600&fit=crop",
}

func stockImages(urls []string) []Image {
	if len(urls) == 0 {
		urls = DefaultStockImages
	}
	out := make([]Image, len(urls))
	for i, u := range urls {
		out[i] = Image{URL: u}
	}
	return out
}

// StaticStore serves the stock list only.
type StaticStore struct {
	images []Image
}

// NewStaticStore falls back to DefaultStockImages when urls is empty.
func NewStaticStore(urls []string) *StaticStore {
	return &StaticStore{images: stockImages(urls)}
}

func (s *StaticStore) List(context.Context) ([]Image, error) {
	out := make([]Image, len(s.images))
	copy(out, s.images)
	return out, nil
}

func (s *StaticStore) Upload(context.Context, string, io.Reader) (*Image, error) {
	return nil, ErrUploadsDisabled
}
