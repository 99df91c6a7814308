// Package imaging validates uploaded photos and prepares them for the
// vision analyzer.
package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"strings"

	// decoders registered for image.Decode
	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/wardrobe/backend/internal/domain/shared"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxBytes     = 10 << 20
	DefaultMaxDimension = 1024
	DefaultJPEGQuality  = 85
)

var (
	ErrEmptyImage       = shared.ErrInvalidInput.WithMessage("Image is empty")
	ErrImageTooLarge    = shared.NewDomainError("IMAGE_TOO_LARGE", "Image exceeds the maximum upload size")
	ErrUnsupportedImage = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "File is not a supported image")
)

// Sniff detects the MIME type of data and returns it with the matching
// file extension (".jpg", ".png"...). Non-image content is rejected.
func Sniff(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", ErrEmptyImage
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", ErrUnsupportedImage
	}
	ext := mt.Extension()
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return mt.String(), ext, nil
}

// Resize scales img down so that its longest side is at most maxDim.
// Smaller images are returned unchanged.
func Resize(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Prepared is an upload ready to be stored and analyzed
type Prepared struct {
	// Original bytes as uploaded, with their sniffed type
	Original    []byte
	ContentType string
	Extension   string

	// JPEG re-encoded with the longest side bounded
	JPEG   []byte
	Width  int
	Height int
}

// Processor validates and normalizes uploads
type Processor struct {
	maxBytes int64
	maxDim   int
	quality  int
}

// NewProcessor creates a processor. Zero values select the defaults.
func NewProcessor(maxBytes int64, maxDim, quality int) *Processor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Processor{maxBytes: maxBytes, maxDim: maxDim, quality: quality}
}

// Validate checks size and type without decoding
func (p *Processor) Validate(data []byte) (string, string, error) {
	if int64(len(data)) > p.maxBytes {
		return "", "", ErrImageTooLarge
	}
	return Sniff(data)
}

// Prepare validates data, decodes it, bounds its size and re-encodes it as JPEG
func (p *Processor) Prepare(data []byte) (*Prepared, error) {
	contentType, ext, err := p.Validate(data)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	img = Resize(img, p.maxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &Prepared{
		Original:    data,
		ContentType: contentType,
		Extension:   ext,
		JPEG:        buf.Bytes(),
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}
