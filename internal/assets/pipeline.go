package assets

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
)

// MaxPhotoBytes caps uploaded photo size at 5 MiB.
const MaxPhotoBytes = 5 << 20

// qrImageSize is the rendered QR PNG edge length in pixels.
const qrImageSize = 512

// photoExtensions is the allow-list of accepted photo content types.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Pipeline stores photos and QR images through a BlobStore.
type Pipeline struct {
	store  BlobStore
	logger *slog.Logger
}

func NewPipeline(store BlobStore, logger *slog.Logger) *Pipeline {
	return &Pipeline{store: store, logger: logger}
}

// StorePhoto validates and stores an uploaded photo, returning its URL.
// The filename combines the upload instant with random bytes so concurrent
// uploads cannot collide and clients cannot choose storage paths.
func (p *Pipeline) StorePhoto(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := photoExtensions[normalizeContentType(contentType)]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeUnsupportedMedia, "unsupported photo content type %q", contentType)
	}
	if len(data) > MaxPhotoBytes {
		return "", dErrors.New(dErrors.CodePayloadTooLarge, "photo exceeds the 5 MiB limit")
	}
	if len(data) == 0 {
		return "", dErrors.New(dErrors.CodeValidation, "photo file is empty")
	}

	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate photo filename")
	}
	key := fmt.Sprintf("photos/%d-%s%s", time.Now().UnixNano(), hex.EncodeToString(suffix[:]), ext)

	url, err := p.store.Put(ctx, key, data)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store photo")
	}
	return url, nil
}

// GenerateQRCode renders <baseURL>/p/<publicId> as a PNG and stores it under
// the deterministic key qr-<publicId>.png, so regeneration overwrites the
// previous image and each passport has exactly one current QR asset.
func (p *Pipeline) GenerateQRCode(ctx context.Context, publicID id.PublicID, baseURL string) (string, error) {
	target := PublicURL(baseURL, publicID)
	png, err := qrcode.Encode(target, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("render qr code for %s: %w", publicID, err)
	}

	key := QRKey(publicID)
	url, err := p.store.Put(ctx, key, png)
	if err != nil {
		return "", fmt.Errorf("store qr code %s: %w", key, err)
	}
	return url, nil
}

// DeleteAsset removes a previously stored asset by URL, best-effort. URLs
// this pipeline did not produce are ignored; absence is not an error.
func (p *Pipeline) DeleteAsset(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	key := p.store.KeyFromURL(url)
	if key == "" {
		p.logger.WarnContext(ctx, "skipping deletion of foreign asset url", "url", url)
		return nil
	}
	return p.store.Delete(ctx, key)
}

// PublicURL builds the public passport page URL a QR code points at.
func PublicURL(baseURL string, publicID id.PublicID) string {
	return strings.TrimRight(baseURL, "/") + "/p/" + publicID.String()
}

// QRKey is the deterministic storage key of a passport's QR image.
func QRKey(publicID id.PublicID) string {
	return "qr/qr-" + publicID.String() + ".png"
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
