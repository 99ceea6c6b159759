package catalog

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

// MaxImageBytes caps inline product images.
const MaxImageBytes = 500 * 1024

// EncodeImage turns uploaded bytes into a data URL usable as Product.Image.
func EncodeImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.Validation("image is empty")
	}
	if len(data) > MaxImageBytes {
		return "", apperr.Validation(fmt.Sprintf("image must be under %dKB", MaxImageBytes/1024))
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", apperr.Validation(fmt.Sprintf("unsupported image type %s", mt.String()))
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
