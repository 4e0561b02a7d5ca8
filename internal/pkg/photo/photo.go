// Package photo validates the face photographs attached to check-in,
// check-out and enrollment requests.
package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxDecodedBytes = 5 << 20 // 5 MiB
	MaxEncodedBytes = 7 << 20 // 7 MiB of base64 text
)

var (
	ErrMissingPhoto     = errors.New("photo is required")
	ErrPhotoTooLarge    = errors.New("photo exceeds the 5MB size limit")
	ErrInvalidEncoding  = errors.New("photo is not valid base64")
	ErrUnsupportedImage = errors.New("photo must be a JPEG or PNG image")
)

var allowedMIME = []string{"image/jpeg", "image/png"}

// Photo is a validated image payload.
type Photo struct {
	Data      []byte
	MIME      string
	Extension string
}

func (p Photo) Reader() io.Reader {
	return bytes.NewReader(p.Data)
}

// Base64 returns the standard base64 encoding of the image bytes.
func (p Photo) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// FromReader reads a binary upload, refusing anything above MaxDecodedBytes.
func FromReader(r io.Reader) (Photo, error) {
	if r == nil {
		return Photo{}, ErrMissingPhoto
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxDecodedBytes+1))
	if err != nil {
		return Photo{}, fmt.Errorf("read photo: %w", err)
	}
	return fromBytes(data)
}

// FromBase64 decodes a base64 payload, with or without a data URL prefix.
func FromBase64(encoded string) (Photo, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.Index(encoded, ";base64,"); strings.HasPrefix(encoded, "data:") && i >= 0 {
		encoded = encoded[i+len(";base64,"):]
	}
	if encoded == "" {
		return Photo{}, ErrMissingPhoto
	}
	if len(encoded) > MaxEncodedBytes {
		return Photo{}, ErrPhotoTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Photo{}, ErrInvalidEncoding
	}
	return fromBytes(data)
}

func fromBytes(data []byte) (Photo, error) {
	if len(data) == 0 {
		return Photo{}, ErrMissingPhoto
	}
	if len(data) > MaxDecodedBytes {
		return Photo{}, ErrPhotoTooLarge
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedMIME...) {
		return Photo{}, ErrUnsupportedImage
	}

	return Photo{Data: data, MIME: mt.String(), Extension: mt.Extension()}, nil
}
