// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates uploaded images, converts them to and from data
// URIs (the form templates embed images in) and probes native dimensions
// without fully decoding the pixels.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"mime/multipart"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxUploadSize bounds a single image upload (10 MB).
const MaxUploadSize = 10 << 20

// maxImagePixels caps probed dimensions to refuse decompression bombs.
const maxImagePixels = 100_000_000

// ErrNotImage is returned for files whose MIME type does not start with "image/".
var ErrNotImage = errors.New("imaging: file is not an image")

// File is an uploaded file as received from the host.
type File struct {
	Name string
	Type string // MIME type as declared by the client
	Data []byte
}

// IsImageType reports whether a MIME type is acceptable for image slots.
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// FromMultipart reads a multipart upload into a File, keeping the declared
// Content-Type.
func FromMultipart(fh *multipart.FileHeader) (File, error) {
	if fh.Size > MaxUploadSize {
		return File{}, fmt.Errorf("imaging: %s exceeds %d bytes", fh.Filename, MaxUploadSize)
	}
	f, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("imaging: open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return File{}, fmt.Errorf("imaging: read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return File{}, fmt.Errorf("imaging: %s exceeds %d bytes", fh.Filename, MaxUploadSize)
	}
	return File{Name: fh.Filename, Type: fh.Header.Get("Content-Type"), Data: data}, nil
}

// ToDataURI validates f and encodes it as a base64 data URI.
func ToDataURI(f File) (string, error) {
	if !IsImageType(f.Type) {
		return "", fmt.Errorf("%w: %q", ErrNotImage, f.Type)
	}
	return "data:" + strings.ToLower(strings.TrimSpace(f.Type)) + ";base64," +
		base64.StdEncoding.EncodeToString(f.Data), nil
}

// ParseDataURI splits a base64 data URI into its MIME type and payload.
func ParseDataURI(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("imaging: not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("imaging: malformed data uri")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("imaging: data uri is not base64 encoded")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("imaging: decode data uri: %w", err)
	}
	return mimeType, data, nil
}

// NativeSize reads the pixel dimensions from the image header.
func NativeSize(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("imaging: probe failed: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("imaging: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > maxImagePixels {
		return 0, 0, fmt.Errorf("imaging: %dx%d exceeds pixel limit", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// Format returns the fpdf-style image type ("PNG", "JPG", "GIF") for a MIME
// type, or "" when the format cannot be embedded in a PDF directly.
func Format(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

// ToPNG re-encodes any decodable image as PNG. Used for formats a PDF
// cannot embed directly (WebP, BMP, TIFF).
func ToPNG(data []byte) ([]byte, error) {
	if _, _, err := NativeSize(data); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imaging: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
