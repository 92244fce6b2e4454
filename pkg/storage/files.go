package storage

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// Upload size caps.
const (
	MaxAvatarBytes = 5 << 20  // 5 MB
	MaxProofBytes  = 10 << 20 // 10 MB
)

// Magic byte signatures per allowed extension.
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".webp": {{0x52, 0x49, 0x46, 0x46}}, // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
}

var avatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Proof-of-payment also accepts PDF statements.
var proofExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

var (
	ErrNoExtension     = errors.New("file has no extension")
	ErrExtensionDenied = errors.New("file type not allowed")
	ErrContentMismatch = errors.New("file content does not match its extension")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
)

// ValidateAvatar checks an avatar upload: extension whitelist, size cap and
// magic bytes. Returns the canonical content type.
func ValidateAvatar(filename string, data []byte) (string, error) {
	return validate(filename, data, avatarExtensions, MaxAvatarBytes)
}

// ValidateProof checks a proof-of-payment upload.
func ValidateProof(filename string, data []byte) (string, error) {
	return validate(filename, data, proofExtensions, MaxProofBytes)
}

func validate(filename string, data []byte, allowed map[string]bool, maxBytes int) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", ErrNoExtension
	}
	if !allowed[ext] {
		return "", ErrExtensionDenied
	}
	if len(data) > maxBytes {
		return "", ErrFileTooLarge
	}
	if !matchesMagic(ext, data) {
		return "", ErrContentMismatch
	}

	// Sniffed type must agree with the extension, never octet-stream.
	sniffed := http.DetectContentType(data)
	want := contentTypes[ext]
	if ext == ".pdf" {
		// DetectContentType reports application/pdf only on exact prefix; the
		// magic check above already guarantees that.
		return want, nil
	}
	if !strings.HasPrefix(sniffed, "image/") {
		return "", ErrContentMismatch
	}
	return want, nil
}

func matchesMagic(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}
