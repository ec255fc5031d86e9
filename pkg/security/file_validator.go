package security

import (
	"bytes"
	"fmt"
	"mime"
	"strings"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid    bool   // Whether the file passed all validation checks
	MIMEType string // Normalised declared MIME type
	Error    string // Error message if validation failed
}

// Magic byte signatures for the document types an upload policy may allow.
var magicBytes = map[string][][]byte{
	"application/pdf":    {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	"application/msword": {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {{0x50, 0x4B, 0x03, 0x04}}, // ZIP (PK..)
}

// MagicHeaderSize is how many leading bytes ValidateUpload needs to see.
const MagicHeaderSize = 8

// UploadPolicy describes which uploads are accepted.
type UploadPolicy struct {
	MaxSize          int64
	AllowedMIMETypes []string
}

// ValidateUpload performs 3-layer validation without touching disk:
// 1. Declared MIME type whitelist
// 2. Size bounds (non-empty, at most MaxSize)
// 3. Magic byte verification (content matches the declared type)
func (p UploadPolicy) ValidateUpload(declaredMIME string, size int64, head []byte) FileValidationResult {
	result := FileValidationResult{}

	mediaType := normaliseMIME(declaredMIME)
	result.MIMEType = mediaType

	// Layer 1: MIME whitelist
	if !p.allows(mediaType) {
		result.Error = fmt.Sprintf("Invalid file type. Only %s files are allowed.", p.describeAllowed())
		return result
	}

	// Layer 2: size
	if size <= 0 {
		result.Error = "Uploaded file is empty"
		return result
	}
	if size > p.MaxSize {
		result.Error = fmt.Sprintf("File exceeds the maximum size of %d bytes", p.MaxSize)
		return result
	}

	// Layer 3: magic bytes
	if !validateMagicBytes(mediaType, head) {
		result.Error = "File content does not match its declared type"
		return result
	}

	result.Valid = true
	return result
}

func (p UploadPolicy) allows(mediaType string) bool {
	for _, allowed := range p.AllowedMIMETypes {
		if strings.EqualFold(allowed, mediaType) {
			return true
		}
	}
	return false
}

func (p UploadPolicy) describeAllowed() string {
	names := make([]string, 0, len(p.AllowedMIMETypes))
	for _, m := range p.AllowedMIMETypes {
		if m == "application/pdf" {
			names = append(names, "PDF")
			continue
		}
		names = append(names, m)
	}
	return strings.Join(names, ", ")
}

func normaliseMIME(declared string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mediaType
}

// validateMagicBytes checks if file content starts with expected magic bytes.
// Types without a registered signature pass.
func validateMagicBytes(mediaType string, data []byte) bool {
	signatures, ok := magicBytes[mediaType]
	if !ok || len(signatures) == 0 {
		return true
	}

	for _, sig := range signatures {
		if len(data) >= len(sig) && bytes.HasPrefix(data, sig) {
			return true
		}
	}

	return false
}
