// Package core provides the shared error, geometry and artifact types for locator-finder.
package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// Attachment represents an artifact captured alongside a UI snapshot
type Attachment struct {
	Name        string `json:"name"`        // Descriptive name: screenshot, source, elements
	ContentType string `json:"contentType"` // MIME type: image/png, application/xml, application/json
	Path        string `json:"path"`        // File path relative to output directory
	Body        []byte `json:"-"`           // In-memory content (not serialized to JSON)
}

// Common attachment names
const (
	AttachmentScreenshot = "screenshot"
	AttachmentSource     = "source"
	AttachmentElements   = "elements"
)

// Common content types
const (
	ContentTypePNG  = "image/png"
	ContentTypeXML  = "application/xml"
	ContentTypeJSON = "application/json"
)

// NewScreenshotAttachment creates a screenshot attachment
func NewScreenshotAttachment(path string, data []byte) Attachment {
	return Attachment{
		Name:        AttachmentScreenshot,
		ContentType: ContentTypePNG,
		Path:        path,
		Body:        data,
	}
}

// NewSourceAttachment creates an attachment for raw page source markup
func NewSourceAttachment(path string, markup string) Attachment {
	return Attachment{
		Name:        AttachmentSource,
		ContentType: ContentTypeXML,
		Path:        path,
		Body:        []byte(markup),
	}
}

// NewElementsAttachment creates an attachment for an element export
func NewElementsAttachment(path string, data []byte) Attachment {
	return Attachment{
		Name:        AttachmentElements,
		ContentType: ContentTypeJSON,
		Path:        path,
		Body:        data,
	}
}

// WriteAttachment writes the attachment body to dir/Path and returns the full path.
func WriteAttachment(dir string, a Attachment) (string, error) {
	if a.Path == "" {
		return "", fmt.Errorf("attachment %q has no path", a.Name)
	}
	full := filepath.Join(dir, a.Path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(full, a.Body, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", a.Name, err)
	}
	return full, nil
}
