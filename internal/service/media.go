package service

import (
	"encoding/base64"
	"fmt"
	"strings"
)

type Media struct {
	ContentType string
	Body        []byte
}

// Kind is "image", "video" or "audio", or empty for anything else.
func (m Media) Kind() string {
	kind, _, _ := strings.Cut(m.ContentType, "/")
	switch kind {
	case "image", "video", "audio":
		return kind
	}
	return ""
}

// ParseDataURI decodes a base64 data URI such as "data:image/png;base64,...".
func ParseDataURI(uri string) (*Media, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("media is not a data uri")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("media data uri has no payload")
	}
	contentType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, fmt.Errorf("media data uri must be base64 encoded")
	}

	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode media: %w", err)
	}
	return &Media{ContentType: contentType, Body: body}, nil
}
