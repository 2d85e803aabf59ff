package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const EventsFolder = "events"

var ErrMissingPublicURL = errors.New("upload response did not include a public URL")

// ImageUploader moves an image to object storage under key and returns the
// URL it is publicly served from.
type ImageUploader interface {
	Upload(ctx context.Context, key string, file io.Reader, filename, contentType string) (string, error)
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9.-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9.-] with "-".
func SanitizeFilename(name string) string {
	return unsafeKeyChars.ReplaceAllString(name, "-")
}

// EventImageKey builds events/{eventId}/{unixMillis}-{sanitizedFilename}.
func EventImageKey(eventID uuid.UUID, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%d-%s", EventsFolder, eventID, at.UnixMilli(), SanitizeFilename(filename))
}

// publicID strips the extension from a storage key, which is how Cloudinary
// expects asset ids.
func publicID(key string) string {
	slash := strings.LastIndex(key, "/")
	if dot := strings.LastIndex(key, "."); dot > slash {
		return key[:dot]
	}
	return key
}
