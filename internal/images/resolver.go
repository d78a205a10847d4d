package images

import (
	"fmt"
	"regexp"
	"strings"
)

// The three share-link shapes Drive hands out, in match order.
var driveLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/open\?id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
}

const driveThumbnailFormat = "https://drive.google.com/thumbnail?id=%s&sz=w%d"

// Resolve rewrites a Drive share link into a stable content-serving URL at
// the requested display width. Anything that is not a recognizable Drive link
// is treated as an already-direct URL and returned unchanged.
func Resolve(ref string, width int) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if id := DriveFileID(ref); id != "" {
		return fmt.Sprintf(driveThumbnailFormat, id, width)
	}
	return ref
}

// DriveFileID extracts the file id from any recognized share-link shape, or
// returns "" when ref is not a Drive link.
func DriveFileID(ref string) string {
	if !strings.Contains(ref, "drive.google.com") {
		return ""
	}
	for _, pattern := range driveLinkPatterns {
		if m := pattern.FindStringSubmatch(ref); m != nil {
			return m[1]
		}
	}
	return ""
}

// ResolveAll maps every reference, dropping blanks and preserving order.
func ResolveAll(refs []string, width int) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		resolved := Resolve(ref, width)
		if resolved == "" {
			continue
		}
		out = append(out, resolved)
	}
	return out
}
