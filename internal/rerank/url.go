package rerank

import (
	"regexp"
	"strings"
)

var absoluteURLPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// synthesizeURL takes metadata.url if present, otherwise the first
// absolute URL found in content, per spec §4.4.
func synthesizeURL(metadataURL, content string) string {
	if u := strings.TrimSpace(metadataURL); u != "" {
		return u
	}
	return absoluteURLPattern.FindString(content)
}
