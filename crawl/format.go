package crawl

import (
	"fmt"
	"net/url"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash returns the xxhash of content as 16 lowercase hex digits.
func ComputeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// TruncateURL shortens a URL for progress display. Only the path and query
// are shown since every URL in a run shares the origin. Long paths keep
// their end, which is more informative.
func TruncateURL(rawURL string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	display := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		display = u.RequestURI()
	}

	if len(display) <= maxLen {
		return display
	}
	if maxLen < 4 {
		return display[:maxLen]
	}
	return "..." + display[len(display)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
