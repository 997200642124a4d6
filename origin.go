package doctext

import (
	"net/url"
	"strings"
)

// Origin is the scheme and host pair that bounds a crawl.
type Origin struct {
	Scheme string
	Host   string
}

// ParseOrigin parses the scheme and host of rawURL.
// Only http and https origins are accepted; any path is ignored.
func ParseOrigin(rawURL string) (Origin, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Origin{}, Errorf(EINVALID, "invalid origin %q: %v", rawURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Origin{}, Errorf(EINVALID, "origin %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return Origin{}, Errorf(EINVALID, "origin %q has no host", rawURL)
	}
	return Origin{Scheme: scheme, Host: strings.ToLower(u.Host)}, nil
}

// String returns the origin as "scheme://host".
func (o Origin) String() string {
	return o.Scheme + "://" + o.Host
}

// URL returns the origin root as a URL with path "/".
func (o Origin) URL() *url.URL {
	return &url.URL{Scheme: o.Scheme, Host: o.Host, Path: "/"}
}

// Contains reports whether u shares the origin's scheme and host.
func (o Origin) Contains(u *url.URL) bool {
	return u != nil &&
		strings.EqualFold(u.Scheme, o.Scheme) &&
		strings.EqualFold(u.Host, o.Host)
}

// Resolve resolves ref against the origin root and normalizes the result.
func (o Origin) Resolve(ref string) (string, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", ref, err)
	}
	return NormalizeURL(o.URL().ResolveReference(r).String())
}

// NormalizeURL returns the canonical form used for deduplication:
// lowercase scheme and host, no fragment, and "/" for an empty path.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q is not absolute", rawURL)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
