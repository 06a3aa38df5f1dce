package aggregator

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParamPrefixes and trackingParamNames are stripped during
// normalization per spec §4.5 step 5.
var trackingParamPrefixes = []string{"utm_"}

var trackingParamNames = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"ref":     true,
	"ref_src": true,
}

func isTrackingParam(name string) bool {
	lower := strings.ToLower(name)
	if trackingParamNames[lower] {
		return true
	}
	for _, prefix := range trackingParamPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// NormalizeURL applies spec §4.5's deterministic normalization procedure.
// It is pure and idempotent: NormalizeURL(NormalizeURL(u)) == NormalizeURL(u).
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)

	// Step 2: remove default ports.
	if h, port, ok := strings.Cut(host, ":"); ok {
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			host = h
		}
	}
	u.Host = host

	// Step 3: strip a trailing slash from non-root paths.
	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	// Step 4: remove fragment.
	u.Fragment = ""
	u.RawFragment = ""

	// Step 5 + 6: drop tracking params, then sort remaining by name (stable).
	if u.RawQuery != "" {
		values := u.Query()
		for k := range values {
			if isTrackingParam(k) {
				delete(values, k)
			}
		}

		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		for i, k := range keys {
			for j, v := range values[k] {
				if i > 0 || j > 0 {
					b.WriteByte('&')
				}
				b.WriteString(url.QueryEscape(k))
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(v))
			}
		}
		u.RawQuery = b.String()
	}

	return u.String(), nil
}
