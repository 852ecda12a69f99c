package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL applies to validatable responses (ETag or Last-Modified)
// without an explicit lifetime.
const DefaultTTL = 5 * time.Minute

// directives parses a Cache-Control header into lowercase names mapped to
// their (possibly empty) values.
func directives(header string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		out[strings.ToLower(strings.TrimSpace(name))] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return out
}

func seconds(v string) time.Duration {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// IsCacheable reports whether RFC 7234 headers allow storing resp.
func IsCacheable(resp *http.Response) bool {
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return false
	}

	cc := directives(resp.Header.Get("Cache-Control"))
	if _, ok := cc["no-store"]; ok {
		return false
	}
	if _, ok := cc["private"]; ok {
		return false
	}
	if _, ok := cc["max-age"]; ok {
		return true
	}
	if _, ok := cc["s-maxage"]; ok {
		return true
	}

	if exp := resp.Header.Get("Expires"); exp != "" {
		if t, err := http.ParseTime(exp); err == nil && t.After(time.Now()) {
			return true
		}
	}

	return resp.Header.Get("ETag") != "" || resp.Header.Get("Last-Modified") != ""
}

// TTL computes how long resp may be reused: s-maxage, then max-age, then
// Expires, then DefaultTTL.
func TTL(resp *http.Response) time.Duration {
	cc := directives(resp.Header.Get("Cache-Control"))
	if d := seconds(cc["s-maxage"]); d > 0 {
		return d
	}
	if d := seconds(cc["max-age"]); d > 0 {
		return d
	}

	if exp := resp.Header.Get("Expires"); exp != "" {
		if t, err := http.ParseTime(exp); err == nil {
			if ttl := time.Until(t); ttl > 0 {
				return ttl
			}
		}
	}

	return DefaultTTL
}
