package middleware

import "strings"

// OriginChecker decides whether a cross-origin request is allowed. Origins
// match either the exact allow-list or one of the wildcard subdomain
// suffixes (e.g., ".vercel.app" admits every preview deployment).
type OriginChecker struct {
	exact    map[string]bool
	suffixes []string
}

func NewOriginChecker(origins, suffixes []string) *OriginChecker {
	exact := make(map[string]bool, len(origins))
	for _, o := range origins {
		exact[o] = true
	}
	return &OriginChecker{exact: exact, suffixes: suffixes}
}

// Allow reports whether the given Origin header value is permitted. Requests
// without an Origin (curl, native apps) are allowed.
func (oc *OriginChecker) Allow(origin string) (bool, error) {
	if origin == "" {
		return true, nil
	}
	if oc.exact[origin] {
		return true, nil
	}
	for _, suffix := range oc.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true, nil
		}
	}
	return false, nil
}
