// Package locator decomposes object storage locators into a container
// identifier and an item identifier without touching the network.
package locator

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformed indicates the locator cannot be split into an authority and a path.
var ErrMalformed = errors.New("malformed locator")

// Reference is a parsed image locator.
type Reference struct {
	Locator   string `json:"locator"`
	Container string `json:"container"`
	Key       string `json:"key"`
}

// Parse extracts the container from the first dot-separated label of the
// authority and the key from the path with leading separators stripped.
// The key is kept exactly as written; percent-escapes are not decoded.
//
//	s3://my-bucket.s3.amazonaws.com/folder/image.png → my-bucket, folder/image.png
//
// A locator that names a missing object is not rejected here.
func Parse(locator string) (Reference, error) {
	raw := strings.TrimSpace(locator)

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return Reference{}, fmt.Errorf("%w: %q has no authority", ErrMalformed, locator)
	}

	authority, tail := rest, ""
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		authority, tail = rest[:i], rest[i:]
	}
	if i := strings.IndexAny(tail, "?#"); i >= 0 {
		tail = tail[:i]
	}

	u, err := url.Parse(scheme + "://" + authority)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %q: %w", ErrMalformed, locator, err)
	}
	if u.Host == "" {
		return Reference{}, fmt.Errorf("%w: %q has no authority", ErrMalformed, locator)
	}

	container, _, _ := strings.Cut(u.Hostname(), ".")

	return Reference{
		Locator:   locator,
		Container: container,
		Key:       strings.TrimLeft(tail, "/"),
	}, nil
}

// FromParts builds a Reference for callers that already know the container
// and key. The locator is synthesized in s3 form for display.
func FromParts(container, key string) (Reference, error) {
	if container == "" {
		return Reference{}, fmt.Errorf("%w: container required", ErrMalformed)
	}

	key = strings.TrimLeft(key, "/")

	return Reference{
		Locator:   fmt.Sprintf("s3://%s/%s", container, key),
		Container: container,
		Key:       key,
	}, nil
}
