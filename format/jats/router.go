package jats

import (
	"fmt"
	"net/url"
	"strconv"
)

// Router builds public article URLs on the journal site.
type Router struct {
	base *url.URL
}

// NewRouter creates a router for a site base URL.
func NewRouter(baseURL string) (*Router, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}
	return &Router{base: u}, nil
}

// ArticleURL returns the landing page of an article, or of one of its
// galleys when galleyID is non-zero.
func (r *Router) ArticleURL(journalPath, bestID string, galleyID int) string {
	elems := []string{"index.php", journalPath, "article", "view", bestID}
	if galleyID != 0 {
		elems = append(elems, strconv.Itoa(galleyID))
	}
	return r.base.JoinPath(elems...).String()
}
