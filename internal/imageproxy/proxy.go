// Package imageproxy rewrites external image URLs to the storefront's image
// proxy so the browser never fetches merchant-hosted assets directly.
package imageproxy

import (
	"net/url"
	"strconv"
	"strings"
)

// Defaults for proxied image rendering.
const (
	DefaultWidth   = 400
	DefaultHeight  = 400
	DefaultQuality = 80
	DefaultFormat  = "webp"

	DefaultProxyPath       = "/api/image-proxy"
	DefaultPlaceholderPath = "/api/placeholder/300/300"
)

// Config controls how the rewriter renders proxy URLs. Zero values fall back
// to the defaults above.
type Config struct {
	ProxyPath       string `yaml:"proxy_path" env:"IMAGE_PROXY_PATH"`
	PlaceholderPath string `yaml:"placeholder_path" env:"IMAGE_PLACEHOLDER_PATH"`
	Width           int    `yaml:"width" env:"IMAGE_PROXY_WIDTH"`
	Height          int    `yaml:"height" env:"IMAGE_PROXY_HEIGHT"`
	Quality         int    `yaml:"quality" env:"IMAGE_PROXY_QUALITY"`
	Format          string `yaml:"format" env:"IMAGE_PROXY_FORMAT"`
}

func (c *Config) SetDefaults() {
	if c.ProxyPath == "" {
		c.ProxyPath = DefaultProxyPath
	}
	if c.PlaceholderPath == "" {
		c.PlaceholderPath = DefaultPlaceholderPath
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Quality <= 0 {
		c.Quality = DefaultQuality
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
}

// Rewriter converts raw image URLs into proxied ones.
type Rewriter struct {
	cfg Config
}

func NewRewriter(cfg Config) *Rewriter {
	cfg.SetDefaults()
	return &Rewriter{cfg: cfg}
}

// Rewrite maps a raw image URL to its served form.
//
// Absolute http(s) URLs go through the proxy endpoint with sizing and format
// parameters. Empty input gets the placeholder. Anything else (site-relative
// paths, already-proxied URLs) passes through untouched.
func (r *Rewriter) Rewrite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r.cfg.PlaceholderPath
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return raw
	}

	q := url.Values{}
	q.Set("url", raw)
	q.Set("width", strconv.Itoa(r.cfg.Width))
	q.Set("height", strconv.Itoa(r.cfg.Height))
	q.Set("quality", strconv.Itoa(r.cfg.Quality))
	q.Set("format", r.cfg.Format)
	return r.cfg.ProxyPath + "?" + q.Encode()
}
