package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const maxImageBytes = 64 << 20

// Default natural size of an SVG without width and height
const (
	DefaultSVGWidth  = 400
	DefaultSVGHeight = 600
)

var errUnsupportedScheme = errors.New("unsupported image URL scheme")

// SVGRasterizer turns SVG markup into a PNG at the SVG's natural size
type SVGRasterizer interface {
	Rasterize(ctx context.Context, svg []byte) ([]byte, error)
}

// LoadedImage is a poster image re-encoded as PNG
type LoadedImage struct {
	PNG        []byte
	Width      int
	Height     int
	FromVector bool
}

// ImageLoader fetches http(s) and data: images and normalizes them to PNG
type ImageLoader struct {
	httpClient *http.Client
	rasterizer SVGRasterizer
}

// NewImageLoader creates a loader; without a rasterizer SVG images fail to load
func NewImageLoader(httpClient *http.Client, rasterizer SVGRasterizer) *ImageLoader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ImageLoader{httpClient: httpClient, rasterizer: rasterizer}
}

// Load fetches rawURL and returns it as a PNG bitmap at its natural pixel size
func (l *ImageLoader) Load(ctx context.Context, rawURL string) (*LoadedImage, error) {
	data, contentType, err := l.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if IsSVG(contentType, data) {
		return l.rasterizeSVG(ctx, data)
	}
	return redrawRaster(data)
}

func (l *ImageLoader) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return decodeDataURL(rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", fmt.Errorf("%w: %q", errUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("failed to fetch image: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// decodeDataURL parses an RFC 2397 data URL
func decodeDataURL(rawURL string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(rawURL, "data:"), ",")
	if !ok {
		return nil, "", errors.New("malformed data URL")
	}
	params := strings.Split(header, ";")
	contentType := params[0]
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(p, "base64") {
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("malformed base64 data URL: %w", err)
		}
		return data, contentType, nil
	}
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("malformed data URL: %w", err)
	}
	return []byte(decoded), contentType, nil
}

// IsSVG reports whether content is vector markup, by content type or payload
func IsSVG(contentType string, data []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "image/svg+xml") {
		return true
	}
	head := bytes.TrimSpace(data)
	if len(head) > 1024 {
		head = head[:1024]
	}
	lower := bytes.ToLower(head)
	return bytes.HasPrefix(lower, []byte("<svg")) ||
		(bytes.HasPrefix(lower, []byte("<?xml")) && bytes.Contains(lower, []byte("<svg")))
}

func (l *ImageLoader) rasterizeSVG(ctx context.Context, svg []byte) (*LoadedImage, error) {
	if l.rasterizer == nil {
		return nil, errors.New("no SVG rasterizer configured")
	}
	pngData, err := l.rasterizer.Rasterize(ctx, svg)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize SVG: %w", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("rasterizer returned an invalid PNG: %w", err)
	}
	return &LoadedImage{PNG: pngData, Width: cfg.Width, Height: cfg.Height, FromVector: true}, nil
}

// redrawRaster decodes a bitmap, draws it onto an offscreen surface of its
// natural size and encodes that surface as PNG
func redrawRaster(data []byte) (*LoadedImage, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, errors.New("image has no pixels")
	}

	surface := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(surface, surface.Bounds(), src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &LoadedImage{PNG: buf.Bytes(), Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
