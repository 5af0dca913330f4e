// Package dataurl inlines uploaded images as RFC 2397 data URLs.
package dataurl

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/myoungji/website/internal/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotImage      = errors.NewSentinel("not an image")
	ErrImageTooLarge = errors.NewSentinel("image too large")
)

// Source is one image waiting to be encoded.
type Source struct {
	Filename string
	// ContentType as declared by the client. Empty or non-image values fall back to content sniffing.
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromFileHeader wraps an uploaded multipart file.
func FromFileHeader(fh *multipart.FileHeader) Source {
	return Source{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromBytes wraps data already in memory.
func FromBytes(filename, contentType string, data []byte) Source {
	return Source{
		Filename:    filename,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Encoder turns Sources into data URLs. MaxBytes limits the raw size of a single image.
type Encoder struct {
	MaxBytes int64
}

// Encoding is the pending result of Encode.
type Encoding struct {
	done chan struct{}
	urls []string
	err  error
}

// Encode starts encoding sources concurrently and returns immediately. The results keep the order of sources.
func (e Encoder) Encode(ctx context.Context, sources ...Source) *Encoding {
	encoding := &Encoding{
		done: make(chan struct{}),
		urls: make([]string, len(sources)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			url, err := e.encode(gctx, source)
			if err != nil {
				return errors.Wrap(err, "encode image",
					slog.Int("index", i), slog.String("filename", source.Filename))
			}
			encoding.urls[i] = url
			return nil
		})
	}

	go func() {
		encoding.err = g.Wait()
		close(encoding.done)
	}()

	return encoding
}

// Wait blocks until every image is encoded or ctx is done.
func (enc *Encoding) Wait(ctx context.Context) ([]string, error) {
	select {
	case <-enc.done:
		if enc.err != nil {
			return nil, enc.err
		}
		return append([]string(nil), enc.urls...), nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "wait for image encoding")
	}
}

func (e Encoder) encode(ctx context.Context, source Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "context done")
	}

	rc, err := source.Open()
	if err != nil {
		return "", errors.Wrap(err, "open source")
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, e.MaxBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "read source")
	}
	if int64(len(data)) > e.MaxBytes {
		return "", errors.Wrap(ErrImageTooLarge, "check size", slog.Int64("max_bytes", e.MaxBytes))
	}

	mediaType := imageMediaType(source.ContentType, data)
	if mediaType == "" {
		return "", errors.Wrap(ErrNotImage, "detect media type", slog.String("content_type", source.ContentType))
	}

	if err = ctx.Err(); err != nil {
		return "", errors.Wrap(err, "context done")
	}

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}

// imageMediaType prefers the declared type and falls back to sniffing data. Returns "" for non-images and empty data.
func imageMediaType(declared string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return ""
}
