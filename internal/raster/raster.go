// Package raster converts PDF byte content into page images for
// vision-model consumption.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrDocumentOpenFailed indicates the byte stream could not be opened as a
// PDF document.
var ErrDocumentOpenFailed = errors.New("failed to open PDF document")

// PageImage is one rasterized page, JPEG-encoded, in page order.
type PageImage struct {
	Index int
	Data  []byte
}

// Tier is a (scale, quality) rendering parameter pair.
// Scale is relative to 72 DPI, so 4.17 is roughly 300 DPI.
type Tier struct {
	Scale   float64
	Quality int
}

// TierFor selects rendering parameters by effective page count, trading
// resolution for payload size.
func TierFor(pageCount int) Tier {
	switch {
	case pageCount <= 2:
		return Tier{Scale: 4.17, Quality: 80} // ~300 DPI
	case pageCount <= 10:
		return Tier{Scale: 2.0, Quality: 60} // ~145 DPI
	default:
		return Tier{Scale: 1.5, Quality: 60} // ~110 DPI
	}
}

// DPI returns the tier's DPI-equivalent render resolution.
func (t Tier) DPI() float64 {
	return t.Scale * 72
}

// Render rasterizes up to maxPages pages of a PDF to JPEG images in page
// order. A non-positive maxPages renders every page. An empty result means
// the document has zero pages; callers treat that as a fatal precondition.
func Render(pdfBytes []byte, maxPages int) ([]PageImage, error) {
	// Preflight: reject byte streams that are not a readable PDF before
	// handing them to the native renderer.
	if _, err := api.PageCount(bytes.NewReader(pdfBytes), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentOpenFailed, err)
	}

	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentOpenFailed, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	count := total
	if maxPages > 0 && maxPages < total {
		count = maxPages
	}

	tier := TierFor(count)

	images := make([]PageImage, 0, count)
	for i := 0; i < count; i++ {
		img, err := doc.ImageDPI(i, tier.DPI())
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i, err)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: tier.Quality}); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i, err)
		}
		images = append(images, PageImage{Index: i, Data: buf.Bytes()})
	}

	return images, nil
}
