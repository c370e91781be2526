package extract

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// sizeCategory buckets a PDF by size and page count so the router can pick
// a sensible primary backend without extracting first.
type sizeCategory string

const (
	categorySmall  sizeCategory = "small"  // <=100KB, <=5p
	categoryMedium sizeCategory = "medium" // <=1MB, <=20p
	categoryLarge  sizeCategory = "large"  // <=10MB, <=100p
	categoryXLarge sizeCategory = "xlarge"
)

const (
	smallMaxBytes  = 100 * 1024
	smallMaxPages  = 5
	mediumMaxBytes = 1024 * 1024
	mediumMaxPages = 20
	largeMaxBytes  = 10 * 1024 * 1024
	largeMaxPages  = 100
)

// Router selects among backends, falls back on recoverable failures, and
// evaluates extraction quality before returning a result.
type Router struct{}

func NewRouter() *Router {
	return &Router{}
}

// Extract runs the routing algorithm: analyze -> select primary backend ->
// extract -> evaluate quality -> fall back on recoverable failure.
func (r *Router) Extract(data []byte) (*ExtractionResult, error) {
	start := time.Now()

	category, _ := analyze(data)
	order := preferenceOrder(category)

	var warnings []string
	var fallbackOccurred bool
	var lastErr error

	for i, backend := range order {
		pages, err := backend.Extract(data)
		if err == nil {
			if q := combinedQuality(pages); !q.valid {
				lastErr = newGarbageOutput(sample(pages), 1-q.garbageRatio)
				if i < len(order)-1 {
					warnings = append(warnings, fmt.Sprintf("%s: %s, falling back", backend.Name(), q.details))
					fallbackOccurred = true
					continue
				}
			}
			return &ExtractionResult{
				Pages:            pages,
				BackendUsed:      backend.Name(),
				FallbackOccurred: fallbackOccurred,
				ExtractionTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
				TotalCharacters:  totalChars(pages),
				Warnings:         warnings,
			}, nil
		}

		lastErr = err
		extractionErr, ok := err.(*ExtractionError)
		recoverable := ok && (extractionErr.Kind == FailureBackendUnavailable ||
			(extractionErr.Kind == FailureEncodingFailure && extractionErr.Recoverable) ||
			extractionErr.Kind == FailureParseError)
		if !recoverable || i == len(order)-1 {
			break
		}
		warnings = append(warnings, fmt.Sprintf("%s: %v, falling back", backend.Name(), err))
		fallbackOccurred = true
	}

	return nil, lastErr
}

func analyze(data []byte) (sizeCategory, int) {
	pageCount := estimatePageCount(data)
	size := len(data)

	switch {
	case size <= smallMaxBytes && pageCount <= smallMaxPages:
		return categorySmall, pageCount
	case size <= mediumMaxBytes && pageCount <= mediumMaxPages:
		return categoryMedium, pageCount
	case size <= largeMaxBytes && pageCount <= largeMaxPages:
		return categoryLarge, pageCount
	default:
		return categoryXLarge, pageCount
	}
}

func estimatePageCount(data []byte) int {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0
	}
	return ctx.PageCount
}

// preferenceOrder returns the backend chain: Native first for
// small/medium, HostBridge first for large/xlarge (falling back to Native,
// which is always attemptable in-process), Legacy last as the
// conservative catch-all.
func preferenceOrder(category sizeCategory) []Backend {
	switch category {
	case categoryLarge, categoryXLarge:
		return []Backend{HostBridgeBackend{}, NativeBackend{}, LegacyBackend{}}
	default:
		return []Backend{NativeBackend{}, LegacyBackend{}}
	}
}

func combinedQuality(pages []PageContent) qualityResult {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.RawText)
	}
	return analyzeTextQuality(sb.String())
}

func totalChars(pages []PageContent) int {
	n := 0
	for _, p := range pages {
		n += len(p.RawText)
	}
	return n
}

func sample(pages []PageContent) string {
	for _, p := range pages {
		if len(p.RawText) > 0 {
			if len(p.RawText) > 40 {
				return p.RawText[:40]
			}
			return p.RawText
		}
	}
	return ""
}
