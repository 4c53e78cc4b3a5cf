package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gatherly/backend/internal/models"
	"go.uber.org/zap"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// FirstURL returns the first http(s) URL in the text, or "".
func FirstURL(text string) string {
	return urlPattern.FindString(text)
}

// Unfurler fetches a page and extracts link-preview metadata for chat.
type Unfurler struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewUnfurler(timeoutMS, maxRetries int, log *zap.Logger) *Unfurler {
	return &Unfurler{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

func (u *Unfurler) Unfurl(ctx context.Context, url string) (*models.LinkPreview, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; GatherlyBot/1.0; link previews)")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := u.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 250 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			time.Sleep(time.Duration(attempt+1) * 250 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, lastErr
	}

	return extractPreview(doc, url), nil
}

// extractPreview pulls og: metadata with plain-tag fallbacks.
func extractPreview(doc *goquery.Document, url string) *models.LinkPreview {
	preview := &models.LinkPreview{URL: url}

	meta := func(property string) string {
		content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).Attr("content")
		return strings.TrimSpace(content)
	}

	if title := meta("og:title"); title != "" {
		preview.Title = &title
	} else if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		preview.Title = &title
	}

	if desc := meta("og:description"); desc != "" {
		preview.Description = &desc
	} else if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if desc = strings.TrimSpace(desc); desc != "" {
			preview.Description = &desc
		}
	}

	if image := meta("og:image"); image != "" {
		preview.ImageURL = &image
	}

	return preview
}
