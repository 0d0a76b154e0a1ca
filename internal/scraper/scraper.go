package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/foxxcyber/price-watch/internal/models"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "price-watch/1.0"
)

var (
	// ErrNoScript means no stored extraction rule matches the URL
	ErrNoScript = errors.New("no extraction rule matches this URL")

	ErrBadStatus = errors.New("unexpected response status")
)

// ScriptSource supplies the stored URL-pattern extraction rules
type ScriptSource interface {
	FindAllScripts(ctx context.Context) ([]*models.Script, error)
}

// Selectors is the parsed form of a stored extraction script: a set of CSS
// selectors applied to the fetched page. Missing selectors leave the item
// field at its default.
type Selectors struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// Scraper turns a tracked URL into an Item using pattern-matched selector scripts
type Scraper struct {
	scripts    ScriptSource
	httpClient *http.Client
}

// New creates a scraper backed by the given script source
func New(scripts ScriptSource) *Scraper {
	return &Scraper{
		scripts: scripts,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Fetch retrieves the page behind url and extracts an Item from it using the
// first stored rule whose pattern matches the URL. Returns ErrNoScript when
// no rule matches.
func (s *Scraper) Fetch(ctx context.Context, url string) (models.Item, error) {
	item := models.NewItem(url)

	script, err := s.matchScript(ctx, url)
	if err != nil {
		return item, err
	}

	var sel Selectors
	if err := json.Unmarshal([]byte(script.Script), &sel); err != nil {
		return item, fmt.Errorf("parse extraction script for %q: %w", script.Pattern, err)
	}

	doc, err := s.loadPage(ctx, url)
	if err != nil {
		return item, err
	}

	return extract(doc, sel, url), nil
}

// matchScript returns the first rule whose pattern matches the URL
func (s *Scraper) matchScript(ctx context.Context, url string) (*models.Script, error) {
	scripts, err := s.scripts.FindAllScripts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scripts: %w", err)
	}

	for _, script := range scripts {
		re, err := regexp.Compile(script.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", script.Pattern, err)
		}
		if re.MatchString(url) {
			return script, nil
		}
	}

	return nil, ErrNoScript
}

func (s *Scraper) loadPage(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %w: %d", url, ErrBadStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return doc, nil
}

// extract applies the selector set to the document. A price selector that
// matches nothing yields price 0, which the refresh policy reads as the
// item having vanished.
func extract(doc *goquery.Document, sel Selectors, url string) models.Item {
	item := models.NewItem(url)

	if sel.Name != "" {
		if name := strings.TrimSpace(doc.Find(sel.Name).First().Text()); name != "" {
			item.Name = name
		}
	}
	if sel.Price != "" {
		item.Price = parsePrice(doc.Find(sel.Price).First().Text())
	}
	if sel.Quantity != "" {
		item.Quantity = parseQuantity(doc.Find(sel.Quantity).First().Text())
	}

	return item
}

// priceCleaner strips everything but digits, separators and sign
var priceCleaner = regexp.MustCompile(`[^0-9,.\-]`)

// parsePrice normalizes a scraped price string: currency symbols and
// whitespace are stripped, a comma decimal separator is accepted.
func parsePrice(text string) float64 {
	cleaned := priceCleaner.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0
	}

	// Treat a single comma as the decimal separator, thousands commas are dropped
	if strings.Count(cleaned, ",") == 1 && strings.Count(cleaned, ".") == 0 {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}

var quantityDigits = regexp.MustCompile(`\d+`)

func parseQuantity(text string) int {
	match := quantityDigits.FindString(text)
	if match == "" {
		return 0
	}
	qty, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return qty
}
