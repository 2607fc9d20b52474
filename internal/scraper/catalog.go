package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/urlutil"
)

const catalogPageSize = 250

var (
	productCardSelectors = ".grid-product, .product-card, .product-item, .product-grid-item, [data-product], article.product"
	productTitleSelector = ".product-title, .card__heading, .grid-product__title, a[title]"
)

type productsPage struct {
	Products []rawProduct `json:"products"`
}

type rawProduct struct {
	ID          json.Number     `json:"id"`
	Title       string          `json:"title"`
	Handle      string          `json:"handle"`
	Vendor      string          `json:"vendor"`
	ProductType string          `json:"product_type"`
	Tags        json.RawMessage `json:"tags"`
	Images      []rawImage      `json:"images"`
	Variants    []rawVariant    `json:"variants"`
}

type rawImage struct {
	Src string `json:"src"`
}

type rawVariant struct {
	Price     json.RawMessage `json:"price"`
	Available *bool           `json:"available"`
}

// extractCatalog walks the JSON product feed page by page, falling back to
// scanning home-page product cards when the feed yields nothing. An
// unreachable feed endpoint is recorded as an error; a 404 is silent absence.
func (s *Scraper) extractCatalog(ctx context.Context, doc *goquery.Document) []model.Product {
	products := s.fetchProductFeed(ctx)
	if len(products) > 0 {
		return products
	}
	return s.parseProductsFromHTML(doc)
}

func (s *Scraper) fetchProductFeed(ctx context.Context) []model.Product {
	var products []model.Product
	for page := 1; page <= s.cfg.MaxCatalogPages; page++ {
		res := s.fetch(ctx, fmt.Sprintf("/products.json?limit=%d&page=%d", catalogPageSize, page))
		if res.StatusCode != 200 {
			if res.StatusCode == 0 && page == 1 {
				s.recordError("catalog: product feed unreachable")
			}
			break
		}

		var parsed productsPage
		if err := json.Unmarshal([]byte(res.Body), &parsed); err != nil {
			zap.L().Debug("scraper: unparsable product feed page",
				zap.String("site", s.root), zap.Int("page", page), zap.Error(err))
			break
		}
		if len(parsed.Products) == 0 {
			break
		}

		for _, raw := range parsed.Products {
			products = append(products, s.productFromJSON(raw))
		}
	}
	return products
}

func (s *Scraper) productFromJSON(raw rawProduct) model.Product {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = raw.Handle
	}

	p := model.Product{
		ID:          raw.ID.String(),
		Handle:      raw.Handle,
		Title:       title,
		Vendor:      raw.Vendor,
		ProductType: raw.ProductType,
		Tags:        parseTags(raw.Tags),
	}
	if raw.Handle != "" {
		p.URL = s.root + "/products/" + raw.Handle
	}
	for _, img := range raw.Images {
		if img.Src != "" {
			p.Images = append(p.Images, img.Src)
		}
	}
	if len(raw.Variants) > 0 {
		p.Price = parsePrice(raw.Variants[0].Price)
		p.Available = raw.Variants[0].Available
	}
	return p
}

// parsePrice accepts a JSON number or numeric string. Negative or unparsable
// values degrade to nil.
func parsePrice(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	text := strings.Trim(string(raw), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// parseTags accepts either a comma-joined string or a JSON array of strings.
func parseTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		var tags []string
		for _, t := range strings.Split(asString, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return uniqueStrings(tags)
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		var tags []string
		for _, t := range asList {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return uniqueStrings(tags)
	}
	return nil
}

// parseProductsFromHTML scans conventional storefront product-card markup,
// deduplicating by (url, title).
func (s *Scraper) parseProductsFromHTML(doc *goquery.Document) []model.Product {
	var products []model.Product
	seen := make(map[string]struct{})

	doc.Find(productCardSelectors).Each(func(_ int, card *goquery.Selection) {
		title := textOf(card.Find(productTitleSelector).First())
		if title == "" {
			title = textOf(card.Find("a").First())
		}

		var productURL string
		if href, ok := card.Find("a[href*='/products/']").First().Attr("href"); ok {
			productURL, _ = urlutil.Resolve(s.root, href)
		}

		if title == "" && productURL == "" {
			return
		}
		if title == "" {
			title = productURL
		}
		key := productURL + "\x00" + title
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		p := model.Product{Title: title, URL: productURL}
		if src, ok := card.Find("img").First().Attr("src"); ok && src != "" {
			if abs, ok := urlutil.Resolve(s.root, src); ok {
				p.Images = append(p.Images, abs)
			}
		}
		products = append(products, p)
	})

	return products
}
