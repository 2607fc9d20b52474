// Package model defines the data types produced by the extraction pipeline.
// Every value is built fresh per scrape and is immutable once returned.
package model

// Product is a single catalog entry. Identity across JSON and HTML sources is
// (URL, Title); no stable native id is assumed to exist.
type Product struct {
	ID          string   `json:"id,omitempty"`
	Handle      string   `json:"handle,omitempty"`
	Title       string   `json:"title"`
	URL         string   `json:"url,omitempty"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	Available   *bool    `json:"available"`
	Vendor      string   `json:"vendor,omitempty"`
	ProductType string   `json:"product_type,omitempty"`
}

// Policy is one storefront policy page (privacy, refund, return, shipping,
// terms) with a bounded excerpt of its main content.
type Policy struct {
	Name           string `json:"name"`
	URL            string `json:"url,omitempty"`
	ContentExcerpt string `json:"content_excerpt,omitempty"`
}

// FAQItem is a question/answer pair. Deduplication key is the question text
// exactly as extracted; the first occurrence wins.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

// ContactInfo holds contact signals scraped from the home page. Address is
// always empty: no address-extraction heuristic exists, by intent.
type ContactInfo struct {
	Emails         []string `json:"emails"`
	Phones         []string `json:"phones"`
	Address        string   `json:"address,omitempty"`
	ContactPageURL string   `json:"contact_page_url,omitempty"`
}

// Link is a titled navigational link, deduplicated by URL.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// BrandContext is the complete extraction result for one site. It is always
// returned when the site root was reachable, even if every extractor failed;
// absent data is represented by empty containers, not a missing record.
type BrandContext struct {
	SiteURL  string `json:"site_url"`
	SiteName string `json:"site_name,omitempty"`
	Domain   string `json:"domain,omitempty"`

	// CatalogCount is nil when zero products were found, not zero, so
	// callers can distinguish "no data" from a confirmed empty catalog.
	CatalogCount *int      `json:"catalog_count"`
	Products     []Product `json:"products"`
	HeroProducts []string  `json:"hero_products"`

	Policies []Policy  `json:"policies"`
	FAQs     []FAQItem `json:"faqs"`

	SocialHandles map[string]string `json:"social_handles"`
	Contact       ContactInfo       `json:"contact"`

	AboutText      string `json:"about_text,omitempty"`
	ImportantLinks []Link `json:"important_links"`

	Errors []string `json:"errors"`
}
