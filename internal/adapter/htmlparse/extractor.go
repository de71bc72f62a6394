package htmlparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonContentSelectors lists elements with no reader-facing text.
const nonContentSelectors = "script, style, noscript, nav, footer, header, aside, iframe, svg"

// boilerplateSelectors lists common ad, cookie and popup containers.
const boilerplateSelectors = ".ad, .ads, .advert, .advertisement, .adsbygoogle, " +
	".cookie-banner, .cookie-consent, .cookie-notice, #cookie-banner, #cookie-consent, " +
	".popup, .modal, [id^='ad-'], [class^='ad-']"

// contentSelectors are the elements walked for text, in document order.
const contentSelectors = "h1, h2, h3, p, li"

// contentRegions is the fallback chain for the primary content container.
var contentRegions = []string{"main, [role='main']", "article", "body"}

// ExtractText strips non-content elements from doc and returns its readable text,
// prefixed with the page title as a heading line. A page with no headings,
// paragraphs or list items returns "". Extraction mutates doc.
func ExtractText(doc *goquery.Document) string {
	title := Title(doc)

	doc.Find(nonContentSelectors).Remove()
	doc.Find(boilerplateSelectors).Remove()

	var lines []string
	ContentRegion(doc).Find(contentSelectors).Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		return ""
	}
	if title != "" {
		lines = append([]string{"# " + title}, lines...)
	}
	return strings.Join(lines, "\n")
}

// ContentRegion returns the first matching region of the fallback chain, or the whole document.
func ContentRegion(doc *goquery.Document) *goquery.Selection {
	for _, sel := range contentRegions {
		if region := doc.Find(sel).First(); region.Length() > 0 {
			return region
		}
	}
	return doc.Selection
}

// Title returns the trimmed <title>, falling back to og:title.
func Title(doc *goquery.Document) string {
	if title := collapseSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if ogTitle, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		return collapseSpace(ogTitle)
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
