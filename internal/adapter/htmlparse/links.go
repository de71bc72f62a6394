package htmlparse

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/varon-ai/sitecrawler/pkg/utils"
)

// CollectLinks returns the normalized absolute URLs of anchors in doc that
// point at base's hostname, deduplicated, in document order.
// Relative hrefs resolve against the document's <base href> when it has one.
// Malformed and non-http hrefs are skipped.
func CollectLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]struct{})
	var links []string
	resolveBase := documentBase(doc, base)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		abs, err := utils.ToAbsoluteURL(resolveBase, href)
		if err != nil || !utils.IsHTTP(abs) || abs.Host == "" {
			return
		}
		if !utils.SameHost(abs, base) {
			return
		}
		link := utils.NormalizeURL(abs)
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	return links
}

// documentBase resolves the first <base href> against pageURL. An unusable
// base element leaves pageURL in effect.
func documentBase(doc *goquery.Document, pageURL *url.URL) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return pageURL
	}
	abs, err := utils.ToAbsoluteURL(pageURL, strings.TrimSpace(href))
	if err != nil || !utils.IsHTTP(abs) || abs.Host == "" {
		return pageURL
	}
	return abs
}
