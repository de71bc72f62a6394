// Package htmlparse converts rendered HTML into plain text and same-domain links.
package htmlparse

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/varon-ai/sitecrawler/internal/entity"
	"github.com/varon-ai/sitecrawler/internal/repository"
	"github.com/varon-ai/sitecrawler/pkg/utils"
)

// Parser implements repository.PageParser with goquery.
type Parser struct{}

// NewParser creates a new parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse runs one parse pass: links are collected before the destructive
// cleanup so that navigation menus still feed the crawl frontier.
func (p *Parser) Parse(pageURL, html string) (*entity.ParsedPage, error) {
	base, err := utils.ParseHTTPURL(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: page url %q: %v", repository.ErrParse, pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrParse, err)
	}

	page := &entity.ParsedPage{
		Title: Title(doc),
		Links: CollectLinks(doc, base),
	}
	page.Text = ExtractText(doc)
	return page, nil
}
