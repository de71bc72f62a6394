package entity

import "strings"

// Section is one source-tagged block of a corpus.
type Section struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Corpus is the combined text output of a crawl job, in dequeue order.
type Corpus struct {
	Sections []Section `json:"sections"`
}

// Append adds a section. Empty text is ignored.
func (c *Corpus) Append(url, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	c.Sections = append(c.Sections, Section{URL: url, Text: text})
}

// Empty reports whether no section has been added.
func (c *Corpus) Empty() bool {
	return len(c.Sections) == 0
}

// SourceURLs lists section URLs in order.
func (c *Corpus) SourceURLs() []string {
	urls := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		urls = append(urls, s.URL)
	}
	return urls
}

// String renders the corpus as delimited blocks:
//
//	=== Source: <url> ===
//	<text>
//
// Blocks are separated by a blank line. An empty corpus renders to "".
func (c *Corpus) String() string {
	var b strings.Builder
	for i, s := range c.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("=== Source: ")
		b.WriteString(s.URL)
		b.WriteString(" ===\n")
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	return b.String()
}
