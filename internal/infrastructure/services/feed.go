package services

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/sophialabs/inkwell/internal/domain/content"
	"github.com/sophialabs/inkwell/internal/domain/site"
)

const atomNamespace = "http://www.w3.org/2005/Atom"

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Author  atomAuthor  `xml:"author"`
	Links   []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomAuthor struct {
	Name  string `xml:"name"`
	Email string `xml:"email,omitempty"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomEntry struct {
	Title   string   `xml:"title"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Link    atomLink `xml:"link"`
	Summary string   `xml:"summary,omitempty"`
}

// BuildFeed renders the Atom feed for the given posts (assumed newest
// first). The feed's updated time is the newest post date, or now for an
// empty site.
func BuildFeed(cfg *site.Config, posts []*content.Post, now time.Time) ([]byte, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")

	updated := now
	if len(posts) > 0 {
		updated = posts[0].Date
	}

	feed := atomFeed{
		Xmlns:   atomNamespace,
		Title:   cfg.Title,
		ID:      base + "/",
		Updated: updated.UTC().Format(time.RFC3339),
		Author:  atomAuthor{Name: cfg.Author.Name, Email: cfg.Author.Email},
		Links: []atomLink{
			{Href: base + "/feed.xml", Rel: "self"},
			{Href: base + "/"},
		},
	}

	for _, p := range posts {
		link := fmt.Sprintf("%s/posts/%s", base, p.Slug)
		feed.Entries = append(feed.Entries, atomEntry{
			Title:   p.Title,
			ID:      link,
			Updated: p.Date.UTC().Format(time.RFC3339),
			Link:    atomLink{Href: link},
			Summary: p.Summary,
		})
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
