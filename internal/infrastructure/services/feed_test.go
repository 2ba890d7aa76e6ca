package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialabs/inkwell/internal/domain/content"
	"github.com/sophialabs/inkwell/internal/domain/site"
	"github.com/sophialabs/inkwell/internal/infrastructure/services"
)

func feedConfig() *site.Config {
	return &site.Config{
		Title:   "Inkspot",
		BaseURL: "https://ink.example/",
		Author:  site.Author{Name: "Ada", Email: "ada@ink.example"},
	}
}

func TestBuildFeed_Shape(t *testing.T) {
	posts := []*content.Post{
		{Slug: "newer", Title: "Newer Post", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Summary: "second"},
		{Slug: "older", Title: "Older Post", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	out, err := services.BuildFeed(feedConfig(), posts, time.Now())
	require.NoError(t, err)

	doc, err := xmlquery.Parse(strings.NewReader(string(out)))
	require.NoError(t, err)

	feed := xmlquery.FindOne(doc, "//feed")
	require.NotNil(t, feed)
	assert.Equal(t, "http://www.w3.org/2005/Atom", feed.SelectAttr("xmlns"))

	title := xmlquery.FindOne(doc, "//feed/title")
	require.NotNil(t, title)
	assert.Equal(t, "Inkspot", title.InnerText())

	entries := xmlquery.Find(doc, "//feed/entry")
	require.Len(t, entries, 2)

	firstLink := xmlquery.FindOne(entries[0], "link")
	require.NotNil(t, firstLink)
	assert.Equal(t, "https://ink.example/posts/newer", firstLink.SelectAttr("href"))

	updated := xmlquery.FindOne(doc, "//feed/updated")
	require.NotNil(t, updated)
	assert.Equal(t, "2026-02-01T00:00:00Z", updated.InnerText())

	self := xmlquery.FindOne(doc, `//feed/link[@rel="self"]`)
	require.NotNil(t, self)
	assert.Equal(t, "https://ink.example/feed.xml", self.SelectAttr("href"))
}

func TestBuildFeed_EmptySite(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out, err := services.BuildFeed(feedConfig(), nil, now)
	require.NoError(t, err)

	doc, err := xmlquery.Parse(strings.NewReader(string(out)))
	require.NoError(t, err)

	assert.Empty(t, xmlquery.Find(doc, "//feed/entry"))
	updated := xmlquery.FindOne(doc, "//feed/updated")
	require.NotNil(t, updated)
	assert.Equal(t, "2026-03-01T12:00:00Z", updated.InnerText())
}
