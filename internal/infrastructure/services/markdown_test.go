package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialabs/inkwell/internal/infrastructure/services"
)

func TestMarkdown_Basics(t *testing.T) {
	m := services.NewMarkdown()

	html, err := m.Render("# Title\n\nSome *emphasis* and a [link](https://example.com).\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<em>emphasis</em>")
	assert.Contains(t, html, `<a href="https://example.com">link</a>`)
}

func TestMarkdown_GFMTable(t *testing.T) {
	m := services.NewMarkdown()

	html, err := m.Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
}

func TestMarkdown_RawHTMLPassthrough(t *testing.T) {
	m := services.NewMarkdown()

	html, err := m.Render("before\n\n<div class=\"x\">inline</div>\n")
	require.NoError(t, err)
	assert.Contains(t, html, `<div class="x">inline</div>`)
}
