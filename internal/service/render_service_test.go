package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	svc := NewRenderService()

	html, err := svc.ToHTML("# Heading\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestToHTMLGitHubTables(t *testing.T) {
	svc := NewRenderService()

	html, err := svc.ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
}

func TestToHTMLCodeFence(t *testing.T) {
	svc := NewRenderService()

	html, err := svc.ToHTML("```go\nfmt.Println(\"hi\")\n```")
	require.NoError(t, err)
	assert.Contains(t, html, "<pre>")
	assert.Contains(t, html, "fmt.Println")
}
