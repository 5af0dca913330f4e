// Package ui embeds the HTML templates and static assets of the website.
package ui

import "embed"

// Files holds templates/ and static/.
//
//go:embed templates static
var Files embed.FS
