// Package ui holds the embedded page templates.
package ui

import "embed"

//go:embed templates/*.html
var TemplatesFS embed.FS
