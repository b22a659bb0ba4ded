package views

import "embed"

// FS holds the page templates. Pages render inside layouts/base.
//
//go:embed *.html layouts/*.html
var FS embed.FS
