package utils

import (
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

var (
	youtubeLongRe  = regexp.MustCompile(`v=([a-zA-Z0-9_-]{11})`)
	youtubeShortRe = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`)
	youtubeEmbedRe = regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`)
)

// YoutubeID extracts the 11 character video id from watch, short and embed
// URLs. It returns "" when none is found.
func YoutubeID(url string) string {
	for _, re := range []*regexp.Regexp{youtubeLongRe, youtubeShortRe, youtubeEmbedRe} {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// YoutubeEmbed renders an iframe for a YouTube URL.
func YoutubeEmbed(url string) template.HTML {
	id := YoutubeID(url)
	if id == "" {
		return template.HTML(`<p>Invalid YouTube URL</p>`)
	}
	return template.HTML(fmt.Sprintf(`<iframe width="100%%" height="500" src="https://www.youtube.com/embed/%s" title="YouTube video player" frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share" referrerpolicy="strict-origin-when-cross-origin" allowfullscreen></iframe>`, id))
}

// EmbedPdf renders an inline viewer for a document URL.
func EmbedPdf(url string, width, height string) template.HTML {
	if strings.TrimSpace(url) == "" {
		return template.HTML(`<p>Document not available</p>`)
	}
	if width == "" {
		width = "100%"
	}
	if height == "" {
		height = "600"
	}
	u := html.EscapeString(url)
	return template.HTML(fmt.Sprintf(`<object data="%s" type="application/pdf" width="%s" height="%s"><a href="%s">Download document</a></object>`,
		u, html.EscapeString(width), html.EscapeString(height), u))
}

// Split splits value on key and trims the parts. Empty input gives no parts.
func Split(value, key string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, key)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// TemplateFuncs is the helper set handed to the view engine.
func TemplateFuncs(mediaURL func(string) string) template.FuncMap {
	return template.FuncMap{
		"youtubeEmbed": YoutubeEmbed,
		"embedPdf":     EmbedPdf,
		"split":        Split,
		"mediaURL":     mediaURL,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
	}
}
