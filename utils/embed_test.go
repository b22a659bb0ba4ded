package utils

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYoutubeID(t *testing.T) {
	tests := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":          "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s":    "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                         "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1": "dQw4w9WgXcQ",
		"https://vimeo.com/123456":                             "",
		"":                                                     "",
	}
	for url, want := range tests {
		assert.Equal(t, want, YoutubeID(url), url)
	}
}

func TestYoutubeEmbed(t *testing.T) {
	out := string(YoutubeEmbed("https://youtu.be/dQw4w9WgXcQ"))
	assert.Contains(t, out, "<iframe")
	assert.Contains(t, out, `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`)

	assert.Equal(t, template.HTML(`<p>Invalid YouTube URL</p>`), YoutubeEmbed("not a url"))
}

func TestEmbedPdf(t *testing.T) {
	out := string(EmbedPdf("/media/lessons/a.pdf", "", ""))
	assert.Contains(t, out, `data="/media/lessons/a.pdf"`)
	assert.Contains(t, out, `width="100%"`)
	assert.Contains(t, out, `height="600"`)

	out = string(EmbedPdf(`/media/x".pdf`, "80%", "400"))
	assert.NotContains(t, out, `x".pdf`)
	assert.Contains(t, out, `height="400"`)

	assert.Contains(t, string(EmbedPdf("  ", "", "")), "Document not available")
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"go", "web", "api"}, Split("go, web ,api", ","))
	assert.Equal(t, []string{}, Split("", ","))
	assert.Equal(t, []string{"single"}, Split("single", ","))
}

func TestTemplateFuncs(t *testing.T) {
	funcs := TemplateFuncs(GetFileURL)
	for _, name := range []string{"youtubeEmbed", "embedPdf", "split", "mediaURL", "add", "sub"} {
		assert.Contains(t, funcs, name)
	}

	tmpl := template.Must(template.New("t").Funcs(funcs).Parse(`{{range split .Tags ","}}[{{.}}]{{end}} {{mediaURL .Pic}}`))
	var buf bytes.Buffer
	assert.NoError(t, tmpl.Execute(&buf, map[string]string{"Tags": "a, b", "Pic": "profile_pics/p.png"}))
	assert.Equal(t, "[a][b] /media/profile_pics/p.png", buf.String())
}
