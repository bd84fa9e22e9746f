package content

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webtor-io/lazy-embed/services/hook"
)

const filterName = "embed_oembed_html"

func newTestFilter(fn hook.FilterFunc) *Filter {
	h := hook.New()
	if fn != nil {
		h.AddFilter(filterName, hook.DefaultPriority, fn)
	}
	return New(h, filterName)
}

func TestProcess_ReplacesSupportedIframes(t *testing.T) {
	var urls []string
	var gotAttrs map[string]string
	var gotPostID int
	f := newTestFilter(func(_ context.Context, v any, args ...any) any {
		urls = append(urls, args[0].(string))
		gotAttrs = args[1].(map[string]string)
		gotPostID = args[2].(int)
		return `<div class="lazy-video">lazy</div>`
	})
	in := `<p>Intro</p>` +
		`<figure><iframe width="560" height="315" src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe></figure>` +
		`<iframe src="https://maps.example.com/embed?pb=1"></iframe>` +
		`<p><iframe src="https://player.vimeo.com/video/76979871"></iframe></p>`

	out, n, err := f.Process(context.Background(), in, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://player.vimeo.com/video/76979871",
	}, urls)
	assert.Equal(t, "https://player.vimeo.com/video/76979871", gotAttrs["src"])
	assert.Equal(t, 12, gotPostID)
	assert.Equal(t, 2, strings.Count(out, `<div class="lazy-video">lazy</div>`))
	assert.Contains(t, out, `<p>Intro</p>`)
	assert.Contains(t, out, `maps.example.com`)
	assert.NotContains(t, out, "youtube.com")
}

func TestProcess_NoEmbedsKeepsContent(t *testing.T) {
	f := newTestFilter(func(_ context.Context, v any, _ ...any) any {
		t.Error("filter must not be called")
		return v
	})
	in := `<p>Hello <b>world</b><br></p>`
	out, n, err := f.Process(context.Background(), in, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, in, out)
}

func TestProcess_UnchangedEmbedsKeepContent(t *testing.T) {
	f := newTestFilter(nil)
	in := `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ" allowfullscreen></iframe>`
	out, n, err := f.Process(context.Background(), in, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, in, out)
}

func TestProcess_KeepsSurroundingMarkup(t *testing.T) {
	var gotHTML string
	f := newTestFilter(func(_ context.Context, v any, _ ...any) any {
		gotHTML = v.(string)
		return `<div>lazy</div>`
	})
	in := "<p class=intro>a&nbsp;b<br>c</p>\n" +
		`<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ?a=1&amp;b=2" allowfullscreen></iframe>` +
		"\n<p>x&amp;y<img src=a.png></p>"

	out, n, err := f.Process(context.Background(), in, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ?a=1&amp;b=2" allowfullscreen></iframe>`, gotHTML)
	assert.Equal(t, "<p class=intro>a&nbsp;b<br>c</p>\n<div>lazy</div>\n<p>x&amp;y<img src=a.png></p>", out)
}

func TestProcess_UnclosedIframe(t *testing.T) {
	f := newTestFilter(func(_ context.Context, _ any, _ ...any) any {
		return `<div>lazy</div>`
	})
	in := "<p class=intro>a&nbsp;b<br>c</p>\n<iframe src=\"https://www.youtube.com/embed/dQw4w9WgXcQ\">"

	out, n, err := f.Process(context.Background(), in, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "<p class=intro>a&nbsp;b<br>c</p>\n<div>lazy</div>", out)
}

func TestProcess_SelfClosingIframe(t *testing.T) {
	f := newTestFilter(func(_ context.Context, _ any, _ ...any) any {
		return `<div>lazy</div>`
	})
	in := `<b>x</b><iframe src="https://vimeo.com/76979871"/><i>y</i>`

	out, n, err := f.Process(context.Background(), in, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, `<b>x</b><div>lazy</div><i>y</i>`, out)
}
