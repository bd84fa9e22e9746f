package assets

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(debug bool) *Registry {
	r := NewRegistry("/assets/", debug)
	r.RegisterStyle(FrontEndHandle, "css/front-end")
	r.RegisterScript(FrontEndHandle, "js/front-end", true)
	r.RegisterScript("polyfill", "js/polyfill", false)
	r.RegisterScript("player", "js/player", true, "polyfill", FrontEndHandle)
	return r
}

func TestQueue_MinifiedByDefault(t *testing.T) {
	q := newTestRegistry(false).NewQueue()
	q.EnqueueStyle(FrontEndHandle)
	q.EnqueueScript(FrontEndHandle)
	assert.Equal(t, []string{"/assets/css/front-end.min.css"}, q.Styles())
	assert.Equal(t, []string{"/assets/js/front-end.min.js"}, q.Scripts())
}

func TestQueue_Debug(t *testing.T) {
	q := newTestRegistry(true).NewQueue()
	q.EnqueueStyle(FrontEndHandle)
	assert.Equal(t, []string{"/assets/css/front-end.css"}, q.Styles())
}

func TestQueue_DedupAndDeps(t *testing.T) {
	q := newTestRegistry(true).NewQueue()
	q.EnqueueScript(FrontEndHandle)
	q.EnqueueScript("player")
	q.EnqueueScript(FrontEndHandle)
	q.EnqueueScript("unknown")
	assert.Equal(t, []string{
		"/assets/js/front-end.js",
		"/assets/js/polyfill.js",
		"/assets/js/player.js",
	}, q.Scripts())
}

func TestQueue_Tags(t *testing.T) {
	q := newTestRegistry(false).NewQueue()
	q.EnqueueStyle(FrontEndHandle)
	q.EnqueueScript(FrontEndHandle)
	q.EnqueueScript("polyfill")

	head := string(q.HeadTags())
	assert.Contains(t, head, `<link rel="stylesheet" id="front-end-css" href="/assets/css/front-end.min.css">`)
	assert.Contains(t, head, `<script id="polyfill-js" src="/assets/js/polyfill.min.js"></script>`)
	assert.NotContains(t, head, "front-end-js")

	footer := string(q.FooterTags())
	assert.Equal(t, `<script id="front-end-js" src="/assets/js/front-end.min.js" defer></script>`+"\n", footer)
}

func TestFS(t *testing.T) {
	for _, p := range []string{
		"css/front-end.css",
		"css/front-end.min.css",
		"js/front-end.js",
		"js/front-end.min.js",
	} {
		_, err := fs.Stat(FS(), p)
		require.NoError(t, err, p)
	}
}
