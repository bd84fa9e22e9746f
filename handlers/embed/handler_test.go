package embed

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webtor-io/lazy-embed/services/assets"
	fe "github.com/webtor-io/lazy-embed/services/front_end"
	"github.com/webtor-io/lazy-embed/services/hook"
	"github.com/webtor-io/lazy-embed/services/i18n"
	"github.com/webtor-io/lazy-embed/services/oembed"
	"github.com/webtor-io/lazy-embed/services/transient"
	"github.com/webtor-io/lazy-embed/services/video_cache"
	vt "github.com/webtor-io/lazy-embed/services/video_template"
)

const youtubeURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func newTestRouter(t *testing.T, status int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"width":200,"height":113,"title":"Rick","thumbnail_url":"https://i.ytimg.com/t.jpg"}`))
	}))
	t.Cleanup(srv.Close)

	hooks := hook.New()
	ar := assets.NewRegistry("/assets", false)
	tr, err := i18n.NewTranslator("", "en")
	require.NoError(t, err)
	api := oembed.NewWithConfig(srv.Client(), &oembed.Config{
		YouTubeEndpoint: srv.URL,
		VimeoEndpoint:   srv.URL,
		Timeout:         5 * time.Second,
	})
	f := fe.New(video_cache.New(transient.NewMemory()), api, vt.NewRenderer(hooks, vt.DefaultName), ar, tr)
	f.RegisterHooks(hooks)

	r := gin.New()
	newHandler(hooks, ar).register(r)
	return r
}

func post(t *testing.T, r *gin.Engine, path string, body any) (*httptest.ResponseRecorder, *Response) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		return w, nil
	}
	var res Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return w, &res
}

func TestOEmbedHTML(t *testing.T) {
	r := newTestRouter(t, http.StatusOK)
	_, res := post(t, r, "/embed/oembed-html", &OEmbedHTMLArgs{
		HTML: "<iframe></iframe>",
		URL:  youtubeURL,
	})
	require.NotNil(t, res)
	assert.True(t, res.Replaced)
	assert.Contains(t, res.HTML, "lazy-video--16x9")
	assert.Equal(t, []string{"/assets/css/front-end.min.css"}, res.Styles)
	assert.Equal(t, []string{"/assets/js/front-end.min.js"}, res.Scripts)
}

func TestOEmbedHTML_Feed(t *testing.T) {
	r := newTestRouter(t, http.StatusOK)
	_, res := post(t, r, "/embed/oembed-html", &OEmbedHTMLArgs{
		HTML: "<iframe></iframe>",
		URL:  youtubeURL,
		Feed: true,
	})
	require.NotNil(t, res)
	assert.False(t, res.Replaced)
	assert.Equal(t, "<iframe></iframe>", res.HTML)
	assert.Empty(t, res.Styles)
	assert.Empty(t, res.Scripts)
}

func TestOEmbedHTML_FetchFailure(t *testing.T) {
	r := newTestRouter(t, http.StatusNotFound)
	_, res := post(t, r, "/embed/oembed-html", &OEmbedHTMLArgs{
		HTML: "<iframe></iframe>",
		URL:  youtubeURL,
	})
	require.NotNil(t, res)
	assert.False(t, res.Replaced)
	assert.Equal(t, "<iframe></iframe>", res.HTML)
	assert.Empty(t, res.Scripts)
}

func TestOEmbedHTML_BadRequest(t *testing.T) {
	r := newTestRouter(t, http.StatusOK)
	w, _ := post(t, r, "/embed/oembed-html", map[string]string{"html": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContent(t *testing.T) {
	r := newTestRouter(t, http.StatusOK)
	_, res := post(t, r, "/embed/content", &ContentArgs{
		Content: `<p>Hi</p><iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>`,
	})
	require.NotNil(t, res)
	assert.True(t, res.Replaced)
	assert.True(t, strings.HasPrefix(res.HTML, "<p>Hi</p>"))
	assert.Contains(t, res.HTML, `data-video-id="dQw4w9WgXcQ"`)
	assert.NotContains(t, res.HTML, "<iframe")
}

func TestContent_Untouched(t *testing.T) {
	r := newTestRouter(t, http.StatusOK)
	in := `<p>Hi <b>there</b></p>`
	_, res := post(t, r, "/embed/content", &ContentArgs{Content: in})
	require.NotNil(t, res)
	assert.False(t, res.Replaced)
	assert.Equal(t, in, res.HTML)
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, http.StatusOK)
	req := httptest.NewRequest(http.MethodOptions, "/embed/oembed-html", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w, _ = post(t, r, "/embed/content", &ContentArgs{Content: "<p>x</p>"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFallbackHTML(t *testing.T) {
	assert.Equal(t, `<a href="a?b=1&amp;c=2">a?b=1&amp;c=2</a>`, fallbackHTML("a?b=1&c=2"))
}
