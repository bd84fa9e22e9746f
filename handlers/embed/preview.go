package embed

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	fe "github.com/webtor-io/lazy-embed/services/front_end"
)

type PreviewData struct {
	URL        string
	Embed      template.HTML
	Replaced   bool
	HeadTags   template.HTML
	FooterTags template.HTML
}

func fallbackHTML(url string) string {
	u := template.HTMLEscapeString(url)
	return fmt.Sprintf(`<a href="%v">%v</a>`, u, u)
}

func (s *Handler) preview(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.String(http.StatusBadRequest, "url is required")
		return
	}
	ctx, p := s.render(c, c.Query("feed") != "", c.Query("locale"))
	orig := fallbackHTML(url)
	out := s.hooks.ApplyStringFilters(ctx, fe.OEmbedHTMLFilter, orig, url, map[string]string{}, 0)
	c.HTML(http.StatusOK, previewView, &PreviewData{
		URL:        url,
		Embed:      template.HTML(out),
		Replaced:   out != orig,
		HeadTags:   p.Queue.HeadTags(),
		FooterTags: p.Queue.FooterTags(),
	})
}
