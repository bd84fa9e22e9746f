package embed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	fe "github.com/webtor-io/lazy-embed/services/front_end"
)

type OEmbedHTMLArgs struct {
	HTML   string            `json:"html"`
	URL    string            `json:"url" binding:"required"`
	Attr   map[string]string `json:"attr"`
	PostID int               `json:"post_id"`
	Feed   bool              `json:"feed"`
	Locale string            `json:"locale"`
}

type Response struct {
	HTML     string   `json:"html"`
	Replaced bool     `json:"replaced"`
	Styles   []string `json:"styles"`
	Scripts  []string `json:"scripts"`
}

func (s *Handler) oembedHTML(c *gin.Context) {
	var args OEmbedHTMLArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, p := s.render(c, args.Feed, args.Locale)
	out := s.hooks.ApplyStringFilters(ctx, fe.OEmbedHTMLFilter, args.HTML, args.URL, args.Attr, args.PostID)
	c.JSON(http.StatusOK, &Response{
		HTML:     out,
		Replaced: out != args.HTML,
		Styles:   p.Queue.Styles(),
		Scripts:  p.Queue.Scripts(),
	})
}
