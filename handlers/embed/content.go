package embed

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ContentArgs struct {
	Content string `json:"content"`
	PostID  int    `json:"post_id"`
	Feed    bool   `json:"feed"`
	Locale  string `json:"locale"`
}

func (s *Handler) filterContent(c *gin.Context) {
	var args ContentArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, p := s.render(c, args.Feed, args.Locale)
	out, n, err := s.content.Process(ctx, args.Content, args.PostID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, &Response{
		HTML:     out,
		Replaced: n > 0,
		Styles:   p.Queue.Styles(),
		Scripts:  p.Queue.Scripts(),
	})
}
