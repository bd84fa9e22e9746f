package embed

import (
	"context"
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/webtor-io/lazy-embed/services/assets"
	"github.com/webtor-io/lazy-embed/services/content"
	fe "github.com/webtor-io/lazy-embed/services/front_end"
	"github.com/webtor-io/lazy-embed/services/hook"
	"github.com/webtor-io/lazy-embed/services/page"
)

const previewView = "embed/preview"

type Handler struct {
	hooks   *hook.Hooks
	ar      *assets.Registry
	content *content.Filter
}

func RegisterHandler(r *gin.Engine, re multitemplate.Renderer, hooks *hook.Hooks, ar *assets.Registry) {
	re.AddFromFilesFuncs(previewView, template.FuncMap{},
		"templates/layouts/main.html",
		"templates/views/embed/preview.html",
	)
	newHandler(hooks, ar).register(r)
}

func newHandler(hooks *hook.Hooks, ar *assets.Registry) *Handler {
	return &Handler{
		hooks:   hooks,
		ar:      ar,
		content: content.New(hooks, fe.OEmbedHTMLFilter),
	}
}

func (s *Handler) register(r *gin.Engine) {
	gr := r.Group("/embed")
	gr.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	gr.GET("", s.preview)
	gr.POST("/oembed-html", s.oembedHTML)
	gr.POST("/content", s.filterContent)
	// preflight requests are answered by cors middleware
	gr.OPTIONS("/oembed-html", func(c *gin.Context) {})
	gr.OPTIONS("/content", func(c *gin.Context) {})
}

// render prepares page context and fires enqueue action the way a page render does
func (s *Handler) render(c *gin.Context, feed bool, locale string) (context.Context, *page.Page) {
	if locale == "" {
		locale = c.GetHeader("Accept-Language")
	}
	p := &page.Page{
		Feed:   feed,
		Locale: locale,
		Queue:  s.ar.NewQueue(),
	}
	ctx := page.WithPage(c.Request.Context(), p)
	s.hooks.DoAction(ctx, fe.EnqueueAction)
	return ctx, p
}
