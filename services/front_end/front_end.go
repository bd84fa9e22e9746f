package front_end

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/webtor-io/lazy-embed/models"
	"github.com/webtor-io/lazy-embed/services/assets"
	"github.com/webtor-io/lazy-embed/services/hook"
	"github.com/webtor-io/lazy-embed/services/i18n"
	"github.com/webtor-io/lazy-embed/services/page"
	"github.com/webtor-io/lazy-embed/services/provider"
	vt "github.com/webtor-io/lazy-embed/services/video_template"
)

const (
	// OEmbedHTMLFilter receives embed html and (url string, attr map[string]string, postID int)
	OEmbedHTMLFilter = "embed_oembed_html"
	EnqueueAction    = "enqueue_scripts"

	filterPriority = 20
)

type videoCache interface {
	Get(ctx context.Context, ref *models.VideoReference) (*models.VideoMetadata, error)
	Put(ctx context.Context, ref *models.VideoReference, md *models.VideoMetadata) error
}

type metadataFetcher interface {
	Fetch(ctx context.Context, ref *models.VideoReference) (*models.VideoMetadata, error)
}

type renderer interface {
	Render(ctx context.Context, d *vt.Data) (string, error)
}

type FrontEnd struct {
	cache  videoCache
	api    metadataFetcher
	tpl    renderer
	assets *assets.Registry
	tr     *i18n.Translator
}

func New(cache videoCache, api metadataFetcher, tpl renderer, ar *assets.Registry, tr *i18n.Translator) *FrontEnd {
	ar.RegisterStyle(assets.FrontEndHandle, "css/front-end")
	ar.RegisterScript(assets.FrontEndHandle, "js/front-end", true)
	return &FrontEnd{
		cache:  cache,
		api:    api,
		tpl:    tpl,
		assets: ar,
		tr:     tr,
	}
}

func (s *FrontEnd) RegisterHooks(h *hook.Hooks) {
	h.AddFilter(OEmbedHTMLFilter, filterPriority, s.filter)
	h.AddAction(EnqueueAction, hook.DefaultPriority, func(ctx context.Context, _ ...any) {
		s.EnqueueAssets(ctx)
	})
}

func (s *FrontEnd) filter(ctx context.Context, value any, args ...any) any {
	html, ok := value.(string)
	if !ok {
		return value
	}
	var (
		url    string
		attr   map[string]string
		postID int
	)
	if len(args) > 0 {
		url, _ = args[0].(string)
	}
	if len(args) > 1 {
		attr, _ = args[1].(map[string]string)
	}
	if len(args) > 2 {
		postID, _ = args[2].(int)
	}
	return s.FilterOEmbed(ctx, html, url, attr, postID)
}

// FilterOEmbed replaces embed html of a supported video with a lazy placeholder.
// Original html is returned whenever something goes wrong.
func (s *FrontEnd) FilterOEmbed(ctx context.Context, html string, url string, attr map[string]string, postID int) string {
	p := page.FromContext(ctx)
	if p.Feed {
		return html
	}
	ref, ok := provider.Parse(url)
	if !ok {
		return html
	}
	l := log.WithFields(log.Fields{
		"provider": ref.Provider,
		"video_id": ref.VideoID,
	})
	md := s.getMetadata(ctx, ref, l)
	if md == nil {
		return html
	}
	d := &vt.Data{
		Provider:     ref.Provider.String(),
		VideoID:      ref.VideoID,
		URL:          url,
		EmbedURL:     provider.EmbedURL(ref),
		ThumbnailURL: md.ThumbnailURL,
		Proportions:  string(md.Aspect()),
		Title:        md.Title,
		PostID:       postID,
		Attr:         attr,
	}
	if s.tr != nil {
		pr := s.tr.Printer(p.Locale)
		if md.Title != "" {
			d.PlayLabel = pr.Sprintf(i18n.PlayVideoTitle, md.Title)
		} else {
			d.PlayLabel = pr.Sprintf(i18n.PlayVideo)
		}
	}
	out, err := s.tpl.Render(ctx, d)
	if err != nil {
		l.WithError(err).Warn("failed to render video template")
		return html
	}
	if p.Queue != nil {
		p.Queue.EnqueueScript(assets.FrontEndHandle)
	}
	return out
}

func (s *FrontEnd) getMetadata(ctx context.Context, ref *models.VideoReference, l *log.Entry) *models.VideoMetadata {
	md, err := s.cache.Get(ctx, ref)
	if err != nil {
		l.WithError(err).Warn("failed to get video metadata from cache")
	}
	if md != nil {
		return md
	}
	md, err = s.api.Fetch(ctx, ref)
	if err != nil {
		l.WithError(err).Debug("failed to fetch video metadata")
		return nil
	}
	err = s.cache.Put(ctx, ref, md)
	if err != nil {
		l.WithError(err).Warn("failed to put video metadata to cache")
	}
	return md
}

// Warm makes sure metadata of the video behind url is cached
func (s *FrontEnd) Warm(ctx context.Context, url string) (*models.VideoMetadata, error) {
	ref, ok := provider.Parse(url)
	if !ok {
		return nil, ErrUnsupportedURL
	}
	md, err := s.cache.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if md != nil {
		return md, nil
	}
	md, err = s.api.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	return md, s.cache.Put(ctx, ref, md)
}

func (s *FrontEnd) EnqueueAssets(ctx context.Context) {
	p := page.FromContext(ctx)
	if p.Feed || p.Queue == nil {
		return
	}
	p.Queue.EnqueueStyle(assets.FrontEndHandle)
}
