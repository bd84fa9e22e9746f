package video_template

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/lazy-embed/services/hook"
	"github.com/webtor-io/lazymap"
)

//go:embed templates
var templates embed.FS

const (
	childThemeDirFlag  = "theme-child-dir"
	parentThemeDirFlag = "theme-parent-dir"
	templateNameFlag   = "video-template"
)

// LocateFilter receives candidate template names ([]string)
const LocateFilter = "locate_video_template"

const DefaultName = "video-embed.html"

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   childThemeDirFlag,
			Usage:  "child theme directory with template overrides",
			EnvVar: "THEME_CHILD_DIR",
		},
		cli.StringFlag{
			Name:   parentThemeDirFlag,
			Usage:  "parent theme directory with template overrides",
			EnvVar: "THEME_PARENT_DIR",
		},
		cli.StringFlag{
			Name:   templateNameFlag,
			Usage:  "video template name",
			Value:  DefaultName,
			EnvVar: "VIDEO_TEMPLATE",
		},
	)
}

type Data struct {
	Provider     string
	VideoID      string
	URL          string
	EmbedURL     string
	ThumbnailURL string
	Proportions  string
	Title        string
	PlayLabel    string
	PostID       int
	Attr         map[string]string
}

// Location points either to a theme file or to the built-in template
type Location struct {
	Path    string
	Builtin bool
}

type Renderer struct {
	dirs  []string
	name  string
	hooks *hook.Hooks
	lm    lazymap.LazyMap[*template.Template]
}

func New(c *cli.Context, hooks *hook.Hooks) *Renderer {
	return NewRenderer(hooks, c.String(templateNameFlag), c.String(childThemeDirFlag), c.String(parentThemeDirFlag))
}

// NewRenderer makes renderer looking up templates in dirs in the given order
// before falling back to the built-in one.
func NewRenderer(hooks *hook.Hooks, name string, dirs ...string) *Renderer {
	var ds []string
	for _, d := range dirs {
		if d != "" {
			ds = append(ds, d)
		}
	}
	if name == "" {
		name = DefaultName
	}
	return &Renderer{
		dirs:  ds,
		name:  name,
		hooks: hooks,
		lm: lazymap.New[*template.Template](&lazymap.Config{
			Expire:      time.Minute,
			ErrorExpire: 10 * time.Second,
		}),
	}
}

func (s *Renderer) candidates(ctx context.Context) []string {
	names := []string{s.name}
	if s.hooks == nil {
		return names
	}
	if res, ok := s.hooks.ApplyFilters(ctx, LocateFilter, names).([]string); ok {
		return res
	}
	return names
}

// Locate walks candidate names in order, looking for each in every theme
// dir before trying the next name. Built-in templates come last.
func (s *Renderer) Locate(ctx context.Context) *Location {
	names := s.candidates(ctx)
	for _, n := range names {
		for _, d := range s.dirs {
			p := filepath.Join(d, n)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return &Location{Path: p}
			}
		}
	}
	for _, n := range names {
		if _, err := templates.Open("templates/" + n); err == nil {
			return &Location{Path: n, Builtin: true}
		}
	}
	return &Location{Path: DefaultName, Builtin: true}
}

func (s *Renderer) parse(l *Location) (*template.Template, error) {
	key := l.Path
	if l.Builtin {
		key = "builtin:" + l.Path
	}
	return s.lm.Get(key, func() (*template.Template, error) {
		var t *template.Template
		var err error
		if l.Builtin {
			t, err = template.ParseFS(templates, "templates/"+l.Path)
		} else {
			t, err = template.ParseFiles(l.Path)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %v", l.Path)
		}
		return t, nil
	})
}

func (s *Renderer) Render(ctx context.Context, d *Data) (string, error) {
	l := s.Locate(ctx)
	t, err := s.parse(l)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, d); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %v", l.Path)
	}
	log.WithField("template", l.Path).Debug("video template rendered")
	return buf.String(), nil
}
