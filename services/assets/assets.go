package assets

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

//go:embed static
var static embed.FS

const (
	assetsURLFlag   = "assets-url"
	scriptDebugFlag = "script-debug"
)

const (
	FrontEndHandle = "front-end"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   assetsURLFlag,
			Usage:  "public url of static assets",
			Value:  "/assets",
			EnvVar: "ASSETS_URL",
		},
		cli.BoolFlag{
			Name:   scriptDebugFlag,
			Usage:  "serve unminified styles and scripts",
			EnvVar: "SCRIPT_DEBUG",
		},
	)
}

// FS returns embedded static files
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

type Asset struct {
	Handle   string
	Path     string
	Ext      string
	Deps     []string
	InFooter bool
	Defer    bool
}

type Registry struct {
	mux     sync.RWMutex
	baseURL string
	debug   bool
	styles  map[string]*Asset
	scripts map[string]*Asset
}

func New(c *cli.Context) *Registry {
	return NewRegistry(c.String(assetsURLFlag), c.Bool(scriptDebugFlag))
}

func NewRegistry(baseURL string, debug bool) *Registry {
	return &Registry{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		debug:   debug,
		styles:  map[string]*Asset{},
		scripts: map[string]*Asset{},
	}
}

// RegisterStyle registers stylesheet by handle. Path is relative to
// the assets url and has no extension.
func (s *Registry) RegisterStyle(handle, path string, deps ...string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.styles[handle] = &Asset{
		Handle: handle,
		Path:   path,
		Ext:    ".css",
		Deps:   deps,
	}
}

func (s *Registry) RegisterScript(handle, path string, inFooter bool, deps ...string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.scripts[handle] = &Asset{
		Handle:   handle,
		Path:     path,
		Ext:      ".js",
		Deps:     deps,
		InFooter: inFooter,
		Defer:    inFooter,
	}
}

func (s *Registry) URL(a *Asset) string {
	suffix := ".min"
	if s.debug {
		suffix = ""
	}
	return fmt.Sprintf("%v/%v%v%v", s.baseURL, a.Path, suffix, a.Ext)
}

func (s *Registry) style(handle string) *Asset {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.styles[handle]
}

func (s *Registry) script(handle string) *Asset {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.scripts[handle]
}

func (s *Registry) NewQueue() *Queue {
	return &Queue{
		r: s,
	}
}

// Queue collects assets enqueued during a single render
type Queue struct {
	mux     sync.Mutex
	r       *Registry
	styles  []*Asset
	scripts []*Asset
}

func contains(list []*Asset, handle string) bool {
	for _, a := range list {
		if a.Handle == handle {
			return true
		}
	}
	return false
}

func (s *Queue) enqueue(list []*Asset, handle string, lookup func(string) *Asset, seen map[string]bool) []*Asset {
	if contains(list, handle) || seen[handle] {
		return list
	}
	a := lookup(handle)
	if a == nil {
		log.WithField("handle", handle).Warn("asset not registered")
		return list
	}
	seen[handle] = true
	for _, d := range a.Deps {
		list = s.enqueue(list, d, lookup, seen)
	}
	return append(list, a)
}

func (s *Queue) EnqueueStyle(handle string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.styles = s.enqueue(s.styles, handle, s.r.style, map[string]bool{})
}

func (s *Queue) EnqueueScript(handle string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.scripts = s.enqueue(s.scripts, handle, s.r.script, map[string]bool{})
}

func (s *Queue) urls(list []*Asset) []string {
	s.mux.Lock()
	defer s.mux.Unlock()
	res := make([]string, 0, len(list))
	for _, a := range list {
		res = append(res, s.r.URL(a))
	}
	return res
}

func (s *Queue) Styles() []string {
	return s.urls(s.styles)
}

func (s *Queue) Scripts() []string {
	return s.urls(s.scripts)
}

// HeadTags renders enqueued styles and header scripts
func (s *Queue) HeadTags() template.HTML {
	s.mux.Lock()
	defer s.mux.Unlock()
	var sb strings.Builder
	for _, a := range s.styles {
		sb.WriteString(fmt.Sprintf(`<link rel="stylesheet" id="%v-css" href="%v">`+"\n",
			template.HTMLEscapeString(a.Handle), template.HTMLEscapeString(s.r.URL(a))))
	}
	for _, a := range s.scripts {
		if !a.InFooter {
			sb.WriteString(s.scriptTag(a))
		}
	}
	return template.HTML(sb.String())
}

// FooterTags renders scripts enqueued for the footer
func (s *Queue) FooterTags() template.HTML {
	s.mux.Lock()
	defer s.mux.Unlock()
	var sb strings.Builder
	for _, a := range s.scripts {
		if a.InFooter {
			sb.WriteString(s.scriptTag(a))
		}
	}
	return template.HTML(sb.String())
}

func (s *Queue) scriptTag(a *Asset) string {
	attr := ""
	if a.Defer {
		attr = " defer"
	}
	return fmt.Sprintf(`<script id="%v-js" src="%v"%v></script>`+"\n",
		template.HTMLEscapeString(a.Handle), template.HTMLEscapeString(s.r.URL(a)), attr)
}
