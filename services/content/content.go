package content

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/webtor-io/lazy-embed/services/hook"
	"github.com/webtor-io/lazy-embed/services/provider"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Filter runs embed filter over every supported video iframe found in a piece of content
type Filter struct {
	hooks  *hook.Hooks
	filter string
}

func New(hooks *hook.Hooks, filter string) *Filter {
	return &Filter{
		hooks:  hooks,
		filter: filter,
	}
}

// iframe is a byte range of content holding a single iframe element
type iframe struct {
	start int
	end   int
	attr  map[string]string
}

func attrs(t html.Token) map[string]string {
	res := make(map[string]string, len(t.Attr))
	for _, a := range t.Attr {
		res[a.Key] = a.Val
	}
	return res
}

// findIframes tokenizes content and returns positions of iframe elements.
// An unclosed iframe spans to the end of content.
func findIframes(content string) ([]*iframe, error) {
	z := html.NewTokenizer(strings.NewReader(content))
	var (
		res []*iframe
		cur *iframe
		off int
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if !errors.Is(z.Err(), io.EOF) {
				return nil, errors.Wrap(z.Err(), "failed to tokenize content")
			}
			if cur != nil {
				cur.end = len(content)
				res = append(res, cur)
			}
			return res, nil
		}
		start := off
		off += len(z.Raw())
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if cur != nil || t.DataAtom != atom.Iframe {
				continue
			}
			f := &iframe{start: start, attr: attrs(t)}
			if tt == html.SelfClosingTagToken {
				f.end = off
				res = append(res, f)
				continue
			}
			cur = f
		case html.EndTagToken:
			if cur == nil {
				continue
			}
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Iframe {
				cur.end = off
				res = append(res, cur)
				cur = nil
			}
		}
	}
}

// Process returns content with replaced embeds and number of replacements.
// Only replaced iframes change, the rest of content is kept byte for byte.
func (s *Filter) Process(ctx context.Context, content string, postID int) (string, int, error) {
	frames, err := findIframes(content)
	if err != nil {
		return "", 0, err
	}
	var sb strings.Builder
	last := 0
	replaced := 0
	for _, f := range frames {
		src := f.attr["src"]
		if _, ok := provider.Parse(src); !ok {
			continue
		}
		orig := content[f.start:f.end]
		out := s.hooks.ApplyStringFilters(ctx, s.filter, orig, src, f.attr, postID)
		if out == orig {
			continue
		}
		sb.WriteString(content[last:f.start])
		sb.WriteString(out)
		last = f.end
		replaced++
	}
	if replaced == 0 {
		return content, 0, nil
	}
	sb.WriteString(content[last:])
	return sb.String(), replaced, nil
}
