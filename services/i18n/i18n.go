package i18n

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Domain prefixes translation file names: <Domain>-<locale>.json
const Domain = "lazy-embed"

const (
	localeFlag       = "locale"
	languagesDirFlag = "languages-dir"
)

const (
	PlayVideo      = "Play video"
	PlayVideoTitle = "Play video: %s"
)

var builtin = map[string]map[string]string{
	"en": {
		PlayVideo:      "Play video",
		PlayVideoTitle: "Play video: %s",
	},
	"de": {
		PlayVideo:      "Video abspielen",
		PlayVideoTitle: "Video abspielen: %s",
	},
	"nl": {
		PlayVideo:      "Video afspelen",
		PlayVideoTitle: "Video afspelen: %s",
	},
	"ru": {
		PlayVideo:      "Смотреть видео",
		PlayVideoTitle: "Смотреть видео: %s",
	},
}

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   localeFlag,
			Usage:  "default locale",
			Value:  "en",
			EnvVar: "LOCALE",
		},
		cli.StringFlag{
			Name:   languagesDirFlag,
			Usage:  "directory with translation overrides (" + Domain + "-<locale>.json)",
			EnvVar: "LANGUAGES_DIR",
		},
	)
}

type Translator struct {
	cat     *catalog.Builder
	langs   []language.Tag
	matcher language.Matcher
	def     language.Tag
}

func New(c *cli.Context) (*Translator, error) {
	return NewTranslator(c.String(languagesDirFlag), c.String(localeFlag))
}

func NewTranslator(dir string, def string) (*Translator, error) {
	defTag, err := language.Parse(def)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid default locale %v", def)
	}
	b := catalog.NewBuilder(catalog.Fallback(defTag))
	for l, msgs := range builtin {
		if err := set(b, l, msgs); err != nil {
			return nil, err
		}
	}
	if dir != "" {
		if err := load(b, dir); err != nil {
			return nil, err
		}
	}
	langs := b.Languages()
	return &Translator{
		cat:     b,
		langs:   langs,
		matcher: language.NewMatcher(langs),
		def:     defTag,
	}, nil
}

func set(b *catalog.Builder, locale string, msgs map[string]string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return errors.Wrapf(err, "invalid locale %v", locale)
	}
	for k, v := range msgs {
		if err := b.SetString(tag, k, v); err != nil {
			return errors.Wrapf(err, "failed to set message %v for %v", k, locale)
		}
	}
	return nil
}

func load(b *catalog.Builder, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, Domain+"-*.json"))
	if err != nil {
		return errors.Wrap(err, "failed to list translations")
	}
	for _, f := range files {
		locale := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(f), Domain+"-"), ".json")
		data, err := os.ReadFile(f)
		if err != nil {
			return errors.Wrapf(err, "failed to read translation %v", f)
		}
		var msgs map[string]string
		if err := json.Unmarshal(data, &msgs); err != nil {
			return errors.Wrapf(err, "failed to parse translation %v", f)
		}
		if err := set(b, locale, msgs); err != nil {
			return err
		}
		log.WithField("locale", locale).WithField("file", f).Info("translation loaded")
	}
	return nil
}

func (s *Translator) Tag(locale string) language.Tag {
	if locale == "" {
		return s.def
	}
	// locale may be a plain tag or an Accept-Language header value
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return s.def
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No {
		return s.def
	}
	return s.langs[idx]
}

func (s *Translator) Printer(locale string) *message.Printer {
	return message.NewPrinter(s.Tag(locale), message.Catalog(s.cat))
}
