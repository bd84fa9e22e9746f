package main

import (
	"net/http"

	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"
	"github.com/webtor-io/lazy-embed/services/assets"
	fe "github.com/webtor-io/lazy-embed/services/front_end"
	"github.com/webtor-io/lazy-embed/services/hook"
	"github.com/webtor-io/lazy-embed/services/i18n"
	"github.com/webtor-io/lazy-embed/services/migration"
	"github.com/webtor-io/lazy-embed/services/oembed"
	"github.com/webtor-io/lazy-embed/services/transient"
	vc "github.com/webtor-io/lazy-embed/services/video_cache"
	vt "github.com/webtor-io/lazy-embed/services/video_template"
)

func configureStore(f []cli.Flag) []cli.Flag {
	f = cs.RegisterPGFlags(f)
	f = cs.RegisterRedisClientFlags(f)
	f = transient.RegisterFlags(f)
	f = migration.RegisterFlags(f)
	return f
}

func configureFrontEnd(f []cli.Flag) []cli.Flag {
	f = configureStore(f)
	f = oembed.RegisterFlags(f)
	f = vt.RegisterFlags(f)
	f = i18n.RegisterFlags(f)
	f = assets.RegisterFlags(f)
	return f
}

type stack struct {
	pg    *cs.PG
	redis *cs.RedisClient
	cache *vc.VideoCache
}

func (s *stack) Close() {
	s.redis.Close()
	s.pg.Close()
}

func makeStack(c *cli.Context) (*stack, error) {
	// Setting DB
	pg := cs.NewPG(c)

	// Setting Redis
	redis := cs.NewRedisClient(c)

	// Setting Transient Store
	store, err := transient.New(c, pg, redis)
	if err != nil {
		redis.Close()
		pg.Close()
		return nil, err
	}

	// Setting Video Cache
	cache := vc.New(store)

	return &stack{
		pg:    pg,
		redis: redis,
		cache: cache,
	}, nil
}

type frontEnd struct {
	*fe.FrontEnd
	hooks  *hook.Hooks
	assets *assets.Registry
}

func makeFrontEnd(c *cli.Context, cl *http.Client, st *stack) (*frontEnd, error) {
	// Setting Hooks
	hooks := hook.New()

	// Setting OEmbed API
	api := oembed.New(c, cl)

	// Setting Video Template
	tpl := vt.New(c, hooks)

	// Setting Translator
	tr, err := i18n.New(c)
	if err != nil {
		return nil, err
	}

	// Setting Assets
	ar := assets.New(c)

	// Setting FrontEnd
	f := fe.New(st.cache, api, tpl, ar, tr)
	f.RegisterHooks(hooks)

	return &frontEnd{
		FrontEnd: f,
		hooks:    hooks,
		assets:   ar,
	}, nil
}
