package oembed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/lazy-embed/models"
	"github.com/webtor-io/lazy-embed/services/provider"
	"github.com/webtor-io/lazymap"
	"golang.org/x/time/rate"
)

const (
	youtubeEndpointFlag = "oembed-youtube-endpoint"
	vimeoEndpointFlag   = "oembed-vimeo-endpoint"
	timeoutFlag         = "oembed-timeout"
	rateFlag            = "oembed-rate"
	burstFlag           = "oembed-burst"
)

const (
	DefaultYouTubeEndpoint = "https://www.youtube.com/oembed"
	DefaultVimeoEndpoint   = "https://vimeo.com/api/oembed.json"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   youtubeEndpointFlag,
			Usage:  "youtube oembed endpoint",
			Value:  DefaultYouTubeEndpoint,
			EnvVar: "OEMBED_YOUTUBE_ENDPOINT",
		},
		cli.StringFlag{
			Name:   vimeoEndpointFlag,
			Usage:  "vimeo oembed endpoint",
			Value:  DefaultVimeoEndpoint,
			EnvVar: "OEMBED_VIMEO_ENDPOINT",
		},
		cli.DurationFlag{
			Name:   timeoutFlag,
			Usage:  "oembed request timeout",
			Value:  10 * time.Second,
			EnvVar: "OEMBED_TIMEOUT",
		},
		cli.Float64Flag{
			Name:   rateFlag,
			Usage:  "oembed requests per second (0 - unlimited)",
			Value:  5,
			EnvVar: "OEMBED_RATE",
		},
		cli.IntFlag{
			Name:   burstFlag,
			Usage:  "oembed requests burst",
			Value:  5,
			EnvVar: "OEMBED_BURST",
		},
	)
}

type Config struct {
	YouTubeEndpoint string
	VimeoEndpoint   string
	Timeout         time.Duration
	Rate            float64
	Burst           int
}

// dimension accepts both numeric and string json values
type dimension int

func (d *dimension) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid dimension %v", string(b))
	}
	*d = dimension(f)
	return nil
}

type Response struct {
	Width        dimension `json:"width"`
	Height       dimension `json:"height"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Title        string    `json:"title"`
}

func (r *Response) Metadata() (*models.VideoMetadata, error) {
	if r.Width <= 0 {
		return nil, errors.Errorf("invalid width %v", r.Width)
	}
	return &models.VideoMetadata{
		Proportions:  int(math.Round(float64(r.Height) / float64(r.Width) * 100)),
		ThumbnailURL: r.ThumbnailURL,
		Title:        r.Title,
	}, nil
}

type Api struct {
	cl        *http.Client
	endpoints map[models.Provider]string
	timeout   time.Duration
	limiter   *rate.Limiter
	lm        lazymap.LazyMap[*models.VideoMetadata]
}

func New(c *cli.Context, cl *http.Client) *Api {
	return NewWithConfig(cl, &Config{
		YouTubeEndpoint: c.String(youtubeEndpointFlag),
		VimeoEndpoint:   c.String(vimeoEndpointFlag),
		Timeout:         c.Duration(timeoutFlag),
		Rate:            c.Float64(rateFlag),
		Burst:           c.Int(burstFlag),
	})
}

func NewWithConfig(cl *http.Client, cfg *Config) *Api {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	log.WithFields(log.Fields{
		"youtube": cfg.YouTubeEndpoint,
		"vimeo":   cfg.VimeoEndpoint,
	}).Info("oembed api endpoints")
	return &Api{
		cl: cl,
		endpoints: map[models.Provider]string{
			models.ProviderYouTube: cfg.YouTubeEndpoint,
			models.ProviderVimeo:   cfg.VimeoEndpoint,
		},
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, burst),
		lm: lazymap.New[*models.VideoMetadata](&lazymap.Config{
			Expire:      time.Minute,
			ErrorExpire: 10 * time.Second,
		}),
	}
}

func (s *Api) requestURL(ref *models.VideoReference) (string, error) {
	endpoint, ok := s.endpoints[ref.Provider]
	if !ok || endpoint == "" {
		return "", errors.Errorf("unsupported provider %v", ref.Provider)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse endpoint %v", endpoint)
	}
	q := u.Query()
	q.Set("url", provider.WatchURL(ref))
	if ref.Provider == models.ProviderYouTube {
		q.Set("format", "json")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch requests video metadata from provider's oembed endpoint.
// Concurrent calls for the same video share one request. The shared request
// is not bound to the caller's cancellation, only to the configured timeout.
func (s *Api) Fetch(ctx context.Context, ref *models.VideoReference) (*models.VideoMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "fetch canceled")
	}
	key := fmt.Sprintf("%v-%v", ref.Provider, ref.VideoID)
	return s.lm.Get(key, func() (*models.VideoMetadata, error) {
		return s.fetch(context.WithoutCancel(ctx), ref)
	})
}

func (s *Api) fetch(ctx context.Context, ref *models.VideoReference) (*models.VideoMetadata, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	reqURL, err := s.requestURL(ref)
	if err != nil {
		return nil, err
	}
	err = s.limiter.Wait(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "rate limit")
	}
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.cl.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad status code %v for %v", resp.StatusCode, reqURL)
	}

	var r Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return r.Metadata()
}
