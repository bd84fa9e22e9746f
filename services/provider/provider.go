package provider

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/webtor-io/lazy-embed/models"
)

var (
	providerR = regexp.MustCompile(`(youtube\.com|youtube-nocookie\.com|youtu\.be/|vimeo\.com)`)
	youtubeR  = regexp.MustCompile(`(?i)(?:youtube(?:-nocookie)?\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/ ]{11})`)
	vimeoR    = regexp.MustCompile(`(?:https?://)?(?:www.)?(?:player.)?vimeo.com/(?:[a-z]*/)*([0-9]{6,11})[?]?.*`)
)

// Detect returns the supported provider hosting url.
func Detect(url string) (models.Provider, bool) {
	m := providerR.FindStringSubmatch(strings.ToLower(url))
	if m == nil {
		return "", false
	}
	if m[1] == "vimeo.com" {
		return models.ProviderVimeo, true
	}
	return models.ProviderYouTube, true
}

// VideoID extracts video id from url for the given provider.
func VideoID(url string, p models.Provider) (string, bool) {
	var r *regexp.Regexp
	switch p {
	case models.ProviderYouTube:
		r = youtubeR
	case models.ProviderVimeo:
		r = vimeoR
	default:
		return "", false
	}
	m := r.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func Parse(url string) (*models.VideoReference, bool) {
	p, ok := Detect(url)
	if !ok {
		return nil, false
	}
	id, ok := VideoID(url, p)
	if !ok {
		return nil, false
	}
	return &models.VideoReference{
		Provider: p,
		VideoID:  id,
	}, true
}

// EmbedURL returns protocol-relative player url with the provider chrome turned off
func EmbedURL(ref *models.VideoReference) string {
	switch ref.Provider {
	case models.ProviderYouTube:
		return fmt.Sprintf("//www.youtube.com/embed/%v?modestbranding=1&autohide=1&showinfo=0&rel=0", ref.VideoID)
	case models.ProviderVimeo:
		return fmt.Sprintf("//player.vimeo.com/video/%v?badge=0&portrait=0&byline=0&title=0", ref.VideoID)
	}
	return ""
}

// WatchURL returns canonical public page of the video.
func WatchURL(ref *models.VideoReference) string {
	switch ref.Provider {
	case models.ProviderYouTube:
		return "https://www.youtube.com/watch?v=" + ref.VideoID
	case models.ProviderVimeo:
		return "https://vimeo.com/" + ref.VideoID
	}
	return ""
}
