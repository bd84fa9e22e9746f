package models

type Provider string

const (
	ProviderYouTube Provider = "youtube"
	ProviderVimeo   Provider = "vimeo"
)

func (p Provider) String() string {
	return string(p)
}

// VideoReference identifies a video on a supported provider.
// It is derived from an embed URL on every request and never stored.
type VideoReference struct {
	Provider Provider
	VideoID  string
}

type Aspect string

const (
	Aspect16x9 Aspect = "16x9"
	Aspect3x4  Aspect = "3x4"
)

// aspectThreshold is the proportion (height/width*100) from which a video
// is rendered with the tall placeholder.
const aspectThreshold = 70

type VideoMetadata struct {
	Proportions  int    `json:"proportions"`
	ThumbnailURL string `json:"thumbnail_url"`
	Title        string `json:"title"`
}

func (m *VideoMetadata) Aspect() Aspect {
	if m.Proportions < aspectThreshold {
		return Aspect16x9
	}
	return Aspect3x4
}
