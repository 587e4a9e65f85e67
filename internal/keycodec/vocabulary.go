package keycodec

// Recognized metadata keys.
var (
	Name            = MustFromString("name")
	Description     = MustFromString("description")
	Image           = MustFromString("image")
	ExternalLink    = MustFromString("external_link")
	AnimationURL    = MustFromString("animation_url")
	ExternalURL     = MustFromString("external_url")
	BackgroundColor = MustFromString("background_color")
	YoutubeURL      = MustFromString("youtube_url")
	Attributes      = MustFromString("attributes")
	TraitType       = MustFromString("trait_type")
	TraitValue      = MustFromString("trait_value")
	TraitDisplay    = MustFromString("trait_display")
	MaxValue        = MustFromString("max_value")
)

var vocabulary = []Key{
	Name,
	Description,
	Image,
	ExternalLink,
	AnimationURL,
	ExternalURL,
	BackgroundColor,
	YoutubeURL,
	Attributes,
	TraitType,
	TraitValue,
	TraitDisplay,
	MaxValue,
}

// Vocabulary returns the recognized keys in their documented order.
// The returned slice is a copy.
func Vocabulary() []Key {
	out := make([]Key, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Recognized reports whether k is part of the fixed vocabulary.
func Recognized(k Key) bool {
	for _, v := range vocabulary {
		if v == k {
			return true
		}
	}
	return false
}
