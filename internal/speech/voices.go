package speech

import (
	"fmt"
	"math/rand/v2"

	"golang.org/x/text/language"
)

// DefaultAllowedLocales are the locales random voices are drawn from.
var DefaultAllowedLocales = []string{"en-US", "en-GB", "de-DE"}

// ParseLocales parses BCP 47 locale strings.
func ParseLocales(locales []string) ([]language.Tag, error) {
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", l, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// LocaleAllowed reports whether a voice language matches one of the allowed
// locales. Languages without a region match the region they are most
// commonly spoken in, so a plain "de" voice counts as de-DE.
func LocaleAllowed(lang string, allowed []language.Tag) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	for _, a := range allowed {
		ab, _ := a.Base()
		ar, _ := a.Region()
		if base == ab && region == ar {
			return true
		}
	}
	return false
}

// FilterVoices returns the voices whose language is allowed.
func FilterVoices(voices []Voice, allowed []language.Tag) []Voice {
	var out []Voice
	for _, v := range voices {
		if LocaleAllowed(v.Language, allowed) {
			out = append(out, v)
		}
	}
	return out
}

// SelectVoice picks one allowed voice uniformly at random. It returns nil
// when no voice qualifies, leaving the engine to use its default.
func SelectVoice(voices []Voice, allowed []language.Tag, rnd *rand.Rand) *Voice {
	candidates := FilterVoices(voices, allowed)
	if len(candidates) == 0 {
		return nil
	}
	var i int
	if rnd != nil {
		i = rnd.IntN(len(candidates))
	} else {
		i = rand.IntN(len(candidates))
	}
	v := candidates[i]
	return &v
}

// FindVoice returns the voice with the given ID.
func FindVoice(voices []Voice, id string) (*Voice, bool) {
	for _, v := range voices {
		if v.ID == id {
			return &v, true
		}
	}
	return nil, false
}
