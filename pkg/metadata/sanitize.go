package metadata

import "strings"

var (
	// matched as a prefix of the lower cased artist
	invalidArtists = []string{"unknown", "未知", "群星"}

	titleSeparators = []string{"--", " - ", "-"}
)

const asciiWhitespace = " \t\n\v\f\r"

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}

func trimASCIISpace(s string) string {
	return strings.Trim(s, asciiWhitespace)
}

// ArtistValid reports whether the artist is set to something other than an
// empty string or a known placeholder such as "Unknown".
func (m *Metadata) ArtistValid() bool {
	artist, ok := m.Artist()
	if !ok || artist == "" {
		return false
	}

	artist = asciiLower(artist)
	for _, invalid := range invalidArtists {
		if strings.HasPrefix(artist, invalid) {
			return false
		}
	}

	return true
}

func isTrackNumberPrefix(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isASCIIDigit(s[i]) && !isASCIISpace(s[i]) {
			return false
		}
	}

	return true
}

// SanitizeTitleArtist tries to recover the artist from titles such as
// "01. Artist - Title" when the player did not report a usable artist.
// Nothing is changed if the artist is valid or the title is absent.
func (m *Metadata) SanitizeTitleArtist() {
	origTitle, ok := m.Title()
	if !ok || m.ArtistValid() {
		return
	}

	newTitle := origTitle
	var newArtist string
	artistFound := false

	// leading track number, e.g. "01. "
	if dot := strings.IndexByte(newTitle, '.'); dot > 0 && isTrackNumberPrefix(newTitle[:dot]) {
		if rhs := trimASCIISpace(newTitle[dot+1:]); rhs != "" {
			newTitle = rhs
		}
	}

	for _, sep := range titleSeparators {
		idx := strings.Index(newTitle, sep)
		if idx < 0 {
			continue
		}

		if rhs := trimASCIISpace(newTitle[idx+len(sep):]); rhs != "" {
			newArtist = newTitle[:idx]
			newTitle = rhs
			artistFound = true
			break
		}
	}

	if artistFound {
		if orig, ok := m.Artist(); !ok || orig != newArtist {
			m.SetArtist(newArtist)
		}
	}

	if newTitle != origTitle {
		m.SetTitle(newTitle)
	}
}
