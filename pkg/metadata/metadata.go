// Package metadata holds the track metadata exchanged between players, the
// lyrics daemon and its consumers.
package metadata

import (
	"math"
	"strconv"
)

// DefaultTrackNumber means no track number is known.
const DefaultTrackNumber = -1

type optString struct {
	value string
	valid bool
}

func someString(s string) optString {
	return optString{value: s, valid: true}
}

func (o optString) get() (string, bool) {
	return o.value, o.valid
}

// Metadata describes the track a player is currently playing.
//
// A Metadata is not safe for concurrent use.
type Metadata struct {
	title       optString
	artist      optString
	album       optString
	trackNumber int
	uri         optString
	art         optString
	// milliseconds
	duration uint64
}

func New() *Metadata {
	m := &Metadata{}
	m.Clear()

	return m
}

// Clear resets every field to its default.
func (m *Metadata) Clear() {
	*m = Metadata{trackNumber: DefaultTrackNumber}
}

// CopyFrom overwrites every field of m with the fields of src.
func (m *Metadata) CopyFrom(src *Metadata) {
	if src == nil {
		panic("metadata: CopyFrom called with nil source")
	}

	if m == src {
		return
	}

	*m = *src
}

func (m *Metadata) Dup() *Metadata {
	d := New()
	d.CopyFrom(m)

	return d
}

func (m *Metadata) Title() (string, bool) { return m.title.get() }

func (m *Metadata) SetTitle(title string) { m.title = someString(title) }

func (m *Metadata) UnsetTitle() { m.title = optString{} }

func (m *Metadata) Artist() (string, bool) { return m.artist.get() }

func (m *Metadata) SetArtist(artist string) { m.artist = someString(artist) }

func (m *Metadata) UnsetArtist() { m.artist = optString{} }

func (m *Metadata) Album() (string, bool) { return m.album.get() }

func (m *Metadata) SetAlbum(album string) { m.album = someString(album) }

func (m *Metadata) UnsetAlbum() { m.album = optString{} }

// URI is the location of the media being played.
func (m *Metadata) URI() (string, bool) { return m.uri.get() }

func (m *Metadata) SetURI(uri string) { m.uri = someString(uri) }

func (m *Metadata) UnsetURI() { m.uri = optString{} }

// Art is the location of the cover art.
func (m *Metadata) Art() (string, bool) { return m.art.get() }

func (m *Metadata) SetArt(art string) { m.art = someString(art) }

func (m *Metadata) UnsetArt() { m.art = optString{} }

func (m *Metadata) TrackNumber() int { return m.trackNumber }

func (m *Metadata) SetTrackNumber(trackNumber int) { m.trackNumber = trackNumber }

// SetTrackNumberFromString parses the leading decimal integer of s. A nil s
// resets the track number to DefaultTrackNumber. When s has no leading
// integer, including the empty string, the current value is kept.
func (m *Metadata) SetTrackNumberFromString(s *string) {
	if s == nil {
		m.trackNumber = DefaultTrackNumber
		return
	}

	if n, ok := parseLeadingInt(*s); ok {
		m.trackNumber = n
	}
}

// Duration returns the length of the track in milliseconds.
func (m *Metadata) Duration() uint64 { return m.duration }

func (m *Metadata) SetDuration(duration uint64) { m.duration = duration }

// Equal reports whether a and b describe the same track. Two nil values are
// equal, a nil and a non-nil value are not.
func Equal(a, b *Metadata) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	return a.title == b.title &&
		a.artist == b.artist &&
		a.album == b.album &&
		a.trackNumber == b.trackNumber &&
		a.uri == b.uri &&
		a.art == b.art &&
		a.duration == b.duration
}

func (m *Metadata) Equal(other *Metadata) bool {
	return Equal(m, other)
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}

	return false
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func skipSpace(s string) string {
	i := 0
	for i < len(s) && isASCIISpace(s[i]) {
		i++
	}

	return s[i:]
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && isASCIIDigit(s[i]) {
		i++
	}

	return s[:i]
}

// parseLeadingInt reads an optionally signed decimal integer at the start of
// s, after any whitespace. Values outside the 32-bit range are clamped.
func parseLeadingInt(s string) (int, bool) {
	s = skipSpace(s)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	digits := leadingDigits(s)
	if digits == "" {
		return 0, false
	}

	// ParseInt returns the clamped bound along with a range error
	n, _ := strconv.ParseInt(sign+digits, 10, 32)

	return int(n), true
}

// parseLeadingUint reads an unsigned decimal integer at the start of s, after
// any whitespace. Values that overflow saturate at math.MaxUint64.
func parseLeadingUint(s string) (uint64, bool) {
	s = skipSpace(s)
	if s != "" && s[0] == '+' {
		s = s[1:]
	}

	digits := leadingDigits(s)
	if digits == "" {
		return 0, false
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return math.MaxUint64, true
	}

	return n, true
}
