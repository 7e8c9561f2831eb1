package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// number of lines in the text form: title, artist, album, track number, uri,
// art, duration
const textLines = 7

var ErrMalformedText = errors.New("malformed metadata text")

func (m *Metadata) stringFields() [5]optString {
	return [5]optString{m.title, m.artist, m.album, m.uri, m.art}
}

// appendText appends the seven line text form of m to b.
func (m *Metadata) appendText(b []byte) []byte {
	line := func(o optString) {
		b = append(b, o.value...)
		b = append(b, '\n')
	}

	line(m.title)
	line(m.artist)
	line(m.album)
	b = strconv.AppendInt(b, int64(m.trackNumber), 10)
	b = append(b, '\n')
	line(m.uri)
	line(m.art)
	b = strconv.AppendUint(b, m.duration, 10)
	b = append(b, '\n')

	return b
}

// SerializedLen returns the length in bytes of the text form of m, without a
// terminating NUL.
func (m *Metadata) SerializedLen() int {
	var scratch [24]byte

	n := textLines
	for _, f := range m.stringFields() {
		n += len(f.value)
	}

	n += len(strconv.AppendInt(scratch[:0], int64(m.trackNumber), 10))
	n += len(strconv.AppendUint(scratch[:0], m.duration, 10))

	return n
}

// Serialize writes the text form of m into dst.
//
// With a nil dst nothing is written and the required size is returned.
// Otherwise at most len(dst) bytes are written and dst always ends up NUL
// terminated, truncating the text if needed. The return value is the full
// length of the text, so a result >= len(dst) means the output was truncated.
func (m *Metadata) Serialize(dst []byte) int {
	if dst == nil {
		return m.SerializedLen()
	}

	text := m.appendText(make([]byte, 0, m.SerializedLen()))
	if len(dst) == 0 {
		return len(text)
	}

	n := copy(dst[:len(dst)-1], text)
	dst[n] = 0

	return len(text)
}

func (m *Metadata) MarshalText() ([]byte, error) {
	return m.appendText(make([]byte, 0, m.SerializedLen())), nil
}

func (m *Metadata) String() string {
	return string(m.appendText(make([]byte, 0, m.SerializedLen())))
}

// splitLines returns the first n newline terminated lines of data. Anything
// after the n-th line is ignored.
func splitLines(data string, n int) ([]string, error) {
	lines := make([]string, 0, n)

	start := 0
	for len(lines) < n {
		end := strings.IndexByte(data[start:], '\n')
		if end < 0 {
			return nil, fmt.Errorf("%w: expected %d lines, found %d", ErrMalformedText, n, len(lines))
		}

		lines = append(lines, data[start:start+end])
		start += end + 1
	}

	return lines, nil
}

// Deserialize parses the text form produced by Serialize. On error m is left
// untouched.
//
// Absent fields are written as empty lines, so they come back as empty
// strings rather than absent ones.
func (m *Metadata) Deserialize(data string) error {
	lines, err := splitLines(data, textLines)
	if err != nil {
		return err
	}

	trackNumber, _ := parseLeadingInt(lines[3])
	duration, _ := parseLeadingUint(lines[6])

	m.SetTitle(lines[0])
	m.SetArtist(lines[1])
	m.SetAlbum(lines[2])
	m.SetTrackNumber(trackNumber)
	m.SetURI(lines[4])
	m.SetArt(lines[5])
	m.SetDuration(duration)

	return nil
}

func (m *Metadata) UnmarshalText(text []byte) error {
	return m.Deserialize(string(text))
}
