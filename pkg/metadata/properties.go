package metadata

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

// MPRIS metadata keys understood by FromVariant.
const (
	KeyTitle       = "xesam:title"
	KeyArtist      = "xesam:artist"
	KeyAlbum       = "xesam:album"
	KeyArtURL      = "mpris:artUrl"
	KeyURL         = "xesam:url"
	KeyTrackNumber = "xesam:trackNumber"
	KeyLength      = "mpris:length"
)

// Keys written by ToProperties.
const (
	PropTitle       = "title"
	PropArtist      = "artist"
	PropAlbum       = "album"
	PropLocation    = "location"
	PropArtURL      = "arturl"
	PropTime        = "time"
	PropMTime       = "mtime"
	PropTrackNumber = "tracknumber"
)

const artistSeparator = ", "

var ErrNotPropertyMap = errors.New("value is not a string keyed property map")

type valueKind int

const (
	kindAbsent valueKind = iota
	kindString
	kindStringList
	kindInteger
	kindOther
)

// propertyValue is a decoded property map value.
type propertyValue struct {
	kind valueKind
	str  string
	list []string
	num  int64
	// type description for diagnostics
	typeName string
}

func describe(v any) string {
	if variant, ok := v.(dbus.Variant); ok {
		return variant.Signature().String()
	}

	return fmt.Sprintf("%T", v)
}

func decodeList(items []any) ([]string, bool) {
	result := make([]string, len(items))
	for i, item := range items {
		if variant, ok := item.(dbus.Variant); ok {
			item = variant.Value()
		}

		s, ok := item.(string)
		if !ok {
			return nil, false
		}

		result[i] = s
	}

	return result, true
}

func decodeValue(v any) propertyValue {
	typeName := describe(v)
	if variant, ok := v.(dbus.Variant); ok {
		v = variant.Value()
	}

	switch val := v.(type) {
	case nil:
		return propertyValue{kind: kindAbsent, typeName: typeName}
	case string:
		return propertyValue{kind: kindString, str: val, typeName: typeName}
	case []string:
		return propertyValue{kind: kindStringList, list: val, typeName: typeName}
	case []any:
		if list, ok := decodeList(val); ok {
			return propertyValue{kind: kindStringList, list: list, typeName: typeName}
		}
	case int:
		return propertyValue{kind: kindInteger, num: int64(val), typeName: typeName}
	case int16:
		return propertyValue{kind: kindInteger, num: int64(val), typeName: typeName}
	case int32:
		return propertyValue{kind: kindInteger, num: int64(val), typeName: typeName}
	case int64:
		return propertyValue{kind: kindInteger, num: val, typeName: typeName}
	case uint8:
		return propertyValue{kind: kindInteger, num: int64(val), typeName: typeName}
	case uint16:
		return propertyValue{kind: kindInteger, num: int64(val), typeName: typeName}
	case uint32:
		return propertyValue{kind: kindInteger, num: int64(val), typeName: typeName}
	case uint64:
		if val <= math.MaxInt64 {
			return propertyValue{kind: kindInteger, num: int64(val), typeName: typeName}
		}
	case float64:
		// JSON numbers
		if val == math.Trunc(val) && val >= math.MinInt64 && val < math.MaxInt64 {
			return propertyValue{kind: kindInteger, num: int64(val), typeName: typeName}
		}
	}

	return propertyValue{kind: kindOther, typeName: typeName}
}

// FromVariant builds a Metadata from an MPRIS style a{sv} property map. v may
// be a dbus.Variant holding the map, a map[string]dbus.Variant or a
// map[string]any. Any other value returns ErrNotPropertyMap.
func FromVariant(v any) (*Metadata, error) {
	if variant, ok := v.(dbus.Variant); ok {
		v = variant.Value()
	}

	switch props := v.(type) {
	case map[string]dbus.Variant:
		return FromProperties(props), nil
	case map[string]any:
		return FromMap(props), nil
	default:
		return nil, fmt.Errorf("%w: got %s", ErrNotPropertyMap, describe(v))
	}
}

func FromProperties(props map[string]dbus.Variant) *Metadata {
	m := New()
	for key, value := range props {
		m.setProperty(key, decodeValue(value))
	}

	return m
}

func FromMap(props map[string]any) *Metadata {
	m := New()
	for key, value := range props {
		m.setProperty(key, decodeValue(value))
	}

	return m
}

func setStringProperty(key string, v propertyValue, set func(string)) {
	switch v.kind {
	case kindString:
		set(v.str)
	case kindAbsent:
	default:
		log.Warn().Msgf("Unknown type of %s: %s", key, v.typeName)
	}
}

func (m *Metadata) setProperty(key string, v propertyValue) {
	switch key {
	case KeyTitle:
		setStringProperty(key, v, m.SetTitle)
	case KeyAlbum:
		setStringProperty(key, v, m.SetAlbum)
	case KeyArtURL:
		setStringProperty(key, v, m.SetArt)
	case KeyURL:
		setStringProperty(key, v, m.SetURI)
	case KeyArtist:
		switch v.kind {
		// some players report a single string instead of a list
		case kindString:
			m.SetArtist(v.str)
		case kindStringList:
			m.SetArtist(strings.Join(v.list, artistSeparator))
		case kindAbsent:
		default:
			log.Warn().Msgf("Unknown type of artist: %s", v.typeName)
		}
	case KeyTrackNumber:
		if v.kind != kindInteger || v.num < math.MinInt32 || v.num > math.MaxInt32 {
			log.Warn().Msgf("Unknown type of track number: %s", v.typeName)
			return
		}

		m.SetTrackNumber(int(v.num))
	case KeyLength:
		if v.kind != kindInteger || v.num < 0 {
			log.Warn().Msgf("Unsupported length value of type %s", v.typeName)
			return
		}

		m.SetDuration(uint64(v.num))
	}
}

// ToProperties exports m using the property names of the legacy lyrics
// consumers. It is not the inverse of FromVariant.
func (m *Metadata) ToProperties() map[string]dbus.Variant {
	props := map[string]dbus.Variant{}

	addString := func(key string, o optString) {
		if o.valid {
			props[key] = dbus.MakeVariant(o.value)
		}
	}

	addString(PropTitle, m.title)
	addString(PropArtist, m.artist)
	addString(PropAlbum, m.album)
	addString(PropLocation, m.uri)
	addString(PropArtURL, m.art)

	props[PropTime] = dbus.MakeVariant(uint32(m.duration / 1000))
	props[PropMTime] = dbus.MakeVariant(uint32(m.duration))

	if m.trackNumber > 0 {
		props[PropTrackNumber] = dbus.MakeVariant(strconv.Itoa(m.trackNumber))
	}

	return props
}

func (m *Metadata) ToVariant() dbus.Variant {
	return dbus.MakeVariant(m.ToProperties())
}

// ToMap is ToProperties with the variants unwrapped, for JSON encoding.
func (m *Metadata) ToMap() map[string]any {
	props := m.ToProperties()

	result := make(map[string]any, len(props))
	for k, v := range props {
		result[k] = v.Value()
	}

	return result
}
