package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/css/scanner"
)

// Resolve merges override over defaults and returns the effective
// configuration. A field present in override wins; nested Position and
// Colors fields are merged one by one. Resolve never fails: values that
// would leave the widget unusable (empty number, non-positive QR size,
// malformed CSS values, unknown mode) keep the default instead.
func Resolve(defaults Config, override Partial) Config {
	cfg := defaults

	if override.InstanceID != nil && validInstanceID.MatchString(*override.InstanceID) {
		cfg.InstanceID = *override.InstanceID
	}
	if override.WhatsAppNumber != nil {
		if n := NormalizeNumber(*override.WhatsAppNumber); n != "" {
			cfg.WhatsAppNumber = n
		}
	}
	if override.QRSize != nil && *override.QRSize > 0 {
		cfg.QRSize = *override.QRSize
	}
	if override.QRProvider != nil && isAbsoluteHTTP(*override.QRProvider) {
		cfg.QRProvider = *override.QRProvider
	}

	if p := override.Position; p != nil {
		cfg.Position.Bottom = cssOr(p.Bottom, cfg.Position.Bottom)
		cfg.Position.Right = cssOr(p.Right, cfg.Position.Right)
	}
	if c := override.Colors; c != nil {
		cfg.Colors.ButtonBackground = cssOr(c.ButtonBackground, cfg.Colors.ButtonBackground)
		cfg.Colors.ButtonIcon = cssOr(c.ButtonIcon, cfg.Colors.ButtonIcon)
		cfg.Colors.PanelBackground = cssOr(c.PanelBackground, cfg.Colors.PanelBackground)
	}

	// Optional texts: an explicit empty string switches the feature off.
	if override.InfoText != nil {
		cfg.InfoText = *override.InfoText
	}
	if override.DefaultMessage != nil {
		cfg.DefaultMessage = *override.DefaultMessage
	}

	if override.RemoteEndpoint != nil {
		cfg.RemoteEndpoint = strings.TrimSpace(*override.RemoteEndpoint)
	}
	if override.RemoteTimeout != nil && *override.RemoteTimeout >= 0 {
		cfg.RemoteTimeout = time.Duration(*override.RemoteTimeout)
	}
	if override.SubmissionMode != nil {
		switch m := SubmissionMode(strings.ToLower(string(*override.SubmissionMode))); m {
		case ModeDeepLink, ModeRemote:
			cfg.SubmissionMode = m
		}
	}
	if cfg.SubmissionMode == ModeRemote && !isEndpoint(cfg.RemoteEndpoint) {
		cfg.SubmissionMode = ModeDeepLink
	}
	if cfg.SubmissionMode != ModeRemote {
		cfg.RemoteEndpoint = ""
	}

	return cfg
}

// ParseJSON decodes a host-page configuration object field by field.
// Unknown keys are ignored and a null value counts as absent. A key whose
// value has the wrong shape is left out of the Partial and reported in
// dropped, so the rest of the object still applies; whatsappNumber and
// qrSize also accept a number or a numeric string respectively. The error
// is non-nil only when data is not a JSON object at all.
func ParseJSON(data []byte) (p Partial, dropped []string, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return p, nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Partial{}, nil, fmt.Errorf("decoding widget config: %w", err)
	}

	d := &fieldDecoder{fields: fields, dropped: &dropped}
	p.InstanceID = decodeField[string](d, "instanceId")
	p.WhatsAppNumber = d.number("whatsappNumber")
	p.QRSize = d.size("qrSize")
	p.QRProvider = decodeField[string](d, "qrProvider")
	if pos := d.object("position"); pos != nil {
		p.Position = &PartialPosition{
			Bottom: decodeField[string](pos, "bottom"),
			Right:  decodeField[string](pos, "right"),
		}
	}
	if c := d.object("colors"); c != nil {
		p.Colors = &PartialColors{
			ButtonBackground: decodeField[string](c, "buttonBackground"),
			ButtonIcon:       decodeField[string](c, "buttonIcon"),
			PanelBackground:  decodeField[string](c, "panelBackground"),
		}
	}
	p.InfoText = decodeField[string](d, "infoText")
	p.DefaultMessage = decodeField[string](d, "defaultMessage")
	p.SubmissionMode = decodeField[SubmissionMode](d, "submissionMode")
	p.RemoteEndpoint = decodeField[string](d, "remoteEndpoint")
	p.RemoteTimeout = decodeField[Duration](d, "remoteTimeout")
	return p, dropped, nil
}

// fieldDecoder reads single keys out of a decoded JSON object. prefix
// names the enclosing object in dropped keys, e.g. "colors.".
type fieldDecoder struct {
	prefix  string
	fields  map[string]json.RawMessage
	dropped *[]string
}

func (d *fieldDecoder) raw(key string) (json.RawMessage, bool) {
	raw, ok := d.fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

func (d *fieldDecoder) drop(key string) {
	*d.dropped = append(*d.dropped, d.prefix+key)
}

func decodeField[T any](d *fieldDecoder, key string) *T {
	raw, ok := d.raw(key)
	if !ok {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		d.drop(key)
		return nil
	}
	return &v
}

// number accepts the phone number as a string or as a bare JSON number.
func (d *fieldDecoder) number(key string) *string {
	raw, ok := d.raw(key)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		d.drop(key)
		return nil
	}
	s = n.String()
	return &s
}

// size accepts an integer or a string holding one.
func (d *fieldDecoder) size(key string) *int {
	raw, ok := d.raw(key)
	if !ok {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return &n
		}
	}
	d.drop(key)
	return nil
}

func (d *fieldDecoder) object(key string) *fieldDecoder {
	raw, ok := d.raw(key)
	if !ok {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		d.drop(key)
		return nil
	}
	return &fieldDecoder{prefix: d.prefix + key + ".", fields: fields, dropped: d.dropped}
}

// UnmarshalJSON accepts either a Go duration string or milliseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(time.Duration(x * float64(time.Millisecond)))
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", x, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

var validInstanceID = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// NormalizeNumber strips everything but digits, so "+1 (555) 123-4567"
// becomes "15551234567".
func NormalizeNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cssOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	s := strings.TrimSpace(*v)
	if !IsCSSValue(s) {
		return fallback
	}
	return s
}

// IsCSSValue reports whether s is a single non-empty CSS property value
// (a length, color, keyword or function call) that cannot break out of
// the declaration it is interpolated into.
func IsCSSValue(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	depth := 0
	sc := scanner.New(s)
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return depth == 0
		case scanner.TokenIdent, scanner.TokenHash, scanner.TokenNumber,
			scanner.TokenPercentage, scanner.TokenDimension, scanner.TokenS:
		case scanner.TokenFunction:
			depth++
		case scanner.TokenChar:
			switch tok.Value {
			case ")":
				depth--
				if depth < 0 {
					return false
				}
			case ",", "/", "+", "-", "*", ".":
			default:
				return false
			}
		default:
			return false
		}
	}
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isEndpoint accepts absolute http(s) URLs and same-origin paths.
func isEndpoint(raw string) bool {
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		_, err := url.Parse(raw)
		return err == nil
	}
	return isAbsoluteHTTP(raw)
}

// MarshalJSON encodes the duration as a Go duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// PartialOf returns a Partial with every field of cfg present. Resolving
// it over any defaults reproduces cfg, which is how a server-side config
// is handed to the browser.
func PartialOf(cfg Config) Partial {
	mode := cfg.SubmissionMode
	timeout := Duration(cfg.RemoteTimeout)
	p := Partial{
		InstanceID:     &cfg.InstanceID,
		WhatsAppNumber: &cfg.WhatsAppNumber,
		QRSize:         &cfg.QRSize,
		QRProvider:     &cfg.QRProvider,
		Position: &PartialPosition{
			Bottom: &cfg.Position.Bottom,
			Right:  &cfg.Position.Right,
		},
		Colors: &PartialColors{
			ButtonBackground: &cfg.Colors.ButtonBackground,
			ButtonIcon:       &cfg.Colors.ButtonIcon,
			PanelBackground:  &cfg.Colors.PanelBackground,
		},
		InfoText:       &cfg.InfoText,
		DefaultMessage: &cfg.DefaultMessage,
		SubmissionMode: &mode,
	}
	if cfg.RemoteEndpoint != "" {
		p.RemoteEndpoint = &cfg.RemoteEndpoint
	}
	if cfg.RemoteTimeout > 0 {
		p.RemoteTimeout = &timeout
	}
	return p
}
