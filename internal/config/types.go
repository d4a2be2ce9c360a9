package config

import "time"

// SubmissionMode selects how a completed contact form is delivered.
type SubmissionMode string

const (
	// ModeDeepLink opens a wa.me link carrying the message in a new browsing context.
	ModeDeepLink SubmissionMode = "deeplink"
	// ModeRemote posts the message as JSON to RemoteEndpoint.
	ModeRemote SubmissionMode = "remote"
)

// Config is the effective widget configuration, corresponding to .qrchat.yml.
// A Config is produced once by Resolve and treated as read-only afterwards.
type Config struct {
	InstanceID     string         `yaml:"instance_id" json:"instanceId"`
	WhatsAppNumber string         `yaml:"whatsapp_number" json:"whatsappNumber"`
	QRSize         int            `yaml:"qr_size" json:"qrSize"`
	QRProvider     string         `yaml:"qr_provider" json:"qrProvider"`
	Position       Position       `yaml:"position" json:"position"`
	Colors         Colors         `yaml:"colors" json:"colors"`
	InfoText       string         `yaml:"info_text" json:"infoText"`
	DefaultMessage string         `yaml:"default_message" json:"defaultMessage"`
	SubmissionMode SubmissionMode `yaml:"submission_mode" json:"submissionMode"`
	RemoteEndpoint string         `yaml:"remote_endpoint,omitempty" json:"remoteEndpoint,omitempty"`
	RemoteTimeout  time.Duration  `yaml:"remote_timeout,omitempty" json:"remoteTimeout,omitempty"`
}

// Position anchors the floating button and panel to the viewport corner.
// Both values are CSS lengths.
type Position struct {
	Bottom string `yaml:"bottom" json:"bottom"`
	Right  string `yaml:"right" json:"right"`
}

// Colors holds the widget palette as CSS color values.
type Colors struct {
	ButtonBackground string `yaml:"button_background" json:"buttonBackground"`
	ButtonIcon       string `yaml:"button_icon" json:"buttonIcon"`
	PanelBackground  string `yaml:"panel_background" json:"panelBackground"`
}

// Partial is a caller-supplied override. A nil field is absent and leaves
// the default in place; a non-nil field is present.
type Partial struct {
	InstanceID     *string          `json:"instanceId,omitempty"`
	WhatsAppNumber *string          `json:"whatsappNumber,omitempty"`
	QRSize         *int             `json:"qrSize,omitempty"`
	QRProvider     *string          `json:"qrProvider,omitempty"`
	Position       *PartialPosition `json:"position,omitempty"`
	Colors         *PartialColors   `json:"colors,omitempty"`
	InfoText       *string          `json:"infoText,omitempty"`
	DefaultMessage *string          `json:"defaultMessage,omitempty"`
	SubmissionMode *SubmissionMode  `json:"submissionMode,omitempty"`
	RemoteEndpoint *string          `json:"remoteEndpoint,omitempty"`
	RemoteTimeout  *Duration        `json:"remoteTimeout,omitempty"`
}

// PartialPosition overrides individual Position fields.
type PartialPosition struct {
	Bottom *string `json:"bottom,omitempty"`
	Right  *string `json:"right,omitempty"`
}

// PartialColors overrides individual Colors fields.
type PartialColors struct {
	ButtonBackground *string `json:"buttonBackground,omitempty"`
	ButtonIcon       *string `json:"buttonIcon,omitempty"`
	PanelBackground  *string `json:"panelBackground,omitempty"`
}

// Duration decodes from a JSON duration string ("15s") or a number of milliseconds.
type Duration time.Duration

// ElementID scopes a widget part to this instance, so several widgets can
// share a page without colliding.
func (c Config) ElementID(part string) string {
	return c.InstanceID + "-" + part
}
