package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nested keys: QRCHAT_COLORS__BUTTON_ICON -> colors.button_icon.
const EnvPrefix = "QRCHAT_"

// Load reads the YAML file at path (if it exists), overlays QRCHAT_*
// environment variables, and resolves the result over Defaults.
func Load(path string) (Config, error) {
	p, err := LoadPartial(path)
	if err != nil {
		return Config{}, err
	}
	return Resolve(Defaults(), p), nil
}

// LoadPartial returns only the keys present in the file and environment.
func LoadPartial(path string) (Partial, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Partial{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Partial{}, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return Partial{}, fmt.Errorf("loading env overrides: %w", err)
	}

	return partialFromKoanf(k), nil
}

// partialFromKoanf turns key presence into Partial presence, so a key set
// to "" in the file is an explicit override rather than an absent one.
func partialFromKoanf(k *koanf.Koanf) Partial {
	var p Partial
	str := func(key string) *string {
		if !k.Exists(key) {
			return nil
		}
		v := k.String(key)
		return &v
	}

	p.InstanceID = str("instance_id")
	p.WhatsAppNumber = str("whatsapp_number")
	p.QRProvider = str("qr_provider")
	p.InfoText = str("info_text")
	p.DefaultMessage = str("default_message")
	p.RemoteEndpoint = str("remote_endpoint")
	if k.Exists("qr_size") {
		n := k.Int("qr_size")
		p.QRSize = &n
	}
	if k.Exists("submission_mode") {
		m := SubmissionMode(k.String("submission_mode"))
		p.SubmissionMode = &m
	}
	if k.Exists("remote_timeout") {
		d := Duration(k.Duration("remote_timeout"))
		p.RemoteTimeout = &d
	}
	if k.Exists("position") {
		p.Position = &PartialPosition{
			Bottom: str("position.bottom"),
			Right:  str("position.right"),
		}
	}
	if k.Exists("colors") {
		p.Colors = &PartialColors{
			ButtonBackground: str("colors.button_background"),
			ButtonIcon:       str("colors.button_icon"),
			PanelBackground:  str("colors.panel_background"),
		}
	}
	return p
}

// Save writes the configuration to the given YAML file path.
func (c Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks a configuration strictly. Resolve repairs these
// problems silently; Validate is for tooling that should report them.
func (c Config) Validate() error {
	var errs []error

	if !validInstanceID.MatchString(c.InstanceID) {
		errs = append(errs, fmt.Errorf("invalid instance_id %q: must start with a letter and contain only letters, digits, '-' or '_'", c.InstanceID))
	}
	if c.WhatsAppNumber == "" {
		errs = append(errs, fmt.Errorf("whatsapp_number is required"))
	} else if NormalizeNumber(c.WhatsAppNumber) != c.WhatsAppNumber {
		errs = append(errs, fmt.Errorf("whatsapp_number %q must contain digits only (country code + number)", c.WhatsAppNumber))
	}
	if c.QRSize <= 0 {
		errs = append(errs, fmt.Errorf("qr_size must be positive"))
	}
	if !isAbsoluteHTTP(c.QRProvider) {
		errs = append(errs, fmt.Errorf("qr_provider %q must be an absolute http(s) URL", c.QRProvider))
	}

	for name, v := range map[string]string{
		"position.bottom":          c.Position.Bottom,
		"position.right":           c.Position.Right,
		"colors.button_background": c.Colors.ButtonBackground,
		"colors.button_icon":       c.Colors.ButtonIcon,
		"colors.panel_background":  c.Colors.PanelBackground,
	} {
		if !IsCSSValue(v) {
			errs = append(errs, fmt.Errorf("%s %q is not a valid CSS value", name, v))
		}
	}

	switch c.SubmissionMode {
	case ModeDeepLink:
	case ModeRemote:
		if !isEndpoint(c.RemoteEndpoint) {
			errs = append(errs, fmt.Errorf("remote_endpoint %q must be an http(s) URL or an absolute path when submission_mode is remote", c.RemoteEndpoint))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid submission_mode %q: must be one of deeplink, remote", c.SubmissionMode))
	}

	if c.RemoteTimeout < 0 {
		errs = append(errs, fmt.Errorf("remote_timeout must be non-negative"))
	}

	return errors.Join(errs...)
}

// ValidateFile loads the raw file and environment keys without repairing
// them and validates the naive merge, so mistakes are reported instead of
// silently replaced by defaults.
func ValidateFile(path string) error {
	p, err := LoadPartial(path)
	if err != nil {
		return err
	}
	return strictMerge(Defaults(), p).Validate()
}

// strictMerge applies every present override as-is.
func strictMerge(cfg Config, p Partial) Config {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.InstanceID, p.InstanceID)
	set(&cfg.WhatsAppNumber, p.WhatsAppNumber)
	set(&cfg.QRProvider, p.QRProvider)
	set(&cfg.InfoText, p.InfoText)
	set(&cfg.DefaultMessage, p.DefaultMessage)
	set(&cfg.RemoteEndpoint, p.RemoteEndpoint)
	if p.QRSize != nil {
		cfg.QRSize = *p.QRSize
	}
	if p.SubmissionMode != nil {
		cfg.SubmissionMode = *p.SubmissionMode
	}
	if p.RemoteTimeout != nil {
		cfg.RemoteTimeout = time.Duration(*p.RemoteTimeout)
	}
	if p.Position != nil {
		set(&cfg.Position.Bottom, p.Position.Bottom)
		set(&cfg.Position.Right, p.Position.Right)
	}
	if p.Colors != nil {
		set(&cfg.Colors.ButtonBackground, p.Colors.ButtonBackground)
		set(&cfg.Colors.ButtonIcon, p.Colors.ButtonIcon)
		set(&cfg.Colors.PanelBackground, p.Colors.PanelBackground)
	}
	return cfg
}
