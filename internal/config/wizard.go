//go:build !js

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns the resolved Config.
func RunWizard(path string) (Config, error) {
	fmt.Println("Welcome to qrchat! Let's configure your contact widget.")
	fmt.Println()

	def := Defaults()
	var p Partial

	// 1. Destination number.
	numberPrompt := promptui.Prompt{
		Label: "WhatsApp number (country code + number)",
		Validate: func(s string) error {
			if NormalizeNumber(s) == "" {
				return errors.New("enter at least one digit")
			}
			return nil
		},
	}
	number, err := numberPrompt.Run()
	if err != nil {
		return Config{}, fmt.Errorf("whatsapp number: %w", err)
	}
	number = NormalizeNumber(number)
	p.WhatsAppNumber = &number

	// 2. Submission mode.
	modePrompt := promptui.Select{
		Label: "How should the contact form be delivered?",
		Items: []string{
			"deeplink: open WhatsApp with the message prefilled",
			"remote:   POST the message as JSON to your endpoint",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return Config{}, fmt.Errorf("submission mode: %w", err)
	}
	mode := []SubmissionMode{ModeDeepLink, ModeRemote}[modeIdx]
	p.SubmissionMode = &mode

	if mode == ModeRemote {
		endpointPrompt := promptui.Prompt{
			Label: "Contact endpoint URL",
			Validate: func(s string) error {
				if !isEndpoint(strings.TrimSpace(s)) {
					return errors.New("enter an http(s) URL or a path starting with /")
				}
				return nil
			},
		}
		endpoint, err := endpointPrompt.Run()
		if err != nil {
			return Config{}, fmt.Errorf("remote endpoint: %w", err)
		}
		p.RemoteEndpoint = &endpoint
	}

	// 3. QR size.
	sizePrompt := promptui.Prompt{
		Label:   "QR code size in pixels",
		Default: strconv.Itoa(def.QRSize),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return errors.New("enter a positive integer")
			}
			return nil
		},
	}
	sizeStr, err := sizePrompt.Run()
	if err != nil {
		return Config{}, fmt.Errorf("qr size: %w", err)
	}
	size, _ := strconv.Atoi(sizeStr)
	p.QRSize = &size

	// 4. Button color.
	colorPrompt := promptui.Prompt{
		Label:   "Button color",
		Default: def.Colors.ButtonBackground,
		Validate: func(s string) error {
			if !IsCSSValue(s) {
				return errors.New("enter a CSS color such as #25D366 or rgb(37, 211, 102)")
			}
			return nil
		},
	}
	color, err := colorPrompt.Run()
	if err != nil {
		return Config{}, fmt.Errorf("button color: %w", err)
	}
	p.Colors = &PartialColors{ButtonBackground: &color}

	// 5. Info text, empty disables it.
	infoPrompt := promptui.Prompt{
		Label:   "Text shown under the QR code (blank for none)",
		Default: def.InfoText,
	}
	info, err := infoPrompt.Run()
	if err != nil {
		return Config{}, fmt.Errorf("info text: %w", err)
	}
	p.InfoText = &info

	cfg := Resolve(def, p)
	if err := cfg.Save(path); err != nil {
		return Config{}, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
