// Package moderation validates and screens campaign support messages.
package moderation

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrBadType       = errors.New("type must be quick or custom")
	ErrQuickKey      = errors.New("quick messages require a quick_key and no custom text")
	ErrCustomText    = errors.New("custom messages require text and no quick_key")
	ErrLength        = errors.New("message must be between 5 and 150 characters")
	ErrBlockedText   = errors.New("message contains disallowed content")
)

const (
	MinMessageLen = 5
	MaxMessageLen = 150
)

// QuickKeys are the predefined short messages supporters can pick.
var QuickKeys = map[string]string{
	"praying_for_you": "Praying for you",
	"stay_strong":     "Stay strong",
	"with_you":        "We are with you",
	"god_bless":       "God bless you",
	"get_well":        "Get well soon",
}

var (
	urlRe      = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s\-]{7,}`)
	ibanLikeRe = regexp.MustCompile(`(?i)\b[A-Z]{2}\d{2}[A-Z0-9]{10,30}\b`)
	autoFlagRe = regexp.MustCompile(`(?i)\b(whatsapp|telegram|send money|bank transfer|wire)\b`)
)

// Result carries the text to store and whether it was auto flagged.
type Result struct {
	Message  string
	AutoFlag bool
}

// ValidateSupportMessage checks a support message submission. Quick
// messages resolve through QuickKeys; custom text is length checked,
// screened for contact details and payment solicitation, and soft
// keyword matches set AutoFlag instead of rejecting.
func ValidateSupportMessage(msgType, quickKey, message string) (Result, error) {
	switch msgType {
	case "quick":
		if quickKey == "" || strings.TrimSpace(message) != "" {
			return Result{}, ErrQuickKey
		}
		text, ok := QuickKeys[quickKey]
		if !ok {
			return Result{}, ErrQuickKey
		}
		return Result{Message: text}, nil
	case "custom":
		text := strings.TrimSpace(message)
		if quickKey != "" || text == "" {
			return Result{}, ErrCustomText
		}
		if n := len([]rune(text)); n < MinMessageLen || n > MaxMessageLen {
			return Result{}, ErrLength
		}
		if urlRe.MatchString(text) || phoneRe.MatchString(text) || ibanLikeRe.MatchString(text) {
			return Result{}, ErrBlockedText
		}
		return Result{Message: text, AutoFlag: autoFlagRe.MatchString(text)}, nil
	default:
		return Result{}, ErrBadType
	}
}
