package moderation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSupportMessage(t *testing.T) {
	tests := []struct {
		name     string
		msgType  string
		quickKey string
		message  string
		wantErr  error
		wantText string
		wantFlag bool
	}{
		{name: "quick resolves key", msgType: "quick", quickKey: "stay_strong", wantText: "Stay strong"},
		{name: "quick unknown key", msgType: "quick", quickKey: "nope", wantErr: ErrQuickKey},
		{name: "quick with custom text", msgType: "quick", quickKey: "stay_strong", message: "hi there", wantErr: ErrQuickKey},
		{name: "quick missing key", msgType: "quick", wantErr: ErrQuickKey},
		{name: "custom ok", msgType: "custom", message: "Wishing you a fast recovery", wantText: "Wishing you a fast recovery"},
		{name: "custom trimmed", msgType: "custom", message: "  hello friend  ", wantText: "hello friend"},
		{name: "custom with quick key", msgType: "custom", quickKey: "stay_strong", message: "hello friend", wantErr: ErrCustomText},
		{name: "custom empty", msgType: "custom", message: "   ", wantErr: ErrCustomText},
		{name: "too short", msgType: "custom", message: "hi", wantErr: ErrLength},
		{name: "too long", msgType: "custom", message: strings.Repeat("a", 151), wantErr: ErrLength},
		{name: "url blocked", msgType: "custom", message: "visit https://example.com now", wantErr: ErrBlockedText},
		{name: "www blocked", msgType: "custom", message: "go to www.example.com please", wantErr: ErrBlockedText},
		{name: "phone blocked", msgType: "custom", message: "call me +971 50 123 4567", wantErr: ErrBlockedText},
		{name: "iban blocked", msgType: "custom", message: "pay to AE070331234567890123456", wantErr: ErrBlockedText},
		{name: "whatsapp flags", msgType: "custom", message: "message me on WhatsApp please", wantFlag: true, wantText: "message me on WhatsApp please"},
		{name: "bank transfer flags", msgType: "custom", message: "I can help via bank transfer", wantFlag: true, wantText: "I can help via bank transfer"},
		{name: "clean message not flagged", msgType: "custom", message: "stay strong, we pray for you", wantText: "stay strong, we pray for you"},
		{name: "bad type", msgType: "other", message: "hello friend", wantErr: ErrBadType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ValidateSupportMessage(tt.msgType, tt.quickKey, tt.message)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Message != tt.wantText {
				t.Errorf("message = %q, want %q", res.Message, tt.wantText)
			}
			if res.AutoFlag != tt.wantFlag {
				t.Errorf("autoFlag = %v, want %v", res.AutoFlag, tt.wantFlag)
			}
		})
	}
}
