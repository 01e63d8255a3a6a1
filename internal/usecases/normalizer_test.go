package usecases

import (
	"errors"
	"testing"
)

func TestCleanNumberSuffixes(t *testing.T) {
	cases := map[string]string{
		"5511999@s.whatsapp.net":    "5511999",
		"5511999:12@s.whatsapp.net": "5511999",
		"5511999:2":                 "5511999",
		"+55 (11) 999":              "5511999",
		"5511999":                   "5511999",
		"abc@x":                     "",
		"":                          "",
	}
	for in, want := range cases {
		if got := CleanNumber(in); got != want {
			t.Fatalf("CleanNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSenderPriority(t *testing.T) {
	payload := map[string]interface{}{
		"from": "5511777@s.whatsapp.net",
		"message": map[string]interface{}{
			"chatid": "5511999@s.whatsapp.net",
			"sender": "5511888@s.whatsapp.net",
		},
	}
	msg, err := Normalize(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.RawSender != "5511999@s.whatsapp.net" {
		t.Fatalf("chatid must win, got %q", msg.RawSender)
	}
	if msg.SenderNumber != "5511999" {
		t.Fatalf("SenderNumber = %q, want 5511999", msg.SenderNumber)
	}
}

func TestNormalizeSenderFallbacks(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    string
	}{
		{"top-level from", map[string]interface{}{"from": "551. 1777"}, "5511777"},
		{"chat wa_chatid", map[string]interface{}{"chat": map[string]interface{}{"wa_chatid": "5511666@g.us"}}, "5511666"},
		{"message key remoteJid", map[string]interface{}{"message": map[string]interface{}{"key": map[string]interface{}{"remoteJid": "5511555@s.whatsapp.net"}}}, "5511555"},
		{"message sender_pn", map[string]interface{}{"message": map[string]interface{}{"sender_pn": "5511444"}}, "5511444"},
	}
	for _, tc := range cases {
		msg, err := Normalize(tc.payload)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if msg.SenderNumber != tc.want {
			t.Fatalf("%s: SenderNumber = %q, want %q", tc.name, msg.SenderNumber, tc.want)
		}
	}
}

func TestNormalizeMissingSender(t *testing.T) {
	_, err := Normalize(map[string]interface{}{
		"message": map[string]interface{}{"text": "no sender here"},
	})
	if !errors.Is(err, ErrMissingSender) {
		t.Fatalf("expected ErrMissingSender, got %v", err)
	}
}

func TestNormalizeTextFallbacks(t *testing.T) {
	cases := []struct {
		name    string
		message map[string]interface{}
		want    string
	}{
		{"plain text", map[string]interface{}{"text": "a"}, "a"},
		{"content", map[string]interface{}{"content": "b"}, "b"},
		{"nested conversation", map[string]interface{}{"message": map[string]interface{}{"conversation": "c"}}, "c"},
		{"extended text", map[string]interface{}{"extendedTextMessage": map[string]interface{}{"text": "d"}}, "d"},
		{"image caption", map[string]interface{}{"imageMessage": map[string]interface{}{"caption": "e"}}, "e"},
		{"none", map[string]interface{}{}, ""},
	}
	for _, tc := range cases {
		tc.message["chatid"] = "5511999@s.whatsapp.net"
		msg, err := Normalize(map[string]interface{}{"message": tc.message})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if msg.Text != tc.want {
			t.Fatalf("%s: Text = %q, want %q", tc.name, msg.Text, tc.want)
		}
	}
}

func TestNormalizeTopLevelBody(t *testing.T) {
	msg, err := Normalize(map[string]interface{}{
		"from": "5511999",
		"body": "corpo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Text != "corpo" {
		t.Fatalf("Text = %q, want corpo", msg.Text)
	}
}

func TestNormalizeOwnerFallbackFromChatID(t *testing.T) {
	msg, err := Normalize(map[string]interface{}{
		"message": map[string]interface{}{"chatid": "5511999@s.whatsapp.net"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Owner != "5511999" {
		t.Fatalf("Owner = %q, want chatid prefix", msg.Owner)
	}
}

func TestNormalizeExplicitOwnerWins(t *testing.T) {
	msg, err := Normalize(map[string]interface{}{
		"message": map[string]interface{}{
			"chatid": "5511999@s.whatsapp.net",
			"owner":  "5511888",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Owner != "5511888" {
		t.Fatalf("Owner = %q, want 5511888", msg.Owner)
	}
}

func TestNormalizeFromMe(t *testing.T) {
	msg, err := Normalize(map[string]interface{}{
		"message": map[string]interface{}{
			"chatid": "5511999@s.whatsapp.net",
			"fromMe": true,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !msg.FromMe {
		t.Fatal("FromMe flag must be carried through")
	}
}
