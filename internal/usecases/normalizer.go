package usecases

import (
	"errors"
	"strings"
)

// ErrMissingSender means no sender-identifying field was found in the
// inbound payload. The webhook responds 400; the event is not retried.
var ErrMissingSender = errors.New("no sender number in payload")

// NormalizedMessage is the canonical view of one inbound gateway event.
type NormalizedMessage struct {
	RawSender    string // first sender-like field found, untouched
	SenderNumber string // RawSender with JID/device suffixes and non-digits stripped
	Text         string // message text, empty when the event carries none
	Owner        string // bot-number-like field the payload claims ownership under
	FromMe       bool   // payload explicitly marks the message as self-sent
}

// The gateway's webhook body is not versioned; different payload
// generations nest the same information under different keys. Each list is
// tried in priority order until a non-empty value is found, so supporting a
// new payload shape is a data change.
type fieldRule struct {
	path []string
}

var senderRules = []fieldRule{
	{path: []string{"message", "chatid"}},
	{path: []string{"message", "sender"}},
	{path: []string{"chat", "wa_chatid"}},
	{path: []string{"from"}},
	{path: []string{"message", "key", "remoteJid"}},
	{path: []string{"message", "sender_pn"}},
}

var textRules = []fieldRule{
	{path: []string{"message", "text"}},
	{path: []string{"message", "content"}},
	{path: []string{"text"}},
	{path: []string{"body"}},
	{path: []string{"message", "message", "conversation"}},
	{path: []string{"message", "extendedTextMessage", "text"}},
	{path: []string{"message", "imageMessage", "caption"}},
}

var ownerRules = []fieldRule{
	{path: []string{"message", "owner"}},
}

// Normalize extracts the canonical sender, text and ownership fields from
// an arbitrary inbound payload. It fails only when no sender can be
// identified; every other field degrades to its zero value.
func Normalize(payload map[string]interface{}) (*NormalizedMessage, error) {
	raw := firstString(payload, senderRules)
	if raw == "" {
		return nil, ErrMissingSender
	}

	owner := firstString(payload, ownerRules)
	if owner == "" {
		// Older payloads carry no owner field; the chat id's leading
		// segment doubles as the bot number.
		if chatid := stringAt(payload, []string{"message", "chatid"}); chatid != "" {
			owner = strings.SplitN(chatid, "@", 2)[0]
		}
	}

	return &NormalizedMessage{
		RawSender:    raw,
		SenderNumber: CleanNumber(raw),
		Text:         firstString(payload, textRules),
		Owner:        owner,
		FromMe:       boolAt(payload, []string{"message", "fromMe"}),
	}, nil
}

// CleanNumber strips the JID domain suffix ("@s.whatsapp.net"), any device
// suffix (":12") and all remaining non-digit characters.
func CleanNumber(raw string) string {
	if i := strings.IndexAny(raw, "@:"); i >= 0 {
		raw = raw[:i]
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstString(payload map[string]interface{}, rules []fieldRule) string {
	for _, rule := range rules {
		if s := stringAt(payload, rule.path); s != "" {
			return s
		}
	}
	return ""
}

func stringAt(payload map[string]interface{}, path []string) string {
	v, ok := valueAt(payload, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func boolAt(payload map[string]interface{}, path []string) bool {
	v, ok := valueAt(payload, path)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func valueAt(payload map[string]interface{}, path []string) (interface{}, bool) {
	var current interface{} = payload
	for _, key := range path {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
