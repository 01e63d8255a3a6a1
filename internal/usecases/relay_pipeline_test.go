package usecases

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"project_zapflow/internal/entities"
)

// In-memory fakes for the store and client ports.

type fakeUsers struct {
	users []*entities.User
}

func (f *fakeUsers) GetByBotNumber(digits string) (*entities.User, error) {
	if digits == "" {
		return nil, nil
	}
	for _, u := range f.users {
		if CleanNumber(u.BotNumber) == digits {
			return u, nil
		}
	}
	return nil, nil
}

type fakeContacts struct {
	contacts map[string]*entities.Contact
	created  int
}

func (f *fakeContacts) GetOrCreate(userID, phoneNumber string) (*entities.Contact, error) {
	if f.contacts == nil {
		f.contacts = make(map[string]*entities.Contact)
	}
	key := userID + "|" + phoneNumber
	if c, ok := f.contacts[key]; ok {
		return c, nil
	}
	f.created++
	c := &entities.Contact{
		ID:          fmt.Sprintf("contact-%d", f.created),
		PhoneNumber: phoneNumber,
		UserID:      userID,
	}
	f.contacts[key] = c
	return c, nil
}

type fakeMessages struct {
	rows []entities.Message
}

func (f *fakeMessages) Create(m *entities.Message) error {
	f.rows = append(f.rows, *m)
	return nil
}

type fakeActivities struct {
	rows []entities.ActivityLog
}

func (f *fakeActivities) Create(l *entities.ActivityLog) error {
	f.rows = append(f.rows, *l)
	return nil
}

type fakeSettings struct {
	rows map[string]*entities.BotSettings
}

func (f *fakeSettings) GetOrCreateDefaults(userID string) (*entities.BotSettings, error) {
	if f.rows == nil {
		f.rows = make(map[string]*entities.BotSettings)
	}
	if s, ok := f.rows[userID]; ok {
		return s, nil
	}
	s := entities.DefaultBotSettings(userID)
	s.ID = "settings-" + userID
	f.rows[userID] = s
	return s, nil
}

type fakeUsage struct {
	sent     map[string]int
	received map[string]int
}

func (f *fakeUsage) IncrementSent(userID string) error {
	if f.sent == nil {
		f.sent = make(map[string]int)
	}
	f.sent[userID]++
	return nil
}

func (f *fakeUsage) IncrementReceived(userID string) error {
	if f.received == nil {
		f.received = make(map[string]int)
	}
	f.received[userID]++
	return nil
}

type fakeEngine struct {
	reply string
	err   error
	calls []map[string]interface{}
}

func (f *fakeEngine) Invoke(payload map[string]interface{}) (string, error) {
	f.calls = append(f.calls, payload)
	return f.reply, f.err
}

type gatewayCall struct {
	number, text string
}

type fakeGateway struct {
	calls []gatewayCall
	err   error
}

func (f *fakeGateway) SendText(number, text string) (json.RawMessage, error) {
	f.calls = append(f.calls, gatewayCall{number, text})
	return json.RawMessage(`{"status":"ok"}`), f.err
}

type pipelineFixture struct {
	pipeline   *RelayPipeline
	users      *fakeUsers
	contacts   *fakeContacts
	messages   *fakeMessages
	activities *fakeActivities
	engine     *fakeEngine
	gateway    *fakeGateway
}

func newFixture(botNumber, engineReply string) *pipelineFixture {
	f := &pipelineFixture{
		users:      &fakeUsers{users: []*entities.User{{ID: "tenant-1", Email: "a@b.com", BotNumber: botNumber}}},
		contacts:   &fakeContacts{},
		messages:   &fakeMessages{},
		activities: &fakeActivities{},
		engine:     &fakeEngine{reply: engineReply},
		gateway:    &fakeGateway{},
	}
	f.pipeline = NewRelayPipeline(f.users, f.contacts, f.messages, f.activities, &fakeSettings{}, &fakeUsage{}, f.engine, f.gateway)
	return f
}

func inboundPayload(chatid, owner, text string) map[string]interface{} {
	msg := map[string]interface{}{"chatid": chatid, "text": text}
	if owner != "" {
		msg["owner"] = owner
	}
	return map[string]interface{}{"message": msg}
}

func TestHandleMissingSender(t *testing.T) {
	f := newFixture("5511888", "")

	_, err := f.pipeline.Handle(map[string]interface{}{"unrelated": "x"})
	if !errors.Is(err, ErrMissingSender) {
		t.Fatalf("expected ErrMissingSender, got %v", err)
	}
	if len(f.messages.rows) != 0 || len(f.activities.rows) != 0 {
		t.Fatal("no rows may be written for an unidentifiable payload")
	}
}

func TestHandleUnknownTenant(t *testing.T) {
	f := newFixture("5511888", "")

	_, err := f.pipeline.Handle(inboundPayload("5511999@s.whatsapp.net", "5511777", "oi"))
	if !errors.Is(err, ErrUnknownTenant) {
		t.Fatalf("expected ErrUnknownTenant, got %v", err)
	}
	if len(f.messages.rows) != 0 || len(f.activities.rows) != 0 || f.contacts.created != 0 {
		t.Fatal("no rows may be written when tenant resolution fails")
	}
}

func TestEchoByFromMeFlag(t *testing.T) {
	f := newFixture("5511888", "should not be used")

	payload := inboundPayload("5511999@s.whatsapp.net", "5511888", "olá")
	payload["message"].(map[string]interface{})["fromMe"] = true

	result, err := f.pipeline.Handle(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Echo {
		t.Fatal("expected echo classification")
	}
	if len(f.engine.calls) != 0 {
		t.Fatal("automation engine must not be called for echoes")
	}
	if len(f.messages.rows) != 1 || f.messages.rows[0].Sender != entities.SenderBot {
		t.Fatalf("expected exactly one BOT message, got %+v", f.messages.rows)
	}
	if len(f.activities.rows) != 1 || f.activities.rows[0].ActionType != entities.ActionBotMessage {
		t.Fatalf("expected one BOT_MESSAGE log, got %+v", f.activities.rows)
	}
}

func TestEchoBySenderNumber(t *testing.T) {
	f := newFixture("5511888", "should not be used")

	result, err := f.pipeline.Handle(inboundPayload("5511888@s.whatsapp.net", "5511888", "ping"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Echo {
		t.Fatal("sender matching bot number must classify as echo")
	}
	if len(f.engine.calls) != 0 {
		t.Fatal("automation engine must not be called for echoes")
	}
}

func TestEchoWithoutTextUsesPlaceholder(t *testing.T) {
	f := newFixture("5511888", "")

	payload := inboundPayload("5511888@s.whatsapp.net", "5511888", "")
	if _, err := f.pipeline.Handle(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.messages.rows[0].Content != "[mensagem sem texto]" {
		t.Fatalf("placeholder content expected, got %q", f.messages.rows[0].Content)
	}
}

func TestRelayWithReply(t *testing.T) {
	f := newFixture("5511888", "X")

	result, err := f.pipeline.Handle(inboundPayload("5511999@s.whatsapp.net", "5511888", "oi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Echo || result.Reply != "X" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if len(f.messages.rows) != 2 {
		t.Fatalf("expected two messages, got %d", len(f.messages.rows))
	}
	if f.messages.rows[0].Sender != entities.SenderUser || f.messages.rows[1].Sender != entities.SenderBot {
		t.Fatalf("expected USER then BOT, got %+v", f.messages.rows)
	}
	if len(f.activities.rows) != 2 ||
		f.activities.rows[0].ActionType != entities.ActionReceivedMessage ||
		f.activities.rows[1].ActionType != entities.ActionAutoReply {
		t.Fatalf("expected RECEIVED_MESSAGE then AUTO_REPLY, got %+v", f.activities.rows)
	}
	if len(f.gateway.calls) != 1 || f.gateway.calls[0].text != "X" || f.gateway.calls[0].number != "5511999" {
		t.Fatalf("expected one gateway send with reply, got %+v", f.gateway.calls)
	}
}

func TestRelayNoReply(t *testing.T) {
	f := newFixture("5511888", "")

	result, err := f.pipeline.Handle(inboundPayload("5511999@s.whatsapp.net", "5511888", "oi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reply != "" {
		t.Fatalf("expected empty reply, got %q", result.Reply)
	}
	if len(f.messages.rows) != 1 || f.messages.rows[0].Sender != entities.SenderUser {
		t.Fatalf("expected only the USER message, got %+v", f.messages.rows)
	}
	if len(f.gateway.calls) != 0 {
		t.Fatal("gateway must not be called without a reply")
	}
}

func TestEmptyUserMessageRejected(t *testing.T) {
	f := newFixture("5511888", "X")

	_, err := f.pipeline.Handle(inboundPayload("5511999@s.whatsapp.net", "5511888", "   "))
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if len(f.messages.rows) != 0 || len(f.engine.calls) != 0 {
		t.Fatal("empty messages must not be persisted or forwarded")
	}
}

func TestEngineFailureSurfacesError(t *testing.T) {
	f := newFixture("5511888", "")
	f.engine.err = errors.New("connection refused")

	_, err := f.pipeline.Handle(inboundPayload("5511999@s.whatsapp.net", "5511888", "oi"))
	if err == nil {
		t.Fatal("expected engine failure to propagate")
	}
	// The inbound message was already persisted; partial completion is accepted.
	if len(f.messages.rows) != 1 || f.messages.rows[0].Sender != entities.SenderUser {
		t.Fatalf("expected the USER message to remain, got %+v", f.messages.rows)
	}
}

func TestGatewayFailureStillPersistsReply(t *testing.T) {
	f := newFixture("5511888", "X")
	f.gateway.err = errors.New("gateway down")

	result, err := f.pipeline.Handle(inboundPayload("5511999@s.whatsapp.net", "5511888", "oi"))
	if err != nil {
		t.Fatalf("gateway send is best-effort, got error: %v", err)
	}
	if result.Reply != "X" {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if len(f.messages.rows) != 2 || f.messages.rows[1].Content != "X" {
		t.Fatalf("reply must be persisted despite gateway failure, got %+v", f.messages.rows)
	}
}

func TestContactReuseAcrossCalls(t *testing.T) {
	f := newFixture("5511888", "")

	payload := inboundPayload("5511999@s.whatsapp.net", "5511888", "oi")
	if _, err := f.pipeline.Handle(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.pipeline.Handle(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.contacts.created != 1 {
		t.Fatalf("expected one contact for repeated sender, got %d", f.contacts.created)
	}
	if f.messages.rows[0].ContactID != f.messages.rows[1].ContactID {
		t.Fatal("both messages must reference the same contact")
	}
}

func TestClassifierTruthTable(t *testing.T) {
	cases := []struct {
		fromMe bool
		sender string
		want   bool
	}{
		{false, "5511999", false},
		{true, "5511999", true},
		{false, "5511888", true},
		{true, "5511888", true},
	}
	for _, tc := range cases {
		msg := &NormalizedMessage{FromMe: tc.fromMe, SenderNumber: tc.sender}
		if got := isEcho(msg, "5511888"); got != tc.want {
			t.Fatalf("isEcho(fromMe=%v, sender=%s) = %v, want %v", tc.fromMe, tc.sender, got, tc.want)
		}
	}
}

func TestEndToEndForwardPayload(t *testing.T) {
	f := newFixture("5511888", "tudo bem!")

	result, err := f.pipeline.Handle(inboundPayload("5511999@s.whatsapp.net", "5511888", "oi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Echo {
		t.Fatal("sender differs from owner, must not classify as echo")
	}

	if len(f.engine.calls) != 1 {
		t.Fatalf("expected one engine call, got %d", len(f.engine.calls))
	}
	forward := f.engine.calls[0]
	if forward["messageText"] != "oi" {
		t.Fatalf("messageText = %v, want oi", forward["messageText"])
	}
	if forward["phoneNumber"] != "5511999" {
		t.Fatalf("phoneNumber = %v, want 5511999", forward["phoneNumber"])
	}
	if forward["message"] == nil {
		t.Fatal("original payload fields must be preserved")
	}
	settings, ok := forward["botSettings"].(*entities.BotSettings)
	if !ok || settings.Personality != "divertido" || settings.Language != "pt" {
		t.Fatalf("default bot settings must be attached, got %#v", forward["botSettings"])
	}
}
