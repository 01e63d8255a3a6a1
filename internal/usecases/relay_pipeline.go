package usecases

import (
	"errors"
	"strings"

	"project_zapflow/internal/entities"
	"project_zapflow/internal/interfaces"

	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownTenant means no registered user owns the bot number the
	// payload claims. Treated as an authorization failure, not retried.
	ErrUnknownTenant = errors.New("no tenant matches bot number")
	// ErrEmptyMessage means the inbound user message trimmed to nothing.
	ErrEmptyMessage = errors.New("empty message body")
)

// RelayResult describes how one inbound event was handled.
type RelayResult struct {
	Echo  bool   // event was the tenant's own bot echoing an outbound send
	Reply string // automation engine reply, empty when none was relayed
}

// RelayPipeline drives one inbound webhook event end to end: normalize,
// resolve the tenant, classify echo vs user message, persist, and relay
// user messages through the automation engine back out the gateway. All
// steps run sequentially within the request; there is no cross-step
// transaction, so partial completion is observable and accepted.
type RelayPipeline struct {
	Users      interfaces.UserStore
	Contacts   interfaces.ContactStore
	Messages   interfaces.MessageStore
	Activities interfaces.ActivityStore
	Settings   interfaces.SettingsStore
	Usage      interfaces.UsageStore
	Engine     interfaces.AutomationEngine
	Gateway    interfaces.Gateway
}

func NewRelayPipeline(
	users interfaces.UserStore,
	contacts interfaces.ContactStore,
	messages interfaces.MessageStore,
	activities interfaces.ActivityStore,
	settings interfaces.SettingsStore,
	usage interfaces.UsageStore,
	engine interfaces.AutomationEngine,
	gateway interfaces.Gateway,
) *RelayPipeline {
	return &RelayPipeline{
		Users:      users,
		Contacts:   contacts,
		Messages:   messages,
		Activities: activities,
		Settings:   settings,
		Usage:      usage,
		Engine:     engine,
		Gateway:    gateway,
	}
}

// Handle processes one inbound payload and reports the outcome. Sentinel
// errors (ErrMissingSender, ErrUnknownTenant, ErrEmptyMessage) signal
// client-side problems; anything else is a server-side failure.
func (p *RelayPipeline) Handle(payload map[string]interface{}) (*RelayResult, error) {
	msg, err := Normalize(payload)
	if err != nil {
		return nil, err
	}

	tenant, err := p.Users.GetByBotNumber(CleanNumber(msg.Owner))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrUnknownTenant
	}

	contact, err := p.Contacts.GetOrCreate(tenant.ID, msg.SenderNumber)
	if err != nil {
		return nil, err
	}

	settings, err := p.Settings.GetOrCreateDefaults(tenant.ID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(msg.Text)

	if isEcho(msg, tenant.BotNumber) {
		return p.recordEcho(tenant, contact, text)
	}

	if text == "" {
		return nil, ErrEmptyMessage
	}

	if err := p.Messages.Create(&entities.Message{
		ContactID: contact.ID,
		UserID:    tenant.ID,
		Sender:    entities.SenderUser,
		Content:   text,
	}); err != nil {
		return nil, err
	}
	if err := p.Activities.Create(&entities.ActivityLog{
		ContactID:  contact.ID,
		UserID:     tenant.ID,
		ActionType: entities.ActionReceivedMessage,
		Message:    "Mensagem recebida do usuário",
	}); err != nil {
		return nil, err
	}
	if err := p.Usage.IncrementReceived(tenant.ID); err != nil {
		log.Warn().Err(err).Str("user_id", tenant.ID).Msg("usage counter update failed")
	}

	reply, err := p.Engine.Invoke(forwardPayload(payload, settings, text, msg.SenderNumber))
	if err != nil {
		return nil, err
	}

	if reply != "" {
		// Best effort: a gateway failure must not lose the reply record.
		if _, err := p.Gateway.SendText(msg.SenderNumber, reply); err != nil {
			log.Error().Err(err).Str("phone", msg.SenderNumber).Msg("gateway send failed")
		}
		if err := p.Messages.Create(&entities.Message{
			ContactID: contact.ID,
			UserID:    tenant.ID,
			Sender:    entities.SenderBot,
			Content:   reply,
		}); err != nil {
			return nil, err
		}
		if err := p.Activities.Create(&entities.ActivityLog{
			ContactID:  contact.ID,
			UserID:     tenant.ID,
			ActionType: entities.ActionAutoReply,
			Message:    "Bot respondeu: " + reply,
		}); err != nil {
			return nil, err
		}
		if err := p.Usage.IncrementSent(tenant.ID); err != nil {
			log.Warn().Err(err).Str("user_id", tenant.ID).Msg("usage counter update failed")
		}
	}

	return &RelayResult{Reply: reply}, nil
}

// recordEcho persists an event describing a message the tenant's own bot
// already sent. The automation engine is never invoked for echoes.
func (p *RelayPipeline) recordEcho(tenant *entities.User, contact *entities.Contact, text string) (*RelayResult, error) {
	content := text
	if content == "" {
		content = "[mensagem sem texto]"
	}

	if err := p.Messages.Create(&entities.Message{
		ContactID: contact.ID,
		UserID:    tenant.ID,
		Sender:    entities.SenderBot,
		Content:   content,
	}); err != nil {
		return nil, err
	}
	if err := p.Activities.Create(&entities.ActivityLog{
		ContactID:  contact.ID,
		UserID:     tenant.ID,
		ActionType: entities.ActionBotMessage,
		Message:    "Bot enviou: " + content,
	}); err != nil {
		return nil, err
	}

	return &RelayResult{Echo: true}, nil
}

// isEcho reports whether the event describes the tenant's own outbound
// message. Either signal alone suffices: the explicit fromMe flag, or the
// sender number matching the bot's own number after normalization.
func isEcho(msg *NormalizedMessage, botNumber string) bool {
	if msg.FromMe {
		return true
	}
	bot := CleanNumber(botNumber)
	return bot != "" && msg.SenderNumber == bot
}

// forwardPayload merges the original payload with the tenant's bot
// settings and the normalized message fields before handing it to the
// automation engine.
func forwardPayload(payload map[string]interface{}, settings *entities.BotSettings, text, number string) map[string]interface{} {
	forward := make(map[string]interface{}, len(payload)+3)
	for k, v := range payload {
		forward[k] = v
	}
	forward["botSettings"] = settings
	forward["messageText"] = text
	forward["phoneNumber"] = number
	return forward
}
