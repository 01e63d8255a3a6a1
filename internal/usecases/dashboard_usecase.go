package usecases

import (
	"encoding/json"
	"errors"

	"project_zapflow/internal/entities"
	"project_zapflow/internal/interfaces"
	"project_zapflow/internal/repository"
)

var ErrContactNotFound = errors.New("Contato não encontrado ou não pertence ao usuário")

// DashboardUsecase backs the authenticated read/write endpoints: listings,
// manual sends, contact deletion and bot settings. Every call is scoped to
// the authenticated tenant's user id.
type DashboardUsecase struct {
	contacts *repository.ContactRepository
	messages *repository.MessageRepository
	logs     *repository.ActivityRepository
	settings *repository.SettingsRepository
	usage    *repository.UsageRepository
	gateway  interfaces.Gateway
}

func NewDashboardUsecase(
	contacts *repository.ContactRepository,
	messages *repository.MessageRepository,
	logs *repository.ActivityRepository,
	settings *repository.SettingsRepository,
	usage *repository.UsageRepository,
	gateway interfaces.Gateway,
) *DashboardUsecase {
	return &DashboardUsecase{
		contacts: contacts,
		messages: messages,
		logs:     logs,
		settings: settings,
		usage:    usage,
		gateway:  gateway,
	}
}

// RecentConversations returns the tenant's last messages with contacts.
func (u *DashboardUsecase) RecentConversations(userID string) ([]repository.MessageWithContact, error) {
	return u.messages.ListRecent(userID, 5)
}

func (u *DashboardUsecase) AllMessages(userID string) ([]repository.MessageWithContact, error) {
	return u.messages.ListRecent(userID, 0)
}

func (u *DashboardUsecase) ContactMessages(userID, contactID string) ([]entities.Message, error) {
	return u.messages.ListByContact(userID, contactID)
}

func (u *DashboardUsecase) RecentLogs(userID string) ([]repository.LogWithContact, error) {
	return u.logs.ListRecent(userID, 5)
}

func (u *DashboardUsecase) Contacts(userID string) ([]repository.ContactSummary, error) {
	return u.contacts.ListWithLastMessage(userID)
}

// DeleteContact removes a contact and cascades to its messages and logs.
func (u *DashboardUsecase) DeleteContact(userID, contactID string) error {
	contact, err := u.contacts.GetByID(userID, contactID)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrContactNotFound
	}

	if err := u.messages.DeleteByContact(userID, contactID); err != nil {
		return err
	}
	if err := u.logs.DeleteByContact(userID, contactID); err != nil {
		return err
	}
	return u.contacts.Delete(userID, contactID)
}

// SendManual delivers a dashboard-initiated text through the gateway and
// records it as a BOT message. The gateway's raw response is returned to
// the caller unchanged.
func (u *DashboardUsecase) SendManual(userID, number, text string) (json.RawMessage, error) {
	contact, err := u.contacts.GetOrCreate(userID, number)
	if err != nil {
		return nil, err
	}

	resp, err := u.gateway.SendText(number, text)
	if err != nil {
		return nil, err
	}

	if err := u.messages.Create(&entities.Message{
		ContactID: contact.ID,
		UserID:    userID,
		Sender:    entities.SenderBot,
		Content:   text,
	}); err != nil {
		return nil, err
	}
	if err := u.logs.Create(&entities.ActivityLog{
		ContactID:  contact.ID,
		UserID:     userID,
		ActionType: entities.ActionSentMessage,
		Message:    "Mensagem enviada manualmente: " + text,
	}); err != nil {
		return nil, err
	}
	u.usage.IncrementSent(userID)

	return resp, nil
}

func (u *DashboardUsecase) GetSettings(userID string) (*entities.BotSettings, error) {
	return u.settings.GetOrCreateDefaults(userID)
}

func (u *DashboardUsecase) SaveSettings(userID string, s *entities.BotSettings) (*entities.BotSettings, error) {
	s.UserID = userID
	return u.settings.Save(s)
}

func (u *DashboardUsecase) Stats(userID string) (*repository.UsageStats, error) {
	return u.usage.GetStats(userID)
}
