package work

import (
	"strings"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
)

// Event holds the fields every Work event shares.
type Event struct {
	ToUserName   string
	FromUserName string
	CreateTime   int64
	AgentID      int64
	Event        string
}

func baseEvent(f envelope.Fields) Event {
	return Event{
		ToUserName:   f.Text("ToUserName"),
		FromUserName: f.Text("FromUserName"),
		CreateTime:   f.Int("CreateTime"),
		AgentID:      f.Int("AgentID"),
		Event:        f.Text("Event"),
	}
}

// EnterAgentEvent fires when a member enters the application.
type EnterAgentEvent struct {
	Event
	EventKey string
}

func newEnterAgentEvent(f envelope.Fields) *EnterAgentEvent {
	return &EnterAgentEvent{Event: baseEvent(f), EventKey: f.Text("EventKey")}
}

// LocationEvent is the periodic geolocation report.
type LocationEvent struct {
	Event
	Latitude  float64
	Longitude float64
	Precision float64
	AppType   string
}

func newLocationEvent(f envelope.Fields) *LocationEvent {
	return &LocationEvent{
		Event:     baseEvent(f),
		Latitude:  f.Float("Latitude"),
		Longitude: f.Float("Longitude"),
		Precision: f.Float("Precision"),
		AppType:   f.Text("AppType"),
	}
}

// MenuClickEvent fires on a click-type custom menu item.
type MenuClickEvent struct {
	Event
	EventKey string
}

func newMenuClickEvent(f envelope.Fields) *MenuClickEvent {
	return &MenuClickEvent{Event: baseEvent(f), EventKey: f.Text("EventKey")}
}

// MenuViewEvent fires on a view-type custom menu item; EventKey is the URL.
type MenuViewEvent struct {
	Event
	EventKey string
}

func newMenuViewEvent(f envelope.Fields) *MenuViewEvent {
	return &MenuViewEvent{Event: baseEvent(f), EventKey: f.Text("EventKey")}
}

// BatchJobResultEvent reports completion of an asynchronous batch job.
type BatchJobResultEvent struct {
	Event
	JobID   string
	JobType string
	ErrCode int64
	ErrMsg  string
}

func newBatchJobResultEvent(f envelope.Fields) *BatchJobResultEvent {
	job, _ := f.Child("BatchJob")
	return &BatchJobResultEvent{
		Event:   baseEvent(f),
		JobID:   job.Text("JobId"),
		JobType: job.Text("JobType"),
		ErrCode: job.Int("ErrCode"),
		ErrMsg:  job.Text("ErrMsg"),
	}
}

// contactEvent holds the fields the change_contact family shares.
type contactEvent struct {
	Event
	ChangeType string
}

func baseContactEvent(f envelope.Fields) contactEvent {
	return contactEvent{Event: baseEvent(f), ChangeType: f.Text("ChangeType")}
}

// UserCreateEvent fires when a corp directory member is created.
type UserCreateEvent struct {
	contactEvent
	UserID     string
	Name       string
	Department string
	Mobile     string
	Email      string
}

func newUserCreateEvent(f envelope.Fields) *UserCreateEvent {
	return &UserCreateEvent{
		contactEvent: baseContactEvent(f),
		UserID:       f.Text("UserID"),
		Name:         f.Text("Name"),
		Department:   f.Text("Department"),
		Mobile:       f.Text("Mobile"),
		Email:        f.Text("Email"),
	}
}

// UserUpdateEvent fires when a member is updated. NewUserID is only present
// when the member's account identifier itself changed.
type UserUpdateEvent struct {
	contactEvent
	UserID     string
	NewUserID  string
	Name       string
	Department string
	Mobile     string
	Email      string
}

func newUserUpdateEvent(f envelope.Fields) *UserUpdateEvent {
	return &UserUpdateEvent{
		contactEvent: baseContactEvent(f),
		UserID:       f.Text("UserID"),
		NewUserID:    f.Text("NewUserID"),
		Name:         f.Text("Name"),
		Department:   f.Text("Department"),
		Mobile:       f.Text("Mobile"),
		Email:        f.Text("Email"),
	}
}

// UserDeleteEvent fires when a member is removed from the directory.
type UserDeleteEvent struct {
	contactEvent
	UserID string
}

func newUserDeleteEvent(f envelope.Fields) *UserDeleteEvent {
	return &UserDeleteEvent{contactEvent: baseContactEvent(f), UserID: f.Text("UserID")}
}

// PartyCreateEvent fires when a department is created.
type PartyCreateEvent struct {
	contactEvent
	ID       int64
	Name     string
	ParentID int64
}

func newPartyCreateEvent(f envelope.Fields) *PartyCreateEvent {
	return &PartyCreateEvent{
		contactEvent: baseContactEvent(f),
		ID:           f.Int("Id"),
		Name:         f.Text("Name"),
		ParentID:     f.Int("ParentId"),
	}
}

// PartyUpdateEvent fires when a department is updated.
type PartyUpdateEvent struct {
	contactEvent
	ID       int64
	Name     string
	ParentID int64
}

func newPartyUpdateEvent(f envelope.Fields) *PartyUpdateEvent {
	return &PartyUpdateEvent{
		contactEvent: baseContactEvent(f),
		ID:           f.Int("Id"),
		Name:         f.Text("Name"),
		ParentID:     f.Int("ParentId"),
	}
}

// PartyDeleteEvent fires when a department is removed.
type PartyDeleteEvent struct {
	contactEvent
	ID int64
}

func newPartyDeleteEvent(f envelope.Fields) *PartyDeleteEvent {
	return &PartyDeleteEvent{contactEvent: baseContactEvent(f), ID: f.Int("Id")}
}

// TagUpdateEvent reports membership changes of a contact tag. The Add/Del
// fields are comma-joined identifier lists as the vendor delivers them.
type TagUpdateEvent struct {
	contactEvent
	TagID         int64
	AddUserItems  []string
	DelUserItems  []string
	AddPartyItems []string
	DelPartyItems []string
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func newTagUpdateEvent(f envelope.Fields) *TagUpdateEvent {
	return &TagUpdateEvent{
		contactEvent:  baseContactEvent(f),
		TagID:         f.Int("TagId"),
		AddUserItems:  splitList(f.Text("AddUserItems")),
		DelUserItems:  splitList(f.Text("DelUserItems")),
		AddPartyItems: splitList(f.Text("AddPartyItems")),
		DelPartyItems: splitList(f.Text("DelPartyItems")),
	}
}

// externalContactEvent holds the fields the change_external_contact family
// shares.
type externalContactEvent struct {
	Event
	ChangeType     string
	UserID         string
	ExternalUserID string
}

func baseExternalContactEvent(f envelope.Fields) externalContactEvent {
	return externalContactEvent{
		Event:          baseEvent(f),
		ChangeType:     f.Text("ChangeType"),
		UserID:         f.Text("UserID"),
		ExternalUserID: f.Text("ExternalUserID"),
	}
}

// ExternalContactAddEvent fires when an external contact adds a member.
type ExternalContactAddEvent struct {
	externalContactEvent
	State       string
	WelcomeCode string
}

func newExternalContactAddEvent(f envelope.Fields) *ExternalContactAddEvent {
	return &ExternalContactAddEvent{
		externalContactEvent: baseExternalContactEvent(f),
		State:                f.Text("State"),
		WelcomeCode:          f.Text("WelcomeCode"),
	}
}

// ExternalContactHalfAddEvent fires when an external contact adds a member
// without granting session-content permission.
type ExternalContactHalfAddEvent struct {
	externalContactEvent
	State string
}

func newExternalContactHalfAddEvent(f envelope.Fields) *ExternalContactHalfAddEvent {
	return &ExternalContactHalfAddEvent{
		externalContactEvent: baseExternalContactEvent(f),
		State:                f.Text("State"),
	}
}

// ExternalContactEditEvent fires when an external contact's profile changes.
type ExternalContactEditEvent struct {
	externalContactEvent
}

func newExternalContactEditEvent(f envelope.Fields) *ExternalContactEditEvent {
	return &ExternalContactEditEvent{externalContactEvent: baseExternalContactEvent(f)}
}

// ExternalContactDelEvent fires when an external contact removes a member.
type ExternalContactDelEvent struct {
	externalContactEvent
	Source string
}

func newExternalContactDelEvent(f envelope.Fields) *ExternalContactDelEvent {
	return &ExternalContactDelEvent{
		externalContactEvent: baseExternalContactEvent(f),
		Source:               f.Text("Source"),
	}
}

// ExternalContactTransferFailEvent fires when a customer refuses the handover
// after the original member left the corp.
type ExternalContactTransferFailEvent struct {
	externalContactEvent
	FailReason string
}

func newExternalContactTransferFailEvent(f envelope.Fields) *ExternalContactTransferFailEvent {
	return &ExternalContactTransferFailEvent{
		externalContactEvent: baseExternalContactEvent(f),
		FailReason:           f.Text("FailReason"),
	}
}

// externalChatEvent holds the fields the change_external_chat family shares.
type externalChatEvent struct {
	Event
	ChangeType string
	ChatID     string
}

func baseExternalChatEvent(f envelope.Fields) externalChatEvent {
	return externalChatEvent{
		Event:      baseEvent(f),
		ChangeType: f.Text("ChangeType"),
		ChatID:     f.Text("ChatId"),
	}
}

// ExternalChatCreateEvent fires when a customer group chat is created.
type ExternalChatCreateEvent struct {
	externalChatEvent
}

func newExternalChatCreateEvent(f envelope.Fields) *ExternalChatCreateEvent {
	return &ExternalChatCreateEvent{externalChatEvent: baseExternalChatEvent(f)}
}

// ExternalChatUpdateEvent fires on membership or ownership changes of a
// customer group chat.
type ExternalChatUpdateEvent struct {
	externalChatEvent
	UpdateDetail string
}

func newExternalChatUpdateEvent(f envelope.Fields) *ExternalChatUpdateEvent {
	return &ExternalChatUpdateEvent{
		externalChatEvent: baseExternalChatEvent(f),
		UpdateDetail:      f.Text("UpdateDetail"),
	}
}

// ExternalChatDismissEvent fires when a customer group chat is dismissed.
type ExternalChatDismissEvent struct {
	externalChatEvent
}

func newExternalChatDismissEvent(f envelope.Fields) *ExternalChatDismissEvent {
	return &ExternalChatDismissEvent{externalChatEvent: baseExternalChatEvent(f)}
}

// ApprovalStatusChangeEvent reports a status transition of an approval
// instance.
type ApprovalStatusChangeEvent struct {
	Event
	SpNo       string
	SpName     string
	SpStatus   int64
	TemplateID string
	ApplyTime  int64
}

func newApprovalStatusChangeEvent(f envelope.Fields) *ApprovalStatusChangeEvent {
	info, _ := f.Child("ApprovalInfo")
	return &ApprovalStatusChangeEvent{
		Event:      baseEvent(f),
		SpNo:       info.Text("SpNo"),
		SpName:     info.Text("SpName"),
		SpStatus:   info.Int("SpStatus"),
		TemplateID: info.Text("TemplateId"),
		ApplyTime:  info.Int("ApplyTime"),
	}
}

// TaskCardClickEvent fires when a member clicks a task-card button.
type TaskCardClickEvent struct {
	Event
	EventKey string
	TaskID   string
}

func newTaskCardClickEvent(f envelope.Fields) *TaskCardClickEvent {
	return &TaskCardClickEvent{Event: baseEvent(f), EventKey: f.Text("EventKey"), TaskID: f.Text("TaskId")}
}

// KfMsgOrEvent signals that customer-service messages are waiting; the
// Token authorizes the pull call that fetches them.
type KfMsgOrEvent struct {
	Event
	Token    string
	OpenKfID string
}

func newKfMsgOrEvent(f envelope.Fields) *KfMsgOrEvent {
	return &KfMsgOrEvent{Event: baseEvent(f), Token: f.Text("Token"), OpenKfID: f.Text("OpenKfId")}
}
