package work

import (
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
)

// Handler receives one callback per concrete Work variant. The same
// contract as the Official Account handler applies: nil reply means ack
// only, and embedding [NopHandler] keeps implementations forward
// compatible.
type Handler interface {
	OnText(*TextMessage) (reply.Reply, error)
	OnImage(*ImageMessage) (reply.Reply, error)
	OnVoice(*VoiceMessage) (reply.Reply, error)
	OnVideo(*VideoMessage) (reply.Reply, error)
	OnLocation(*LocationMessage) (reply.Reply, error)
	OnLink(*LinkMessage) (reply.Reply, error)

	OnEnterAgent(*EnterAgentEvent) (reply.Reply, error)
	OnLocationEvent(*LocationEvent) (reply.Reply, error)
	OnMenuClick(*MenuClickEvent) (reply.Reply, error)
	OnMenuView(*MenuViewEvent) (reply.Reply, error)
	OnBatchJobResult(*BatchJobResultEvent) (reply.Reply, error)

	OnUserCreate(*UserCreateEvent) (reply.Reply, error)
	OnUserUpdate(*UserUpdateEvent) (reply.Reply, error)
	OnUserDelete(*UserDeleteEvent) (reply.Reply, error)
	OnPartyCreate(*PartyCreateEvent) (reply.Reply, error)
	OnPartyUpdate(*PartyUpdateEvent) (reply.Reply, error)
	OnPartyDelete(*PartyDeleteEvent) (reply.Reply, error)
	OnTagUpdate(*TagUpdateEvent) (reply.Reply, error)

	OnExternalContactAdd(*ExternalContactAddEvent) (reply.Reply, error)
	OnExternalContactHalfAdd(*ExternalContactHalfAddEvent) (reply.Reply, error)
	OnExternalContactEdit(*ExternalContactEditEvent) (reply.Reply, error)
	OnExternalContactDel(*ExternalContactDelEvent) (reply.Reply, error)
	OnExternalContactTransferFail(*ExternalContactTransferFailEvent) (reply.Reply, error)

	OnExternalChatCreate(*ExternalChatCreateEvent) (reply.Reply, error)
	OnExternalChatUpdate(*ExternalChatUpdateEvent) (reply.Reply, error)
	OnExternalChatDismiss(*ExternalChatDismissEvent) (reply.Reply, error)

	OnApprovalStatusChange(*ApprovalStatusChangeEvent) (reply.Reply, error)
	OnTaskCardClick(*TaskCardClickEvent) (reply.Reply, error)
	OnKfMsgOrEvent(*KfMsgOrEvent) (reply.Reply, error)
}

// NopHandler answers every Work callback with no reply.
type NopHandler struct{}

var _ Handler = NopHandler{}

func (NopHandler) OnText(*TextMessage) (reply.Reply, error)         { return nil, nil }
func (NopHandler) OnImage(*ImageMessage) (reply.Reply, error)       { return nil, nil }
func (NopHandler) OnVoice(*VoiceMessage) (reply.Reply, error)       { return nil, nil }
func (NopHandler) OnVideo(*VideoMessage) (reply.Reply, error)       { return nil, nil }
func (NopHandler) OnLocation(*LocationMessage) (reply.Reply, error) { return nil, nil }
func (NopHandler) OnLink(*LinkMessage) (reply.Reply, error)         { return nil, nil }

func (NopHandler) OnEnterAgent(*EnterAgentEvent) (reply.Reply, error)         { return nil, nil }
func (NopHandler) OnLocationEvent(*LocationEvent) (reply.Reply, error)        { return nil, nil }
func (NopHandler) OnMenuClick(*MenuClickEvent) (reply.Reply, error)           { return nil, nil }
func (NopHandler) OnMenuView(*MenuViewEvent) (reply.Reply, error)             { return nil, nil }
func (NopHandler) OnBatchJobResult(*BatchJobResultEvent) (reply.Reply, error) { return nil, nil }

func (NopHandler) OnUserCreate(*UserCreateEvent) (reply.Reply, error)   { return nil, nil }
func (NopHandler) OnUserUpdate(*UserUpdateEvent) (reply.Reply, error)   { return nil, nil }
func (NopHandler) OnUserDelete(*UserDeleteEvent) (reply.Reply, error)   { return nil, nil }
func (NopHandler) OnPartyCreate(*PartyCreateEvent) (reply.Reply, error) { return nil, nil }
func (NopHandler) OnPartyUpdate(*PartyUpdateEvent) (reply.Reply, error) { return nil, nil }
func (NopHandler) OnPartyDelete(*PartyDeleteEvent) (reply.Reply, error) { return nil, nil }
func (NopHandler) OnTagUpdate(*TagUpdateEvent) (reply.Reply, error)     { return nil, nil }

func (NopHandler) OnExternalContactAdd(*ExternalContactAddEvent) (reply.Reply, error) {
	return nil, nil
}
func (NopHandler) OnExternalContactHalfAdd(*ExternalContactHalfAddEvent) (reply.Reply, error) {
	return nil, nil
}
func (NopHandler) OnExternalContactEdit(*ExternalContactEditEvent) (reply.Reply, error) {
	return nil, nil
}
func (NopHandler) OnExternalContactDel(*ExternalContactDelEvent) (reply.Reply, error) {
	return nil, nil
}
func (NopHandler) OnExternalContactTransferFail(*ExternalContactTransferFailEvent) (reply.Reply, error) {
	return nil, nil
}

func (NopHandler) OnExternalChatCreate(*ExternalChatCreateEvent) (reply.Reply, error) {
	return nil, nil
}
func (NopHandler) OnExternalChatUpdate(*ExternalChatUpdateEvent) (reply.Reply, error) {
	return nil, nil
}
func (NopHandler) OnExternalChatDismiss(*ExternalChatDismissEvent) (reply.Reply, error) {
	return nil, nil
}

func (NopHandler) OnApprovalStatusChange(*ApprovalStatusChangeEvent) (reply.Reply, error) {
	return nil, nil
}
func (NopHandler) OnTaskCardClick(*TaskCardClickEvent) (reply.Reply, error) { return nil, nil }
func (NopHandler) OnKfMsgOrEvent(*KfMsgOrEvent) (reply.Reply, error)        { return nil, nil }

// SuiteHandler receives one callback per suite lifecycle notification.
// Suite documents never get a content reply; return values other than the
// error are ignored and the gateway acks with the literal the vendor
// expects.
type SuiteHandler interface {
	OnSuiteTicket(*SuiteTicketNotice) error
	OnCreateAuth(*CreateAuthNotice) error
	OnChangeAuth(*ChangeAuthNotice) error
	OnCancelAuth(*CancelAuthNotice) error

	OnSuiteUserCreate(*SuiteUserCreateNotice) error
	OnSuiteUserUpdate(*SuiteUserUpdateNotice) error
	OnSuiteUserDelete(*SuiteUserDeleteNotice) error
	OnSuitePartyCreate(*SuitePartyCreateNotice) error
	OnSuitePartyUpdate(*SuitePartyUpdateNotice) error
	OnSuitePartyDelete(*SuitePartyDeleteNotice) error
	OnSuiteTagUpdate(*SuiteTagUpdateNotice) error

	OnShareAgentChange(*ShareAgentChangeNotice) error
}

// NopSuiteHandler ignores every suite notification.
type NopSuiteHandler struct{}

var _ SuiteHandler = NopSuiteHandler{}

func (NopSuiteHandler) OnSuiteTicket(*SuiteTicketNotice) error { return nil }
func (NopSuiteHandler) OnCreateAuth(*CreateAuthNotice) error   { return nil }
func (NopSuiteHandler) OnChangeAuth(*ChangeAuthNotice) error   { return nil }
func (NopSuiteHandler) OnCancelAuth(*CancelAuthNotice) error   { return nil }

func (NopSuiteHandler) OnSuiteUserCreate(*SuiteUserCreateNotice) error   { return nil }
func (NopSuiteHandler) OnSuiteUserUpdate(*SuiteUserUpdateNotice) error   { return nil }
func (NopSuiteHandler) OnSuiteUserDelete(*SuiteUserDeleteNotice) error   { return nil }
func (NopSuiteHandler) OnSuitePartyCreate(*SuitePartyCreateNotice) error { return nil }
func (NopSuiteHandler) OnSuitePartyUpdate(*SuitePartyUpdateNotice) error { return nil }
func (NopSuiteHandler) OnSuitePartyDelete(*SuitePartyDeleteNotice) error { return nil }
func (NopSuiteHandler) OnSuiteTagUpdate(*SuiteTagUpdateNotice) error     { return nil }

func (NopSuiteHandler) OnShareAgentChange(*ShareAgentChangeNotice) error { return nil }
