package work

import (
	"github.com/rwsbillyang/go-weixin-gateway/pkg/dispatch"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
)

// Table builds the Work discriminator table. Messages resolve on MsgType
// alone; events resolve on MsgType=event then Event; the change_contact,
// change_external_contact and change_external_chat families read one more
// level from ChangeType.
func Table() *dispatch.Table {
	t := dispatch.NewTable("MsgType").
		WithEventLevel("event", "Event").
		Sub("change_contact", "ChangeType").
		Sub("change_external_contact", "ChangeType").
		Sub("change_external_chat", "ChangeType")

	t.Add(dispatch.NewEntry(newTextMessage, Handler.OnText), "text")
	t.Add(dispatch.NewEntry(newImageMessage, Handler.OnImage), "image")
	t.Add(dispatch.NewEntry(newVoiceMessage, Handler.OnVoice), "voice")
	t.Add(dispatch.NewEntry(newVideoMessage, Handler.OnVideo), "video")
	t.Add(dispatch.NewEntry(newLocationMessage, Handler.OnLocation), "location")
	t.Add(dispatch.NewEntry(newLinkMessage, Handler.OnLink), "link")

	t.Add(dispatch.NewEntry(newEnterAgentEvent, Handler.OnEnterAgent), "event", "enter_agent")
	t.Add(dispatch.NewEntry(newLocationEvent, Handler.OnLocationEvent), "event", "location")
	t.Add(dispatch.NewEntry(newMenuClickEvent, Handler.OnMenuClick), "event", "click")
	t.Add(dispatch.NewEntry(newMenuViewEvent, Handler.OnMenuView), "event", "view")
	t.Add(dispatch.NewEntry(newBatchJobResultEvent, Handler.OnBatchJobResult), "event", "batch_job_result")

	t.Add(dispatch.NewEntry(newUserCreateEvent, Handler.OnUserCreate), "event", "change_contact", "create_user")
	t.Add(dispatch.NewEntry(newUserUpdateEvent, Handler.OnUserUpdate), "event", "change_contact", "update_user")
	t.Add(dispatch.NewEntry(newUserDeleteEvent, Handler.OnUserDelete), "event", "change_contact", "delete_user")
	t.Add(dispatch.NewEntry(newPartyCreateEvent, Handler.OnPartyCreate), "event", "change_contact", "create_party")
	t.Add(dispatch.NewEntry(newPartyUpdateEvent, Handler.OnPartyUpdate), "event", "change_contact", "update_party")
	t.Add(dispatch.NewEntry(newPartyDeleteEvent, Handler.OnPartyDelete), "event", "change_contact", "delete_party")
	t.Add(dispatch.NewEntry(newTagUpdateEvent, Handler.OnTagUpdate), "event", "change_contact", "update_tag")

	t.Add(dispatch.NewEntry(newExternalContactAddEvent, Handler.OnExternalContactAdd), "event", "change_external_contact", "add_external_contact")
	t.Add(dispatch.NewEntry(newExternalContactHalfAddEvent, Handler.OnExternalContactHalfAdd), "event", "change_external_contact", "add_half_external_contact")
	t.Add(dispatch.NewEntry(newExternalContactEditEvent, Handler.OnExternalContactEdit), "event", "change_external_contact", "edit_external_contact")
	t.Add(dispatch.NewEntry(newExternalContactDelEvent, Handler.OnExternalContactDel), "event", "change_external_contact", "del_external_contact")
	t.Add(dispatch.NewEntry(newExternalContactTransferFailEvent, Handler.OnExternalContactTransferFail), "event", "change_external_contact", "transfer_fail")

	t.Add(dispatch.NewEntry(newExternalChatCreateEvent, Handler.OnExternalChatCreate), "event", "change_external_chat", "create")
	t.Add(dispatch.NewEntry(newExternalChatUpdateEvent, Handler.OnExternalChatUpdate), "event", "change_external_chat", "update")
	t.Add(dispatch.NewEntry(newExternalChatDismissEvent, Handler.OnExternalChatDismiss), "event", "change_external_chat", "dismiss")

	t.Add(dispatch.NewEntry(newApprovalStatusChangeEvent, Handler.OnApprovalStatusChange), "event", "sys_approval_change")
	t.Add(dispatch.NewEntry(newTaskCardClickEvent, Handler.OnTaskCardClick), "event", "taskcard_click")
	t.Add(dispatch.NewEntry(newKfMsgOrEvent, Handler.OnKfMsgOrEvent), "event", "kf_msg_or_event")

	return t
}

// SuiteTable builds the third-party suite discriminator table. Suite
// documents key on InfoType directly; the change_contact family reads one
// more level from ChangeType.
func SuiteTable() *dispatch.Table {
	t := dispatch.NewTable("InfoType").
		Sub("change_contact", "ChangeType")

	t.Add(suiteEntry(newSuiteTicketNotice, SuiteHandler.OnSuiteTicket), "suite_ticket")
	t.Add(suiteEntry(newCreateAuthNotice, SuiteHandler.OnCreateAuth), "create_auth")
	t.Add(suiteEntry(newChangeAuthNotice, SuiteHandler.OnChangeAuth), "change_auth")
	t.Add(suiteEntry(newCancelAuthNotice, SuiteHandler.OnCancelAuth), "cancel_auth")

	t.Add(suiteEntry(newSuiteUserCreateNotice, SuiteHandler.OnSuiteUserCreate), "change_contact", "create_user")
	t.Add(suiteEntry(newSuiteUserUpdateNotice, SuiteHandler.OnSuiteUserUpdate), "change_contact", "update_user")
	t.Add(suiteEntry(newSuiteUserDeleteNotice, SuiteHandler.OnSuiteUserDelete), "change_contact", "delete_user")
	t.Add(suiteEntry(newSuitePartyCreateNotice, SuiteHandler.OnSuitePartyCreate), "change_contact", "create_party")
	t.Add(suiteEntry(newSuitePartyUpdateNotice, SuiteHandler.OnSuitePartyUpdate), "change_contact", "update_party")
	t.Add(suiteEntry(newSuitePartyDeleteNotice, SuiteHandler.OnSuitePartyDelete), "change_contact", "delete_party")
	t.Add(suiteEntry(newSuiteTagUpdateNotice, SuiteHandler.OnSuiteTagUpdate), "change_contact", "update_tag")

	t.Add(suiteEntry(newShareAgentChangeNotice, SuiteHandler.OnShareAgentChange), "share_agent_change")

	return t
}

// suiteEntry adapts a notification callback, which returns no reply, to the
// entry shape the dispatch engine expects.
func suiteEntry[V any](build func(envelope.Fields) *V, invoke func(SuiteHandler, *V) error) dispatch.Entry {
	return dispatch.Entry{
		Build: func(f envelope.Fields) dispatch.Variant { return build(f) },
		Invoke: func(h any, v dispatch.Variant) (reply.Reply, error) {
			return nil, invoke(h.(SuiteHandler), v.(*V))
		},
	}
}
