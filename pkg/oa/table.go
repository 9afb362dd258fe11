package oa

import (
	"strings"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/dispatch"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
)

// Table builds the Official Account discriminator table. Messages resolve
// on MsgType alone; events resolve on MsgType=event then Event.
//
// The menu-triggered entries carry a single-article news bound: the
// platform drops multi-article news sent in response to those triggers.
func Table() *dispatch.Table {
	t := dispatch.NewTable("MsgType").WithEventLevel("event", "Event")

	t.Add(dispatch.NewEntry(newTextMessage, Handler.OnText), "text")
	t.Add(dispatch.NewEntry(newImageMessage, Handler.OnImage), "image")
	t.Add(dispatch.NewEntry(newVoiceMessage, Handler.OnVoice), "voice")
	t.Add(dispatch.NewEntry(newVideoMessage, Handler.OnVideo), "video")
	t.Add(dispatch.NewEntry(newShortVideoMessage, Handler.OnShortVideo), "shortvideo")
	t.Add(dispatch.NewEntry(newLocationMessage, Handler.OnLocation), "location")
	t.Add(dispatch.NewEntry(newLinkMessage, Handler.OnLink), "link")

	t.Add(subscribeEntry(), "event", "subscribe")
	t.Add(dispatch.NewEntry(newUnsubscribeEvent, Handler.OnUnsubscribe), "event", "unsubscribe")
	t.Add(dispatch.NewEntry(newScanEvent, Handler.OnScan), "event", "scan")
	t.Add(dispatch.NewEntry(newLocationEvent, Handler.OnLocationEvent), "event", "location")
	t.Add(dispatch.NewEntry(newMenuClickEvent, Handler.OnMenuClick), "event", "click")
	t.Add(dispatch.NewEntry(newMenuViewEvent, Handler.OnMenuView), "event", "view")

	t.Add(singleNews(dispatch.NewEntry(newScanCodePushEvent, Handler.OnScanCodePush)), "event", "scancode_push")
	t.Add(singleNews(dispatch.NewEntry(newScanCodeWaitEvent, Handler.OnScanCodeWait)), "event", "scancode_waitmsg")
	t.Add(singleNews(dispatch.NewEntry(newPhotoEvent, Handler.OnPhoto)), "event", "pic_sysphoto")
	t.Add(singleNews(dispatch.NewEntry(newPhotoOrAlbumEvent, Handler.OnPhotoOrAlbum)), "event", "pic_photo_or_album")
	t.Add(singleNews(dispatch.NewEntry(newWxAlbumEvent, Handler.OnWxAlbum)), "event", "pic_weixin")
	t.Add(singleNews(dispatch.NewEntry(newLocationSelectEvent, Handler.OnLocationSelect)), "event", "location_select")
	t.Add(dispatch.NewEntry(newMiniProgramEvent, Handler.OnMiniProgram), "event", "view_miniprogram")

	t.Add(dispatch.NewEntry(newMassSendFinishEvent, Handler.OnMassSendFinish), "event", "masssendjobfinish")
	t.Add(dispatch.NewEntry(newTemplateSendFinishEvent, Handler.OnTemplateSendFinish), "event", "templatesendjobfinish")

	return t
}

func singleNews(e dispatch.Entry) dispatch.Entry {
	e.NewsLimit = 1
	return e
}

// subscribeEntry splits the vendor's single subscribe event on the EventKey
// qrscene_ marker: present means a scene QR code triggered the follow.
func subscribeEntry() dispatch.Entry {
	return dispatch.Entry{
		Build: func(f envelope.Fields) dispatch.Variant {
			key := f.Text("EventKey")
			if strings.HasPrefix(key, "qrscene_") {
				return &ScanSubscribeEvent{
					Event:  baseEvent(f),
					Scene:  sceneFromEventKey(key),
					Ticket: f.Text("Ticket"),
				}
			}
			return &SubscribeEvent{Event: baseEvent(f)}
		},
		Invoke: func(h any, v dispatch.Variant) (reply.Reply, error) {
			oh := h.(Handler)
			switch e := v.(type) {
			case *ScanSubscribeEvent:
				return oh.OnScanSubscribe(e)
			default:
				return oh.OnSubscribe(v.(*SubscribeEvent))
			}
		},
	}
}
