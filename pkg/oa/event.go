package oa

import (
	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
)

// Event holds the fields every Official Account event shares.
type Event struct {
	ToUserName   string
	FromUserName string
	CreateTime   int64
	Event        string
}

func baseEvent(f envelope.Fields) Event {
	return Event{
		ToUserName:   f.Text("ToUserName"),
		FromUserName: f.Text("FromUserName"),
		CreateTime:   f.Int("CreateTime"),
		Event:        f.Text("Event"),
	}
}

// SubscribeEvent fires when a user follows the account directly.
type SubscribeEvent struct {
	Event
}

// ScanSubscribeEvent fires when an unfollowed user follows by scanning a
// scene QR code. Scene is the EventKey with its qrscene_ marker stripped.
type ScanSubscribeEvent struct {
	Event
	Scene  string
	Ticket string
}

// UnsubscribeEvent fires when a user unfollows the account.
type UnsubscribeEvent struct {
	Event
}

func newUnsubscribeEvent(f envelope.Fields) *UnsubscribeEvent {
	return &UnsubscribeEvent{Event: baseEvent(f)}
}

// ScanEvent fires when an already-following user scans a scene QR code.
type ScanEvent struct {
	Event
	Scene  string
	Ticket string
}

func newScanEvent(f envelope.Fields) *ScanEvent {
	return &ScanEvent{Event: baseEvent(f), Scene: f.Text("EventKey"), Ticket: f.Text("Ticket")}
}

// LocationEvent is the periodic geolocation report.
type LocationEvent struct {
	Event
	Latitude  float64
	Longitude float64
	Precision float64
}

func newLocationEvent(f envelope.Fields) *LocationEvent {
	return &LocationEvent{
		Event:     baseEvent(f),
		Latitude:  f.Float("Latitude"),
		Longitude: f.Float("Longitude"),
		Precision: f.Float("Precision"),
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
	MenuID   string
}

func newMenuViewEvent(f envelope.Fields) *MenuViewEvent {
	return &MenuViewEvent{Event: baseEvent(f), EventKey: f.Text("EventKey"), MenuID: f.Text("MenuId")}
}

// ScanCodeInfo carries the scanner result of the scancode menu events.
type ScanCodeInfo struct {
	ScanType   string
	ScanResult string
}

func newScanCodeInfo(f envelope.Fields) ScanCodeInfo {
	info, _ := f.Child("ScanCodeInfo")
	return ScanCodeInfo{ScanType: info.Text("ScanType"), ScanResult: info.Text("ScanResult")}
}

// ScanCodePushEvent fires on a scancode_push menu item.
type ScanCodePushEvent struct {
	Event
	EventKey     string
	ScanCodeInfo ScanCodeInfo
}

func newScanCodePushEvent(f envelope.Fields) *ScanCodePushEvent {
	return &ScanCodePushEvent{Event: baseEvent(f), EventKey: f.Text("EventKey"), ScanCodeInfo: newScanCodeInfo(f)}
}

// ScanCodeWaitEvent fires on a scancode_waitmsg menu item; the platform
// shows a waiting screen until the reply arrives.
type ScanCodeWaitEvent struct {
	Event
	EventKey     string
	ScanCodeInfo ScanCodeInfo
}

func newScanCodeWaitEvent(f envelope.Fields) *ScanCodeWaitEvent {
	return &ScanCodeWaitEvent{Event: baseEvent(f), EventKey: f.Text("EventKey"), ScanCodeInfo: newScanCodeInfo(f)}
}

// PhotoEvent fires on a pic_sysphoto menu item.
type PhotoEvent struct {
	Event
	EventKey string
	Count    int64
}

func newPhotoEvent(f envelope.Fields) *PhotoEvent {
	info, _ := f.Child("SendPicsInfo")
	return &PhotoEvent{Event: baseEvent(f), EventKey: f.Text("EventKey"), Count: info.Int("Count")}
}

// PhotoOrAlbumEvent fires on a pic_photo_or_album menu item.
type PhotoOrAlbumEvent struct {
	Event
	EventKey string
	Count    int64
}

func newPhotoOrAlbumEvent(f envelope.Fields) *PhotoOrAlbumEvent {
	info, _ := f.Child("SendPicsInfo")
	return &PhotoOrAlbumEvent{Event: baseEvent(f), EventKey: f.Text("EventKey"), Count: info.Int("Count")}
}

// WxAlbumEvent fires on a pic_weixin menu item.
type WxAlbumEvent struct {
	Event
	EventKey string
	Count    int64
}

func newWxAlbumEvent(f envelope.Fields) *WxAlbumEvent {
	info, _ := f.Child("SendPicsInfo")
	return &WxAlbumEvent{Event: baseEvent(f), EventKey: f.Text("EventKey"), Count: info.Int("Count")}
}

// LocationSelectEvent fires on a location_select menu item.
type LocationSelectEvent struct {
	Event
	EventKey  string
	LocationX float64
	LocationY float64
	Scale     int64
	Label     string
	PoiName   string
}

func newLocationSelectEvent(f envelope.Fields) *LocationSelectEvent {
	info, _ := f.Child("SendLocationInfo")
	return &LocationSelectEvent{
		Event:     baseEvent(f),
		EventKey:  f.Text("EventKey"),
		LocationX: info.Float("Location_X"),
		LocationY: info.Float("Location_Y"),
		Scale:     info.Int("Scale"),
		Label:     info.Text("Label"),
		PoiName:   info.Text("Poiname"),
	}
}

// MiniProgramEvent fires on a view_miniprogram menu item.
type MiniProgramEvent struct {
	Event
	EventKey string
	MenuID   string
}

func newMiniProgramEvent(f envelope.Fields) *MiniProgramEvent {
	return &MiniProgramEvent{Event: baseEvent(f), EventKey: f.Text("EventKey"), MenuID: f.Text("MenuId")}
}

// MassSendFinishEvent reports completion of a mass-send job.
type MassSendFinishEvent struct {
	Event
	MsgID       int64
	Status      string
	TotalCount  int64
	FilterCount int64
	SentCount   int64
	ErrorCount  int64
}

func newMassSendFinishEvent(f envelope.Fields) *MassSendFinishEvent {
	return &MassSendFinishEvent{
		Event:       baseEvent(f),
		MsgID:       f.Int("MsgID"),
		Status:      f.Text("Status"),
		TotalCount:  f.Int("TotalCount"),
		FilterCount: f.Int("FilterCount"),
		SentCount:   f.Int("SentCount"),
		ErrorCount:  f.Int("ErrorCount"),
	}
}

// TemplateSendFinishEvent reports delivery of a template message.
type TemplateSendFinishEvent struct {
	Event
	MsgID  int64
	Status string
}

func newTemplateSendFinishEvent(f envelope.Fields) *TemplateSendFinishEvent {
	return &TemplateSendFinishEvent{Event: baseEvent(f), MsgID: f.Int("MsgID"), Status: f.Text("Status")}
}
