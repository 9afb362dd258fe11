package oa

import (
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
)

// Handler receives one callback per concrete Official Account variant.
// Returning a nil reply means "no synchronous content"; the gateway still
// acknowledges the HTTP request. Handlers run without any pipeline lock
// held; slow work belongs in a goroutine the handler spawns itself, after
// returning the acknowledgement.
//
// Embed [NopHandler] and override only the callbacks you care about. The
// optional dispatch.RawHandler and dispatch.DefaultHandler hooks apply here
// too, for event kinds the vendor ships before this library knows them.
type Handler interface {
	OnText(*TextMessage) (reply.Reply, error)
	OnImage(*ImageMessage) (reply.Reply, error)
	OnVoice(*VoiceMessage) (reply.Reply, error)
	OnVideo(*VideoMessage) (reply.Reply, error)
	OnShortVideo(*ShortVideoMessage) (reply.Reply, error)
	OnLocation(*LocationMessage) (reply.Reply, error)
	OnLink(*LinkMessage) (reply.Reply, error)

	OnSubscribe(*SubscribeEvent) (reply.Reply, error)
	OnScanSubscribe(*ScanSubscribeEvent) (reply.Reply, error)
	OnUnsubscribe(*UnsubscribeEvent) (reply.Reply, error)
	OnScan(*ScanEvent) (reply.Reply, error)
	OnLocationEvent(*LocationEvent) (reply.Reply, error)
	OnMenuClick(*MenuClickEvent) (reply.Reply, error)
	OnMenuView(*MenuViewEvent) (reply.Reply, error)
	OnScanCodePush(*ScanCodePushEvent) (reply.Reply, error)
	OnScanCodeWait(*ScanCodeWaitEvent) (reply.Reply, error)
	OnPhoto(*PhotoEvent) (reply.Reply, error)
	OnPhotoOrAlbum(*PhotoOrAlbumEvent) (reply.Reply, error)
	OnWxAlbum(*WxAlbumEvent) (reply.Reply, error)
	OnLocationSelect(*LocationSelectEvent) (reply.Reply, error)
	OnMiniProgram(*MiniProgramEvent) (reply.Reply, error)
	OnMassSendFinish(*MassSendFinishEvent) (reply.Reply, error)
	OnTemplateSendFinish(*TemplateSendFinishEvent) (reply.Reply, error)
}

// NopHandler answers every callback with no reply. Embed it so adding a
// variant to this library never breaks existing implementations.
type NopHandler struct{}

var _ Handler = NopHandler{}

func (NopHandler) OnText(*TextMessage) (reply.Reply, error)             { return nil, nil }
func (NopHandler) OnImage(*ImageMessage) (reply.Reply, error)           { return nil, nil }
func (NopHandler) OnVoice(*VoiceMessage) (reply.Reply, error)           { return nil, nil }
func (NopHandler) OnVideo(*VideoMessage) (reply.Reply, error)           { return nil, nil }
func (NopHandler) OnShortVideo(*ShortVideoMessage) (reply.Reply, error) { return nil, nil }
func (NopHandler) OnLocation(*LocationMessage) (reply.Reply, error)     { return nil, nil }
func (NopHandler) OnLink(*LinkMessage) (reply.Reply, error)             { return nil, nil }

func (NopHandler) OnSubscribe(*SubscribeEvent) (reply.Reply, error)         { return nil, nil }
func (NopHandler) OnScanSubscribe(*ScanSubscribeEvent) (reply.Reply, error) { return nil, nil }
func (NopHandler) OnUnsubscribe(*UnsubscribeEvent) (reply.Reply, error)     { return nil, nil }
func (NopHandler) OnScan(*ScanEvent) (reply.Reply, error)                   { return nil, nil }
func (NopHandler) OnLocationEvent(*LocationEvent) (reply.Reply, error)      { return nil, nil }
func (NopHandler) OnMenuClick(*MenuClickEvent) (reply.Reply, error)         { return nil, nil }
func (NopHandler) OnMenuView(*MenuViewEvent) (reply.Reply, error)           { return nil, nil }
func (NopHandler) OnScanCodePush(*ScanCodePushEvent) (reply.Reply, error)   { return nil, nil }
func (NopHandler) OnScanCodeWait(*ScanCodeWaitEvent) (reply.Reply, error)   { return nil, nil }
func (NopHandler) OnPhoto(*PhotoEvent) (reply.Reply, error)                 { return nil, nil }
func (NopHandler) OnPhotoOrAlbum(*PhotoOrAlbumEvent) (reply.Reply, error)   { return nil, nil }
func (NopHandler) OnWxAlbum(*WxAlbumEvent) (reply.Reply, error)             { return nil, nil }
func (NopHandler) OnLocationSelect(*LocationSelectEvent) (reply.Reply, error) {
	return nil, nil
}
func (NopHandler) OnMiniProgram(*MiniProgramEvent) (reply.Reply, error)      { return nil, nil }
func (NopHandler) OnMassSendFinish(*MassSendFinishEvent) (reply.Reply, error) { return nil, nil }
func (NopHandler) OnTemplateSendFinish(*TemplateSendFinishEvent) (reply.Reply, error) {
	return nil, nil
}
