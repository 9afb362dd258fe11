// Package oa implements the Official Account callback surface: inbound
// message and event variants, the handler interface, and the discriminator
// table feeding the shared dispatch engine.
package oa

import (
	"strings"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
)

// Message holds the fields every inbound Official Account message shares.
type Message struct {
	ToUserName   string
	FromUserName string
	CreateTime   int64
	MsgID        int64
}

func baseMessage(f envelope.Fields) Message {
	return Message{
		ToUserName:   f.Text("ToUserName"),
		FromUserName: f.Text("FromUserName"),
		CreateTime:   f.Int("CreateTime"),
		MsgID:        f.Int("MsgId"),
	}
}

// TextMessage is an inbound text message.
type TextMessage struct {
	Message
	Content string
}

func newTextMessage(f envelope.Fields) *TextMessage {
	return &TextMessage{Message: baseMessage(f), Content: f.Text("Content")}
}

// ImageMessage is an inbound image message.
type ImageMessage struct {
	Message
	MediaID string
	PicURL  string
}

func newImageMessage(f envelope.Fields) *ImageMessage {
	return &ImageMessage{Message: baseMessage(f), MediaID: f.Text("MediaId"), PicURL: f.Text("PicUrl")}
}

// VoiceMessage is an inbound voice message. Recognition is only present
// when the account has voice recognition enabled.
type VoiceMessage struct {
	Message
	MediaID     string
	Format      string
	Recognition string
}

func newVoiceMessage(f envelope.Fields) *VoiceMessage {
	return &VoiceMessage{
		Message:     baseMessage(f),
		MediaID:     f.Text("MediaId"),
		Format:      f.Text("Format"),
		Recognition: f.Text("Recognition"),
	}
}

// VideoMessage is an inbound video message.
type VideoMessage struct {
	Message
	MediaID      string
	ThumbMediaID string
}

func newVideoMessage(f envelope.Fields) *VideoMessage {
	return &VideoMessage{Message: baseMessage(f), MediaID: f.Text("MediaId"), ThumbMediaID: f.Text("ThumbMediaId")}
}

// ShortVideoMessage is an inbound short video message.
type ShortVideoMessage struct {
	Message
	MediaID      string
	ThumbMediaID string
}

func newShortVideoMessage(f envelope.Fields) *ShortVideoMessage {
	return &ShortVideoMessage{Message: baseMessage(f), MediaID: f.Text("MediaId"), ThumbMediaID: f.Text("ThumbMediaId")}
}

// LocationMessage is an inbound geolocation message.
type LocationMessage struct {
	Message
	LocationX float64
	LocationY float64
	Scale     int64
	Label     string
}

func newLocationMessage(f envelope.Fields) *LocationMessage {
	return &LocationMessage{
		Message:   baseMessage(f),
		LocationX: f.Float("Location_X"),
		LocationY: f.Float("Location_Y"),
		Scale:     f.Int("Scale"),
		Label:     f.Text("Label"),
	}
}

// LinkMessage is an inbound shared-link message.
type LinkMessage struct {
	Message
	Title       string
	Description string
	URL         string
}

func newLinkMessage(f envelope.Fields) *LinkMessage {
	return &LinkMessage{
		Message:     baseMessage(f),
		Title:       f.Text("Title"),
		Description: f.Text("Description"),
		URL:         f.Text("Url"),
	}
}

// sceneFromEventKey strips the qrscene_ marker a scan-triggered subscribe
// carries in its EventKey.
func sceneFromEventKey(key string) string {
	return strings.TrimPrefix(key, "qrscene_")
}
