// Package work implements the Work (enterprise) callback surface: inbound
// message and event variants, the third-party suite lifecycle notifications,
// the handler interfaces, and the discriminator tables feeding the shared
// dispatch engine.
package work

import (
	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
)

// Message holds the fields every inbound Work message shares. AgentID
// identifies the application within the corp that received the message.
type Message struct {
	ToUserName   string
	FromUserName string
	CreateTime   int64
	AgentID      int64
	MsgID        int64
}

func baseMessage(f envelope.Fields) Message {
	return Message{
		ToUserName:   f.Text("ToUserName"),
		FromUserName: f.Text("FromUserName"),
		CreateTime:   f.Int("CreateTime"),
		AgentID:      f.Int("AgentID"),
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

// VoiceMessage is an inbound voice message.
type VoiceMessage struct {
	Message
	MediaID string
	Format  string
}

func newVoiceMessage(f envelope.Fields) *VoiceMessage {
	return &VoiceMessage{Message: baseMessage(f), MediaID: f.Text("MediaId"), Format: f.Text("Format")}
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
	PicURL      string
}

func newLinkMessage(f envelope.Fields) *LinkMessage {
	return &LinkMessage{
		Message:     baseMessage(f),
		Title:       f.Text("Title"),
		Description: f.Text("Description"),
		URL:         f.Text("Url"),
		PicURL:      f.Text("PicUrl"),
	}
}
