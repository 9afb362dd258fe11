// Package reply renders synchronous callback replies.
//
// A reply is one of a small set of variants (text, image, voice, video,
// music, news, transfer-to-customer-service) with a fixed XML tag layout.
// Tenants configured for encrypted transport get the rendered document
// re-wrapped through the symmetric codec into a signed
// {Encrypt, MsgSignature, TimeStamp, Nonce} envelope with a fresh nonce.
package reply

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/signature"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/wxcrypt"
)

// MaxNewsArticles is the platform-wide upper bound on articles in a news
// reply. Some triggering message kinds lower the bound to 1.
const MaxNewsArticles = 8

// ValidationError reports a reply that violates a platform constraint. It is
// raised before any XML is emitted; replies are never silently truncated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "reply: " + e.Reason
}

// Reply is a synchronous reply variant.
type Reply interface {
	msgType() string
	appendBody(root *etree.Element) error
}

// Text replies with plain text content.
type Text struct {
	Content string
}

func (*Text) msgType() string { return "text" }

func (t *Text) appendBody(root *etree.Element) error {
	cdata(root, "Content", t.Content)
	return nil
}

// Image replies with a previously uploaded media item.
type Image struct {
	MediaID string
}

func (*Image) msgType() string { return "image" }

func (i *Image) appendBody(root *etree.Element) error {
	cdata(root.CreateElement("Image"), "MediaId", i.MediaID)
	return nil
}

// Voice replies with a voice media item.
type Voice struct {
	MediaID string
}

func (*Voice) msgType() string { return "voice" }

func (v *Voice) appendBody(root *etree.Element) error {
	cdata(root.CreateElement("Voice"), "MediaId", v.MediaID)
	return nil
}

// Video replies with a video media item.
type Video struct {
	MediaID     string
	Title       string
	Description string
}

func (*Video) msgType() string { return "video" }

func (v *Video) appendBody(root *etree.Element) error {
	el := root.CreateElement("Video")
	cdata(el, "MediaId", v.MediaID)
	cdata(el, "Title", v.Title)
	cdata(el, "Description", v.Description)
	return nil
}

// Music replies with an external music link.
type Music struct {
	Title        string
	Description  string
	MusicURL     string
	HQMusicURL   string
	ThumbMediaID string
}

func (*Music) msgType() string { return "music" }

func (m *Music) appendBody(root *etree.Element) error {
	el := root.CreateElement("Music")
	cdata(el, "Title", m.Title)
	cdata(el, "Description", m.Description)
	cdata(el, "MusicUrl", m.MusicURL)
	cdata(el, "HQMusicUrl", m.HQMusicURL)
	cdata(el, "ThumbMediaId", m.ThumbMediaID)
	return nil
}

// Article is one entry of a news reply.
type Article struct {
	Title       string
	Description string
	PicURL      string
	URL         string
}

// News replies with up to MaxNewsArticles linked articles.
type News struct {
	Articles []Article
}

func (*News) msgType() string { return "news" }

func (n *News) appendBody(root *etree.Element) error {
	if len(n.Articles) > MaxNewsArticles {
		return &ValidationError{Reason: fmt.Sprintf("news reply has %d articles, limit is %d", len(n.Articles), MaxNewsArticles)}
	}
	root.CreateElement("ArticleCount").SetText(strconv.Itoa(len(n.Articles)))
	articles := root.CreateElement("Articles")
	for _, a := range n.Articles {
		item := articles.CreateElement("item")
		cdata(item, "Title", a.Title)
		cdata(item, "Description", a.Description)
		cdata(item, "PicUrl", a.PicURL)
		cdata(item, "Url", a.URL)
	}
	return nil
}

// TransferKF hands the conversation over to customer service, optionally to
// a specific agent account.
type TransferKF struct {
	KfAccount string
}

func (*TransferKF) msgType() string { return "transfer_customer_service" }

func (t *TransferKF) appendBody(root *etree.Element) error {
	if t.KfAccount != "" {
		cdata(root.CreateElement("TransInfo"), "KfAccount", t.KfAccount)
	}
	return nil
}

// CheckNewsLimit enforces a stricter per-trigger article bound than the
// platform-wide one. limit <= 0 means no extra restriction.
func CheckNewsLimit(r Reply, limit int) error {
	n, ok := r.(*News)
	if !ok || limit <= 0 {
		return nil
	}
	if len(n.Articles) > limit {
		return &ValidationError{Reason: fmt.Sprintf("news reply has %d articles, this trigger allows %d", len(n.Articles), limit)}
	}
	return nil
}

// Encode renders the reply to plaintext XML. Addressing is swapped relative
// to the inbound message: toUser is the original sender, fromUser the
// receiving account.
func Encode(r Reply, toUser, fromUser string, createTime int64) ([]byte, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("xml")
	cdata(root, "ToUserName", toUser)
	cdata(root, "FromUserName", fromUser)
	root.CreateElement("CreateTime").SetText(strconv.FormatInt(createTime, 10))
	cdata(root, "MsgType", r.msgType())
	if err := r.appendBody(root); err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// EncodeEncrypted renders the reply, encrypts it with the tenant's codec,
// and wraps the ciphertext in the signed reply envelope. The nonce is
// freshly generated per reply and the signature is recomputed over it.
func EncodeEncrypted(r Reply, toUser, fromUser string, createTime int64, codec *wxcrypt.Codec, token string) ([]byte, error) {
	plain, err := Encode(r, toUser, fromUser, createTime)
	if err != nil {
		return nil, err
	}
	ciphertext, err := codec.Encrypt(plain)
	if err != nil {
		return nil, err
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	nonce := uuid.NewString()
	sig := signature.Sign(token, timestamp, nonce, ciphertext)

	doc := etree.NewDocument()
	root := doc.CreateElement("xml")
	cdata(root, "Encrypt", ciphertext)
	cdata(root, "MsgSignature", sig)
	root.CreateElement("TimeStamp").SetText(timestamp)
	cdata(root, "Nonce", nonce)
	return doc.WriteToBytes()
}

func cdata(parent *etree.Element, tag, text string) {
	parent.CreateElement(tag).CreateCData(text)
}
