package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/signature"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/wxcrypt"
)

func TestEncode_Text(t *testing.T) {
	out, err := Encode(&Text{Content: "hello"}, "openid-1", "gh_account", 1408090502)
	require.NoError(t, err)

	f, err := envelope.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "openid-1", f.Text("ToUserName"))
	assert.Equal(t, "gh_account", f.Text("FromUserName"))
	assert.Equal(t, int64(1408090502), f.Int("CreateTime"))
	assert.Equal(t, "text", f.Text("MsgType"))
	assert.Equal(t, "hello", f.Text("Content"))
}

func TestEncode_Video(t *testing.T) {
	out, err := Encode(&Video{MediaID: "m1", Title: "t", Description: "d"}, "to", "from", 1)
	require.NoError(t, err)

	f, err := envelope.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "video", f.Text("MsgType"))
	video, ok := f.Child("Video")
	require.True(t, ok)
	assert.Equal(t, "m1", video.Text("MediaId"))
	assert.Equal(t, "t", video.Text("Title"))
}

func TestEncode_News(t *testing.T) {
	n := &News{Articles: []Article{
		{Title: "a", Description: "d", PicURL: "http://p", URL: "http://u"},
		{Title: "b"},
	}}
	out, err := Encode(n, "to", "from", 1)
	require.NoError(t, err)

	f, err := envelope.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "news", f.Text("MsgType"))
	assert.Equal(t, int64(2), f.Int("ArticleCount"))
	articles, ok := f.Child("Articles")
	require.True(t, ok)
	first, ok := articles.Child("item")
	require.True(t, ok)
	assert.Equal(t, "a", first.Text("Title"))
}

func TestEncode_NewsBound(t *testing.T) {
	mk := func(n int) *News {
		articles := make([]Article, n)
		for i := range articles {
			articles[i] = Article{Title: "t"}
		}
		return &News{Articles: articles}
	}

	// 8 articles is the documented maximum.
	_, err := Encode(mk(8), "to", "from", 1)
	assert.NoError(t, err)

	// 9 is rejected before serialization, not truncated.
	_, err = Encode(mk(9), "to", "from", 1)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCheckNewsLimit(t *testing.T) {
	two := &News{Articles: []Article{{Title: "a"}, {Title: "b"}}}

	assert.NoError(t, CheckNewsLimit(two, 0))
	assert.NoError(t, CheckNewsLimit(two, 2))
	assert.NoError(t, CheckNewsLimit(&Text{Content: "x"}, 1))

	err := CheckNewsLimit(two, 1)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestEncode_TransferKF(t *testing.T) {
	out, err := Encode(&TransferKF{}, "to", "from", 1)
	require.NoError(t, err)
	f, err := envelope.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "transfer_customer_service", f.Text("MsgType"))
	assert.False(t, f.Has("TransInfo"))

	out, err = Encode(&TransferKF{KfAccount: "kf2001@corp"}, "to", "from", 1)
	require.NoError(t, err)
	f, err = envelope.Parse(out)
	require.NoError(t, err)
	info, ok := f.Child("TransInfo")
	require.True(t, ok)
	assert.Equal(t, "kf2001@corp", info.Text("KfAccount"))
}

func TestEncodeEncrypted_RoundTrip(t *testing.T) {
	const aesKey = "abcdefghijklmnopqrstuvwxyz0123456789ABCDEFG"
	const token = "callback-token"
	codec, err := wxcrypt.New(aesKey, "wwCORP")
	require.NoError(t, err)

	out, err := EncodeEncrypted(&Text{Content: "secret"}, "user", "wwCORP", 1408090502, codec, token)
	require.NoError(t, err)

	f, err := envelope.Parse(out)
	require.NoError(t, err)
	ciphertext := f.Text("Encrypt")
	require.NotEmpty(t, ciphertext)

	// The envelope signature must verify over the fresh nonce and timestamp.
	assert.True(t, signature.Verify(token, f.Text("MsgSignature"), f.Text("TimeStamp"), f.Text("Nonce"), ciphertext))

	// And the ciphertext must decrypt back to the plaintext reply.
	plain, err := codec.Decrypt(ciphertext)
	require.NoError(t, err)
	inner, err := envelope.Parse(plain)
	require.NoError(t, err)
	assert.Equal(t, "secret", inner.Text("Content"))
	assert.Equal(t, "user", inner.Text("ToUserName"))
}
