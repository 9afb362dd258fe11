package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/oa"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/signature"
	wxwork "github.com/rwsbillyang/go-weixin-gateway/pkg/work"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/wxcrypt"
)

const (
	testToken  = "QDG6eK"
	testAESKey = "abcdefghijklmnopqrstuvwxyz0123456789ABCDEFG"
	testCorpID = "wwCORP"
)

type staticStore map[string]*TenantConfig

func (s staticStore) Tenant(_ context.Context, id string) (*TenantConfig, error) {
	t, ok := s[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return t, nil
}

type echoOAHandler struct {
	oa.NopHandler
	got *oa.TextMessage
}

func (h *echoOAHandler) OnText(m *oa.TextMessage) (reply.Reply, error) {
	h.got = m
	return &reply.Text{Content: "echo:" + m.Content}, nil
}

type recordingWorkHandler struct {
	wxwork.NopHandler
	got *wxwork.TextMessage
}

func (h *recordingWorkHandler) OnText(m *wxwork.TextMessage) (reply.Reply, error) {
	h.got = m
	return &reply.Text{Content: "pong"}, nil
}

type recordingSuiteHandler struct {
	wxwork.NopSuiteHandler
	ticket string
}

func (h *recordingSuiteHandler) OnSuiteTicket(n *wxwork.SuiteTicketNotice) error {
	h.ticket = n.SuiteTicket
	return nil
}

func mount(gw *Gateway) *httptest.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /callback/{tenantID}", gw)
	mux.Handle("POST /callback/{tenantID}", gw)
	return httptest.NewServer(mux)
}

func get(t *testing.T, srv *httptest.Server, path string, q url.Values) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path + "?" + q.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, srv *httptest.Server, path string, q url.Values, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+path+"?"+q.Encode(), "text/xml", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestHandshake_Echo(t *testing.T) {
	store := staticStore{"t1": {ID: "t1", Token: testToken}}
	gw := New(OfficialAccount(), store, &echoOAHandler{})
	srv := mount(gw)
	defer srv.Close()

	q := url.Values{}
	q.Set("timestamp", "1409735669")
	q.Set("nonce", "1372623149")
	q.Set("echostr", "8242236742164136742")
	q.Set("signature", signature.Sign(testToken, "1409735669", "1372623149"))

	status, body := get(t, srv, "/callback/t1", q)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "8242236742164136742", body, "handshake echoes echostr verbatim")
}

func TestHandshake_BadSignatureStaysSilent(t *testing.T) {
	store := staticStore{"t1": {ID: "t1", Token: testToken}}
	gw := New(OfficialAccount(), store, &echoOAHandler{})
	srv := mount(gw)
	defer srv.Close()

	q := url.Values{}
	q.Set("timestamp", "1409735669")
	q.Set("nonce", "1372623149")
	q.Set("echostr", "8242236742164136742")
	q.Set("signature", "0000000000000000000000000000000000000000")

	status, body := get(t, srv, "/callback/t1", q)
	assert.Equal(t, http.StatusOK, status, "mismatch still acknowledges 200")
	assert.Empty(t, body)
}

func TestPipeline_PlainTextReply(t *testing.T) {
	store := staticStore{"t1": {ID: "t1", Token: testToken}}
	h := &echoOAHandler{}
	gw := New(OfficialAccount(), store, h)
	srv := mount(gw)
	defer srv.Close()

	q := url.Values{}
	q.Set("timestamp", "1409735669")
	q.Set("nonce", "1372623149")
	q.Set("signature", signature.Sign(testToken, "1409735669", "1372623149"))

	inbound := `<xml>
		<ToUserName><![CDATA[gh_account]]></ToUserName>
		<FromUserName><![CDATA[oUser1]]></FromUserName>
		<CreateTime>1348831860</CreateTime>
		<MsgType><![CDATA[text]]></MsgType>
		<Content><![CDATA[hi]]></Content>
		<MsgId>1234567890</MsgId>
	</xml>`

	status, body := post(t, srv, "/callback/t1", q, inbound)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, h.got)
	assert.Equal(t, "hi", h.got.Content)

	out, err := envelope.Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "oUser1", out.Text("ToUserName"), "reply addressing is swapped")
	assert.Equal(t, "gh_account", out.Text("FromUserName"))
	assert.Equal(t, "text", out.Text("MsgType"))
	assert.Equal(t, "echo:hi", out.Text("Content"))
}

func TestPipeline_NoReplyAcks(t *testing.T) {
	store := staticStore{"t1": {ID: "t1", Token: testToken}}
	gw := New(OfficialAccount(), store, &oa.NopHandler{})
	srv := mount(gw)
	defer srv.Close()

	q := url.Values{}
	q.Set("timestamp", "1")
	q.Set("nonce", "2")
	q.Set("signature", signature.Sign(testToken, "1", "2"))

	_, body := post(t, srv, "/callback/t1", q, `<xml><MsgType>text</MsgType><Content>hi</Content></xml>`)
	assert.Equal(t, "success", body, "nil reply still sends the platform ack")
}

func encryptedEnvelope(t *testing.T, codec *wxcrypt.Codec, token, plain string) (url.Values, string) {
	t.Helper()
	ct, err := codec.Encrypt([]byte(plain))
	require.NoError(t, err)

	q := url.Values{}
	q.Set("timestamp", "1409735669")
	q.Set("nonce", "1372623149")
	q.Set("msg_signature", signature.Sign(token, "1409735669", "1372623149", ct))

	outer := fmt.Sprintf(`<xml><ToUserName><![CDATA[%s]]></ToUserName><Encrypt><![CDATA[%s]]></Encrypt></xml>`,
		testCorpID, ct)
	return q, outer
}

func TestPipeline_EncryptedRoundTrip(t *testing.T) {
	codec, err := wxcrypt.New(testAESKey, testCorpID)
	require.NoError(t, err)
	store := staticStore{"corp": {ID: "corp", Token: testToken, Codec: codec}}
	h := &recordingWorkHandler{}
	gw := New(Work(), store, h)
	srv := mount(gw)
	defer srv.Close()

	inner := `<xml><ToUserName>wwCORP</ToUserName><FromUserName>zhangsan</FromUserName>
		<CreateTime>1409659813</CreateTime><MsgType>text</MsgType><Content>ping</Content>
		<MsgId>123</MsgId><AgentID>1</AgentID></xml>`
	q, outer := encryptedEnvelope(t, codec, testToken, inner)

	status, body := post(t, srv, "/callback/corp", q, outer)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, h.got)
	assert.Equal(t, "ping", h.got.Content)

	// The response is a fresh encrypted envelope: verifiable and decryptable.
	out, err := envelope.Parse([]byte(body))
	require.NoError(t, err)
	ct := out.Text("Encrypt")
	require.NotEmpty(t, ct)
	assert.True(t, signature.Verify(testToken, out.Text("MsgSignature"), out.Text("TimeStamp"), out.Text("Nonce"), ct))

	plain, err := codec.Decrypt(ct)
	require.NoError(t, err)
	rf, err := envelope.Parse(plain)
	require.NoError(t, err)
	assert.Equal(t, "zhangsan", rf.Text("ToUserName"))
	assert.Equal(t, "pong", rf.Text("Content"))
}

func TestPipeline_WrongEmbeddedReceiverDropsSilently(t *testing.T) {
	codec, err := wxcrypt.New(testAESKey, testCorpID)
	require.NoError(t, err)
	// Same key, different embedded receiver id.
	other, err := wxcrypt.New(testAESKey, "wwOTHER")
	require.NoError(t, err)

	store := staticStore{"corp": {ID: "corp", Token: testToken, Codec: codec}}
	h := &recordingWorkHandler{}
	gw := New(Work(), store, h)
	srv := mount(gw)
	defer srv.Close()

	inner := `<xml><MsgType>text</MsgType><Content>ping</Content><AgentID>1</AgentID></xml>`
	q, outer := encryptedEnvelope(t, other, testToken, inner)

	status, body := post(t, srv, "/callback/corp", q, outer)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
	assert.Nil(t, h.got, "handler must not see a mis-addressed envelope")
}

func TestPipeline_CorruptedSignatureSkipsDecrypt(t *testing.T) {
	codec, err := wxcrypt.New(testAESKey, testCorpID)
	require.NoError(t, err)
	store := staticStore{"corp": {ID: "corp", Token: testToken, Codec: codec}}
	h := &recordingWorkHandler{}
	gw := New(Work(), store, h)
	srv := mount(gw)
	defer srv.Close()

	inner := `<xml><MsgType>text</MsgType><Content>ping</Content><AgentID>1</AgentID></xml>`
	q, outer := encryptedEnvelope(t, codec, testToken, inner)
	q.Set("msg_signature", "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")

	status, body := post(t, srv, "/callback/corp", q, outer)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
	assert.Nil(t, h.got)
}

func TestPipeline_NestedSuiteTicket(t *testing.T) {
	codec, err := wxcrypt.New(testAESKey, testCorpID)
	require.NoError(t, err)
	store := staticStore{"suite": {ID: "suite", Token: testToken, Codec: codec}}
	wh := &recordingWorkHandler{}
	sh := &recordingSuiteHandler{}
	gw := New(WorkISV(), store, wh, WithSuiteHandler(sh))
	srv := mount(gw)
	defer srv.Close()

	// No AgentID and an InfoType: this is a provider lifecycle document.
	inner := `<xml><SuiteId>ww4asffe99e0b</SuiteId><InfoType>suite_ticket</InfoType>
		<TimeStamp>1403610513</TimeStamp><SuiteTicket>tk-77</SuiteTicket></xml>`
	q, outer := encryptedEnvelope(t, codec, testToken, inner)

	status, body := post(t, srv, "/callback/suite", q, outer)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body, "suite channel acks with the provider literal")
	assert.Equal(t, "tk-77", sh.ticket)
	assert.Nil(t, wh.got, "suite documents never reach the message handler")
}

func TestPipeline_NestedWithAgentIDIsOrdinaryDispatch(t *testing.T) {
	codec, err := wxcrypt.New(testAESKey, testCorpID)
	require.NoError(t, err)
	store := staticStore{"suite": {ID: "suite", Token: testToken, Codec: codec}}
	wh := &recordingWorkHandler{}
	sh := &recordingSuiteHandler{}
	gw := New(WorkISV(), store, wh, WithSuiteHandler(sh))
	srv := mount(gw)
	defer srv.Close()

	inner := `<xml><MsgType>text</MsgType><Content>hello</Content><AgentID>1000002</AgentID></xml>`
	q, outer := encryptedEnvelope(t, codec, testToken, inner)

	status, _ := post(t, srv, "/callback/suite", q, outer)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, wh.got)
	assert.Equal(t, "hello", wh.got.Content)
	assert.Empty(t, sh.ticket)
}

func TestPipeline_UnknownTenant(t *testing.T) {
	gw := New(OfficialAccount(), staticStore{}, &oa.NopHandler{})
	srv := mount(gw)
	defer srv.Close()

	q := url.Values{}
	q.Set("timestamp", "1")
	q.Set("nonce", "2")
	q.Set("signature", signature.Sign(testToken, "1", "2"))

	status, body := post(t, srv, "/callback/missing", q, `<xml><MsgType>text</MsgType></xml>`)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
}

func TestGateway_DefaultTenantFallback(t *testing.T) {
	store := staticStore{"t1": {ID: "t1", Token: testToken}}
	gw := New(OfficialAccount(), store, &oa.NopHandler{}, WithDefaultTenant("t1"))

	mux := http.NewServeMux()
	mux.Handle("/wx", gw)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	q := url.Values{}
	q.Set("timestamp", "1")
	q.Set("nonce", "2")
	q.Set("echostr", "ping")
	q.Set("signature", signature.Sign(testToken, "1", "2"))

	status, body := get(t, srv, "/wx", q)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ping", body)
}

func TestGateway_SingleArticleBoundEnforced(t *testing.T) {
	store := staticStore{"t1": {ID: "t1", Token: testToken}}
	h := &newsHandler{}
	gw := New(OfficialAccount(), store, h)
	srv := mount(gw)
	defer srv.Close()

	q := url.Values{}
	q.Set("timestamp", "1")
	q.Set("nonce", "2")
	q.Set("signature", signature.Sign(testToken, "1", "2"))

	// scancode_waitmsg caps news replies at one article; two gets rejected
	// and the pipeline degrades to the ack body.
	_, body := post(t, srv, "/callback/t1", q,
		`<xml><MsgType>event</MsgType><Event>scancode_waitmsg</Event><EventKey>k</EventKey></xml>`)
	assert.Equal(t, "success", body)
}

type newsHandler struct {
	oa.NopHandler
}

func (h *newsHandler) OnScanCodeWait(*oa.ScanCodeWaitEvent) (reply.Reply, error) {
	return &reply.News{Articles: []reply.Article{
		{Title: "one"},
		{Title: "two"},
	}}, nil
}
