package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/reply"
)

type textMsg struct {
	Content string
}

type clickEvt struct {
	Key string
}

type testHandler interface {
	OnText(*textMsg) (reply.Reply, error)
	OnClick(*clickEvt) (reply.Reply, error)
}

type recordingHandler struct {
	texts  []string
	clicks []string

	unhandled int
	defaults  int
}

func (r *recordingHandler) OnText(m *textMsg) (reply.Reply, error) {
	r.texts = append(r.texts, m.Content)
	return &reply.Text{Content: "echo:" + m.Content}, nil
}

func (r *recordingHandler) OnClick(e *clickEvt) (reply.Reply, error) {
	r.clicks = append(r.clicks, e.Key)
	return nil, nil
}

func testTable() *Table {
	t := NewTable("MsgType").WithEventLevel("event", "Event")
	t.Add(NewEntry(func(f envelope.Fields) *textMsg {
		return &textMsg{Content: f.Text("Content")}
	}, testHandler.OnText), "text")
	t.Add(NewEntry(func(f envelope.Fields) *clickEvt {
		return &clickEvt{Key: f.Text("EventKey")}
	}, testHandler.OnClick), "event", "click")
	return t
}

func parse(t *testing.T, doc string) envelope.Fields {
	t.Helper()
	f, err := envelope.Parse([]byte(doc))
	require.NoError(t, err)
	return f
}

func TestDispatch_Precision(t *testing.T) {
	h := &recordingHandler{}
	f := parse(t, `<xml><MsgType>text</MsgType><Content>hi</Content></xml>`)

	res, err := testTable().Dispatch(f, h)
	require.NoError(t, err)

	// Exactly OnText fired, with the document's content.
	assert.Equal(t, []string{"hi"}, h.texts)
	assert.Empty(t, h.clicks)
	assert.False(t, res.Unknown)
	require.IsType(t, &reply.Text{}, res.Reply)
	assert.Equal(t, "echo:hi", res.Reply.(*reply.Text).Content)
}

func TestDispatch_EventLevel(t *testing.T) {
	h := &recordingHandler{}
	f := parse(t, `<xml><MsgType>event</MsgType><Event>CLICK</Event><EventKey>menu_1</EventKey></xml>`)

	res, err := testTable().Dispatch(f, h)
	require.NoError(t, err)
	assert.Equal(t, []string{"menu_1"}, h.clicks)
	assert.Empty(t, h.texts)
	assert.Nil(t, res.Reply)
}

func TestDispatch_SubDiscriminator(t *testing.T) {
	type userCreate struct{ UserID string }
	var got string

	tbl := NewTable("MsgType").WithEventLevel("event", "Event").Sub("change_contact", "ChangeType")
	tbl.Add(Entry{
		Build: func(f envelope.Fields) Variant { return &userCreate{UserID: f.Text("UserID")} },
		Invoke: func(h any, v Variant) (reply.Reply, error) {
			got = v.(*userCreate).UserID
			return nil, nil
		},
	}, "event", "change_contact", "create_user")

	f := parse(t, `<xml><MsgType>event</MsgType><Event>change_contact</Event><ChangeType>create_user</ChangeType><UserID>zhangsan</UserID></xml>`)
	res, err := tbl.Dispatch(f, struct{}{})
	require.NoError(t, err)
	assert.False(t, res.Unknown)
	assert.Equal(t, "zhangsan", got)
}

func TestDispatch_InfoTypeChain(t *testing.T) {
	// Suite tables key on InfoType directly, with no event marker level.
	type ticket struct{ Value string }
	var got string

	tbl := NewTable("InfoType")
	tbl.Add(Entry{
		Build: func(f envelope.Fields) Variant { return &ticket{Value: f.Text("SuiteTicket")} },
		Invoke: func(h any, v Variant) (reply.Reply, error) {
			got = v.(*ticket).Value
			return nil, nil
		},
	}, "suite_ticket")

	f := parse(t, `<xml><InfoType>suite_ticket</InfoType><SuiteTicket>tk-1</SuiteTicket></xml>`)
	_, err := tbl.Dispatch(f, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "tk-1", got)
}

type hookedHandler struct {
	recordingHandler
	rawReply     reply.Reply
	defaultReply reply.Reply
}

func (h *hookedHandler) OnUnhandled(f envelope.Fields) (reply.Reply, error) {
	h.unhandled++
	return h.rawReply, nil
}

func (h *hookedHandler) OnDefault(hd envelope.Header) (reply.Reply, error) {
	h.defaults++
	return h.defaultReply, nil
}

func TestDispatch_UnknownRoutesToRawHookFirst(t *testing.T) {
	h := &hookedHandler{rawReply: &reply.Text{Content: "raw"}}
	f := parse(t, `<xml><MsgType>hologram</MsgType></xml>`)

	res, err := testTable().Dispatch(f, h)
	require.NoError(t, err)
	assert.True(t, res.Unknown)
	assert.Equal(t, 1, h.unhandled)
	assert.Equal(t, 0, h.defaults, "raw hook answered, default must not fire")
	assert.Equal(t, "raw", res.Reply.(*reply.Text).Content)
}

func TestDispatch_UnknownFallsThroughToDefault(t *testing.T) {
	h := &hookedHandler{defaultReply: &reply.Text{Content: "dflt"}}
	f := parse(t, `<xml><MsgType>event</MsgType><Event>brand_new_event</Event></xml>`)

	res, err := testTable().Dispatch(f, h)
	require.NoError(t, err)
	assert.True(t, res.Unknown)
	assert.Equal(t, 1, h.unhandled)
	assert.Equal(t, 1, h.defaults)
	assert.Equal(t, "dflt", res.Reply.(*reply.Text).Content)
}

func TestDispatch_UnknownWithoutHooks(t *testing.T) {
	h := &recordingHandler{}
	f := parse(t, `<xml><MsgType>hologram</MsgType></xml>`)

	res, err := testTable().Dispatch(f, h)
	require.NoError(t, err)
	assert.True(t, res.Unknown)
	assert.Nil(t, res.Reply)
}

type erroringHandler struct{ recordingHandler }

func (e *erroringHandler) OnText(*textMsg) (reply.Reply, error) {
	return nil, errors.New("boom")
}

type panickingHandler struct{ recordingHandler }

func (p *panickingHandler) OnText(*textMsg) (reply.Reply, error) {
	panic("handler bug")
}

func TestDispatch_HandlerErrorWrapped(t *testing.T) {
	f := parse(t, `<xml><MsgType>text</MsgType><Content>hi</Content></xml>`)

	_, err := testTable().Dispatch(f, &erroringHandler{})
	assert.ErrorIs(t, err, ErrHandler)
}

func TestDispatch_HandlerPanicRecovered(t *testing.T) {
	f := parse(t, `<xml><MsgType>text</MsgType><Content>hi</Content></xml>`)

	res, err := testTable().Dispatch(f, &panickingHandler{})
	assert.ErrorIs(t, err, ErrHandler)
	assert.Nil(t, res.Reply)
}

func TestTable_DuplicateChainPanics(t *testing.T) {
	tbl := NewTable("MsgType")
	e := Entry{Build: func(envelope.Fields) Variant { return nil }, Invoke: func(any, Variant) (reply.Reply, error) { return nil, nil }}
	tbl.Add(e, "text")
	assert.Panics(t, func() { tbl.Add(e, "text") })
}
