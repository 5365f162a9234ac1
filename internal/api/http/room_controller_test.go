package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/roomcast/internal/domain"
	"github.com/immxrtalbeast/roomcast/internal/registry"
	"github.com/immxrtalbeast/roomcast/internal/repository"
	"github.com/immxrtalbeast/roomcast/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	roomService := service.NewRoomService(registry.New(), log)

	uploadService, err := service.NewUploadService(
		repository.NewInMemoryRecordingRepository(),
		roomService,
		roomService,
		t.TempDir(),
		log,
	)
	require.NoError(t, err)

	router := SetupRouter(
		NewRoomController(roomService, log, []string{"stun:stun.l.google.com:19302"}),
		NewUploadController(uploadService, log, 1<<20),
		"",
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg domain.SignalMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func readMsg(t *testing.T, conn *websocket.Conn) domain.SignalMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg domain.SignalMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// assertNoMessage poisons the connection's read side on success; only
// use it as the final read on a connection.
func assertNoMessage(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	var msg domain.SignalMessage
	err := conn.ReadJSON(&msg)
	require.Error(t, err, "expected no message, got %+v", msg)
}

func TestSignalingAndUploadFlow(t *testing.T) {
	srv, wsURL := newTestServer(t)

	a := dialWS(t, wsURL)

	send(t, a, domain.SignalMessage{Type: domain.MsgJoinRoom, Room: "r1", Password: "p", Role: "host"})
	ack := readMsg(t, a)
	require.Equal(t, domain.MsgJoinAck, ack.Type)
	require.NotNil(t, ack.OK)
	assert.True(t, *ack.OK)

	b := dialWS(t, wsURL)

	send(t, b, domain.SignalMessage{Type: domain.MsgJoinRoom, Room: "r1", Password: "wrong", Role: "guest"})
	ack = readMsg(t, b)
	require.NotNil(t, ack.OK)
	assert.False(t, *ack.OK)
	assert.Equal(t, "wrong password", ack.Err)

	send(t, b, domain.SignalMessage{Type: domain.MsgJoinRoom, Room: "r1", Password: "p", Role: "guest"})
	ack = readMsg(t, b)
	require.NotNil(t, ack.OK)
	assert.True(t, *ack.OK)

	joined := readMsg(t, a)
	assert.Equal(t, domain.MsgPeerJoined, joined.Type)

	// Upload a recording; both live connections hear about it.
	filename := uploadFile(t, srv, "r1", "p", "demo.mp4", "video-bytes", http.StatusOK)
	for _, conn := range []*websocket.Conn{a, b} {
		event := readMsg(t, conn)
		assert.Equal(t, domain.MsgNewFile, event.Type)

		var payload struct {
			Filename string `json:"filename"`
		}
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, filename, payload.Filename)
	}

	// A's offer reaches B verbatim and never echoes back to A.
	send(t, a, domain.SignalMessage{Type: domain.MsgOffer, Payload: json.RawMessage(`{"sdp":"x"}`)})
	offer := readMsg(t, b)
	assert.Equal(t, domain.MsgOffer, offer.Type)
	assert.JSONEq(t, `{"sdp":"x"}`, string(offer.Payload))

	// Listing and retrieval round-trip.
	resp, err := http.Get(srv.URL + "/files?room=r1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{filename}, names)

	resp, err = http.Get(srv.URL + "/uploads/" + filename)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video-bytes", string(body))

	resp, err = http.Get(srv.URL + "/uploads/missing.mp4")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assertNoMessage(t, a)
}

func TestDisconnectCleansUpMembership(t *testing.T) {
	_, wsURL := newTestServer(t)

	a := dialWS(t, wsURL)
	send(t, a, domain.SignalMessage{Type: domain.MsgJoinRoom, Room: "r1", Password: "p", Role: "host"})
	readMsg(t, a)

	b := dialWS(t, wsURL)
	send(t, b, domain.SignalMessage{Type: domain.MsgJoinRoom, Room: "r1", Password: "p", Role: "guest"})
	readMsg(t, b)
	readMsg(t, a) // peer-joined

	require.NoError(t, b.Close())

	left := readMsg(t, a)
	assert.Equal(t, domain.MsgPeerLeft, left.Type)

	// A is alone now; the relay excludes the sender, so this lands nowhere.
	send(t, a, domain.SignalMessage{Type: domain.MsgOffer, Payload: json.RawMessage(`{"sdp":"y"}`)})
	assertNoMessage(t, a)
}

func TestUploadRejections(t *testing.T) {
	srv, wsURL := newTestServer(t)

	a := dialWS(t, wsURL)
	send(t, a, domain.SignalMessage{Type: domain.MsgJoinRoom, Room: "r1", Password: "p", Role: "host"})
	readMsg(t, a)

	uploadFile(t, srv, "r1", "wrong", "f.mp4", "x", http.StatusForbidden)
	uploadFile(t, srv, "nosuchroom", "p", "f.mp4", "x", http.StatusForbidden)
	uploadFile(t, srv, "", "", "f.mp4", "x", http.StatusBadRequest)
}

func TestWebRTCConfigEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/webrtc/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		ICEServers []struct {
			URLs []string `json:"urls"`
		} `json:"ice_servers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.ICEServers, 1)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, payload.ICEServers[0].URLs)
}

func uploadFile(t *testing.T, srv *httptest.Server, room, password, name, content string, wantStatus int) string {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("video", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(
		srv.URL+"/upload?room="+room+"&password="+password,
		mw.FormDataContentType(),
		&buf,
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)

	if wantStatus != http.StatusOK {
		return ""
	}

	var result struct {
		OK       bool   `json:"ok"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.OK)
	require.NotEmpty(t, result.Filename)
	return result.Filename
}
