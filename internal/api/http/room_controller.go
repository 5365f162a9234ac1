package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/roomcast/internal/domain"
	"github.com/immxrtalbeast/roomcast/internal/service"
	"github.com/pion/webrtc/v3"
)

type RoomController struct {
	rooms       service.RoomInteractor
	log         *slog.Logger
	upgrader    websocket.Upgrader
	stunServers []string
}

func NewRoomController(rooms service.RoomInteractor, log *slog.Logger, stunServers []string) *RoomController {
	if log == nil {
		log = slog.Default()
	}
	return &RoomController{
		rooms:       rooms,
		log:         log,
		stunServers: stunServers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve upgrades the connection and pumps signaling messages until the
// peer goes away. Each connection gets a transport-assigned identity;
// everything else (binding, membership) is the room service's business.
func (c *RoomController) Serve(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		ctx.String(http.StatusInternalServerError, "failed to upgrade connection")
		return
	}

	member := domain.NewMember()
	member.Socket = conn

	c.log.Info("connection opened",
		slog.String("conn_id", member.ID),
		slog.String("remote", conn.RemoteAddr().String()),
	)

	go forwardMemberEvents(member)

	for {
		var msg domain.SignalMessage
		if err := conn.ReadJSON(&msg); err != nil {
			c.rooms.Disconnect(member)
			conn.Close()
			c.log.Info("connection closed", slog.String("conn_id", member.ID))
			return
		}

		switch msg.Type {
		case domain.MsgJoinRoom:
			err := c.rooms.Join(member, msg.Room, msg.Password, msg.Role)
			ok := err == nil
			ack := domain.SignalMessage{
				Type: domain.MsgJoinAck,
				Room: msg.Room,
				OK:   &ok,
			}
			if err != nil {
				ack.Err = err.Error()
			}
			member.EnqueueEvent(ack)
		case domain.MsgOffer, domain.MsgAnswer, domain.MsgICECandidate:
			c.rooms.Relay(member, msg.Type, msg.Payload)
		default:
			c.log.Debug("unknown message type",
				slog.String("conn_id", member.ID),
				slog.String("type", msg.Type),
			)
		}
	}
}

// WebRTCConfig advertises the ICE servers clients should dial through.
func (c *RoomController) WebRTCConfig(ctx *gin.Context) {
	servers := make([]webrtc.ICEServer, 0, len(c.stunServers))
	for _, url := range c.stunServers {
		servers = append(servers, webrtc.ICEServer{URLs: []string{url}})
	}
	ctx.JSON(http.StatusOK, gin.H{"ice_servers": servers})
}

func forwardMemberEvents(member *domain.Member) {
	for event := range member.Events {
		if member.Socket == nil {
			return
		}
		if err := member.Socket.WriteJSON(event); err != nil {
			return
		}
	}
}
