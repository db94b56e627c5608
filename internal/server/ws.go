package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/server/api"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Stroke message types.
const (
	MsgPoint       = "point"
	MsgClear       = "clear"
	MsgRecognize   = "recognize"
	MsgAddTemplate = "add_template"

	MsgAck      = "ack"
	MsgResult   = "result"
	MsgTemplate = "template"
	MsgError    = "error"
)

// StrokeMessage is a message sent by the client.
// Point messages must carry both coordinates.
type StrokeMessage struct {
	Type string   `json:"type"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
	Name string   `json:"name,omitempty"`
}

// PointMessage returns the point message for p.
func PointMessage(p gesture.Point) StrokeMessage {
	x, y := p.X, p.Y
	return StrokeMessage{Type: MsgPoint, X: &x, Y: &y}
}

// StrokeReply is a message sent to the client.
type StrokeReply struct {
	Type     string          `json:"type"`
	Points   int             `json:"points"`
	Result   *gesture.Result `json:"result,omitempty"`
	Template string          `json:"template,omitempty"`
	Error    string          `json:"error,omitempty"`
	Status   int             `json:"status,omitempty"`
}

// StrokeHandler runs one stroke session per websocket connection.
// Points are replied to only on error; clear, recognize and add_template
// always get a reply.
type StrokeHandler struct {
	app *app.App
}

// NewStrokeHandler creates a new StrokeHandler bound to the app.
func NewStrokeHandler(a *app.App) *StrokeHandler {
	return &StrokeHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StrokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	session := h.app.NewSession()
	for {
		var msg StrokeMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}

		reply, ok := h.handle(session, msg)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("websocket write error: %v", err)
			return
		}
	}
}

// handle applies msg to the session and returns the reply, if any.
func (h *StrokeHandler) handle(session *app.Session, msg StrokeMessage) (StrokeReply, bool) {
	switch msg.Type {
	case MsgPoint:
		if msg.X == nil || msg.Y == nil {
			return StrokeReply{
				Type:   MsgError,
				Points: session.Len(),
				Error:  "point message needs x and y",
				Status: http.StatusBadRequest,
			}, true
		}
		session.AddPoint(gesture.Point{X: *msg.X, Y: *msg.Y})
		return StrokeReply{}, false

	case MsgClear:
		session.Clear()
		return StrokeReply{Type: MsgAck}, true

	case MsgRecognize:
		n := session.Len()
		res, err := session.Recognize()
		if err != nil {
			return errorReply(err, session.Len()), true
		}
		log.Printf("Stroke of %d points recognized as %s (score: %.3f)", n, res.Name, res.Score)
		return StrokeReply{Type: MsgResult, Result: &res}, true

	case MsgAddTemplate:
		t, err := session.SaveAsTemplate(msg.Name)
		if err != nil {
			return errorReply(err, session.Len()), true
		}
		return StrokeReply{Type: MsgTemplate, Template: t.ID}, true
	}

	return StrokeReply{
		Type:   MsgError,
		Points: session.Len(),
		Error:  "unknown message type: " + msg.Type,
		Status: http.StatusBadRequest,
	}, true
}

func errorReply(err error, points int) StrokeReply {
	return StrokeReply{
		Type:   MsgError,
		Points: points,
		Error:  err.Error(),
		Status: api.StatusFor(err),
	}
}
