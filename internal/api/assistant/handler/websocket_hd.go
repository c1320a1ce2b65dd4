package assistantHandler

import (
	"time"

	"HotelAssistant/internal/api/assistant"
	"HotelAssistant/internal/entity"
	"HotelAssistant/internal/middleware"
	contextPkg "HotelAssistant/pkg/context"
	"HotelAssistant/pkg/handlerUtil"
	jwtPkg "HotelAssistant/pkg/jwt"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	wsReadTimeout  = 5 * time.Minute
	wsWriteTimeout = 10 * time.Second
	wsPath         = "/assistant/ws"
)

// handleWebSocket runs one conversation per connection. The session id from
// the first reply is reused until the client sends a different one.
func (h *AssistantHandler) handleWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	var user *entity.UserLoginData
	if u, ok := c.Locals(jwtPkg.UserLocalsKey).(entity.UserLoginData); ok {
		user = &u
	}

	fields := logrus.Fields{"request_id": requestID}
	h.log.WithFields(fields).Info("Assistant WebSocket client connected")
	defer h.log.WithFields(fields).Info("Assistant WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	errHandler := handlerUtil.New(h.log)
	sessionID := ""

	for {
		if err := c.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		var req assistant.MessageRequest
		if err := c.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithFields(fields).Errorf("Assistant WebSocket error: %v", err)
			} else {
				h.log.WithFields(fields).Debug("Assistant WebSocket connection closed")
			}
			break
		}

		if req.SessionID == "" {
			req.SessionID = sessionID
		}

		var reply interface{}
		if err := h.validator.Struct(req); err != nil {
			reply = errHandler.ValidationResponse(requestID, err, wsPath)
		} else if res, err := h.processSocketMessage(requestID, user, req); err != nil {
			_, reply = errHandler.Resolve(requestID, err, wsPath, "assistant_ws_message")
		} else {
			sessionID = res.SessionID
			reply = res
		}

		if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(reply); err != nil {
			h.log.WithFields(fields).Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}

func (h *AssistantHandler) processSocketMessage(requestID string, user *entity.UserLoginData, req assistant.MessageRequest) (*assistant.MessageResponse, error) {
	c, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), 30*time.Second)
	defer cancel()

	return h.assistantService.ProcessMessage(c, user, req)
}
