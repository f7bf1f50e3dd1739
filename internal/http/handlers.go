package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkletapp/inklet/internal/apperr"
	"github.com/inkletapp/inklet/internal/service"
	"github.com/inkletapp/inklet/internal/ws"
)

// Env bundles the handler dependencies.
type Env struct {
	Posts     *service.PostService
	Comments  *service.CommentService
	Auth      *service.AuthService
	Users     *service.UserService
	Hub       *ws.Hub
	JWTSecret []byte
}

// WsMessage is the JSON envelope pushed over the live feed socket.
type WsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (e *Env) broadcast(msg WsMessage) {
	if e.Hub == nil {
		return
	}
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshalling WS message: %v", err)
		return
	}
	e.Hub.Broadcast <- jsonMsg
}

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, message string, payload, meta interface{}) {
	body := gin.H{"ok": true, "message": message}
	if payload != nil {
		body["payload"] = payload
	}
	if meta != nil {
		body["meta"] = meta
	}
	c.JSON(status, body)
}

// respondError maps a typed service failure to its status code. Anything
// untyped is logged in full and surfaced as an opaque 500.
func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Status(), gin.H{"ok": false, "error": ae.Message})
		return
	}
	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Something went wrong"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid input: " + err.Error()})
}
