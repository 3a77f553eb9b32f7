// Package webchat exposes the assistant over a JSON HTTP endpoint used by the web front-end.
package webchat

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/xaenox/interview-bot/internal/dialog"
	"github.com/xaenox/interview-bot/internal/menu"
	"go.uber.org/zap"
)

const (
	defaultUserID = "web_user"
	emptyMessage  = "Le message ne peut pas être vide"
	actionType    = "imBack"
)

// Handler produces replies for a user.
type Handler interface {
	HandleMessage(ctx context.Context, userID, text string) dialog.Reply
	Welcome(ctx context.Context, userID string) dialog.Reply
}

type MessageRequest struct {
	Text   string `json:"text"`
	UserID string `json:"userId"`
}

type Action struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type SuggestedActions struct {
	Actions []Action `json:"actions"`
}

type MessageResponse struct {
	Text             string            `json:"text"`
	SuggestedActions *SuggestedActions `json:"suggestedActions,omitempty"`
}

type ChatHandler struct {
	handler Handler
	logger  *zap.Logger
}

func NewChatHandler(handler Handler, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{handler: handler, logger: logger}
}

// PostMessage handles POST /api/webchat/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": emptyMessage})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": emptyMessage})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	reply := h.handler.HandleMessage(c.Request.Context(), userID, req.Text)
	c.JSON(http.StatusOK, toResponse(reply))
}

// StartConversation handles POST /api/webchat/conversations, the web analog of a member joining.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	var req MessageRequest
	// The body is optional.
	_ = c.ShouldBindJSON(&req)

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	h.logger.Info("Web conversation started", zap.String("user_id", userID))
	c.JSON(http.StatusOK, toResponse(h.handler.Welcome(c.Request.Context(), userID)))
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// toResponse renders the reply menu as suggested actions. The menu prompt is folded into the
// text since the web client shows a single bubble per reply.
func toResponse(reply dialog.Reply) MessageResponse {
	resp := MessageResponse{Text: reply.Text}
	if reply.Menu == nil {
		return resp
	}

	if reply.Menu.Prompt != "" {
		if resp.Text == "" {
			resp.Text = reply.Menu.Prompt
		} else {
			resp.Text += "\n\n" + reply.Menu.Prompt
		}
	}

	resp.SuggestedActions = &SuggestedActions{
		Actions: lo.Map(reply.Menu.Options, func(o menu.Option, _ int) Action {
			return Action{Title: o.Title, Type: actionType, Value: o.Value}
		}),
	}
	return resp
}
