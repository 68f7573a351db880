package websocket

import (
	"context"
	"encoding/json"

	"github.com/cristianortiz/auctionView/internal/auction/application"
	"github.com/cristianortiz/auctionView/internal/auction/infra/htmlview"
	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"github.com/cristianortiz/auctionView/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Broadcaster is the part of the hub used to fan out page patches
type Broadcaster interface {
	BroadcastToPage(pageID string, data []byte)
}

// PatchPublisher pushes document patches to the browsers showing the page
type PatchPublisher struct {
	hub Broadcaster
}

func NewPatchPublisher(hub Broadcaster) *PatchPublisher {
	return &PatchPublisher{hub: hub}
}

// Publish serializes patch and broadcasts it to the page group
func (p *PatchPublisher) Publish(pageID string, patch htmlview.Patch) {
	msg := ServerPatchMessage{BaseMessage: BaseMessage{Type: MessageTypeServerPatch}, Payload: patch}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ServerPatchMessage", zap.String("pageID", pageID), zap.Error(err))
		return
	}
	p.hub.BroadcastToPage(pageID, data)
}

// ForPage returns a document observer publishing to pageID
func (p *PatchPublisher) ForPage(pageID string) func(htmlview.Patch) {
	return func(patch htmlview.Patch) {
		p.Publish(pageID, patch)
	}
}

// BrowserHandler handles the requests browsers send over their page socket
type BrowserHandler struct {
	hub *websocket.Hub
}

func NewBrowserHandler(hub *websocket.Hub) *BrowserHandler {
	return &BrowserHandler{hub: hub}
}

// ListenForMessages consumes the hub inbound channel until ctx is done
func (h *BrowserHandler) ListenForMessages(ctx context.Context) {
	log.Info("BrowserHandler started listening for inbound messages from hub")
	for {
		select {
		case <-ctx.Done():
			log.Info("BrowserHandler stopped listening for inbound messages from hub")
			return
		case msg := <-h.hub.InboundMessages:
			h.processMessage(msg.Client, msg.Data)
		}
	}
}

// processMessage dispatch the message by this type
func (h *BrowserHandler) processMessage(client *websocket.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, "invalid message format")
		return
	}
	switch baseMsg.Type {
	case MessageTypeClientValidateBreed:
		h.handleValidateBreed(client, data)
	default:
		h.sendErrorToClient(client, "unknown message type")
	}
}

func (h *BrowserHandler) handleValidateBreed(client *websocket.Client, data []byte) {
	var req ClientValidateBreedMessage
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendErrorToClient(client, "invalid validation message format")
		return
	}

	resp := ServerValidationMessage{BaseMessage: BaseMessage{Type: MessageTypeServerValidation}}
	resp.Payload.Valid = true
	if err := application.CheckBreed(req.Payload.Value); err != nil {
		resp.Payload.Valid = false
		resp.Payload.Message = err.Error()
	}
	h.send(client, resp)
}

// sendErrorToClient serializes and sends an error msg to a specific client
func (h *BrowserHandler) sendErrorToClient(client *websocket.Client, errorMessage string) {
	errMsg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	errMsg.Payload.Error = errorMessage
	h.send(client, errMsg)
}

func (h *BrowserHandler) send(client *websocket.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal server message", zap.Error(err))
		return
	}
	select {
	case client.Send <- data:
		log.Debug("sent message to client", zap.String("clientID", client.ID))
	default:
		log.Warn("client send channel full, could not send message", zap.String("clientID", client.ID))
	}
}
