package websocket

import "github.com/cristianortiz/auctionView/internal/auction/infra/htmlview"

// MessageType defines ws type message
type MessageType string

const (
	MessageTypeClientValidateBreed MessageType = "client_validate_breed" // client msg asking to validate a breed search term
	MessageTypeServerPatch         MessageType = "server_patch"          // server msg with one page patch
	MessageTypeServerValidation    MessageType = "server_validation"     // server msg with a validation result
	MessageTypeServerError         MessageType = "server_error"          // server msg indicating error
)

// BaseMessage is base struct for all the WS messages, includes a Type field for identify the message type
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ServerPatchMessage carries one write applied to the page the client is showing
type ServerPatchMessage struct {
	BaseMessage
	Payload htmlview.Patch `json:"payload"`
}

// ClientValidateBreedMessage is sent by the search form before submitting
type ClientValidateBreedMessage struct {
	BaseMessage
	Payload struct {
		Value string `json:"value"`
	} `json:"payload"`
}

// ServerValidationMessage answers ClientValidateBreedMessage, Message is empty when valid
type ServerValidationMessage struct {
	BaseMessage
	Payload struct {
		Valid   bool   `json:"valid"`
		Message string `json:"message"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}
