package channelsync

import "github.com/shopspring/decimal"

const (
	ResultStatusSuccess = "success"
	ResultStatusError   = "error"
	ResultStatusSkipped = "skipped"
)

type SyncRequest struct {
	QueueId    uint            `json:"queue_id"`
	ProductId  uint            `json:"product_id" binding:"required"`
	NewPrice   decimal.Decimal `json:"new_price" binding:"required"`
	UserId     string          `json:"user_id"`
	ChannelIds []uint          `json:"channels"`
}

type MappingResult struct {
	MappingId uint   `json:"mapping_id"`
	Platform  string `json:"platform"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type SyncResponse struct {
	Success bool            `json:"success"`
	Synced  int             `json:"synced"`
	Total   int             `json:"total"`
	Results []MappingResult `json:"results"`
	Message string          `json:"message,omitempty"`
}

type QueuePubSubPayload struct {
	QueueId   uint            `json:"queue_id"`
	UserId    string          `json:"user_id"`
	ProductId uint            `json:"product_id"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

type PubSubPushEnvelope struct {
	Message struct {
		Data []byte `json:"data"`
		ID   string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}
