package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// HomeUpdate is pushed on /topic/home, it refreshes one auction row of the list page
type HomeUpdate struct {
	AuctionID  int64           `json:"auctionId"`
	HighestBid decimal.Decimal `json:"highestBid"`
	BidCount   int             `json:"bidCount"`
}

// AccountUpdate is pushed on /topic/myAccount, same shape as HomeUpdate scoped to the account summary
type AccountUpdate HomeUpdate

// ProductUpdate is pushed on /topic/auction/{id} for the detail page of a single auction
type ProductUpdate struct {
	AuctionID        int64               `json:"auctionId"`
	HighestBid       decimal.Decimal     `json:"highestBid"`
	BidCount         int                 `json:"bidCount"`
	UserBidAmount    decimal.NullDecimal `json:"userBidAmount"`
	MinNextBidAmount decimal.NullDecimal `json:"minNextBidAmount"`
}

// BidEvent is pushed on /topic/bids/{id} for every accepted bid, it feeds the ledger
type BidEvent struct {
	BidID      int64           `json:"bidId"`
	AuctionID  int64           `json:"auctionId"`
	BidderName string          `json:"bidderName"`
	Amount     decimal.Decimal `json:"amount"`
	BidTime    BidTime         `json:"bidTime"`
	Winning    bool            `json:"winning"`
}

// Key is the auction id as it appears in element ids and topics
func (u HomeUpdate) Key() string {
	return strconv.FormatInt(u.AuctionID, 10)
}

// Key is the auction id as it appears in element ids and topics
func (u AccountUpdate) Key() string {
	return HomeUpdate(u).Key()
}

// Present reports whether an optional amount was sent and is not zero
func Present(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}

// DecodeHomeUpdate parses a /topic/home body, a row update without auction id cannot be applied
func DecodeHomeUpdate(body []byte) (HomeUpdate, error) {
	var u HomeUpdate
	if err := json.Unmarshal(body, &u); err != nil {
		return u, fmt.Errorf("decode home update: %w", err)
	}
	if u.AuctionID == 0 {
		return u, fmt.Errorf("decode home update: missing auctionId: %w", ErrInvalidUpdate)
	}
	return u, nil
}

// DecodeAccountUpdate parses a /topic/myAccount body
func DecodeAccountUpdate(body []byte) (AccountUpdate, error) {
	var u AccountUpdate
	if err := json.Unmarshal(body, &u); err != nil {
		return u, fmt.Errorf("decode account update: %w", err)
	}
	if u.AuctionID == 0 {
		return u, fmt.Errorf("decode account update: missing auctionId: %w", ErrInvalidUpdate)
	}
	return u, nil
}

// DecodeProductUpdate parses a /topic/auction/{id} body
func DecodeProductUpdate(body []byte) (ProductUpdate, error) {
	var u ProductUpdate
	if err := json.Unmarshal(body, &u); err != nil {
		return u, fmt.Errorf("decode product update: %w", err)
	}
	return u, nil
}

// DecodeBidEvent parses a /topic/bids/{id} body
func DecodeBidEvent(body []byte) (BidEvent, error) {
	var b BidEvent
	if err := json.Unmarshal(body, &b); err != nil {
		return b, fmt.Errorf("decode bid event: %w", err)
	}
	return b, nil
}
