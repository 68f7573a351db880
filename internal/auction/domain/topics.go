package domain

// Topic paths published by the auction server
const (
	TopicHome      = "/topic/home"
	TopicMyAccount = "/topic/myAccount"

	topicAuctionPrefix = "/topic/auction/"
	topicBidsPrefix    = "/topic/bids/"
)

// AuctionTopic is the product detail topic of one auction
func AuctionTopic(auctionID string) string {
	return topicAuctionPrefix + auctionID
}

// BidsTopic is the bid ledger topic of one auction
func BidsTopic(auctionID string) string {
	return topicBidsPrefix + auctionID
}
