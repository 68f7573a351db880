package domain

// Element ids the page provides for each patcher
const (
	ElementAuctionID        = "auctionId"
	ElementWinningBidder    = "winningBidder"
	ElementCurrentPrice     = "currentPrice"
	ElementBidCount         = "bidCount"
	ElementUserBidAmount    = "userBidAmount"
	ElementMinNextBidAmount = "minNextBidAmount"
	ElementBidListBody      = "bidListBody"
	ElementBreedInput       = "breedInput"
)

// AuctionPriceElement is the price cell of one auction row on list pages
func AuctionPriceElement(auctionID string) string {
	return "auction-price-" + auctionID
}

// AuctionBidsElement is the bid count cell of one auction row on list pages
func AuctionBidsElement(auctionID string) string {
	return "auction-bids-" + auctionID
}

// Element is a single node of a rendered page
type Element interface {
	// Attr returns the attribute value and whether it is set
	Attr(name string) (string, bool)
	// SetText replaces the element content with plain text, never markup
	SetText(text string)
	SetAttr(name, value string)
	// PrependRow inserts a row of text cells as the first child
	PrependRow(cells ...string)
	// SetCustomValidity sets the form validation message, empty means valid
	SetCustomValidity(message string)
}

// View gives patchers access to the elements of one page. A missing element is not an error,
// pages only carry the elements of the view they render
type View interface {
	ElementByID(id string) (Element, bool)
}
