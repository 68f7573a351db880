package application

import (
	"strconv"

	"github.com/cristianortiz/auctionView/internal/auction/domain"
	"github.com/cristianortiz/auctionView/internal/shared/format"
	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const pricePrefix = "Current Bid Price: $"

// Patcher maps update payloads to writes on the elements of one page.
// Every write is guarded by its own element lookup, a page without the element is left untouched
type Patcher struct {
	view      domain.View
	formatter *format.Formatter
}

// NewPatcher creates a Patcher over view, a nil formatter means format.Default()
func NewPatcher(view domain.View, formatter *format.Formatter) *Patcher {
	if formatter == nil {
		formatter = format.Default()
	}
	return &Patcher{view: view, formatter: formatter}
}

// UpdateHomePage refreshes the price and bid count of one auction row of the list page
func (p *Patcher) UpdateHomePage(u domain.HomeUpdate) {
	p.updateAuctionRow(u.Key(), u)
}

// UpdateMyAccount refreshes one auction row of the account summary
func (p *Patcher) UpdateMyAccount(u domain.AccountUpdate) {
	p.updateAuctionRow(u.Key(), domain.HomeUpdate(u))
}

func (p *Patcher) updateAuctionRow(key string, u domain.HomeUpdate) {
	if el, ok := p.view.ElementByID(domain.AuctionPriceElement(key)); ok {
		el.SetText(pricePrefix + p.formatter.Currency(u.HighestBid))
	}
	if el, ok := p.view.ElementByID(domain.AuctionBidsElement(key)); ok {
		el.SetText(strconv.Itoa(u.BidCount) + " bids")
	}
}

// UpdateProductPage refreshes the detail page, optional amounts are written only when sent and not zero
func (p *Patcher) UpdateProductPage(u domain.ProductUpdate) {
	if el, ok := p.view.ElementByID(domain.ElementCurrentPrice); ok {
		el.SetText(p.formatter.Currency(u.HighestBid))
	}
	if el, ok := p.view.ElementByID(domain.ElementBidCount); ok {
		el.SetText(strconv.Itoa(u.BidCount))
	}
	if el, ok := p.view.ElementByID(domain.ElementUserBidAmount); ok && domain.Present(u.UserBidAmount) {
		el.SetText(p.formatter.Currency(u.UserBidAmount.Decimal))
	}
	if el, ok := p.view.ElementByID(domain.ElementMinNextBidAmount); ok && domain.Present(u.MinNextBidAmount) {
		el.SetAttr("min", u.MinNextBidAmount.Decimal.String())
	}
}

// AppendBidRow puts the bid on top of the ledger and, for a winning bid, shows the new winner.
// Rows are never deduplicated, replaying a bid adds it again
func (p *Patcher) AppendBidRow(bid domain.BidEvent) {
	if body, ok := p.view.ElementByID(domain.ElementBidListBody); ok {
		body.PrependRow(
			bid.BidderName,
			"$"+p.formatter.Currency(bid.Amount),
			p.bidTime(bid.BidTime),
		)
	} else {
		log.Debug("Bid ledger not on page, row skipped", zap.Int64("bidID", bid.BidID))
	}

	if !bid.Winning || bid.BidderName == "" {
		return
	}
	if el, ok := p.view.ElementByID(domain.ElementWinningBidder); ok {
		el.SetText(bid.BidderName)
	}
}

func (p *Patcher) bidTime(t domain.BidTime) string {
	if t.IsZero() {
		return ""
	}
	return p.formatter.BidTime(t.In(p.formatter.Location()))
}
