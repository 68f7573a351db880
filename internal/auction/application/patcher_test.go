package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/cristianortiz/auctionView/internal/auction/domain"
	"github.com/cristianortiz/auctionView/internal/shared/format"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcFormatter(t *testing.T) *format.Formatter {
	t.Helper()
	f, err := format.NewFormatter("en-US", "UTC")
	require.NoError(t, err)
	return f
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUpdateHomePage(t *testing.T) {
	view := newFakeView("auction-price-42", "auction-bids-42", "auction-price-7")
	p := NewPatcher(view, utcFormatter(t))

	p.UpdateHomePage(domain.HomeUpdate{AuctionID: 42, HighestBid: amount("1234.5"), BidCount: 3})

	assert.Equal(t, "Current Bid Price: $1,234.50", view.text("auction-price-42"))
	assert.Equal(t, "3 bids", view.text("auction-bids-42"))
	assert.Equal(t, 0, view.writes("auction-price-7"), "other rows are untouched")
}

func TestUpdateMyAccount(t *testing.T) {
	view := newFakeView("auction-price-9")
	p := NewPatcher(view, utcFormatter(t))

	p.UpdateMyAccount(domain.AccountUpdate{AuctionID: 9, HighestBid: amount("20"), BidCount: 1})

	assert.Equal(t, "Current Bid Price: $20.00", view.text("auction-price-9"))
}

func TestPatchersWithoutTargetsDoNothing(t *testing.T) {
	view := newFakeView("unrelated")
	p := NewPatcher(view, nil)

	assert.NotPanics(t, func() {
		p.UpdateHomePage(domain.HomeUpdate{AuctionID: 1, HighestBid: amount("1"), BidCount: 1})
		p.UpdateMyAccount(domain.AccountUpdate{AuctionID: 1, HighestBid: amount("1"), BidCount: 1})
		p.UpdateProductPage(domain.ProductUpdate{HighestBid: amount("1"), BidCount: 1,
			UserBidAmount: decimal.NewNullDecimal(amount("1"))})
		p.AppendBidRow(domain.BidEvent{BidderName: "Alice", Amount: amount("1"), Winning: true})
	})
	assert.Equal(t, 0, view.writes("unrelated"))
}

func productView() *fakeView {
	return newFakeView(
		domain.ElementCurrentPrice,
		domain.ElementBidCount,
		domain.ElementUserBidAmount,
		domain.ElementMinNextBidAmount,
	)
}

func TestUpdateProductPageRequiredFieldsOnly(t *testing.T) {
	view := productView()
	p := NewPatcher(view, utcFormatter(t))

	p.UpdateProductPage(domain.ProductUpdate{HighestBid: amount("150"), BidCount: 4})

	assert.Equal(t, "150.00", view.text(domain.ElementCurrentPrice))
	assert.Equal(t, "4", view.text(domain.ElementBidCount))
	assert.Equal(t, 0, view.writes(domain.ElementUserBidAmount))
	assert.Equal(t, 0, view.writes(domain.ElementMinNextBidAmount))
}

func TestUpdateProductPageOptionalFields(t *testing.T) {
	view := productView()
	p := NewPatcher(view, utcFormatter(t))

	p.UpdateProductPage(domain.ProductUpdate{
		HighestBid:       amount("150"),
		BidCount:         4,
		UserBidAmount:    decimal.NewNullDecimal(amount("120")),
		MinNextBidAmount: decimal.NewNullDecimal(amount("155.50")),
	})

	assert.Equal(t, "120.00", view.text(domain.ElementUserBidAmount))
	assert.Equal(t, "155.5", view.attr(domain.ElementMinNextBidAmount, "min"))

	// zero amounts are not truthy and leave the previous values
	p.UpdateProductPage(domain.ProductUpdate{
		HighestBid:       amount("160"),
		BidCount:         5,
		UserBidAmount:    decimal.NewNullDecimal(decimal.Zero),
		MinNextBidAmount: decimal.NewNullDecimal(decimal.Zero),
	})
	assert.Equal(t, "160.00", view.text(domain.ElementCurrentPrice))
	assert.Equal(t, "120.00", view.text(domain.ElementUserBidAmount))
	assert.Equal(t, "155.5", view.attr(domain.ElementMinNextBidAmount, "min"))
}

func TestUpdateProductPageTargetsAreIndependent(t *testing.T) {
	view := newFakeView(domain.ElementMinNextBidAmount)
	p := NewPatcher(view, utcFormatter(t))

	p.UpdateProductPage(domain.ProductUpdate{
		HighestBid:       amount("10"),
		BidCount:         1,
		MinNextBidAmount: decimal.NewNullDecimal(amount("11")),
	})

	assert.Equal(t, "11", view.attr(domain.ElementMinNextBidAmount, "min"))
}

func TestAppendBidRowOrderAndCount(t *testing.T) {
	view := newFakeView(domain.ElementBidListBody)
	p := NewPatcher(view, utcFormatter(t))

	const n = 5
	for i := 1; i <= n; i++ {
		p.AppendBidRow(domain.BidEvent{
			BidderName: fmt.Sprintf("bidder-%d", i),
			Amount:     decimal.NewFromInt(int64(100 * i)),
			BidTime:    domain.NewLocalBidTime(2025, 12, 4, 0, i, 0),
		})
	}

	rows := view.rows(domain.ElementBidListBody)
	require.Len(t, rows, n)
	for i, row := range rows {
		want := n - i
		assert.Equal(t, fmt.Sprintf("bidder-%d", want), row[0])
	}
	assert.Equal(t, []string{"bidder-5", "$500.00", "Dec 4, 2025 12:05 AM"}, rows[0])
}

func TestAppendBidRowIsNotIdempotent(t *testing.T) {
	view := newFakeView(domain.ElementBidListBody)
	p := NewPatcher(view, utcFormatter(t))
	bid := domain.BidEvent{BidderName: "Bob", Amount: amount("10")}

	p.AppendBidRow(bid)
	p.AppendBidRow(bid)

	assert.Len(t, view.rows(domain.ElementBidListBody), 2)
}

func TestAppendBidRowKeepsNameVerbatim(t *testing.T) {
	view := newFakeView(domain.ElementBidListBody)
	p := NewPatcher(view, utcFormatter(t))

	p.AppendBidRow(domain.BidEvent{BidderName: "<b>Eve</b>", Amount: amount("1")})

	assert.Equal(t, "<b>Eve</b>", view.rows(domain.ElementBidListBody)[0][0])
}

func TestAppendBidRowWinningBidder(t *testing.T) {
	testCases := []struct {
		name       string
		bid        domain.BidEvent
		wantWinner string
	}{
		{name: "winning bid", bid: domain.BidEvent{BidderName: "Alice", Winning: true}, wantWinner: "Alice"},
		{name: "losing bid", bid: domain.BidEvent{BidderName: "Bob"}, wantWinner: "Carol"},
		{name: "winning without name", bid: domain.BidEvent{Winning: true}, wantWinner: "Carol"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			view := newFakeView(domain.ElementBidListBody, domain.ElementWinningBidder)
			view.elements[domain.ElementWinningBidder].text = "Carol"
			p := NewPatcher(view, utcFormatter(t))

			p.AppendBidRow(tc.bid)

			assert.Equal(t, tc.wantWinner, view.text(domain.ElementWinningBidder))
			assert.Len(t, view.rows(domain.ElementBidListBody), 1)
		})
	}
}

func TestAppendBidRowWinnerWithoutLedger(t *testing.T) {
	view := newFakeView(domain.ElementWinningBidder)
	p := NewPatcher(view, utcFormatter(t))

	p.AppendBidRow(domain.BidEvent{BidderName: "Alice", Winning: true})

	assert.Equal(t, "Alice", view.text(domain.ElementWinningBidder))
}

func TestAppendBidRowZonedTime(t *testing.T) {
	ny, err := format.NewFormatter("en-US", "America/New_York")
	require.NoError(t, err)
	view := newFakeView(domain.ElementBidListBody)
	p := NewPatcher(view, ny)

	p.AppendBidRow(domain.BidEvent{
		BidderName: "Dan",
		Amount:     amount("1"),
		BidTime:    domain.NewBidTime(time.Date(2025, 12, 4, 5, 5, 0, 0, time.UTC)),
	})

	assert.Equal(t, "Dec 4, 2025 12:05 AM", view.rows(domain.ElementBidListBody)[0][2])
}
