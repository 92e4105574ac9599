package auctions

import (
	"time"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SellerSummary is the public view of a listing's seller.
type SellerSummary struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// AuctionDTO is the transport shape of one auction listing.
type AuctionDTO struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	ImageURL      *string         `json:"image_url"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	EndTime       time.Time       `json:"end_time"`
	Bids          int64           `json:"bids"`
	Seller        SellerSummary   `json:"seller"`
	Condition     string          `json:"condition"`
	Grade         *string         `json:"grade"`
	Grader        *string         `json:"grader"`
}

func NewAuctionDTO(l models.Listing) AuctionDTO {
	dto := AuctionDTO{
		ID:            l.ID,
		Title:         l.Title,
		ImageURL:      l.PrimaryImage(),
		CurrentPrice:  l.CurrentPrice,
		StartingPrice: l.StartingPrice,
		EndTime:       l.EndTime.UTC(),
		Bids:          l.BidCount,
		Condition:     l.Condition,
		Grade:         l.Grade,
		Grader:        l.Grader,
	}
	if l.Seller != nil {
		dto.Seller = SellerSummary{Name: l.Seller.Name, Image: l.Seller.Image}
	}
	return dto
}
