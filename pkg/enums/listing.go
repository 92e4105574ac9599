package enums

import "fmt"

// ListingStatus maps to the listing_status enum in Postgres.
type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "DRAFT"
	ListingStatusActive    ListingStatus = "ACTIVE"
	ListingStatusEnded     ListingStatus = "ENDED"
	ListingStatusSold      ListingStatus = "SOLD"
	ListingStatusCancelled ListingStatus = "CANCELLED"
)

var validListingStatuses = []ListingStatus{
	ListingStatusDraft,
	ListingStatusActive,
	ListingStatusEnded,
	ListingStatusSold,
	ListingStatusCancelled,
}

// String implements fmt.Stringer.
func (s ListingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical listing_status enum.
func (s ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s ListingStatus) IsTerminal() bool {
	return s == ListingStatusSold || s == ListingStatusCancelled
}

// ParseListingStatus converts raw input into ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}

// AuctionSort enumerates the accepted auction ordering keys.
type AuctionSort string

const (
	AuctionSortEndingSoon     AuctionSort = "ending-soon"
	AuctionSortRecentlyListed AuctionSort = "recently-listed"
	AuctionSortPriceAsc       AuctionSort = "price-asc"
	AuctionSortPriceDesc      AuctionSort = "price-desc"
	AuctionSortMostBids       AuctionSort = "most-bids"
)

var validAuctionSorts = []AuctionSort{
	AuctionSortEndingSoon,
	AuctionSortRecentlyListed,
	AuctionSortPriceAsc,
	AuctionSortPriceDesc,
	AuctionSortMostBids,
}

func (s AuctionSort) String() string {
	return string(s)
}

func (s AuctionSort) IsValid() bool {
	for _, candidate := range validAuctionSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// AuctionSorts returns the accepted keys in display order.
func AuctionSorts() []AuctionSort {
	out := make([]AuctionSort, len(validAuctionSorts))
	copy(out, validAuctionSorts)
	return out
}

// ParseAuctionSort converts raw input into AuctionSort.
func ParseAuctionSort(value string) (AuctionSort, error) {
	for _, candidate := range validAuctionSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auction sort %q", value)
}
