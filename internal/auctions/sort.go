package auctions

import "github.com/angelmondragon/gradevault-backend/pkg/enums"

// Direction of an ordering.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// OrderField names a sortable listing attribute.
type OrderField string

const (
	OrderEndTime      OrderField = "end_time"
	OrderCreatedAt    OrderField = "created_at"
	OrderCurrentPrice OrderField = "current_price"
	OrderBidCount     OrderField = "bid_count"
)

// Ordering is a single sort key. No tie-break is applied; equal keys follow storage order.
type Ordering struct {
	Field     OrderField
	Direction Direction
}

var orderings = map[enums.AuctionSort]Ordering{
	enums.AuctionSortEndingSoon:     {Field: OrderEndTime, Direction: Asc},
	enums.AuctionSortRecentlyListed: {Field: OrderCreatedAt, Direction: Desc},
	enums.AuctionSortPriceAsc:       {Field: OrderCurrentPrice, Direction: Asc},
	enums.AuctionSortPriceDesc:      {Field: OrderCurrentPrice, Direction: Desc},
	enums.AuctionSortMostBids:       {Field: OrderBidCount, Direction: Desc},
}

// ResolveSort maps a sort key to its ordering. A nil key resolves to ending-soon.
func ResolveSort(key *enums.AuctionSort) Ordering {
	if key != nil {
		if o, ok := orderings[*key]; ok {
			return o
		}
	}
	return orderings[enums.AuctionSortEndingSoon]
}
