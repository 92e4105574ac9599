package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportRequest bounds the sales window of a dashboard report.
type ReportRequest struct {
	Start time.Time
	End   time.Time
}

// SalePoint is one sold listing inside the window.
type SalePoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CategoryCount is the number of listings filed under a category.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// TopSeller ranks a seller by the value of their sold listings.
type TopSeller struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// ActivityType labels a recent activity entry.
type ActivityType string

const (
	ActivitySale    ActivityType = "sale"
	ActivityListing ActivityType = "listing"
)

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID          uuid.UUID    `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Report wraps the admin dashboard result sets.
type Report struct {
	Sales          []SalePoint     `json:"sales"`
	Categories     []CategoryCount `json:"categories"`
	TopSellers     []TopSeller     `json:"top_sellers"`
	RecentActivity []Activity      `json:"recent_activity"`
}
