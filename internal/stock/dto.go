package stock

import (
	"time"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is the admin view of a stock item.
type ItemDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	StockCount         int             `json:"stock_count"`
	Category           string          `json:"category"`
	Condition          string          `json:"condition"`
	Images             []string        `json:"images"`
	LowStockThreshold  *int            `json:"low_stock_threshold"`
	EffectiveThreshold int             `json:"effective_threshold"`
	IsLowStock         bool            `json:"is_low_stock"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func NewItemDTO(item models.StockItem) ItemDTO {
	return ItemDTO{
		ID:                 item.ID,
		Title:              item.Title,
		Description:        item.Description,
		Price:              item.Price,
		StockCount:         item.StockCount,
		Category:           item.Category,
		Condition:          item.Condition,
		Images:             append([]string{}, item.Images...),
		LowStockThreshold:  item.LowStockThreshold,
		EffectiveThreshold: item.EffectiveThreshold(),
		IsLowStock:         IsLow(item),
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
}

// ImportResult is returned by a committed bulk import.
type ImportResult struct {
	Message string `json:"message"`
	Created int    `json:"created"`
}

// ExportRow mirrors the import spreadsheet so an export can be re-imported.
type ExportRow struct {
	Title             string          `json:"Title"`
	Description       string          `json:"Description"`
	Price             decimal.Decimal `json:"Price"`
	StockCount        int             `json:"Stock Count"`
	Category          string          `json:"Category"`
	Condition         string          `json:"Condition"`
	LowStockThreshold int             `json:"Low Stock Threshold"`
}

func NewExportRow(item models.StockItem) ExportRow {
	return ExportRow{
		Title:             item.Title,
		Description:       item.Description,
		Price:             item.Price,
		StockCount:        item.StockCount,
		Category:          item.Category,
		Condition:         item.Condition,
		LowStockThreshold: item.EffectiveThreshold(),
	}
}
