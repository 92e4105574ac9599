package stock

import "github.com/angelmondragon/gradevault-backend/pkg/db/models"

// IsLow reports whether the item is at or below its effective threshold.
func IsLow(item models.StockItem) bool {
	return item.StockCount <= item.EffectiveThreshold()
}

// Partition splits items into low-stock and normal, keeping input order in each.
func Partition(items []models.StockItem) (low, normal []models.StockItem) {
	low = make([]models.StockItem, 0)
	normal = make([]models.StockItem, 0, len(items))
	for _, item := range items {
		if IsLow(item) {
			low = append(low, item)
		} else {
			normal = append(normal, item)
		}
	}
	return low, normal
}
