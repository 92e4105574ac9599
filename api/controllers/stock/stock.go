package stock

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/gradevault-backend/api/responses"
	"github.com/angelmondragon/gradevault-backend/api/validators"
	internalstock "github.com/angelmondragon/gradevault-backend/internal/stock"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/angelmondragon/gradevault-backend/pkg/logger"
	"github.com/angelmondragon/gradevault-backend/pkg/pagination"
)

type createItemRequest struct {
	Title             string           `json:"title" validate:"required"`
	Description       string           `json:"description"`
	Price             *decimal.Decimal `json:"price" validate:"required"`
	StockCount        *int             `json:"stock_count" validate:"required,gte=0"`
	Category          string           `json:"category"`
	Condition         string           `json:"condition"`
	Images            []string         `json:"images" validate:"omitempty,dive,url"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,gte=0"`
}

type updateItemRequest struct {
	Title             *string          `json:"title" validate:"omitempty,min=1"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	StockCount        *int             `json:"stock_count" validate:"omitempty,gte=0"`
	Category          *string          `json:"category"`
	Condition         *string          `json:"condition"`
	Images            *[]string        `json:"images" validate:"omitempty,dive,url"`
	LowStockThreshold nullableInt      `json:"low_stock_threshold"`
}

// nullableInt tells an absent field (Set false) from an explicit null
// (Set true, Value nil).
type nullableInt struct {
	Set   bool
	Value *int
}

func (n *nullableInt) UnmarshalJSON(raw []byte) error {
	n.Set = true
	if string(raw) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// List returns stock items newest first, optionally only the low-stock ones.
func List(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		lowOnly, err := validators.ParseQueryBool(r, "low")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), internalstock.ListInput{LowOnly: lowOnly, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func Create(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		var body createItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), internalstock.CreateInput{
			Title:             validators.SanitizeString(body.Title, 255),
			Description:       body.Description,
			Price:             *body.Price,
			StockCount:        *body.StockCount,
			Category:          body.Category,
			Condition:         body.Condition,
			Images:            body.Images,
			LowStockThreshold: body.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func Update(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		id, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, internalstock.UpdateInput{
			Title:             body.Title,
			Description:       body.Description,
			Price:             body.Price,
			StockCount:        body.StockCount,
			Category:          body.Category,
			Condition:         body.Condition,
			Images:            body.Images,
			LowStockThreshold: body.LowStockThreshold.Value,

			ClearLowStockThreshold: body.LowStockThreshold.Set && body.LowStockThreshold.Value == nil,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func Delete(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		id, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// BulkImport accepts a JSON array of spreadsheet rows keyed by column header
// and answers 200 with the import summary.
func BulkImport(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		decoded, err := validators.DecodeJSONRows(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows := make([]internalstock.Row, 0, len(decoded))
		for _, row := range decoded {
			rows = append(rows, internalstock.Row(row))
		}

		result, err := svc.BulkImport(r.Context(), rows)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func Export(svc internalstock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		rows, err := svc.Export(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func parseItemID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "stock item id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock item id")
	}
	return id, nil
}
