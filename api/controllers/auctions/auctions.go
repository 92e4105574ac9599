package auctions

import (
	"net/http"

	"github.com/angelmondragon/gradevault-backend/api/responses"
	internalauctions "github.com/angelmondragon/gradevault-backend/internal/auctions"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/angelmondragon/gradevault-backend/pkg/logger"
)

// List serves the public auction browse page.
func List(svc internalauctions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auction service unavailable"))
			return
		}

		query, err := internalauctions.BuildQuery(internalauctions.RawQueryFromValues(r.URL.Query()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListAuctions(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
