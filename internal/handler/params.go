package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// pathID binds the {id} path parameter. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeFail(w, http.StatusBadRequest, "invalid id: must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryParam binds an optional form-style query parameter into dest, which
// must be a pointer to a pointer. On failure it writes a 400 and returns false.
func queryParam(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid query parameter "+name)
		return false
	}
	return true
}

// pagination binds ?page= and ?limit=.
func pagination(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	var page, limit *int
	if !queryParam(w, r, "page", &page) || !queryParam(w, r, "limit", &limit) {
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}

// destinationType binds ?type= and validates it against the enum.
func destinationType(w http.ResponseWriter, r *http.Request) (*domain.DestinationType, bool) {
	var raw *string
	if !queryParam(w, r, "type", &raw) {
		return nil, false
	}
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := domain.ParseDestinationType(*raw)
	if err != nil {
		writeFail(w, http.StatusBadRequest, unwrapMessage(err, domain.ErrValidation))
		return nil, false
	}
	return &t, true
}

// reorderRequest is the body of PATCH /reorder.
type reorderRequest struct {
	DestinationIDs *[]string `json:"destinationIds"`
}

// reorderIDs decodes and parses the reorder body.
func reorderIDs(w http.ResponseWriter, r *http.Request) ([]uuid.UUID, bool) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	if req.DestinationIDs == nil {
		writeFail(w, http.StatusBadRequest, "destinationIds must be an array")
		return nil, false
	}
	ids := make([]uuid.UUID, 0, len(*req.DestinationIDs))
	for _, raw := range *req.DestinationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "destinationIds must contain only valid ids")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
