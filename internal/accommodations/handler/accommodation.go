package handler

import (
	"net/http"
	"strconv"
	"strings"

	"steadyhotel/internal/accommodations/service"
	apperrors "steadyhotel/pkg/errors"
	httputil "steadyhotel/pkg/http"
	"steadyhotel/pkg/logger"
	"steadyhotel/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AccommodationHandler struct {
	service service.AccommodationService
	log     *logger.Logger
}

func NewAccommodationHandler(service service.AccommodationService, log *logger.Logger) *AccommodationHandler {
	return &AccommodationHandler{
		service: service,
		log:     log,
	}
}

func (h *AccommodationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	accommodation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, accommodation)
}

func (h *AccommodationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	accommodations, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, accommodations, total, limit, offset)
}

func (h *AccommodationHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	accommodations, total, err := h.service.Search(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, accommodations, total, limit, offset)
}

func (h *AccommodationHandler) GetImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	images, err := h.service.GetImages(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, images)
}

func parseFilter(r *http.Request) (*model.AccommodationFilter, error) {
	query := r.URL.Query()
	filter := &model.AccommodationFilter{
		SearchTerm: strings.TrimSpace(query.Get("q")),
		SortBy:     query.Get("sort_by"),
		SortDesc:   query.Get("sort_desc") == "true",
	}

	if v := query.Get("price_min"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid price_min parameter")
		}
		filter.PriceMin = &parsed
	}
	if v := query.Get("price_max"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid price_max parameter")
		}
		filter.PriceMax = &parsed
	}
	if v := query.Get("min_guests"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid min_guests parameter")
		}
		filter.MinGuests = &parsed
	}
	if v := query.Get("amenities"); v != "" {
		for _, amenity := range strings.Split(v, ",") {
			if amenity = strings.TrimSpace(amenity); amenity != "" {
				filter.Amenities = append(filter.Amenities, amenity)
			}
		}
	}

	return filter, nil
}

func (h *AccommodationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/accommodations", h.GetAll)
	router.GET("/api/v1/accommodations/id/:id", h.GetByID)
	router.GET("/api/v1/accommodations/id/:id/images", h.GetImages)
	router.GET("/api/v1/accommodations/search", h.Search)
}
