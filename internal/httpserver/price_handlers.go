package httpserver

import (
	"net/http"

	pricelistusecase "philagro/backend/internal/usecase/pricelist"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListPrices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	entries, err := s.deps.Prices.List(r.Context(), pricelistusecase.ListInput{
		SugarMill: query.Get("sugarMill"),
		Grade:     query.Get("grade"),
		From:      query.Get("from"),
		To:        query.Get("to"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"prices": entries}, "")
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	entry, err := s.deps.Prices.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"price": entry}, "")
}

func (s *Server) handleCreatePrice(w http.ResponseWriter, r *http.Request) {
	var payload pricelistusecase.CreateInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	entry, err := s.deps.Prices.Create(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"price": entry}, "price published")
}

func (s *Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	var payload pricelistusecase.UpdateInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	entry, err := s.deps.Prices.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"price": entry}, "price updated")
}

func (s *Server) handleDeletePrice(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Prices.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
