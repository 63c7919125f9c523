package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/andreasstove999/ecommerce-system/burger-grill-go/internal/catalog"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid categoryId")
			return
		}
		categoryID = id
	}

	products, err := h.catalog.ListProducts(r.Context(), categoryID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "productId")
	if !ok {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid productId")
		return
	}

	p, err := h.catalog.GetProductDetails(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to load product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.catalog.ListIngredients(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to load ingredients")
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "ingredientId")
	if !ok {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid ingredientId")
		return
	}

	ing, err := h.catalog.GetIngredient(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to load ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

type ingredientRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var body ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid json")
		return
	}

	ing, err := h.catalog.CreateIngredient(r.Context(), body.Name)
	if err != nil {
		writeServiceError(w, r, err, "failed to create ingredient")
		return
	}
	writeJSON(w, http.StatusCreated, ing)
}

func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "ingredientId")
	if !ok {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid ingredientId")
		return
	}

	var body ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid json")
		return
	}

	ing := catalog.Ingredient{ID: id, Name: strings.TrimSpace(body.Name)}
	if err := h.catalog.UpdateIngredient(r.Context(), ing); err != nil {
		writeServiceError(w, r, err, "failed to update ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "ingredientId")
	if !ok {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid ingredientId")
		return
	}

	if err := h.catalog.DeleteIngredient(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "failed to delete ingredient")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
