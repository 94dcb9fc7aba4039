package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type catalogHandler struct {
	repo port.CatalogRepository
	log  logrus.FieldLogger
}

// NewCatalogRouter serves products and stock levels, the two lookups the cart makes.
func NewCatalogRouter(repo port.CatalogRepository, log logrus.FieldLogger) *mux.Router {
	h := &catalogHandler{repo: repo, log: log}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("catalog"), loggingMiddleware(log))

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", h.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/stock/{id:[0-9]+}", h.getStock).Methods(http.MethodGet)

	return r
}

func (h *catalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *catalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id is not a number")
		return
	}

	product, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *catalogHandler) getStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id is not a number")
		return
	}

	stock, err := h.repo.GetStock(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stock)
}

func (h *catalogHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.log.WithError(err).Error("catalog lookup failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
