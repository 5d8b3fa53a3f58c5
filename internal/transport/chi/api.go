package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponseCode is the machine-readable error code of an ErrorResponse.
type ErrorResponseCode string

// Error codes returned by the API.
const (
	ErrorResponseCodeBadRequest      ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized    ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInvalidQuery    ErrorResponseCode = "invalid_query"
	ErrorResponseCodeProductNotFound ErrorResponseCode = "product_not_found"
	ErrorResponseCodeUnavailable     ErrorResponseCode = "catalog_unavailable"
	ErrorResponseCodeInternalError   ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ListProductsParams are the query parameters of GET /products.
type ListProductsParams struct {
	Search     *string   `form:"search,omitempty"`
	Categories *[]string `form:"categories,omitempty"`
	Brands     *[]string `form:"brands,omitempty"`
	PriceMin   *float64  `form:"priceMin,omitempty"`
	PriceMax   *float64  `form:"priceMax,omitempty"`
	Page       *int      `form:"page,omitempty"`
	PageSize   *int      `form:"pageSize,omitempty"`
}

// ServerInterface is the set of handlers the router dispatches to.
type ServerInterface interface {
	// ListProducts handles GET /products.
	ListProducts(w http.ResponseWriter, r *http.Request, params ListProductsParams)
	// GetProduct handles GET /products/{id}.
	GetProduct(w http.ResponseWriter, r *http.Request, id string)
	// GetFacets handles GET /facets.
	GetFacets(w http.ResponseWriter, r *http.Request)
	// HealthCheck handles GET /health.
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Metrics handles GET /metrics.
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ParamErrorHandler renders a parameter binding failure.
type ParamErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// HandlerWithOptions mounts si on router. Query and path parameters are bound
// before the handler runs; binding failures go to onParamError.
func HandlerWithOptions(si ServerInterface, router chi.Router, onParamError ParamErrorHandler) http.Handler {
	if onParamError == nil {
		onParamError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	b := &binder{si: si, onParamError: onParamError}

	router.Get("/products", b.listProducts)
	router.Get("/products/{id}", b.getProduct)
	router.Get("/facets", si.GetFacets)
	router.Get("/health", si.HealthCheck)
	router.Get("/metrics", si.Metrics)
	return router
}

type binder struct {
	si           ServerInterface
	onParamError ParamErrorHandler
}

func (b *binder) listProducts(w http.ResponseWriter, r *http.Request) {
	var params ListProductsParams
	q := r.URL.Query()

	// Sets are comma-joined (explode=false); scalars are plain form values.
	bindings := []struct {
		name    string
		explode bool
		dest    any
	}{
		{"search", true, &params.Search},
		{"categories", false, &params.Categories},
		{"brands", false, &params.Brands},
		{"priceMin", true, &params.PriceMin},
		{"priceMax", true, &params.PriceMax},
		{"page", true, &params.Page},
		{"pageSize", true, &params.PageSize},
	}
	for _, p := range bindings {
		if err := runtime.BindQueryParameter("form", p.explode, false, p.name, q, p.dest); err != nil {
			b.onParamError(w, r, fmt.Errorf("invalid format for parameter %s: %w", p.name, err))
			return
		}
	}

	b.si.ListProducts(w, r, params)
}

func (b *binder) getProduct(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		b.onParamError(w, r, fmt.Errorf("invalid format for parameter id: %w", err))
		return
	}

	b.si.GetProduct(w, r, id)
}
