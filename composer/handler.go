package composer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/geowatt/s1graph/ee"
	"github.com/geowatt/s1graph/s1"
	"github.com/geowatt/s1graph/service/log"
)

// products served by the handler
var products = map[string]bool{
	"collection": true,
	"mosaic":     true,
	"timescan":   true,
	"harmonics":  true,
}

func (c *Composer) NewHandler() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)
	r.HandleFunc("/s1/defaults", c.DefaultsHandler).Methods("GET")
	r.HandleFunc("/s1/{product}", c.ProductHandler).Methods("POST")
	r.HandleFunc("/s1/{product}/viz", c.VizHandler).Methods("GET")
	r.HandleFunc("/s1/{product}/compute", c.ComputeHandler).Methods("POST")
	return r
}

// requestLogger tags the context logger with a request id
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := log.With(req.Context(), "request", uuid.New().String(), "path", req.URL.Path)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// DefaultsHandler returns the default collection options
func (c *Composer) DefaultsHandler(w http.ResponseWriter, req *http.Request) {
	json.NewEncoder(w).Encode(defaults())
}

func decodeRequest(req *http.Request) (*Request, error) {
	var r Request
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decodeRequest.%w", err)
	}
	return &r, nil
}

// ProductHandler assembles the product and returns its serialized expression
func (c *Composer) ProductHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	product := mux.Vars(req)["product"]
	if !products[product] {
		w.WriteHeader(404)
		return
	}
	r, err := decodeRequest(req)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "%v", err)
		return
	}
	object, err := r.product(ctx, product)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "%v", err)
		return
	}
	expression, err := ee.Serialize(object)
	if err != nil {
		log.Logger(ctx).Warn("serialize", zap.String("product", product), zap.Error(err))
		w.WriteHeader(500)
		fmt.Fprintf(w, "%v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expression)
}

// ComputeHandler assembles the product and evaluates it on the platform
func (c *Composer) ComputeHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	product := mux.Vars(req)["product"]
	if !products[product] {
		w.WriteHeader(404)
		return
	}
	if c.Client == nil {
		w.WriteHeader(503)
		fmt.Fprint(w, "no platform client is configured")
		return
	}
	r, err := decodeRequest(req)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "%v", err)
		return
	}
	object, err := r.product(ctx, product)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "%v", err)
		return
	}
	result, err := c.Client.ComputeValue(ctx, object)
	if err != nil {
		log.Logger(ctx).Warn("compute", zap.String("product", product), zap.Error(err))
		w.WriteHeader(500)
		fmt.Fprintf(w, "%v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(result)
}

// VizHandler returns the default visualization parameters of the bands given
// in the bands query parameter
func (c *Composer) VizHandler(w http.ResponseWriter, req *http.Request) {
	product := mux.Vars(req)["product"]
	bands := strings.Split(req.URL.Query().Get("bands"), ",")
	var (
		params s1.VizParams
		err    error
	)
	switch product {
	case "mosaic":
		params, err = s1.MosaicVizParams(bands)
	case "timescan":
		params, err = s1.TimescanVizParams(bands)
	default:
		w.WriteHeader(404)
		return
	}
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "%v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(params)
}
