package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"motoride/internal/config"
	"motoride/internal/handlers"
	"motoride/internal/models"
	"motoride/internal/notifier"
	"motoride/internal/realtime"
	"motoride/internal/repositories/memory"
	"motoride/internal/services"
	"motoride/pkg/logger"
	"motoride/routes"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	repo := memory.NewRideRepository()
	pricing := services.NewPricingService(services.NewStaticSettingsProvider(&config.PricingConfig{
		BasePrice:              5.00,
		PricePerKm:             2.00,
		BikeBasePrice:          4.00,
		BikePricePerKm:         1.50,
		BikeMaxDistanceKM:      8.0,
		DeliveryMotoBasePrice:  6.00,
		DeliveryMotoPricePerKm: 2.20,
	}))
	rideService := services.NewRideService(repo, pricing, services.NewBillingService(nil), realtime.NewLocalChannel(), notifier.NoopNotifier{}, log)
	dispatchService := services.NewDispatchService(repo, &config.DispatchConfig{
		MaxResults:      20,
		DefaultRadiusKM: 10,
		MaxRadiusKM:     50,
	})

	router := gin.New()
	v1 := router.Group("/api/v1")
	routes.SetupRideRoutes(v1, handlers.NewRideHandler(rideService), handlers.NewDispatchHandler(dispatchService), handlers.NewLocationHandler(rideService, nil))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createRideBody() map[string]interface{} {
	return map[string]interface{}{
		"passenger": map[string]interface{}{
			"id":   "p1",
			"name": "Ana",
		},
		"origin": map[string]interface{}{
			"address":     "Av. Paulista, 1000",
			"coordinates": map[string]float64{"latitude": -23.5614, "longitude": -46.6559},
		},
		"destination": map[string]interface{}{
			"address": "Praca da Se",
		},
		"service_type":   "moto_taxi",
		"distance_km":    10,
		"payment_method": "pix",
	}
}

func createRideViaAPI(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/rides", createRideBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("create ride returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if resp.Data.ID == "" {
		t.Fatalf("create response has no ride id: %s", w.Body.String())
	}
	return resp.Data.ID
}

func acceptBody() map[string]interface{} {
	return map[string]interface{}{
		"driver": map[string]interface{}{"id": "d1", "name": "Carlos"},
	}
}

func TestCreateRideEndpoint(t *testing.T) {
	router := newTestRouter(t)

	id := createRideViaAPI(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/rides/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get ride returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.Ride `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if resp.Data.Status != models.RideStatusPending {
		t.Fatalf("expected pending ride, got %s", resp.Data.Status)
	}
	if resp.Data.Price <= 0 {
		t.Fatalf("expected a computed price, got %f", resp.Data.Price)
	}
}

func TestCreateRideEndpointRejectsBadBody(t *testing.T) {
	router := newTestRouter(t)

	body := createRideBody()
	delete(body, "passenger")
	w := doJSON(t, router, http.MethodPost, "/api/v1/rides", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRideLifecycleEndpoints(t *testing.T) {
	router := newTestRouter(t)
	id := createRideViaAPI(t, router)

	if w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/accept", id), acceptBody()); w.Code != http.StatusOK {
		t.Fatalf("accept returned %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/start", id), nil); w.Code != http.StatusOK {
		t.Fatalf("start returned %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/complete", id), nil); w.Code != http.StatusOK {
		t.Fatalf("complete returned %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/payment-confirmed", id), nil); w.Code != http.StatusOK {
		t.Fatalf("payment confirmation returned %d: %s", w.Code, w.Body.String())
	}
}

func TestErrorStatusMapping(t *testing.T) {
	router := newTestRouter(t)

	// unknown ride -> 404
	missing := primitive.NewObjectID().Hex()
	if w := doJSON(t, router, http.MethodGet, "/api/v1/rides/"+missing, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown ride, got %d", w.Code)
	}

	// malformed id -> 400
	if w := doJSON(t, router, http.MethodGet, "/api/v1/rides/not-an-id", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}

	// illegal transition -> 409
	id := createRideViaAPI(t, router)
	if w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/start", id), nil); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 starting a pending ride, got %d", w.Code)
	}

	// double accept -> 409
	if w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/accept", id), acceptBody()); w.Code != http.StatusOK {
		t.Fatalf("accept returned %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/accept", id), acceptBody()); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a second accept, got %d", w.Code)
	}
}

func TestCancelEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := createRideViaAPI(t, router)

	// cancelled_by outside the allowed set -> 400 at binding
	bad := map[string]interface{}{"reason": "changed plans", "cancelled_by": "robot"}
	if w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/cancel", id), bad); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad canceller, got %d", w.Code)
	}

	body := map[string]interface{}{"reason": "changed plans", "cancelled_by": "passenger"}
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/cancel", id), body)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.Ride `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode cancel response: %v", err)
	}
	if resp.Data.Status != models.RideStatusCancelled || resp.Data.CancellationReason != "changed plans" {
		t.Fatalf("unexpected cancelled ride: %+v", resp.Data)
	}
}

func TestNearbyDispatchEndpoint(t *testing.T) {
	router := newTestRouter(t)
	createRideViaAPI(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/dispatch/nearby?latitude=-23.5614&longitude=-46.6559&radius_km=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("nearby returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []models.Ride `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode nearby response: %v", err)
	}
	if resp.Meta.Count != 1 || len(resp.Data) != 1 {
		t.Fatalf("expected one nearby ride, got %+v", resp)
	}
}
