package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biofad/lis/internal/platform/middleware"
)

type stubOrderLister struct {
	byPatient map[int64][]OrderSummary
}

func (s *stubOrderLister) ListRecentByPatient(_ context.Context, patientID int64, limit int) ([]OrderSummary, error) {
	out := s.byPatient[patientID]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestServer(svc *Service, lister RecentOrderLister) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(zerolog.Nop(), true)
	NewHandler(svc, lister).RegisterRoutes(e.Group("/api"))
	return e
}

func TestHandlerSearchByDNI_NullWhenMissing(t *testing.T) {
	svc, _ := newTestService()
	e := newTestServer(svc, &stubOrderLister{})

	for _, path := range []string{"/api/pacientes", "/api/pacientes?dni=99999999"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != "null" {
			t.Errorf("%s: expected JSON null, got %s", path, rec.Body.String())
		}
	}
}

func TestHandlerSearchByDNI_Found(t *testing.T) {
	svc, _ := newTestService()
	e := newTestServer(svc, &stubOrderLister{})
	svc.CreatePatient(context.Background(), &CreatePatientDTO{
		DNI:            strPtr("30111222"),
		ApellidoNombre: "García, Ana",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/pacientes?dni=30111222", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var p Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if p.FullName != "García, Ana" {
		t.Errorf("unexpected patient: %s", rec.Body.String())
	}
}

func TestHandlerGetPatient_EmbedsRecentOrders(t *testing.T) {
	svc, _ := newTestService()
	p, _ := svc.CreatePatient(context.Background(), &CreatePatientDTO{
		DNI:            strPtr("30111222"),
		ApellidoNombre: "García, Ana",
	})
	lister := &stubOrderLister{byPatient: map[int64][]OrderSummary{
		p.ID: {{ID: 7, Protocolo: "20240315123", Estado: "Pendiente", FechaCreacion: time.Now()}},
	}}
	e := newTestServer(svc, lister)

	req := httptest.NewRequest(http.MethodGet, "/api/pacientes/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ApellidoNombre string         `json:"apellido_nombre"`
		Ordenes        []OrderSummary `json:"ordenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.ApellidoNombre != "García, Ana" || len(resp.Ordenes) != 1 || resp.Ordenes[0].ID != 7 {
		t.Errorf("unexpected detail: %s", rec.Body.String())
	}
}

func TestHandlerGetPatient_EmptyOrdersIsArray(t *testing.T) {
	svc, _ := newTestService()
	svc.CreatePatient(context.Background(), &CreatePatientDTO{ApellidoNombre: "García, Ana"})
	e := newTestServer(svc, &stubOrderLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/pacientes/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"ordenes":[]`) {
		t.Errorf("orders must serialize as [], got %s", rec.Body.String())
	}
}

func TestHandlerCreatePatient(t *testing.T) {
	svc, _ := newTestService()
	e := newTestServer(svc, &stubOrderLister{})

	body := `{"dni":"30111222","apellidoNombre":"García, Ana","fechaNacimiento":"1985-07-20"}`
	req := httptest.NewRequest(http.MethodPost, "/api/pacientes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"apellido_nombre":"García, Ana"`) {
		t.Errorf("expected snake_case body, got %s", rec.Body.String())
	}
}

func TestHandlerCreatePatient_MissingName(t *testing.T) {
	svc, _ := newTestService()
	e := newTestServer(svc, &stubOrderLister{})

	req := httptest.NewRequest(http.MethodPost, "/api/pacientes", strings.NewReader(`{"dni":"30111222"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp middleware.ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Success || resp.Error == "" {
		t.Errorf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestHandlerUpdatePatient(t *testing.T) {
	svc, _ := newTestService()
	svc.CreatePatient(context.Background(), &CreatePatientDTO{
		DNI:            strPtr("30111222"),
		ApellidoNombre: "García, Ana",
	})
	e := newTestServer(svc, &stubOrderLister{})

	body := `{"telefono":"1155550000"}`
	req := httptest.NewRequest(http.MethodPut, "/api/pacientes/1", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"telefono":"1155550000"`) {
		t.Errorf("expected phone persisted: %s", rec.Body.String())
	}
}
