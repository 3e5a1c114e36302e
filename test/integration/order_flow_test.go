package integration

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/biofad/lis/internal/domain/catalog"
	"github.com/biofad/lis/internal/domain/identity"
	"github.com/biofad/lis/internal/domain/orders"
	"github.com/biofad/lis/internal/domain/portal"
)

func strPtr(s string) *string { return &s }

// TestOrderLifecycle walks an order from intake through result loading
// against a real database: patient created from the intake payload,
// placeholder rows seeded, values reconciled and the state advanced.
func TestOrderLifecycle(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	truncateAll(t, ctx, pool)

	patientRepo := identity.NewPatientRepoPG(pool)
	physicianRepo := identity.NewPhysicianRepoPG(pool)
	determinationRepo := catalog.NewDeterminationRepoPG(pool)
	orderRepo := orders.NewOrderRepoPG(pool)
	resultRepo := orders.NewResultRepoPG(pool)

	catalogSvc := catalog.NewService(determinationRepo)
	ordersSvc := orders.NewService(orderRepo, resultRepo, patientRepo, physicianRepo, determinationRepo)

	for _, dto := range []*catalog.CreateDeterminationDTO{
		{NBU: "660252", Nombre: "Glucemia", UnidadesResultado: strPtr("mg/dl"), ValoresReferencia: strPtr("70 - 110")},
		{NBU: "660951", Nombre: "Uremia", UnidadesResultado: strPtr("mg/dl"), ValoresReferencia: strPtr("15 - 50")},
	} {
		if _, err := catalogSvc.CreateDetermination(ctx, dto); err != nil {
			t.Fatalf("seed catalog: %v", err)
		}
	}

	o, err := ordersSvc.CreateOrder(ctx, &orders.CreateOrderDTO{
		DNIPaciente:          strPtr("30111222"),
		ApellidoNombre:       "García, Ana",
		NombreMedico:         strPtr("Dr. Pérez"),
		ListaDeterminaciones: []string{"660252", "660951"},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.Estado != orders.EstadoPendiente {
		t.Fatalf("new order should be Pendiente, got %s", o.Estado)
	}

	seeded, err := resultRepo.ListByOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("list seeded results: %v", err)
	}
	if len(seeded) != 2 {
		t.Fatalf("expected 2 placeholder rows, got %d", len(seeded))
	}

	err = ordersSvc.ReconcileResults(ctx, o.ID, &orders.ReconcileResultsDTO{
		Resultados: []orders.ResultEntryDTO{
			{NBU: "660252", Valor: "102"},
			{NBU: "660951", Valor: "34"},
		},
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	detail, err := ordersSvc.GetOrderDetail(ctx, o.ID)
	if err != nil {
		t.Fatalf("order detail: %v", err)
	}
	if detail.Estado != orders.EstadoEnProceso {
		t.Errorf("expected En Proceso, got %s", detail.Estado)
	}
	if len(detail.ResultadosGuardados) != 2 {
		t.Fatalf("expected 2 saved results, got %d", len(detail.ResultadosGuardados))
	}
	for _, r := range detail.ResultadosGuardados {
		if r.Unidades != "mg/dl" || r.Valor == nil {
			t.Errorf("result %s not enriched: %+v", r.NBU, r)
		}
	}

	// Dropping one code from the submission deletes its row.
	err = ordersSvc.ReconcileResults(ctx, o.ID, &orders.ReconcileResultsDTO{
		Resultados: []orders.ResultEntryDTO{{NBU: "660252", Valor: "102"}},
	})
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	remaining, _ := resultRepo.ListByOrder(ctx, o.ID)
	if len(remaining) != 1 || remaining[0].NBU != "660252" {
		t.Fatalf("expected only 660252 to remain, got %d rows", len(remaining))
	}
}

// TestPortalAccess registers a portal account for an existing patient and
// verifies login plus the ownership check on order detail.
func TestPortalAccess(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	truncateAll(t, ctx, pool)

	patientRepo := identity.NewPatientRepoPG(pool)
	physicianRepo := identity.NewPhysicianRepoPG(pool)
	determinationRepo := catalog.NewDeterminationRepoPG(pool)
	orderRepo := orders.NewOrderRepoPG(pool)
	resultRepo := orders.NewResultRepoPG(pool)
	credentialRepo := portal.NewCredentialRepoPG(pool)

	ordersSvc := orders.NewService(orderRepo, resultRepo, patientRepo, physicianRepo, determinationRepo)
	portalSvc := portal.NewService(credentialRepo, patientRepo, physicianRepo, orderRepo, resultRepo, determinationRepo, bcrypt.MinCost)

	o, err := ordersSvc.CreateOrder(ctx, &orders.CreateOrderDTO{
		DNIPaciente:          strPtr("30111222"),
		ApellidoNombre:       "García, Ana",
		ListaDeterminaciones: []string{"660252"},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := portalSvc.Register(ctx, &portal.RegisterDTO{
		DNI: "30111222", Password: "secreto123", PacienteID: o.PatientID,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	profile, err := portalSvc.Login(ctx, &portal.LoginDTO{DNI: "30111222", Password: "secreto123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if profile.Nombre != "García, Ana" {
		t.Errorf("unexpected profile: %+v", profile)
	}

	if _, err := portalSvc.OrderDetail(ctx, o.ID, "30111222"); err != nil {
		t.Errorf("owner should access order: %v", err)
	}
	if _, err := portalSvc.OrderDetail(ctx, o.ID, "99999999"); err == nil {
		t.Error("foreign dni must not access order")
	}

	// Not Completado yet, so the results listing stays empty.
	summaries, err := portalSvc.CompletedOrders(ctx, "30111222")
	if err != nil {
		t.Fatalf("completed orders: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no completed orders, got %d", len(summaries))
	}

	if err := orderRepo.UpdateEstado(ctx, o.ID, orders.EstadoCompletado); err != nil {
		t.Fatalf("complete order: %v", err)
	}
	summaries, _ = portalSvc.CompletedOrders(ctx, "30111222")
	if len(summaries) != 1 {
		t.Errorf("expected 1 completed order, got %d", len(summaries))
	}
}
