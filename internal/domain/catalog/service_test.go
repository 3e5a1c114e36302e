package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/biofad/lis/pkg/apperror"
)

type memDeterminationRepo struct {
	rows   map[int64]*Determination
	nextID int64
}

func newMemRepo() *memDeterminationRepo {
	return &memDeterminationRepo{rows: make(map[int64]*Determination)}
}

func (r *memDeterminationRepo) Create(_ context.Context, d *Determination) error {
	for _, existing := range r.rows {
		if existing.NBU == d.NBU {
			return apperror.Conflict("ya existe una determinación con ese NBU")
		}
	}
	r.nextID++
	d.ID = r.nextID
	d.CreatedAt = time.Now()
	cp := *d
	r.rows[d.ID] = &cp
	return nil
}

func (r *memDeterminationRepo) GetByID(_ context.Context, id int64) (*Determination, error) {
	d, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("determinación")
	}
	cp := *d
	return &cp, nil
}

func (r *memDeterminationRepo) GetByNBU(_ context.Context, nbu string) (*Determination, error) {
	for _, d := range r.rows {
		if d.NBU == nbu {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("determinación")
}

func (r *memDeterminationRepo) ListActive(_ context.Context) ([]*Determination, error) {
	out := make([]*Determination, 0)
	for id := int64(1); id <= r.nextID; id++ {
		if d, ok := r.rows[id]; ok && d.Active {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memDeterminationRepo) Update(_ context.Context, d *Determination) error {
	if _, ok := r.rows[d.ID]; !ok {
		return apperror.NotFound("determinación %d", d.ID)
	}
	cp := *d
	r.rows[d.ID] = &cp
	return nil
}

func (r *memDeterminationRepo) SoftDelete(_ context.Context, id int64) error {
	d, ok := r.rows[id]
	if !ok {
		return apperror.NotFound("determinación %d", id)
	}
	d.Active = false
	return nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateDetermination_Defaults(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	d, err := svc.CreateDetermination(context.Background(), &CreateDeterminationDTO{
		NBU: "660252", Nombre: "Glucemia",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ResultType != ResultTypeNumeric {
		t.Errorf("expected default tipo numerico, got %s", d.ResultType)
	}
	if !d.Active {
		t.Error("expected new determination active")
	}
}

func TestCreateDetermination_Validation(t *testing.T) {
	svc := NewService(newMemRepo())
	cases := []struct {
		name string
		dto  CreateDeterminationDTO
	}{
		{"missing nbu", CreateDeterminationDTO{Nombre: "Glucemia"}},
		{"missing nombre", CreateDeterminationDTO{NBU: "660252"}},
		{"bad tipo", CreateDeterminationDTO{NBU: "660252", Nombre: "Glucemia", TipoResultado: strPtr("rango")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateDetermination(context.Background(), &tc.dto); !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDetermination_DuplicateNBU(t *testing.T) {
	svc := NewService(newMemRepo())
	dto := &CreateDeterminationDTO{NBU: "660252", Nombre: "Glucemia"}
	if _, err := svc.CreateDetermination(context.Background(), dto); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateDetermination(context.Background(), dto); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateDetermination_Partial(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	d, _ := svc.CreateDetermination(context.Background(), &CreateDeterminationDTO{
		NBU: "660252", Nombre: "Glucemia", UnidadesResultado: strPtr("mg/dl"),
	})

	updated, err := svc.UpdateDetermination(context.Background(), d.ID, &UpdateDeterminationDTO{
		ValoresReferencia: strPtr("70 - 110"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ReferenceValues == nil || *updated.ReferenceValues != "70 - 110" {
		t.Error("expected valores_referencia set")
	}
	if updated.ResultUnits == nil || *updated.ResultUnits != "mg/dl" {
		t.Error("untouched field must survive a partial update")
	}
	if updated.Name != "Glucemia" {
		t.Errorf("name must survive, got %s", updated.Name)
	}
}

func TestUpdateDetermination_Profile(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	d, _ := svc.CreateDetermination(context.Background(), &CreateDeterminationDTO{
		NBU: "660900", Nombre: "Hepatograma",
	})

	updated, err := svc.UpdateDetermination(context.Background(), d.ID, &UpdateDeterminationDTO{
		EsPerfil: boolPtr(true),
		HijosNBU: strPtr("660010,660020,660030"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.IsProfile || updated.ChildNBUs == nil {
		t.Errorf("expected profile flags set: %+v", updated)
	}
}

func TestDeleteDetermination_SoftHidesFromList(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	d, _ := svc.CreateDetermination(context.Background(), &CreateDeterminationDTO{
		NBU: "660252", Nombre: "Glucemia",
	})

	if err := svc.DeleteDetermination(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, _ := svc.ListDeterminations(context.Background())
	if len(items) != 0 {
		t.Fatalf("soft-deleted row must not list, got %d", len(items))
	}
	// Row survives for old orders that still resolve the code.
	if _, err := repo.GetByNBU(context.Background(), "660252"); err != nil {
		t.Fatalf("row should still exist: %v", err)
	}
}
