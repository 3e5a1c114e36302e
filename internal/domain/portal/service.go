package portal

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/biofad/lis/internal/domain/catalog"
	"github.com/biofad/lis/internal/domain/identity"
	"github.com/biofad/lis/internal/domain/orders"
	"github.com/biofad/lis/pkg/apperror"
)

// medicoSinEspecificar fills the medico field when an order has no attached
// physician.
const medicoSinEspecificar = "Sin especificar"

type Service struct {
	credentials    CredentialRepository
	patients       identity.PatientRepository
	physicians     identity.PhysicianRepository
	orders         orders.OrderRepository
	results        orders.ResultRepository
	determinations catalog.DeterminationRepository
	bcryptCost     int
}

func NewService(
	credentials CredentialRepository,
	patients identity.PatientRepository,
	physicians identity.PhysicianRepository,
	orderRepo orders.OrderRepository,
	results orders.ResultRepository,
	determinations catalog.DeterminationRepository,
	bcryptCost int,
) *Service {
	return &Service{
		credentials:    credentials,
		patients:       patients,
		physicians:     physicians,
		orders:         orderRepo,
		results:        results,
		determinations: determinations,
		bcryptCost:     bcryptCost,
	}
}

// errBadCredentials is the single answer for unknown dni, inactive account
// and wrong password, so the login form leaks nothing about which it was.
func errBadCredentials() error {
	return apperror.Unauthorized("credenciales inválidas")
}

// Login checks the dni/password pair against the active credential set and
// returns the reduced patient profile. ultimo_acceso is stamped best effort.
func (s *Service) Login(ctx context.Context, dto *LoginDTO) (*Profile, error) {
	if dto.DNI == "" || dto.Password == "" {
		return nil, apperror.Validation("dni y password son requeridos")
	}

	cred, err := s.credentials.GetActiveByDNI(ctx, dto.DNI)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, errBadCredentials()
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(dto.Password)) != nil {
		return nil, errBadCredentials()
	}

	_ = s.credentials.TouchLastAccess(ctx, cred.ID)

	p, err := s.patients.GetByID(ctx, cred.PatientID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:       p.ID,
		Nombre:   p.FullName,
		DNI:      cred.DNI,
		Email:    p.Email,
		Telefono: p.Phone,
	}, nil
}

// Register creates a portal credential for an existing patient. The caller
// names the patient by id and proves it with the matching dni.
func (s *Service) Register(ctx context.Context, dto *RegisterDTO) error {
	if dto.DNI == "" || dto.Password == "" || dto.PacienteID == 0 {
		return apperror.Validation("datos incompletos")
	}

	p, err := s.patients.GetByID(ctx, dto.PacienteID)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound("paciente no encontrado")
	}
	if err != nil {
		return err
	}
	if p.DNI == nil || *p.DNI != dto.DNI {
		return apperror.Validation("el DNI no coincide con el paciente")
	}

	if _, err := s.credentials.GetByDNI(ctx, dto.DNI); err == nil {
		return apperror.Conflict("ya existe un usuario con este DNI")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.credentials.Create(ctx, &Credential{
		DNI:          dto.DNI,
		PasswordHash: string(hash),
		PatientID:    p.ID,
		Active:       true,
	})
}

// CompletedOrders lists the patient's Completado orders, newest first. The
// dni must belong to a known patient.
func (s *Service) CompletedOrders(ctx context.Context, dni string) ([]CompletedOrder, error) {
	p, err := s.patients.GetByDNI(ctx, dni)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NotFound("paciente no encontrado")
	}
	if err != nil {
		return nil, err
	}
	summaries, err := s.orders.ListCompletedByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]CompletedOrder, 0, len(summaries))
	for _, sum := range summaries {
		row := CompletedOrder{
			IDOrden:   sum.ID,
			Protocolo: sum.Protocolo,
			Fecha:     sum.FechaCreacion,
			Medico:    medicoSinEspecificar,
			Estado:    sum.Estado,
		}
		if sum.MedicoNombre != nil && *sum.MedicoNombre != "" {
			row.Medico = *sum.MedicoNombre
		}
		out = append(out, row)
	}
	return out, nil
}

// errNoAccess hides whether the order exists at all from callers that do not
// own it.
func errNoAccess() error {
	return apperror.NotFound("orden no encontrada o no tiene acceso")
}

// OrderDetail returns the order only when the owning patient's dni matches,
// with each result joined to its catalog entry.
func (s *Service) OrderDetail(ctx context.Context, orderID int64, dni string) (*OrderView, error) {
	if dni == "" {
		return nil, apperror.Validation("dni es requerido")
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, errNoAccess()
	}
	if err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, o.PatientID)
	if err != nil {
		return nil, err
	}
	if p.DNI == nil || *p.DNI != dni {
		return nil, errNoAccess()
	}

	stored, err := s.results.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	view := &OrderView{
		ID:         o.ID,
		Protocolo:  o.Protocolo,
		Fecha:      o.FechaCreacion,
		Estado:     o.Estado,
		Paciente:   p.FullName,
		Medico:     medicoSinEspecificar,
		Resultados: make([]ResultView, 0, len(stored)),
	}
	if o.PhysicianID != nil {
		if m, err := s.physicians.GetByID(ctx, *o.PhysicianID); err == nil {
			view.Medico = m.FullName
		}
	}
	for _, r := range stored {
		rv := ResultView{
			NBU:        r.NBU,
			Nombre:     r.NBU,
			Valor:      r.Valor,
			Estado:     r.Estado,
			FechaCarga: r.FechaCarga,
		}
		if d, err := s.determinations.GetByNBU(ctx, r.NBU); err == nil {
			rv.Nombre = d.Name
			if d.ResultUnits != nil {
				rv.Unidades = *d.ResultUnits
			}
			if d.ReferenceValues != nil {
				rv.ValoresReferencia = *d.ReferenceValues
			}
		}
		view.Resultados = append(view.Resultados, rv)
	}
	return view, nil
}
