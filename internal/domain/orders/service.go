package orders

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/biofad/lis/internal/domain/catalog"
	"github.com/biofad/lis/internal/domain/identity"
	"github.com/biofad/lis/pkg/apperror"
)

// License value assigned when a physician arrives with a name but no
// matricula.
const unlicensedSentinel = "S/M"

type Service struct {
	orders         OrderRepository
	results        ResultRepository
	patients       identity.PatientRepository
	physicians     identity.PhysicianRepository
	determinations catalog.DeterminationRepository
	now            func() time.Time
}

func NewService(
	orders OrderRepository,
	results ResultRepository,
	patients identity.PatientRepository,
	physicians identity.PhysicianRepository,
	determinations catalog.DeterminationRepository,
) *Service {
	return &Service{
		orders:         orders,
		results:        results,
		patients:       patients,
		physicians:     physicians,
		determinations: determinations,
		now:            time.Now,
	}
}

// newProtocolo builds the order protocol number: the current date plus a
// random three digit suffix. Two orders created the same day can collide;
// protocolo carries no unique constraint on purpose, the number is a human
// reference, not a key.
func (s *Service) newProtocolo() string {
	return s.now().Format("20060102") + strconv.Itoa(rand.Intn(900)+100)
}

// resolvePatient finds the patient by dni or creates a new row from the
// intake payload. A dni that matches nothing also creates a row, so the
// same person can end up duplicated across intakes.
func (s *Service) resolvePatient(ctx context.Context, dto *CreateOrderDTO) (*identity.Patient, error) {
	if dto.DNIPaciente != nil && *dto.DNIPaciente != "" {
		p, err := s.patients.GetByDNI(ctx, *dto.DNIPaciente)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
	}

	var birth *time.Time
	if dto.FechaNacimiento != nil && *dto.FechaNacimiento != "" {
		t, err := time.Parse("2006-01-02", *dto.FechaNacimiento)
		if err != nil {
			return nil, apperror.Validation("fechaNacimiento debe tener formato AAAA-MM-DD")
		}
		birth = &t
	}

	p := &identity.Patient{
		DNI:          dto.DNIPaciente,
		FullName:     dto.ApellidoNombre,
		BirthDate:    birth,
		Phone:        dto.Telefono,
		Email:        dto.Email,
		Address:      dto.Domicilio,
		Insurer:      dto.ObraSocial,
		MemberNumber: dto.NroAfiliado,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// resolvePhysician returns the id of the ordering physician. A physician is
// only resolved or created when the payload carries a name; a matricula on
// its own is ignored. Stored rows are reused untouched, name corrections
// happen later on the loading screen.
func (s *Service) resolvePhysician(ctx context.Context, dto *CreateOrderDTO) (*int64, error) {
	if dto.NombreMedico == nil || *dto.NombreMedico == "" {
		return nil, nil
	}

	license := dto.MatriculaMedico
	if license != nil && *license == "" {
		license = nil
	}

	if license != nil {
		m, err := s.physicians.GetByLicense(ctx, *license)
		if err == nil {
			return &m.ID, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
	}

	m := &identity.Physician{License: license, FullName: *dto.NombreMedico}
	if err := s.physicians.Create(ctx, m); err != nil {
		return nil, err
	}
	return &m.ID, nil
}

// CreateOrder registers a new order: resolves patient and physician, mints a
// protocol number and seeds one Pendiente result row per requested code.
// The writes run as sequential statements, not a transaction.
func (s *Service) CreateOrder(ctx context.Context, dto *CreateOrderDTO) (*Order, error) {
	if dto.ApellidoNombre == "" {
		return nil, apperror.Validation("apellidoNombre es requerido")
	}

	patient, err := s.resolvePatient(ctx, dto)
	if err != nil {
		return nil, err
	}
	physicianID, err := s.resolvePhysician(ctx, dto)
	if err != nil {
		return nil, err
	}

	codes := dto.ListaDeterminaciones
	if codes == nil {
		codes = []string{}
	}
	o := &Order{
		Protocolo:      s.newProtocolo(),
		PatientID:      patient.ID,
		PhysicianID:    physicianID,
		Determinations: codes,
		Estado:         EstadoPendiente,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	for _, nbu := range codes {
		r := &Result{OrderID: o.ID, NBU: nbu, Estado: ResultadoPendiente}
		if err := s.results.Create(ctx, r); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// overwritePatient replaces every demographic column with the reconciled
// payload. Fields absent from the payload are set to NULL.
func (s *Service) overwritePatient(ctx context.Context, patientID int64, dto *ReconcilePatientDTO) error {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return err
	}
	p.FullName = dto.Nombre
	p.DNI = dto.DNI
	p.Insurer = dto.OS
	p.Email = dto.Email
	p.Address = dto.Domicilio
	p.Phone = dto.Telefono
	return s.patients.Update(ctx, p)
}

func (s *Service) reconcilePhysician(ctx context.Context, o *Order, name string) error {
	if o.PhysicianID != nil {
		return s.physicians.UpdateName(ctx, *o.PhysicianID, name)
	}
	license := unlicensedSentinel
	m := &identity.Physician{License: &license, FullName: name}
	if err := s.physicians.Create(ctx, m); err != nil {
		return err
	}
	return s.orders.AttachPhysician(ctx, o.ID, m.ID)
}

// ReconcileResults replaces the stored result set of an order with the
// submitted one: loaded values are upserted in Cargado, rows absent from the
// submission are deleted, and the order moves to En Proceso. An order already
// Completado is left untouched.
func (s *Service) ReconcileResults(ctx context.Context, orderID int64, dto *ReconcileResultsDTO) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Estado == EstadoCompletado {
		return apperror.Conflict("la orden %d ya está completada", orderID)
	}

	if dto.Paciente != nil {
		if err := s.overwritePatient(ctx, o.PatientID, dto.Paciente); err != nil {
			return err
		}
		if dto.Paciente.Medico != nil && *dto.Paciente.Medico != "" {
			if err := s.reconcilePhysician(ctx, o, *dto.Paciente.Medico); err != nil {
				return err
			}
		}
	}

	keep := make([]string, 0, len(dto.Resultados))
	for _, entry := range dto.Resultados {
		keep = append(keep, entry.NBU)
		loadedAt := s.now()
		valor := entry.Valor

		existing, err := s.results.GetByOrderAndNBU(ctx, orderID, entry.NBU)
		switch {
		case err == nil:
			existing.Valor = &valor
			existing.Estado = ResultadoCargado
			existing.FechaCarga = &loadedAt
			if err := s.results.Update(ctx, existing); err != nil {
				return err
			}
		case errors.Is(err, apperror.ErrNotFound):
			r := &Result{
				OrderID:    orderID,
				NBU:        entry.NBU,
				Valor:      &valor,
				Estado:     ResultadoCargado,
				FechaCarga: &loadedAt,
			}
			if err := s.results.Create(ctx, r); err != nil {
				return err
			}
		default:
			return err
		}
	}

	if err := s.results.DeleteByOrderExcept(ctx, orderID, keep); err != nil {
		return err
	}
	return s.orders.UpdateEstado(ctx, orderID, EstadoEnProceso)
}

// ListOrders returns the work list page plus the total row count.
func (s *Service) ListOrders(ctx context.Context, limit, offset int) ([]*OrderSummary, int, error) {
	return s.orders.List(ctx, limit, offset)
}

// enrichResult joins a stored result with its catalog entry. Codes missing
// from the catalog still render, with the nbu standing in for the name.
func (s *Service) enrichResult(ctx context.Context, r *Result) ResultDetail {
	detail := ResultDetail{
		NBU:    r.NBU,
		Valor:  r.Valor,
		Nombre: r.NBU,
		Tipo:   catalog.ResultTypeNumeric,
	}
	d, err := s.determinations.GetByNBU(ctx, r.NBU)
	if err != nil {
		return detail
	}
	detail.Nombre = d.Name
	detail.Tipo = d.ResultType
	detail.Unidades = deref(d.ResultUnits)
	detail.VR = deref(d.ReferenceValues)
	detail.OpcionesLista = deref(d.ListOptions)
	detail.EsPerfil = d.IsProfile
	detail.HijosNBU = deref(d.ChildNBUs)
	return detail
}

// GetOrderDetail assembles the loading screen payload: order, flattened
// patient, physician name, catalog-enriched results and the id of the next
// order still waiting in Pendiente.
func (s *Service) GetOrderDetail(ctx context.Context, id int64) (*OrderDetail, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, o.PatientID)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{
		ID:                   o.ID,
		Protocolo:            o.Protocolo,
		Estado:               o.Estado,
		ListaDeterminaciones: o.Determinations,
		ApellidoNombre:       p.FullName,
		DNI:                  deref(p.DNI),
		Email:                deref(p.Email),
		ObraSocial:           deref(p.Insurer),
		Domicilio:            deref(p.Address),
		Telefono:             deref(p.Phone),
		NroAfiliado:          deref(p.MemberNumber),
	}
	if p.BirthDate != nil {
		detail.FechaNacimiento = p.BirthDate.Format("2006-01-02")
	}
	if o.PhysicianID != nil {
		m, err := s.physicians.GetByID(ctx, *o.PhysicianID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			detail.MedicoNombre = m.FullName
		}
	}

	stored, err := s.results.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.ResultadosGuardados = make([]ResultDetail, 0, len(stored))
	for _, r := range stored {
		detail.ResultadosGuardados = append(detail.ResultadosGuardados, s.enrichResult(ctx, r))
	}

	next, err := s.orders.NextPendingAfter(ctx, id)
	if err != nil {
		return nil, err
	}
	if next != 0 {
		detail.SiguienteID = &next
	}
	return detail, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
