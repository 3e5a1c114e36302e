package identity

import (
	"context"
	"time"

	"github.com/biofad/lis/pkg/apperror"
)

type Service struct {
	patients   PatientRepository
	physicians PhysicianRepository
}

func NewService(patients PatientRepository, physicians PhysicianRepository) *Service {
	return &Service{patients: patients, physicians: physicians}
}

const birthDateLayout = "2006-01-02"

func parseBirthDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(birthDateLayout, *s)
	if err != nil {
		return nil, apperror.Validation("fechaNacimiento debe tener formato AAAA-MM-DD")
	}
	return &t, nil
}

func (s *Service) CreatePatient(ctx context.Context, dto *CreatePatientDTO) (*Patient, error) {
	if dto.ApellidoNombre == "" {
		return nil, apperror.Validation("apellidoNombre es requerido")
	}
	birth, err := parseBirthDate(dto.FechaNacimiento)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		DNI:          dto.DNI,
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

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetPatientByDNI(ctx context.Context, dni string) (*Patient, error) {
	return s.patients.GetByDNI(ctx, dni)
}

// UpdatePatient applies the non-nil DTO fields over the stored row. Writes
// are last-writer-wins; there is no optimistic concurrency on pacientes.
func (s *Service) UpdatePatient(ctx context.Context, id int64, dto *UpdatePatientDTO) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.DNI != nil {
		p.DNI = dto.DNI
	}
	if dto.ApellidoNombre != "" {
		p.FullName = dto.ApellidoNombre
	}
	if dto.FechaNacimiento != nil {
		birth, err := parseBirthDate(dto.FechaNacimiento)
		if err != nil {
			return nil, err
		}
		p.BirthDate = birth
	}
	if dto.Telefono != nil {
		p.Phone = dto.Telefono
	}
	if dto.Email != nil {
		p.Email = dto.Email
	}
	if dto.Domicilio != nil {
		p.Address = dto.Domicilio
	}
	if dto.ObraSocial != nil {
		p.Insurer = dto.ObraSocial
	}
	if dto.NroAfiliado != nil {
		p.MemberNumber = dto.NroAfiliado
	}

	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
