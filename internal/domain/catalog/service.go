package catalog

import (
	"context"

	"github.com/biofad/lis/pkg/apperror"
)

type Service struct {
	determinations DeterminationRepository
}

func NewService(determinations DeterminationRepository) *Service {
	return &Service{determinations: determinations}
}

var validResultTypes = map[string]bool{
	ResultTypeNumeric: true,
	ResultTypeText:    true,
	ResultTypeList:    true,
}

func (s *Service) CreateDetermination(ctx context.Context, dto *CreateDeterminationDTO) (*Determination, error) {
	if dto.NBU == "" {
		return nil, apperror.Validation("nbu es requerido")
	}
	if dto.Nombre == "" {
		return nil, apperror.Validation("nombre es requerido")
	}

	d := &Determination{
		NBU:             dto.NBU,
		Name:            dto.Nombre,
		UB:              dto.UB,
		Method:          dto.Metodo,
		ChildNBUs:       dto.HijosNBU,
		ResultType:      ResultTypeNumeric,
		ResultUnits:     dto.UnidadesResultado,
		ReferenceValues: dto.ValoresReferencia,
		ListOptions:     dto.OpcionesLista,
		Active:          true,
	}
	if dto.EsPerfil != nil {
		d.IsProfile = *dto.EsPerfil
	}
	if dto.TipoResultado != nil && *dto.TipoResultado != "" {
		d.ResultType = *dto.TipoResultado
	}
	if !validResultTypes[d.ResultType] {
		return nil, apperror.Validation("tipoResultado inválido: %s", d.ResultType)
	}

	if err := s.determinations.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetDetermination(ctx context.Context, id int64) (*Determination, error) {
	return s.determinations.GetByID(ctx, id)
}

func (s *Service) ListDeterminations(ctx context.Context) ([]*Determination, error) {
	return s.determinations.ListActive(ctx)
}

func (s *Service) UpdateDetermination(ctx context.Context, id int64, dto *UpdateDeterminationDTO) (*Determination, error) {
	d, err := s.determinations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.NBU != "" {
		d.NBU = dto.NBU
	}
	if dto.Nombre != "" {
		d.Name = dto.Nombre
	}
	if dto.UB != nil {
		d.UB = dto.UB
	}
	if dto.Metodo != nil {
		d.Method = dto.Metodo
	}
	if dto.EsPerfil != nil {
		d.IsProfile = *dto.EsPerfil
	}
	if dto.HijosNBU != nil {
		d.ChildNBUs = dto.HijosNBU
	}
	if dto.TipoResultado != nil && *dto.TipoResultado != "" {
		if !validResultTypes[*dto.TipoResultado] {
			return nil, apperror.Validation("tipoResultado inválido: %s", *dto.TipoResultado)
		}
		d.ResultType = *dto.TipoResultado
	}
	if dto.UnidadesResultado != nil {
		d.ResultUnits = dto.UnidadesResultado
	}
	if dto.ValoresReferencia != nil {
		d.ReferenceValues = dto.ValoresReferencia
	}
	if dto.OpcionesLista != nil {
		d.ListOptions = dto.OpcionesLista
	}

	if err := s.determinations.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDetermination flips the active flag; rows are never removed so old
// orders keep resolving their codes.
func (s *Service) DeleteDetermination(ctx context.Context, id int64) error {
	return s.determinations.SoftDelete(ctx, id)
}
