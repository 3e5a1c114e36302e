package catalog

import "time"

// Result types a determination can produce.
const (
	ResultTypeNumeric = "numerico"
	ResultTypeText    = "texto"
	ResultTypeList    = "lista"
)

// Determination maps to the determinaciones table: one row per catalog entry,
// identified by its NBU code. Profile entries (es_perfil) bundle child codes.
type Determination struct {
	ID              int64     `db:"id" json:"id"`
	NBU             string    `db:"nbu" json:"nbu"`
	Name            string    `db:"nombre" json:"nombre"`
	UB              *string   `db:"ub" json:"ub,omitempty"`
	Method          *string   `db:"metodo" json:"metodo,omitempty"`
	IsProfile       bool      `db:"es_perfil" json:"es_perfil"`
	ChildNBUs       *string   `db:"hijos_nbu" json:"hijos_nbu,omitempty"`
	ResultType      string    `db:"tipo_resultado" json:"tipo_resultado"`
	ResultUnits     *string   `db:"unidades_resultado" json:"unidades_resultado,omitempty"`
	ReferenceValues *string   `db:"valores_referencia" json:"valores_referencia,omitempty"`
	ListOptions     *string   `db:"opciones_lista" json:"opciones_lista,omitempty"`
	Active          bool      `db:"activo" json:"activo"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateDeterminationDTO carries the camelCase request body; its tags are the
// mapping between the API surface and the snake_case columns above.
type CreateDeterminationDTO struct {
	NBU               string  `json:"nbu"`
	Nombre            string  `json:"nombre"`
	UB                *string `json:"ub"`
	Metodo            *string `json:"metodo"`
	EsPerfil          *bool   `json:"esPerfil"`
	HijosNBU          *string `json:"hijosNbu"`
	TipoResultado     *string `json:"tipoResultado"`
	UnidadesResultado *string `json:"unidadesResultado"`
	ValoresReferencia *string `json:"valoresReferencia"`
	OpcionesLista     *string `json:"opcionesLista"`
}

// UpdateDeterminationDTO is the partial-update body; nil fields are left
// untouched.
type UpdateDeterminationDTO = CreateDeterminationDTO
