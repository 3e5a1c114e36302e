package identity

import "time"

// Patient maps to the pacientes table. National ID (dni) is optional and not
// unique at the schema level; walk-ins are registered without one.
type Patient struct {
	ID           int64      `db:"id" json:"id"`
	DNI          *string    `db:"dni" json:"dni"`
	FullName     string     `db:"apellido_nombre" json:"apellido_nombre"`
	BirthDate    *time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento,omitempty"`
	Phone        *string    `db:"telefono" json:"telefono,omitempty"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Address      *string    `db:"domicilio" json:"domicilio,omitempty"`
	Insurer      *string    `db:"obra_social" json:"obra_social,omitempty"`
	MemberNumber *string    `db:"nro_afiliado" json:"nro_afiliado,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Physician maps to the medicos table. The license number (matricula) is
// optional; physicians created during result loading get the sentinel "S/M".
type Physician struct {
	ID        int64     `db:"id" json:"id"`
	License   *string   `db:"matricula" json:"matricula"`
	FullName  string    `db:"nombre_completo" json:"nombre_completo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OrderSummary is the reduced order view embedded in a patient detail
// response. The orders domain adapts its own rows into this shape.
type OrderSummary struct {
	ID             int64     `json:"id"`
	Protocolo      string    `json:"protocolo"`
	Estado         string    `json:"estado"`
	FechaCreacion  time.Time `json:"fecha_creacion"`
	Determinations []string  `json:"lista_determinaciones_nbu"`
}

// CreatePatientDTO carries the camelCase request body for patient creation.
// The struct tags are the single place where API field names map onto the
// snake_case storage columns in Patient.
type CreatePatientDTO struct {
	DNI             *string `json:"dni"`
	ApellidoNombre  string  `json:"apellidoNombre"`
	FechaNacimiento *string `json:"fechaNacimiento"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	Domicilio       *string `json:"domicilio"`
	ObraSocial      *string `json:"obraSocial"`
	NroAfiliado     *string `json:"nroAfiliado"`
}

// UpdatePatientDTO is the partial-update body; nil fields are left untouched.
type UpdatePatientDTO = CreatePatientDTO
