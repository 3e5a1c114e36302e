package orders

import "time"

// Order states. Transitions only move forward; Completado is written by the
// reporting pipeline, never by this service.
const (
	EstadoPendiente  = "Pendiente"
	EstadoEnProceso  = "En Proceso"
	EstadoCompletado = "Completado"
)

// Result row states.
const (
	ResultadoPendiente = "Pendiente"
	ResultadoCargado   = "Cargado"
)

// Order maps to the ordenes table. The requested determination codes are
// stored denormalized as a text array rather than a join table.
type Order struct {
	ID             int64     `db:"id" json:"id"`
	Protocolo      string    `db:"protocolo" json:"protocolo"`
	PatientID      int64     `db:"id_paciente" json:"id_paciente"`
	PhysicianID    *int64    `db:"id_medico" json:"id_medico,omitempty"`
	Determinations []string  `db:"lista_determinaciones_nbu" json:"lista_determinaciones_nbu"`
	Estado         string    `db:"estado" json:"estado"`
	FechaCreacion  time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// Result maps to the resultados table; one row per (order, nbu).
type Result struct {
	ID         int64      `db:"id" json:"id"`
	OrderID    int64      `db:"id_orden" json:"id_orden"`
	NBU        string     `db:"nbu" json:"nbu"`
	Valor      *string    `db:"valor" json:"valor"`
	Estado     string     `db:"estado" json:"estado"`
	FechaCarga *time.Time `db:"fecha_carga" json:"fecha_carga,omitempty"`
}

// OrderSummary is one row of the order work list, with patient and physician
// names joined in.
type OrderSummary struct {
	ID             int64     `json:"id"`
	Protocolo      string    `json:"protocolo"`
	FechaCreacion  time.Time `json:"fecha_creacion"`
	Estado         string    `json:"estado"`
	ApellidoNombre string    `json:"apellido_nombre"`
	DNI            string    `json:"dni"`
	MedicoNombre   *string   `json:"medico_nombre"`
}

// ResultDetail is a stored result enriched with its catalog entry for the
// loading screen.
type ResultDetail struct {
	NBU           string  `json:"nbu"`
	Valor         *string `json:"valor"`
	Nombre        string  `json:"nombre"`
	Tipo          string  `json:"tipo"`
	Unidades      string  `json:"unidades"`
	VR            string  `json:"vr"`
	OpcionesLista string  `json:"opciones_lista"`
	EsPerfil      bool    `json:"es_perfil"`
	HijosNBU      string  `json:"hijos_nbu"`
}

// OrderDetail is the full order view: order fields, flattened patient and
// physician data, enriched results and a pointer to the next pending order.
type OrderDetail struct {
	ID                   int64          `json:"id"`
	Protocolo            string         `json:"protocolo"`
	Estado               string         `json:"estado"`
	ListaDeterminaciones []string       `json:"lista_determinaciones_nbu"`
	ApellidoNombre       string         `json:"apellido_nombre"`
	DNI                  string         `json:"dni"`
	Email                string         `json:"email"`
	ObraSocial           string         `json:"obra_social"`
	Domicilio            string         `json:"domicilio"`
	Telefono             string         `json:"telefono"`
	NroAfiliado          string         `json:"nro_afiliado"`
	FechaNacimiento      string         `json:"fecha_nacimiento"`
	MedicoNombre         string         `json:"medico_nombre"`
	ResultadosGuardados  []ResultDetail `json:"resultados_guardados"`
	SiguienteID          *int64         `json:"siguiente_id"`
}

// CreateOrderDTO is the camelCase intake payload: inline patient data, an
// optional physician and the requested determination codes.
type CreateOrderDTO struct {
	DNIPaciente          *string  `json:"dniPaciente"`
	ApellidoNombre       string   `json:"apellidoNombre"`
	FechaNacimiento      *string  `json:"fechaNacimiento"`
	Telefono             *string  `json:"telefono"`
	Email                *string  `json:"email"`
	Domicilio            *string  `json:"domicilio"`
	ObraSocial           *string  `json:"obraSocial"`
	NroAfiliado          *string  `json:"nroAfiliado"`
	MatriculaMedico      *string  `json:"matriculaMedico"`
	NombreMedico         *string  `json:"nombreMedico"`
	ListaDeterminaciones []string `json:"listaDeterminaciones"`
}

// ResultEntryDTO is one loaded value in a reconcile request.
type ResultEntryDTO struct {
	NBU   string `json:"nbu"`
	Valor string `json:"valor"`
}

// ReconcilePatientDTO carries inline patient corrections made on the result
// loading screen. Field names follow that form, not the patient endpoints.
type ReconcilePatientDTO struct {
	Nombre    string  `json:"nombre"`
	DNI       *string `json:"dni"`
	OS        *string `json:"os"`
	Email     *string `json:"email"`
	Domicilio *string `json:"domicilio"`
	Telefono  *string `json:"telefono"`
	Medico    *string `json:"medico"`
}

// ReconcileResultsDTO is the full replacement set submitted for an order.
type ReconcileResultsDTO struct {
	Paciente   *ReconcilePatientDTO `json:"paciente"`
	Resultados []ResultEntryDTO     `json:"resultados"`
}
