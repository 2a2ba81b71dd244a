package model

// MedicalRecord is a single visit entry tied to one patient.
// patient_id, date and diagnosis are mandatory; every vital-sign and note
// field is optional and serializes as null when absent.
//
// PatientName is only populated by the joined list query; it is not a column
// of medical_records and is omitted from JSON when empty.
type MedicalRecord struct {
	ID                     int      `json:"id"`
	PatientID              int      `json:"patient_id"`
	PatientName            string   `json:"patient_name,omitempty"`
	Date                   string   `json:"date"`
	Weight                 *float64 `json:"weight"`
	Diagnosis              string   `json:"diagnosis"`
	Treatment              *string  `json:"treatment"`
	Antecedentes           *string  `json:"antecedentes"`
	MotivoConsulta         *string  `json:"motivo_consulta"`
	ExamenClinico          *string  `json:"examen_clinico"`
	ExamenLaboratorio      *string  `json:"examen_laboratorio"`
	Temperatura            *float64 `json:"temperatura"`
	FrecuenciaRespiratoria *int     `json:"frecuencia_respiratoria"`
	Pulso                  *int     `json:"pulso"`
	Spo2                   *int     `json:"spo2"`
}
