package model

// Patient represents one person attended by the clinic.
// This is a pure domain model with no database-specific dependencies or tags.
// JSON field names match the column names of the patients table, which is the
// compatibility contract with the existing frontend and stored data.
//
// Optional attributes are pointers so that absent values round-trip as null.
// The dni column was uniquely constrained in early schema generations; the
// constraint was removed by migration and dni is no longer unique nor required.
type Patient struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	DNI       *string `json:"dni"`
	Birthdate *string `json:"birthdate"`
	Gender    *string `json:"gender"`
	Phone     *string `json:"phone"`
	Edad      *int    `json:"edad"`
	Domicilio *string `json:"domicilio"`
}
