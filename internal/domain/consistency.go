package domain

// Discrepancy names one pair of fields that disagree between an application
// row and the user's mirror fields.
type Discrepancy struct {
	Field            string `json:"field"`
	UserValue        string `json:"user_value"`
	ApplicationValue string `json:"application_value"`
}

// ConsistencyReport is the diagnostic output for one user. Drift is reported
// as data, never as an error, and never auto-repaired.
type ConsistencyReport struct {
	UserID        int32         `json:"user_id"`
	Consistent    bool          `json:"consistent"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}
