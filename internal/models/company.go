package models

type CompanyStatus string

const (
	CompanyStatusActive  CompanyStatus = "active"
	CompanyStatusBlocked CompanyStatus = "blocked"
	CompanyStatusPending CompanyStatus = "pending"
)

// Company is owned by the corporate billing system; this service only reads
// it to gate bookings against the credit limit.
type Company struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name"`
	CreditLimit float64       `json:"credit_limit" bson:"credit_limit"`
	UsedCredit  float64       `json:"used_credit" bson:"used_credit"`
	Status      CompanyStatus `json:"status" bson:"status"`
}
