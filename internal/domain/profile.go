package domain

// Profile is the customer data on file. Only the order finalizer mutates it,
// and only to fill in fields collected during checkout.
type Profile struct {
	CustomerID int64
	Name       string
	Phone      string
	Address    string
}
