package domain

// Profile is the end-user record tickets are filed under. It is managed
// outside this service.
type Profile struct {
	ID        string
	FirstName string
	Surname   string
	Email     string
	Phone     string
}

// Company groups profiles; looked up by exact name.
type Company struct {
	ID   string
	Name string
}
