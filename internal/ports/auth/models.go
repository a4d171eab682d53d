package auth

// Claims es la identidad verificada que acompaña al request.
// Role viene del identity provider (p.ej. "dentist", "receptionist",
// "admin") y puede venir vacío.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
