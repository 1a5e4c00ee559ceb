package constants

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

var AllRoles = []string{RoleAdmin, RoleStudent}
