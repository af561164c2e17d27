package user

type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleFarmer Role = "FARMER"
	RoleDriver Role = "DRIVER"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleFarmer, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       uint
	Name     string
	Email    string
	Password string
	Role     Role
	District string
}
