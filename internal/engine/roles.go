package engine

type Role string

const (
	RoleCaptain Role = "captain"
	RoleGK      Role = "gk"
	RolePK      Role = "pk"
	RoleCK      Role = "ck"
	RoleFK      Role = "fk"
)

var AllRoles = []Role{RoleCaptain, RoleGK, RolePK, RoleCK, RoleFK}

func (r Role) Valid() bool {
	switch r {
	case RoleCaptain, RoleGK, RolePK, RoleCK, RoleFK:
		return true
	}
	return false
}

// Roles is not checked against placement: a role may name a player who is
// not currently on the field or bench.
type Roles map[Role]string
