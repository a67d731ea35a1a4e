package token

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/WQTY-MASTER/SGMS/models"
)

// roleTag is the namespace prefix the wire format carries on the role claim.
// Tagging and untagging happen only here, at the serialization edge; the rest
// of the application works with the models.Role enum.
const roleTag = "ROLE_"

// Identity is the authenticated subject a token encodes
type Identity struct {
	Username string
	Role     models.Role
}

// Claims are the signed fields embedded in a token
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"` // wire form: "ROLE_" + uppercase role
}

// Identity resolves the claims back into a domain identity, stripping the
// role namespace tag
func (c *Claims) Identity() (Identity, error) {
	role, err := models.ParseRole(untagRole(c.Role))
	if err != nil {
		return Identity{}, err
	}
	return Identity{Username: c.Subject, Role: role}, nil
}

func tagRole(r models.Role) string {
	return roleTag + strings.ToUpper(r.String())
}

func untagRole(s string) string {
	return strings.TrimPrefix(strings.ToUpper(s), roleTag)
}
