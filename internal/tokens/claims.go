package tokens

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

func (c *AccessClaims) UserID() (uint, error) {
	return subjectID(c.Subject)
}

func (c *RefreshClaims) UserID() (uint, error) {
	return subjectID(c.Subject)
}

func subjectID(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("bad subject %q", sub)
	}
	return uint(id), nil
}
