// Explicit caller identity passed into services, instead of ambient
// fiber locals lookups inside business code.
package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"feeportal_backend/internals/constants"
)

var ErrNoActor = errors.New("no authenticated actor in request")

type Actor struct {
	UserID uuid.UUID
	Role   string
	Name   string
}

func (a Actor) IsAdmin() bool   { return a.Role == constants.RoleAdmin }
func (a Actor) IsStudent() bool { return a.Role == constants.RoleStudent }

// FromFiber builds an Actor from the locals set by the auth middleware.
func FromFiber(c *fiber.Ctx) (Actor, error) {
	idStr, ok := c.Locals("user_id").(string)
	if !ok || idStr == "" {
		return Actor{}, ErrNoActor
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Actor{}, ErrNoActor
	}

	role, _ := c.Locals("userRole").(string)
	name, _ := c.Locals("userName").(string)

	return Actor{UserID: id, Role: role, Name: name}, nil
}
