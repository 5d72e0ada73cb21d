package middleware

import (
	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that admits only users holding one of the
// given roles. The role is re-read from the database, not trusted from the
// token, so a demoted or deleted account is cut off immediately.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		for _, role := range roles {
			if user.Role == role {
				c.Locals("currentUser", user)
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}

// CurrentUser returns the user loaded by RequireRole, falling back to a
// lookup by the token's user id on routes without a role gate.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	if user, ok := c.Locals("currentUser").(models.User); ok {
		return user, true
	}

	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return models.User{}, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return models.User{}, false
	}
	c.Locals("currentUser", user)
	return user, true
}
