package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/lllkojlhuk/sushikub/models"
	"github.com/lllkojlhuk/sushikub/utils"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Role  string `json:"role"`
}

type authResponse struct {
	User     userResponse `json:"user"`
	JWTToken string       `json:"jwtToken"`
}

// HandleLogin validates admin credentials and issues a JWT.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return sendBadRequestError(c, "Invalid request body")
	}

	login := utils.SanitizeString(req.Login)
	if !models.ValidateLogin(login) {
		return sendBadRequestError(c, "Invalid login format")
	}
	if !models.ValidatePassword(req.Password) {
		return sendBadRequestError(c, "Invalid password format")
	}

	user, err := models.FindUserByLogin(login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendBadRequestError(c, "User with this login not found")
		}
		return sendInternalServerError(c, "Login failed", err)
	}

	if user.Role != models.RoleAdmin {
		return sendForbiddenError(c, "Access denied. Admin only.")
	}

	if !user.CheckPassword(req.Password) {
		return sendBadRequestError(c, "Invalid password")
	}

	token, err := utils.GenerateToken(user.ID, user.Login, user.Role)
	if err != nil {
		return sendInternalServerError(c, "Login failed", err)
	}

	return c.JSON(authResponse{
		User:     userResponse{ID: user.ID, Login: user.Login, Role: user.Role},
		JWTToken: token,
	})
}

// HandleAuthCheck reissues a fresh token for an authenticated principal.
func HandleAuthCheck(c *fiber.Ctx) error {
	claims := currentUser(c)
	if claims == nil {
		return sendUnauthorizedError(c, "Authorization header is required")
	}

	token, err := utils.GenerateToken(claims.UserID, claims.Login, claims.Role)
	if err != nil {
		return sendInternalServerError(c, "Token refresh failed", err)
	}

	return c.JSON(authResponse{
		User:     userResponse{ID: claims.UserID, Login: claims.Login, Role: claims.Role},
		JWTToken: token,
	})
}
