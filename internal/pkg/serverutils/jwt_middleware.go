package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

// JwtMiddleware verifies the bearer token and stores user_id and role in Locals.
// Tokens are issued elsewhere; this service only verifies them.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return Unauthorized("Missing token")
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return Unauthorized("Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return Unauthorized("Invalid claims")
		}

		userId, _ := claims["user_id"].(string)
		if userId == "" {
			return Unauthorized("Invalid claims")
		}
		role, _ := claims["role"].(string)

		ctx.Locals("user_id", userId)
		ctx.Locals("role", role)
		return ctx.Next()
	}
}

// AdminOnly must run after JwtMiddleware.
func AdminOnly(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals("role").(string)
	if role != RoleAdmin {
		return Forbidden("Access denied: Admins only")
	}
	return ctx.Next()
}
