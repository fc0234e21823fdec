// file: internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/configs"
	userModel "classmanager_backend/internals/features/users/model"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/resperr"
)

const (
	LocUserID          = "user_id"
	LocCurrentMemberID = "current_member_id"
	LocMembership      = "membership"
)

// AuthMiddleware verifies the bearer token (signature, audience, expiry),
// loads the user, and rejects disabled or unknown users. user_id and
// current_member_id land in Locals for downstream guards.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := helper.GetRawAccessToken(c)
		if tokenString == "" {
			return helper.BizError(c, resperr.InvalidToken)
		}
		helper.SetRawAccessToken(c, tokenString)

		if configs.JWTSecret == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return helper.BizError(c, resperr.InternalServerError)
		}

		claims := jwt.MapClaims{}
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithAudience(configs.JWTAudience),
		)
		if _, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(configs.JWTSecret), nil
		}); err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return helper.BizError(c, resperr.TokenExpired)
			}
			return helper.BizError(c, resperr.InvalidToken)
		}
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return helper.BizError(c, resperr.TokenExpired)
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return helper.BizError(c, resperr.InvalidToken)
		}

		var user userModel.UserModel
		if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.BizError(c, resperr.UserNotFound)
			}
			log.Printf("[ERROR] user lookup failed: %v", err)
			return helper.BizError(c, resperr.InternalServerError)
		}
		if user.UserIsDeleted {
			return helper.BizError(c, resperr.UserDisabled)
		}

		c.Locals(LocUserID, user.UserID.String())
		if user.UserCurrentMemberID != nil && *user.UserCurrentMemberID != uuid.Nil {
			c.Locals(LocCurrentMemberID, user.UserCurrentMemberID.String())
		}
		return c.Next()
	}
}

// validateTokenExpiry re-checks exp with a small leeway. The parser already
// validates exp; the leeway keeps clock skew from bouncing fresh tokens.
func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return errors.New("missing exp")
	}
	expFloat, ok := expVal.(float64)
	if !ok {
		return errors.New("malformed exp")
	}
	expTime := time.Unix(int64(expFloat), 0)
	if time.Now().After(expTime.Add(leeway)) {
		return errors.New("token expired")
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}
