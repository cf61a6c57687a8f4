package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"

	"csmanager_backend/internals/configs"
	authService "csmanager_backend/internals/features/users/auth/service"
	userDTO "csmanager_backend/internals/features/users/user/dto"
	userModel "csmanager_backend/internals/features/users/user/model"
	helper "csmanager_backend/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

var validate = validator.New()

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type googleClaims struct {
	Email     string
	FirstName string
	LastName  string
}

// verifyGoogleToken is a package seam so tests can stub the upstream
// verifier.
var verifyGoogleToken = func(credential string) (googleClaims, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(credential, []string{configs.GoogleClientID}); err != nil {
		return googleClaims{}, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(credential)
	if err != nil {
		return googleClaims{}, err
	}
	return googleClaims{
		Email:     claimSet.Email,
		FirstName: claimSet.GivenName,
		LastName:  claimSet.FamilyName,
	}, nil
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	var user userModel.UserModel
	err := ctl.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to look up account")
	}
	if !authService.CheckPassword(user.Password, req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := authService.CreateAccessToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	authService.SetAuthCookie(c, token)

	return helper.JsonOK(c, "Logged in", fiber.Map{
		"access_token": token,
		"user":         userDTO.FromUserModel(user),
	})
}

// POST /api/auth/google-login
// Exchanges a verified Google identity token for a session. Unknown emails
// are auto-provisioned as candidate accounts when GOOGLE_AUTO_PROVISION is
// on; otherwise they are rejected.
func (ctl *AuthController) GoogleLogin(c *fiber.Ctx) error {
	var req googleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	claims, err := verifyGoogleToken(req.Credential)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Google credential could not be verified")
	}
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Google credential carries no email")
	}

	var user userModel.UserModel
	err = ctl.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if !configs.GoogleAutoProvision {
			return helper.JsonError(c, fiber.StatusForbidden, "No account exists for this email")
		}
		user = userModel.UserModel{
			Email:     email,
			Username:  email,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Role:      userModel.RoleCandidate,
		}
		if err := ctl.DB.Create(&user).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to provision account")
		}
	} else if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to look up account")
	}

	token, err := authService.CreateAccessToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	authService.SetAuthCookie(c, token)

	return helper.JsonOK(c, "Logged in", fiber.Map{
		"access_token": token,
		"user":         userDTO.FromUserModel(user),
	})
}

// POST /api/auth/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	authService.ClearAuthCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/users/me
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var user userModel.UserModel
	if err := ctl.DB.First(&user, userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load account")
	}
	return helper.JsonOK(c, "Account loaded", userDTO.FromUserModel(user))
}
