package controllers

import (
	"errors"
	"net/mail"
	"strings"

	"glowup/backend/models"
	"glowup/backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

const minPasswordLength = 8

type AuthController struct {
	*Env
}

func NewAuthController(env *Env) *AuthController {
	return &AuthController{Env: env}
}

type RegisterRequest struct {
	Name     string `json:"name" example:"Camille"`
	Email    string `json:"email" example:"camille@example.com" format:"email"`
	Password string `json:"password" example:"glowing123" minLength:"8"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"camille@example.com"`
	Password string `json:"password" example:"glowing123"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user with a default profile and morning routine
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	problems := map[string]string{}
	if input.Name == "" {
		problems["name"] = "Name is required"
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		problems["email"] = "Invalid email address"
	}
	if len(input.Password) < minPasswordLength {
		problems["password"] = "Password must be at least 8 characters"
	}
	if len(problems) > 0 {
		return utils.ValidationError(c, problems)
	}

	var existing int64
	if err := ac.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&existing).Error; err != nil {
		ac.Logger.Error("count users", "err", err)
		return utils.InternalServerError(c, "Could not create user")
	}
	if existing > 0 {
		return utils.Conflict(c, "Email already registered")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	// Create user
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.NewUserProfile(user.ID)
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		routine := models.DefaultRoutine(user.ID)
		return tx.Create(&routine).Error
	})
	if err != nil {
		ac.Logger.Error("create user", "email", input.Email, "err", err)
		return utils.InternalServerError(c, "Could not create user")
	}

	// Generate JWT token
	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.Logger.Info("user registered", "user_id", user.ID)
	return utils.Created(c, fiber.Map{
		"token": token,
		"user":  userView(user),
	})
}

// Login godoc
// @Summary User login
// @Description Checks credentials and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	err := ac.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Unauthorized(c, "Invalid credentials")
	}
	if err != nil {
		ac.Logger.Error("find user", "err", err)
		return utils.InternalServerError(c, "Could not log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  userView(user),
	})
}

func userView(user models.User) fiber.Map {
	return fiber.Map{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	}
}
