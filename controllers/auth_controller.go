package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/palette/art-club-go/apperrors"
	config "github.com/palette/art-club-go/config"
	middleware "github.com/palette/art-club-go/middleware"
	models "github.com/palette/art-club-go/models"
	repository "github.com/palette/art-club-go/repository"
	services "github.com/palette/art-club-go/services"
)

// Only institute addresses may register.
const instituteEmailDomain = "@iitgn.ac.in"

func newUserRepo(cfg *config.Config) *repository.UserRepository {
	return repository.NewUserRepository(cfg.MongoClient.Database(cfg.DBName))
}

// generateVerificationCode returns a 6-digit numeric code.
func generateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

func signToken(cfg *config.Config, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":      user.ID.Hex(),
		"isAdmin": user.IsAdmin,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ---------------- REGISTER ----------------

func Register(cfg *config.Config) gin.HandlerFunc {
	repo := newUserRepo(cfg)
	notifier := services.EmailNotifier{}
	return func(c *gin.Context) {
		var input struct {
			InstituteEmail string `json:"institute_email"`
			PersonalEmail  string `json:"personal_email"`
			Password       string `json:"password"`
			Name           string `json:"name"`
			RollNumber     string `json:"roll_number"`
			PhoneNumber    string `json:"phone_number"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		input.InstituteEmail = strings.ToLower(strings.TrimSpace(input.InstituteEmail))
		input.PersonalEmail = strings.ToLower(strings.TrimSpace(input.PersonalEmail))

		if !strings.HasSuffix(input.InstituteEmail, instituteEmailDomain) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "institute email must end with " + instituteEmailDomain})
			return
		}
		if input.PersonalEmail == "" || input.Password == "" || input.Name == "" || input.RollNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please enter all required fields"})
			return
		}
		if len(input.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters long"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		exists, err := repo.Exists(ctx, input.InstituteEmail, input.PersonalEmail, input.RollNumber)
		if err != nil {
			respondError(c, err)
			return
		}
		if exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user with provided institute email, personal email or roll number already exists"})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, err)
			return
		}

		code := generateVerificationCode()
		expires := time.Now().Add(time.Hour)
		now := time.Now()

		user := &models.User{
			InstituteEmail:          input.InstituteEmail,
			PersonalEmail:           input.PersonalEmail,
			Password:                string(hashed),
			Name:                    input.Name,
			RollNumber:              input.RollNumber,
			PhoneNumber:             input.PhoneNumber,
			VerificationCode:        code,
			VerificationCodeExpires: &expires,
			CreatedAt:               now,
			UpdatedAt:               now,
		}
		if err := repo.Insert(ctx, user); err != nil {
			respondError(c, err)
			return
		}

		body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Thank you for registering for a Palette account.</p>
<p>Your verification code is: <strong>%s</strong></p>
<p>This code will expire in 1 hour.</p>
<p>If you did not create this account, you can safely ignore this email.</p>
<p>The Palette Team</p>`, user.Name, code)

		if err := notifier.Send(ctx, user.InstituteEmail, user.Name, "Verify your Palette account email", body); err != nil {
			log.Warn("verification email failed", zap.String("email", user.InstituteEmail), zap.Error(err))
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":         "user registered successfully, please check your institute email for the verification code",
			"institute_email": user.InstituteEmail,
		})
	}
}

// ---------------- VERIFY ----------------

func VerifyCode(cfg *config.Config) gin.HandlerFunc {
	repo := newUserRepo(cfg)
	return func(c *gin.Context) {
		var input struct {
			InstituteEmail   string `json:"institute_email"`
			VerificationCode string `json:"verification_code"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := repo.FindByInstituteEmail(ctx, strings.ToLower(strings.TrimSpace(input.InstituteEmail)))
		if err != nil {
			respondError(c, err)
			return
		}

		if user.IsVerified {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already verified"})
			return
		}
		if user.VerificationCode == "" || user.VerificationCode != input.VerificationCode {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification code"})
			return
		}
		if user.VerificationCodeExpires == nil || user.VerificationCodeExpires.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification code expired"})
			return
		}

		set := bson.M{"is_verified": true}
		unset := bson.M{"verification_code": "", "verification_code_expires": ""}
		if _, err := repo.Update(ctx, user.ID, set, unset); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "email verified successfully, you can now log in"})
	}
}

// ---------------- LOGIN ----------------

func Login(cfg *config.Config) gin.HandlerFunc {
	repo := newUserRepo(cfg)
	return func(c *gin.Context) {
		var input struct {
			LoginIdentifier string `json:"login_identifier"`
			Password        string `json:"password"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := repo.FindByLoginIdentifier(ctx, strings.ToLower(strings.TrimSpace(input.LoginIdentifier)))
		if err != nil {
			// Same response for unknown user and wrong password.
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}

		if !user.IsVerified {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please verify your institute email first"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := signToken(cfg, user)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":             user.ID.Hex(),
				"name":           user.Name,
				"personal_email": user.PersonalEmail,
				"is_admin":       user.IsAdmin,
			},
		})
	}
}

// ---------------- PROFILE ----------------

func Me(cfg *config.Config) gin.HandlerFunc {
	repo := newUserRepo(cfg)
	return func(c *gin.Context) {
		auth, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := repo.FindByID(ctx, auth.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile(cfg *config.Config) gin.HandlerFunc {
	repo := newUserRepo(cfg)
	return func(c *gin.Context) {
		auth, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var input struct {
			Name            string `json:"name"`
			PersonalEmail   string `json:"personal_email"`
			PhoneNumber     string `json:"phone_number"`
			Password        string `json:"password"`
			CurrentPassword string `json:"current_password"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := repo.FindByID(ctx, auth.ID)
		if err != nil {
			respondError(c, err)
			return
		}

		// Institute email, roll number and the admin/verified flags are not
		// editable through this route.
		set := bson.M{}
		if input.Name != "" {
			set["name"] = input.Name
		}
		if input.PersonalEmail != "" {
			set["personal_email"] = strings.ToLower(strings.TrimSpace(input.PersonalEmail))
		}
		if input.PhoneNumber != "" {
			set["phone_number"] = input.PhoneNumber
		}

		if input.Password != "" {
			if input.CurrentPassword == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "please provide current password to update your password"})
				return
			}
			if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)) != nil {
				respondError(c, apperrors.ErrUnauthorized)
				return
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if err != nil {
				respondError(c, err)
				return
			}
			set["password"] = string(hashed)
		}

		updated, err := repo.Update(ctx, auth.ID, set, nil)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
