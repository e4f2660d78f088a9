package devapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/smolensk-traffic/portal/internal/models"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	Admin       models.User `json:"admin"`
}

// login authenticates any account. A non-empty role restricts which
// accounts may use the endpoint.
func (s *Server) login(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var acc Account
		if err := s.db.Where("email = ?", req.Email).First(&acc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			s.logger.Error().Err(err).Msg("Failed to find account")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if len(allowed) > 0 && !roleIn(acc.Role, allowed) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied for role " + string(acc.Role)})
			return
		}

		token, err := s.tokens.Issue(&acc)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to generate token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		s.logger.Info().Str("account_id", acc.ID).Str("email", acc.Email).Msg("Account logged in")

		c.JSON(http.StatusOK, LoginResponse{
			AccessToken: token,
			Admin:       models.User{Email: acc.Email, Role: acc.Role},
		})
	}
}

func roleIn(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// logout revokes the presented token
func (s *Server) logout(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	s.tokens.Revoke(claims)
	s.logger.Info().Str("account_id", claims.AccountID).Msg("Account logged out")

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// refresh returns the account behind a valid token
func (s *Server) refresh(c *gin.Context) {
	claims, ok := GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var acc Account
	if err := s.db.Where("id = ?", claims.AccountID).First(&acc).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": models.User{Email: acc.Email, Role: acc.Role}})
}
