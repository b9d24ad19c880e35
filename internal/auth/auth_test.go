package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/ukydev/municipal-assets/internal/models"
)

const testSecret = "test-secret"

func testClaims() models.Claims {
	return models.Claims{
		UserID:         "42",
		Username:       "jtorres",
		Role:           models.RoleTechnician,
		MunicipalityID: "12",
	}
}

func TestNewService(t *testing.T) {
	service := NewService(testSecret, 0)
	assert.NotNil(t, service)
	assert.Equal(t, []byte(testSecret), service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)

	service = NewService(testSecret, time.Hour)
	assert.Equal(t, time.Hour, service.tokenExp)
}

func TestService_GenerateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateToken(testClaims())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Unknown roles are refused
	claims := testClaims()
	claims.Role = "superuser"
	_, err = service.GenerateToken(claims)
	assert.Equal(t, ErrInvalidRole, err)
}

func TestService_ValidateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	token, _ := service.GenerateToken(testClaims())

	// Test valid token
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "jtorres", claims.Username)
	assert.Equal(t, models.RoleTechnician, claims.Role)
	assert.Equal(t, "12", claims.MunicipalityID)

	// Test invalid token
	_, err = service.ValidateToken("invalid-token")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)

	// Test token with Bearer prefix
	_, err = service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)

	// Test token signed with another secret
	other, _ := NewService("another-secret", time.Hour).GenerateToken(testClaims())
	_, err = service.ValidateToken(other)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	claims := testClaims()
	claims.Exp = time.Now().Add(-time.Minute).Unix()
	token, err := service.GenerateToken(claims)
	assert.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestService_ValidateToken_NumericIdentifiers(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":         42,
		"username":        "jtorres",
		"role":            "viewer",
		"municipality_id": 12,
		"exp":             time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "12", claims.MunicipalityID)
}

func TestService_ValidateToken_MissingClaims(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"no municipality", jwt.MapClaims{"user_id": "1", "username": "a", "role": "admin", "exp": exp}},
		{"unknown role", jwt.MapClaims{"user_id": "1", "username": "a", "role": "root", "municipality_id": "12", "exp": exp}},
		{"no user", jwt.MapClaims{"username": "a", "role": "admin", "municipality_id": "12", "exp": exp}},
		{"no expiry", jwt.MapClaims{"user_id": "1", "username": "a", "role": "admin", "municipality_id": "12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte(testSecret))
			_, err := service.ValidateToken(token)
			assert.Equal(t, ErrInvalidToken, err)
		})
	}
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	// Test valid header
	token := "valid-token"
	header := "Bearer " + token
	extracted, err := service.ExtractTokenFromHeader(header)
	assert.NoError(t, err)
	assert.Equal(t, token, extracted)

	// Test empty header
	_, err = service.ExtractTokenFromHeader("")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)

	// Test invalid format
	_, err = service.ExtractTokenFromHeader("InvalidFormat")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)

	// Test missing token
	_, err = service.ExtractTokenFromHeader("Bearer ")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_TokenExpiration(t *testing.T) {
	service := NewService(testSecret, 2*time.Hour)
	token, _ := service.GenerateToken(testClaims())

	// Token should be valid immediately
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)

	// Check expiration time
	now := time.Now().Unix()
	assert.Greater(t, claims.Exp, now)
	assert.LessOrEqual(t, claims.Exp, now+int64(service.tokenExp.Seconds())+1)
}
