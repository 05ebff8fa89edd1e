package utils

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
)

func init() {
	// It's okay if the .env file isn't found; environment variables may be set elsewhere
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

var jwtSecret []byte

func JWTSecret() []byte {
	if len(jwtSecret) == 0 {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			log.Println("JWT_SECRET is not set; using an insecure development secret")
			secret = "jengaestate-dev-secret"
		}
		jwtSecret = []byte(secret)
	}
	return jwtSecret
}

// SessionClaims is what a signed session token carries. Role and status are
// embedded so the authorization gate can decide without a database read.
type SessionClaims struct {
	UserID uint
	Role   string
	Status string
}

// GenerateSessionToken creates a signed session token valid for 72 hours.
func GenerateSessionToken(userID uint, role, status string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"status":  status,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	})

	return token.SignedString(JWTSecret())
}

// ParseSessionToken validates a token string and extracts its claims.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64) // JWT numeric values are float64
	if !ok {
		return nil, errors.New("invalid user ID in token")
	}

	role, _ := claims["role"].(string)
	status, _ := claims["status"].(string)

	return &SessionClaims{
		UserID: uint(userIDFloat),
		Role:   role,
		Status: status,
	}, nil
}
