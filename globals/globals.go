package globals

import (
	"context"
	"os"

	"github.com/joho/godotenv"
)

var JwtSecret []byte

func init() {
	// packages read env at init time, so load .env here rather than in main
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev_only_secret"
	}
	JwtSecret = []byte(secret)
}

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
