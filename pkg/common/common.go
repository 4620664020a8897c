package common

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/bcrypt"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
	NA       = "N/A"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(time.Now().Unix() % 1023)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake int64 id
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake id in base58 string form
func UUID() string {
	return snowflakeNode.Generate().Base58()
}

// HashPassword hashes a password with bcrypt default cost
func HashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}

// CheckPassword compares a bcrypt hash with a plaintext candidate
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RandomHex returns n random bytes hex encoded
func RandomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

// GetEnvDefault reads an environment variable with a fallback
func GetEnvDefault(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

// FileExists checks whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
