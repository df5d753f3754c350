package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when either secret is unset.
var ErrMissingCredentials = errors.New("credentials not set")

const (
	EnvUsername = "NAUKRI_EMAIL"
	EnvPassword = "NAUKRI_PASSWORD"
)

// Credentials never print their contents.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) String() string   { return "Credentials{<redacted>}" }
func (c Credentials) GoString() string { return c.String() }

// EnvCredentials reads the two secrets from the process environment, after .env.
type EnvCredentials struct {
	UsernameVar string
	PasswordVar string
}

func NewEnvCredentials() EnvCredentials {
	return EnvCredentials{UsernameVar: EnvUsername, PasswordVar: EnvPassword}
}

func (e EnvCredentials) Credentials() (Credentials, error) {
	_ = godotenv.Load()

	creds := Credentials{
		Username: os.Getenv(e.UsernameVar),
		Password: os.Getenv(e.PasswordVar),
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf("%w: set %s and %s in the environment or .env", ErrMissingCredentials, e.UsernameVar, e.PasswordVar)
	}
	return creds, nil
}
