// Command keygen prints fresh secrets for a fiszki deployment: an encryption
// key for the users blob and a JWT signing secret. Passwords given as
// arguments are printed with their bcrypt hash for seeding a users blob.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/chacha20poly1305"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost for hashed passwords")
	flag.Parse()

	key := make([]byte, chacha20poly1305.KeySize)
	secret := make([]byte, 48)
	if _, err := rand.Read(key); err != nil {
		fail(err)
	}
	if _, err := rand.Read(secret); err != nil {
		fail(err)
	}
	fmt.Printf("FISZKI_CRYPTO_ENCRYPTION_KEY=%s\n", base64.StdEncoding.EncodeToString(key))
	fmt.Printf("FISZKI_AUTH_JWT_SECRET=%s\n", base64.RawURLEncoding.EncodeToString(secret))

	for _, password := range flag.Args() {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating hash for argument: %v\n", err)
			continue
		}
		fmt.Printf("\nPassword: %s\nHash: %s\n", password, hash)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
	os.Exit(1)
}
