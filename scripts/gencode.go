package main

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generates an activation code plus its bcrypt hash, for manually
// activating a worker whose verification email never arrived.
// Hand the code to the worker, store only the hash:
//
//	UPDATE payment_verifications SET activation_hash = '<hash>' WHERE user_id = '<id>';
func main() {
	code := "WORK"
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		code += string(alphabet[n.Int64()])
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), 10)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Code: %s\nHash: %s\n", code, string(hash))
}
