// Command-line tool to bootstrap an admin account with generated credentials.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"jobkhoj-backend/internal/database"
	"jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"
)

// generateRandomString creates a random hex string of length n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueEmail tries until an unused admin email is found
func generateUniqueEmail(db *gorm.DB) string {
	for {
		email := "admin_" + generateRandomString(4) + "@jobkhoj.local"
		var count int64
		db.Model(&model.User{}).Where("email = ?", email).Count(&count)
		if count == 0 {
			return email
		}
	}
}

func main() {

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}

	email := generateUniqueEmail(db.DB)
	password := generateRandomString(8)

	if err := utilities.CreateAdmin("Administrator", email, password, db.DB); err != nil {
		log.Fatal("failed to create admin: ", err)
	}

	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Email: %s\n", email)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")

	os.Exit(0)
}
