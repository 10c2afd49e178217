package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const digits = "0123456789"
const passwordCharacters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var sampleFirstNames = []string{
	"Noa", "Daniel", "Maya", "Omer", "Tamar", "Yonatan", "Shira", "Itai",
	"Lior", "Avi", "Michal", "Eitan", "Roni", "Gal", "Adi", "Nadav",
}
var sampleLastNames = []string{
	"Levi", "Cohen", "Mizrahi", "Peretz", "Biton", "Dahan", "Avraham",
	"Friedman", "Azulay", "Katz", "Malka", "Ohayon",
}

func GenerateRandomOTP() string {
	otp := ""
	for i := 0; i < 6; i++ {
		otp += string(digits[rand.Intn(len(digits))])
	}
	return otp
}

func GenerateRandomPassword(length int) string {
	password := make([]byte, length)
	for i := range password {
		password[i] = passwordCharacters[rand.Intn(len(passwordCharacters))]
	}
	return string(password)
}

// UsernameFromEmail derives a login name from the email local part, with a
// random digit suffix to dodge collisions.
func UsernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	local = strings.ToLower(strings.ReplaceAll(local, ".", ""))

	suffix := ""
	for i := 0; i < rand.Intn(3)+1; i++ {
		suffix += string(digits[rand.Intn(len(digits))])
	}
	return local + suffix
}

func GenerateRandomVolunteer(password string, emailDomain string) (*domain.User, error) {
	firstName := sampleFirstNames[rand.Intn(len(sampleFirstNames))]
	lastName := sampleLastNames[rand.Intn(len(sampleLastNames))]
	fullName := firstName + " " + lastName

	email := fmt.Sprintf("%s.%s%d@%s", strings.ToLower(firstName), strings.ToLower(lastName), rand.Intn(1000), emailDomain)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Username:     UsernameFromEmail(email),
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        email,
		Role:         domain.RoleVolunteer,
	}, nil
}
