package models

import (
	"fmt"
)

// DNILength is the number of digits in a Peruvian national identity number.
const DNILength = 8

// Voter is the registry record the electoral backend returns after
// identity verification.
type Voter struct {
	DNI        string `json:"dni"`
	FullName   string `json:"fullName"`
	Address    string `json:"address,omitempty"`
	District   string `json:"district,omitempty"`
	Province   string `json:"province,omitempty"`
	Department string `json:"department,omitempty"`
	BirthDate  string `json:"birthDate,omitempty"`
	PhotoURL   string `json:"photoUrl,omitempty"`
	HasVoted   bool   `json:"hasVoted,omitempty"`
}

// ValidateDNI checks that a DNI is exactly eight digits. The backend
// performs its own validation; this only avoids pointless round trips.
func ValidateDNI(dni string) error {
	if len(dni) != DNILength {
		return fmt.Errorf("dni must be %d digits, got %d", DNILength, len(dni))
	}
	for _, r := range dni {
		if r < '0' || r > '9' {
			return fmt.Errorf("dni must contain only digits")
		}
	}
	return nil
}
