package models

import (
	"math"
	"time"
)

// 회원 사용자 모델 (auth identity)
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
	GenderUnspecified Gender = "unspecified"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnspecified:
		return true
	}
	return false
}

// Measurements maps a body-measurement name (e.g. "chest", "waist") to a
// value in centimeters. Keys vary by garment type; a sparse map is valid.
type Measurements map[string]float64

// Valid reports whether every value is a positive finite number.
func (m Measurements) Valid() bool {
	for _, v := range m {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// UserProfile is the per-account profile record. AvatarURL empty means "not
// yet captured"; the capture flow fills AvatarURL and Measurements together.
type UserProfile struct {
	ID           string       `json:"id"`
	Email        string       `json:"email,omitempty"`
	DisplayName  string       `json:"displayName,omitempty"`
	Gender       Gender       `json:"gender,omitempty"`
	AvatarURL    string       `json:"avatarUrl,omitempty"`
	Measurements Measurements `json:"measurements,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
