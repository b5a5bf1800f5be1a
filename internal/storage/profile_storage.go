package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"modernc.org/sqlite"

	"fitroom/internal/models"
)

var (
	ErrEmailExists     = errors.New("email already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

// CreateUserWithProfile inserts the auth identity and an empty profile in
// one transaction; account creation never leaves a user without a profile
// row.
func CreateUserWithProfile(user models.User, displayName string, gender models.Gender) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeLayout)
	_, err = tx.Exec("INSERT INTO users(id, email, password_hash, created_at) VALUES(?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, now)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			if sqliteErr.Code() == 2067 {
				return ErrEmailExists
			}
		}
		return err
	}

	_, err = tx.Exec("INSERT INTO profiles(user_id, email, display_name, gender, avatar_url, measurements, created_at, updated_at) VALUES(?, ?, ?, ?, '', '', ?, ?)",
		user.ID, user.Email, displayName, string(gender), now, now)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := db.QueryRow("SELECT id, email, password_hash FROM users WHERE email = ?", email)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash); err != nil {
		return user, err
	}
	return user, nil
}

func GetProfile(profileID string) (models.UserProfile, error) {
	var profile models.UserProfile
	row := db.QueryRow(`
		SELECT user_id, email, display_name, gender, avatar_url, measurements, created_at, updated_at
		FROM profiles WHERE user_id = ?`, profileID)

	var nullEmail, nullName, nullGender, nullAvatar, nullMeasurements sql.NullString
	var createdStr, updatedStr string

	if err := row.Scan(
		&profile.ID,
		&nullEmail,
		&nullName,
		&nullGender,
		&nullAvatar,
		&nullMeasurements,
		&createdStr,
		&updatedStr,
	); err != nil {
		if err == sql.ErrNoRows {
			return profile, ErrProfileNotFound
		}
		return profile, err
	}

	if nullEmail.Valid {
		profile.Email = nullEmail.String
	}
	if nullName.Valid {
		profile.DisplayName = nullName.String
	}
	if nullGender.Valid {
		profile.Gender = models.Gender(nullGender.String)
	}
	if nullAvatar.Valid {
		profile.AvatarURL = nullAvatar.String
	}
	if nullMeasurements.Valid && nullMeasurements.String != "" {
		if err := json.Unmarshal([]byte(nullMeasurements.String), &profile.Measurements); err != nil {
			return profile, err
		}
	}
	profile.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	profile.UpdatedAt, _ = time.Parse(timeLayout, updatedStr)

	return profile, nil
}

// UpdateProfileFields applies a field-level merge: only non-nil fields are
// written, so a concurrent update of an unrelated field is never clobbered.
// Avatar and measurements are deliberately not reachable from here; they
// are written only by the capture completion transaction.
func UpdateProfileFields(profileID string, displayName *string, gender *models.Gender) error {
	query := "UPDATE profiles SET updated_at = ?"
	args := []any{time.Now().UTC().Format(timeLayout)}

	if displayName != nil {
		query += ", display_name = ?"
		args = append(args, *displayName)
	}
	if gender != nil {
		query += ", gender = ?"
		args = append(args, string(*gender))
	}
	query += " WHERE user_id = ?"
	args = append(args, profileID)

	result, err := db.Exec(query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// DeleteAccount removes the profile record and the auth identity together.
func DeleteAccount(profileID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM capture_sessions WHERE profile_id = ?", profileID); err != nil {
		return err
	}
	result, err := tx.Exec("DELETE FROM profiles WHERE user_id = ?", profileID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	if _, err := tx.Exec("DELETE FROM users WHERE id = ?", profileID); err != nil {
		return err
	}
	return tx.Commit()
}
