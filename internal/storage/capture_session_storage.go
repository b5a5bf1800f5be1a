package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"fitroom/internal/handoff"
	"fitroom/internal/models"
)

var (
	ErrSessionNotFound    = errors.New("capture session not found")
	ErrInvalidTransition  = errors.New("invalid capture session transition")
	ErrEmptyCaptureResult = errors.New("avatar and measurements are both required")
)

func CreateCaptureSession(session *handoff.Session) error {
	stmt, err := db.Prepare("INSERT INTO capture_sessions(id, profile_id, state, created_at, expires_at) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		session.ID,
		session.ProfileID,
		string(session.State),
		session.CreatedAt.Format(timeLayout),
		session.ExpiresAt.Format(timeLayout),
	)
	return err
}

func GetCaptureSession(sessionID string) (handoff.Session, error) {
	var session handoff.Session
	var state, createdStr, expiresStr string

	row := db.QueryRow("SELECT id, profile_id, state, created_at, expires_at FROM capture_sessions WHERE id = ?", sessionID)
	if err := row.Scan(&session.ID, &session.ProfileID, &state, &createdStr, &expiresStr); err != nil {
		if err == sql.ErrNoRows {
			return session, ErrSessionNotFound
		}
		return session, err
	}

	session.State = handoff.State(state)
	session.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	session.ExpiresAt, _ = time.Parse(timeLayout, expiresStr)
	return session, nil
}

// TransitionCaptureSession moves the session from one state to another. The
// previous state is part of the WHERE clause, so a concurrent writer that
// got there first makes this a no-op and the caller sees
// ErrInvalidTransition.
func TransitionCaptureSession(sessionID string, from, to handoff.State) error {
	if !from.CanTransition(to) {
		return ErrInvalidTransition
	}
	result, err := db.Exec("UPDATE capture_sessions SET state = ? WHERE id = ? AND state = ?",
		string(to), sessionID, string(from))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// CompleteCaptureSession writes the capture result and finishes the session
// in one transaction: the profile gets avatar_url and measurements together
// and the session moves capturing -> complete. Any failure rolls the whole
// thing back, so the profile never ends up with only one of the two fields.
func CompleteCaptureSession(sessionID, profileID, avatarURL string, measurements models.Measurements) error {
	if avatarURL == "" || len(measurements) == 0 {
		return ErrEmptyCaptureResult
	}

	encoded, err := json.Marshal(measurements)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec("UPDATE profiles SET avatar_url = ?, measurements = ?, updated_at = ? WHERE user_id = ?",
		avatarURL, string(encoded), time.Now().UTC().Format(timeLayout), profileID)
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

	result, err = tx.Exec("UPDATE capture_sessions SET state = ? WHERE id = ? AND state = ?",
		string(handoff.StateComplete), sessionID, string(handoff.StateCapturing))
	if err != nil {
		return err
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	return tx.Commit()
}
