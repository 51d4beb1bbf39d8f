package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"dokan-backend/internal/models"
)

const otpColumns = "id, phone, code, purpose, expires_at, verified, attempts, created_at"

type OTPRepository struct {
	db *sql.DB
}

func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Replace deletes any previous codes for the (phone, purpose) pair and
// inserts the new one, keeping at most one live code per pair.
func (r *OTPRepository) Replace(ctx context.Context, otp models.OTP) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting otp transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("rolling back otp replace: %v", err)
		}
	}()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM otps WHERE phone = $1 AND purpose = $2", otp.Phone, otp.Purpose)
	if err != nil {
		return fmt.Errorf("deleting previous otps: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO otps (id, phone, code, purpose, expires_at, verified, attempts, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		otp.ID, otp.Phone, otp.Code, otp.Purpose, otp.ExpiresAt, otp.Verified, otp.Attempts, otp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting otp: %w", err)
	}
	return tx.Commit()
}

// Find returns the newest code for the pair, verified or not. Callers
// decide what an expired or consumed record means for their flow.
func (r *OTPRepository) Find(ctx context.Context, phone string, purpose models.OTPPurpose) (models.OTP, error) {
	var otp models.OTP
	err := r.db.QueryRowContext(ctx,
		"SELECT "+otpColumns+" FROM otps WHERE phone = $1 AND purpose = $2 ORDER BY created_at DESC LIMIT 1",
		phone, purpose).Scan(&otp.ID, &otp.Phone, &otp.Code, &otp.Purpose,
		&otp.ExpiresAt, &otp.Verified, &otp.Attempts, &otp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OTP{}, ErrNotFound
	}
	if err != nil {
		return models.OTP{}, fmt.Errorf("finding otp: %w", err)
	}
	return otp, nil
}

// IncrementAttempts bumps the failure counter atomically and returns the
// new value, so concurrent wrong guesses cannot both observe the same
// count.
func (r *OTPRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx,
		"UPDATE otps SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts",
		id).Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("incrementing otp attempts: %w", err)
	}
	return attempts, nil
}

func (r *OTPRepository) MarkVerified(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE otps SET verified = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("marking otp verified: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking otp verified: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OTPRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM otps WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting otp: %w", err)
	}
	return nil
}

// PurgeExpired removes codes whose expiry is before the cutoff and
// returns how many were dropped.
func (r *OTPRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM otps WHERE expires_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging expired otps: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging expired otps: %w", err)
	}
	return n, nil
}
