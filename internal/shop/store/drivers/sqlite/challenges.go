package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
)

type challengesRepo struct {
	db *sql.DB
}

func (r *challengesRepo) PutChallenge(ctx context.Context, ch domain.PendingChallenge) error {
	// Upsert keyed by user id: issuing replaces any prior challenge.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_challenges (user_id, email, code_hash, attempts, issued_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			email = excluded.email,
			code_hash = excluded.code_hash,
			attempts = excluded.attempts,
			issued_at = excluded.issued_at,
			expires_at = excluded.expires_at`,
		ch.UserID, ch.Email, ch.CodeHash, ch.Attempts, ch.IssuedAt, ch.ExpiresAt)
	return err
}

func (r *challengesRepo) GetChallenge(ctx context.Context, userID string) (domain.PendingChallenge, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, code_hash, attempts, issued_at, expires_at
		FROM otp_challenges WHERE user_id = ?`, userID)
	return scanChallenge(row)
}

func (r *challengesRepo) IncrementChallengeAttempts(ctx context.Context, userID string) (domain.PendingChallenge, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE otp_challenges SET attempts = attempts + 1
		WHERE user_id = ?
		RETURNING user_id, email, code_hash, attempts, issued_at, expires_at`, userID)
	return scanChallenge(row)
}

func (r *challengesRepo) DeleteChallenge(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE user_id = ?`, userID)
	return err
}

func (r *challengesRepo) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanChallenge(row *sql.Row) (domain.PendingChallenge, error) {
	var ch domain.PendingChallenge
	err := row.Scan(&ch.UserID, &ch.Email, &ch.CodeHash, &ch.Attempts, &ch.IssuedAt, &ch.ExpiresAt)
	if err != nil {
		return domain.PendingChallenge{}, mapNotFound(err)
	}
	return ch, nil
}
