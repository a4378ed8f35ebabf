package accounts

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/auth"
	"github.com/vijana-portal/vijana-portal/internal/config"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/mail"
)

var resetCols = []string{"id", "user_id", "token_hash", "expires_at", "used_at", "created_at"}

// newResetHandlers wires reset handlers against a mocked database with
// notifications disabled so no SMTP delivery is attempted.
func newResetHandlers(t *testing.T) (*ResetHandlers, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Notifications.ResetTokenTTLMinutes = 30

	recorder := audit.NewRecorder(sqlx.NewDb(db, "postgres"), nil, false)
	mailer := mail.NewMailer(&cfg.Notifications)
	return NewResetHandlers(cfg, db, mailer, recorder), mock
}

// ---------------------------------------------------------------------------
// Forgot password
// ---------------------------------------------------------------------------

func TestForgotPasswordHandler_KnownEmailStoresToken(t *testing.T) {
	h, mock := newResetHandlers(t)

	mock.ExpectExec("DELETE FROM password_resets").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT.*FROM users.*WHERE email").
		WithArgs("amina@example.com").
		WillReturnRows(userRow("user-1", "amina@example.com", "hash", models.RoleYouth, true))
	mock.ExpectExec("INSERT INTO password_resets").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(t, h.ForgotPasswordHandler(), http.MethodPost, "/x", gin.H{
		"email": "amina@example.com",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if key := messageKey(t, w); key != "AUTH_RESET_EMAIL_SENT" {
		t.Errorf("messageKey = %q, want AUTH_RESET_EMAIL_SENT", key)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestForgotPasswordHandler_UnknownEmailSameResponse(t *testing.T) {
	h, mock := newResetHandlers(t)

	mock.ExpectExec("DELETE FROM password_resets").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT.*FROM users.*WHERE email").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	w := doJSON(t, h.ForgotPasswordHandler(), http.MethodPost, "/x", gin.H{
		"email": "nobody@example.com",
	})

	// Unknown email must not be distinguishable from a known one
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if key := messageKey(t, w); key != "AUTH_RESET_EMAIL_SENT" {
		t.Errorf("messageKey = %q, want AUTH_RESET_EMAIL_SENT", key)
	}
	// No token row may be written for an unknown email
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestForgotPasswordHandler_DeactivatedAccountGetsNoToken(t *testing.T) {
	h, mock := newResetHandlers(t)

	mock.ExpectExec("DELETE FROM password_resets").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT.*FROM users.*WHERE email").
		WithArgs("amina@example.com").
		WillReturnRows(userRow("user-1", "amina@example.com", "hash", models.RoleYouth, false))

	w := doJSON(t, h.ForgotPasswordHandler(), http.MethodPost, "/x", gin.H{
		"email": "amina@example.com",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestForgotPasswordHandler_InvalidEmail(t *testing.T) {
	h, _ := newResetHandlers(t)

	w := doJSON(t, h.ForgotPasswordHandler(), http.MethodPost, "/x", gin.H{
		"email": "not-an-email",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Reset password
// ---------------------------------------------------------------------------

func TestResetPasswordHandler_RedeemsToken(t *testing.T) {
	h, mock := newResetHandlers(t)

	token, tokenHash, err := auth.GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}

	now := time.Now()
	mock.ExpectQuery("SELECT.*FROM password_resets.*WHERE token_hash").
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows(resetCols).
			AddRow("reset-1", "user-1", tokenHash, now.Add(30*time.Minute), nil, now))
	mock.ExpectExec("UPDATE password_resets SET used_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET password_hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(t, h.ResetPasswordHandler(), http.MethodPost, "/x", gin.H{
		"token":    token,
		"password": "siri-mpya-kabisa",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if key := messageKey(t, w); key != "AUTH_RESET_SUCCESS" {
		t.Errorf("messageKey = %q, want AUTH_RESET_SUCCESS", key)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestResetPasswordHandler_UnknownToken(t *testing.T) {
	h, mock := newResetHandlers(t)

	mock.ExpectQuery("SELECT.*FROM password_resets.*WHERE token_hash").
		WillReturnError(sql.ErrNoRows)

	w := doJSON(t, h.ResetPasswordHandler(), http.MethodPost, "/x", gin.H{
		"token":    "deadbeef",
		"password": "siri-mpya-kabisa",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if key := messageKey(t, w); key != "AUTH_RESET_INVALID" {
		t.Errorf("messageKey = %q, want AUTH_RESET_INVALID", key)
	}
}

func TestResetPasswordHandler_ExpiredToken(t *testing.T) {
	h, mock := newResetHandlers(t)

	token, tokenHash, _ := auth.GenerateResetToken()
	now := time.Now()
	mock.ExpectQuery("SELECT.*FROM password_resets.*WHERE token_hash").
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows(resetCols).
			AddRow("reset-1", "user-1", tokenHash, now.Add(-time.Minute), nil, now.Add(-time.Hour)))

	w := doJSON(t, h.ResetPasswordHandler(), http.MethodPost, "/x", gin.H{
		"token":    token,
		"password": "siri-mpya-kabisa",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResetPasswordHandler_AlreadyUsedToken(t *testing.T) {
	h, mock := newResetHandlers(t)

	token, tokenHash, _ := auth.GenerateResetToken()
	now := time.Now()
	used := now.Add(-10 * time.Minute)
	mock.ExpectQuery("SELECT.*FROM password_resets.*WHERE token_hash").
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows(resetCols).
			AddRow("reset-1", "user-1", tokenHash, now.Add(30*time.Minute), used, now.Add(-time.Hour)))

	w := doJSON(t, h.ResetPasswordHandler(), http.MethodPost, "/x", gin.H{
		"token":    token,
		"password": "siri-mpya-kabisa",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResetPasswordHandler_RaceOnRedeem(t *testing.T) {
	h, mock := newResetHandlers(t)

	token, tokenHash, _ := auth.GenerateResetToken()
	now := time.Now()
	mock.ExpectQuery("SELECT.*FROM password_resets.*WHERE token_hash").
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows(resetCols).
			AddRow("reset-1", "user-1", tokenHash, now.Add(30*time.Minute), nil, now))
	// Another request redeemed the token between the read and the update
	mock.ExpectExec("UPDATE password_resets SET used_at").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := doJSON(t, h.ResetPasswordHandler(), http.MethodPost, "/x", gin.H{
		"token":    token,
		"password": "siri-mpya-kabisa",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if key := messageKey(t, w); key != "AUTH_RESET_INVALID" {
		t.Errorf("messageKey = %q, want AUTH_RESET_INVALID", key)
	}
}

func TestResetPasswordHandler_ShortPassword(t *testing.T) {
	h, _ := newResetHandlers(t)

	w := doJSON(t, h.ResetPasswordHandler(), http.MethodPost, "/x", gin.H{
		"token":    "deadbeef",
		"password": "short",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
