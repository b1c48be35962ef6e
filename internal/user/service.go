package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"attendflow/internal/auth"
	"attendflow/internal/student"
)

// Validation and authentication failures surfaced to the API layer.
var (
	ErrEmailTaken         = errors.New("Email already registered")
	ErrUsernameTaken      = errors.New("Username already taken")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrInvalidRole        = errors.New("invalid role")
)

// Accounts is the account persistence surface the service needs.
type Accounts interface {
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// StudentRegistry creates the paired student record for STUDENT accounts.
type StudentRegistry interface {
	Create(ctx context.Context, s student.Student) (student.Student, error)
}

// TextSender delivers a single SMS.
type TextSender interface {
	Send(ctx context.Context, to, body string) error
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service implements registration, login, password recovery and deletion.
type Service struct {
	accounts Accounts
	students StudentRegistry
	sms      TextSender
	mail     Mailer
	tokens   *auth.Tokens

	loginTTL    time.Duration
	resetTTL    time.Duration
	institution string
}

// NewService wires the credential flow.
func NewService(accounts Accounts, students StudentRegistry, sms TextSender, mail Mailer, tokens *auth.Tokens, loginTTL, resetTTL time.Duration, institution string) *Service {
	return &Service{
		accounts:    accounts,
		students:    students,
		sms:         sms,
		mail:        mail,
		tokens:      tokens,
		loginTTL:    loginTTL,
		resetTTL:    resetTTL,
		institution: institution,
	}
}

// RegisterRequest carries a new account.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Role        string `json:"role" binding:"required"`
	RollNumber  string `json:"rollNumber"`
	PhoneNumber string `json:"phoneNumber"`
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.accounts.List(ctx)
}

// Register validates uniqueness, persists the account and, for STUDENT
// accounts, creates the paired student record and sends a best-effort welcome
// SMS. The pairing is not atomic: a student-write failure after the account
// insert leaves the account in place and is logged.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	role, err := ParseRole(req.Role)
	if err != nil {
		return User{}, fmt.Errorf("%w: %q", ErrInvalidRole, req.Role)
	}
	if _, err := s.accounts.FindByEmail(ctx, req.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if _, err := s.accounts.FindByUsername(ctx, req.Username); err == nil {
		return User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	saved, err := s.accounts.Create(ctx, User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		Role:         role,
		RollNumber:   req.RollNumber,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		return User{}, err
	}

	if role == RoleStudent {
		_, err := s.students.Create(ctx, student.Student{
			Name:              req.Username,
			Roll:              req.RollNumber,
			ParentPhoneNumber: req.PhoneNumber,
			Status:            student.StatusUnknown,
			Time:              student.TimeNotRecorded,
		})
		if err != nil {
			log.Printf("paired student record for %s not created: %v", saved.ID, err)
		}

		if req.PhoneNumber != "" {
			msg := fmt.Sprintf("Welcome to the %s portal. %s is now registered for attendance tracking. Registry ID: %s",
				s.institution, req.Username, req.RollNumber)
			if err := s.sms.Send(ctx, req.PhoneNumber, msg); err != nil {
				log.Printf("welcome SMS to %s failed: %v", req.PhoneNumber, err)
			}
		}
	}

	return saved, nil
}

// Login verifies the email/password pair and issues a login token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	u, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, "", ErrInvalidCredentials
	}
	token, err := s.tokens.IssueLogin(u.ID, string(u.Role), s.loginTTL)
	if err != nil {
		return User{}, "", err
	}
	return u, token, nil
}

// ForgotPassword emails a short-lived reset token to a known account.
// ErrNotFound is returned for unknown emails; mail transport failures are
// wrapped and surfaced distinctly.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.IssueReset(u.ID, s.resetTTL)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Access Key Recovery - %s", s.institution)
	body := fmt.Sprintf("Dear %s,\n\n"+
		"A request has been initiated to recover access to your AttendFlow portal account.\n\n"+
		"Use the reset token below within %s to choose a new password:\n\n%s\n\n"+
		"If you did not initiate this request, please contact the IT department immediately.\n\n"+
		"Regards,\n%s Admin",
		u.Username, s.resetTTL, token, s.institution)

	if err := s.mail.Send(ctx, u.Email, subject, body); err != nil {
		return fmt.Errorf("send recovery email: %w", err)
	}
	return nil
}

// ResetPassword verifies a reset token and stores a new password hash.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Parse(token, auth.PurposeReset)
	if err != nil {
		return ErrInvalidResetToken
	}
	u, err := s.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, u.ID, string(hash))
}

// Delete removes an account by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, id)
}
