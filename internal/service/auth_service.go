package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eduhub/internal/auth"
	apperrors "eduhub/internal/errors"
	"eduhub/internal/mail"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

const bcryptCost = 10

// AuthConfig holds the settings the auth service needs.
type AuthConfig struct {
	SuperUser     string
	SuperPassword string
	ResetLinkBase string
	ResetTokenTTL time.Duration
}

// RegisterInput holds the fields of a new student account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Course    string
	Year      int
	Semester  int
	Gender    string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token      string
	RedirectTo string
	Claims     *auth.Claims
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.Student, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ResendResetLink(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, caller *auth.Claims, studentID uint, current, next string) error
}

type authService struct {
	accountRepo repository.AccountRepository
	courseRepo  repository.CourseRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	mailer      mail.Queue
	cfg         AuthConfig
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	accountRepo repository.AccountRepository,
	courseRepo repository.CourseRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	mailer mail.Queue,
	cfg AuthConfig,
) AuthService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 5 * time.Minute
	}
	return &authService{
		accountRepo: accountRepo,
		courseRepo:  courseRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		mailer:      mailer,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Register creates a student account with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.Student, error) {
	email := strings.TrimSpace(in.Email)
	taken, err := s.accountRepo.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	course, err := s.courseRepo.FindByName(ctx, in.Course)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CourseID:     course.ID,
		Year:         in.Year,
		Semester:     in.Semester,
		Gender:       in.Gender,
		UserRole:     model.RoleStudent,
	}
	if err := s.accountRepo.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create student: %w", err)
	}
	student.CourseName = course.Name
	return student, nil
}

// Login checks the superadmin pair first, then students, then admins.
// A wrong superadmin password is not an error on its own: the lookup falls
// through to stored accounts and usually ends in ErrUserNotFound.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.isSuperadmin(email, password) {
		return s.issue(auth.Identity{Role: model.RoleSuperadmin, Email: email}, "/superadmin")
	}

	student, err := s.accountRepo.FindStudentByEmail(ctx, email)
	switch {
	case err == nil:
		if !checkPassword(student.PasswordHash, password) {
			return nil, apperrors.ErrInvalidCredentials
		}
		if student.CourseName == "" {
			return nil, apperrors.ErrCourseNotFound
		}
		return s.issue(studentIdentity(student), "/dashboard")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find student: %w", err)
	}

	admin, err := s.accountRepo.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !checkPassword(admin.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(adminIdentity(admin), "/admin")
}

func (s *authService) isSuperadmin(email, password string) bool {
	if s.cfg.SuperUser == "" || s.cfg.SuperPassword == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.SuperUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.SuperPassword)) == 1
	return userOK && passOK
}

func (s *authService) issue(id auth.Identity, redirect string) (*LoginResult, error) {
	token, claims, err := s.jwtService.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, RedirectTo: redirect, Claims: claims}, nil
}

// Logout revokes the caller's credential until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperrors.ErrUnauthorized
	}
	return s.tokenStore.Revoke(ctx, claims.TokenID(), claims.Remaining(s.now()))
}

// ForgotPassword stores a fresh reset token and mails the link.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	student, err := s.accountRepo.FindStudentByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find student: %w", err)
	}
	return s.sendResetLink(ctx, student)
}

// ResetPassword accepts only an unexpired token and clears it together with
// the password update, so a token works once.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.ErrInvalidResetToken
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	var email string
	err = s.accountRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.AccountRepository) error {
		student, err := txRepo.FindStudentByValidResetTokenForUpdate(ctx, token, s.now())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvalidResetToken
			}
			return err
		}
		if _, err := txRepo.ResetPassword(ctx, student.ID, hash); err != nil {
			return err
		}
		email = student.Email
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidResetToken) {
			return err
		}
		return fmt.Errorf("reset password: %w", err)
	}

	s.mailer.Enqueue(mail.PasswordResetDone(email))
	return nil
}

// ResendResetLink issues a new token for whoever holds token. The old token's
// expiry is not checked: an expired link can still be used to ask for a new one.
func (s *authService) ResendResetLink(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.ErrResetTokenNotFound
	}
	student, err := s.accountRepo.FindStudentByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrResetTokenNotFound
		}
		return fmt.Errorf("find reset token: %w", err)
	}
	return s.sendResetLink(ctx, student)
}

func (s *authService) sendResetLink(ctx context.Context, student *model.Student) error {
	token, err := auth.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.accountRepo.SetResetToken(ctx, student.ID, token, s.now().Add(s.cfg.ResetTokenTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	s.mailer.Enqueue(mail.PasswordResetRequest(student.Email, s.cfg.ResetLinkBase+token))
	return nil
}

// ChangePassword lets a student change their own password after proving the current one.
func (s *authService) ChangePassword(ctx context.Context, caller *auth.Claims, studentID uint, current, next string) error {
	if caller == nil {
		return apperrors.ErrUnauthorized
	}
	// Admin ids come from a separate sequence and may collide with student ids.
	ownAccount := caller.Role.In(model.RoleStudent, model.RoleClassRep) && caller.ID == studentID
	if caller.Role != model.RoleSuperadmin && !ownAccount {
		return apperrors.ErrForbidden
	}

	student, err := s.accountRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find student: %w", err)
	}
	if !checkPassword(student.PasswordHash, current) {
		return apperrors.ErrIncorrectPassword
	}

	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	if err := s.accountRepo.UpdatePassword(ctx, studentID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func studentIdentity(st *model.Student) auth.Identity {
	role := st.UserRole
	if role != model.RoleClassRep {
		role = model.RoleStudent
	}
	return auth.Identity{
		ID:        st.ID,
		Role:      role,
		Email:     st.Email,
		FirstName: st.FirstName,
		LastName:  st.LastName,
		CourseID:  st.CourseID,
		Course:    st.CourseName,
		Year:      st.Year,
		Semester:  st.Semester,
	}
}

func adminIdentity(a *model.Admin) auth.Identity {
	return auth.Identity{
		ID:        a.ID,
		Role:      model.RoleAdmin,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}
