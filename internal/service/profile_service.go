package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"eduhub/internal/auth"
	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

// ProfileInput is the editable profile as submitted. Which fields are used
// depends on the caller's role, never on the payload.
type ProfileInput struct {
	FirstName string
	LastName  string
	Course    string
	Year      int
	Semester  int
}

// profileUpdate is one account variant's writable fields and how to store them.
type profileUpdate interface {
	apply(ctx context.Context, repo repository.AccountRepository, accountID uint) (int64, error)
	reload(ctx context.Context, repo repository.AccountRepository, accountID uint) (auth.Identity, error)
}

type studentUpdate struct{ fields model.StudentProfile }

func (u studentUpdate) apply(ctx context.Context, repo repository.AccountRepository, id uint) (int64, error) {
	return repo.UpdateStudentProfile(ctx, id, u.fields)
}

func (u studentUpdate) reload(ctx context.Context, repo repository.AccountRepository, id uint) (auth.Identity, error) {
	return reloadStudent(ctx, repo, id)
}

type adminUpdate struct{ fields model.AdminProfile }

func (u adminUpdate) apply(ctx context.Context, repo repository.AccountRepository, id uint) (int64, error) {
	return repo.UpdateAdminProfile(ctx, id, u.fields)
}

func (u adminUpdate) reload(ctx context.Context, repo repository.AccountRepository, id uint) (auth.Identity, error) {
	admin, err := repo.FindAdminByID(ctx, id)
	if err != nil {
		return auth.Identity{}, err
	}
	return adminIdentity(admin), nil
}

func reloadStudent(ctx context.Context, repo repository.AccountRepository, id uint) (auth.Identity, error) {
	student, err := repo.FindStudentByID(ctx, id)
	if err != nil {
		return auth.Identity{}, err
	}
	return studentIdentity(student), nil
}

// ProfileService updates the caller's own profile and re-issues their credential.
type ProfileService interface {
	Update(ctx context.Context, caller *auth.Claims, in ProfileInput) (string, error)
}

type profileService struct {
	accountRepo repository.AccountRepository
	courseRepo  repository.CourseRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	now         func() time.Time
}

// NewProfileService creates a new profile service.
func NewProfileService(
	accountRepo repository.AccountRepository,
	courseRepo repository.CourseRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) ProfileService {
	return &profileService{
		accountRepo: accountRepo,
		courseRepo:  courseRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		now:         time.Now,
	}
}

// Update writes the fields the caller's role allows and returns a new
// credential. The previous credential is revoked.
func (s *profileService) Update(ctx context.Context, caller *auth.Claims, in ProfileInput) (string, error) {
	if caller == nil {
		return "", apperrors.ErrUnauthorized
	}

	update, err := s.variantFor(ctx, caller.Role, in)
	if err != nil {
		return "", err
	}

	var identity auth.Identity
	err = s.accountRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.AccountRepository) error {
		// Affected rows are not checked: MySQL reports zero when nothing
		// changed. The reload decides whether the account exists.
		if _, err := update.apply(ctx, txRepo, caller.ID); err != nil {
			return err
		}
		var err error
		identity, err = update.reload(ctx, txRepo, caller.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", err
		}
		return "", fmt.Errorf("update profile: %w", err)
	}
	token, _, err := s.jwtService.Issue(identity)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if err := s.tokenStore.Revoke(ctx, caller.TokenID(), caller.Remaining(s.now())); err != nil {
		return "", fmt.Errorf("revoke previous token: %w", err)
	}
	return token, nil
}

// variantFor picks the writable fields for role. Course resolution happens
// here, before any write.
func (s *profileService) variantFor(ctx context.Context, role model.Role, in ProfileInput) (profileUpdate, error) {
	switch role {
	case model.RoleStudent, model.RoleClassRep:
		course, err := s.courseRepo.FindByName(ctx, in.Course)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCourseNotFound
			}
			return nil, fmt.Errorf("find course: %w", err)
		}
		// Student and classRep share one variant; the stored role, read back
		// by reload, decides which credential is issued.
		return studentUpdate{fields: model.StudentProfile{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			CourseID:  course.ID,
			Year:      in.Year,
			Semester:  in.Semester,
		}}, nil
	case model.RoleAdmin:
		return adminUpdate{fields: model.AdminProfile{FirstName: in.FirstName, LastName: in.LastName}}, nil
	default:
		return nil, apperrors.ErrUnknownRole
	}
}
