package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/mail"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

// Entities the superadmin can delete by id.
const (
	EntityClassReps = "classreps"
	EntityStudents  = "students"
	EntityAdmins    = "admins"
	EntityResources = "resources"
)

// StudentsOverview is the student list with gender totals.
type StudentsOverview struct {
	model.GenderCounts
	Students []model.Student `json:"students"`
}

// FeedbackSummary aggregates all submitted ratings.
type FeedbackSummary struct {
	TotalFeedback int64           `json:"totalFeedback"`
	AverageRating decimal.Decimal `json:"averageRating"`
}

// CreateAdminInput holds the fields of a superadmin-created admin.
type CreateAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SuperadminService holds operations reserved for the superadmin.
type SuperadminService interface {
	AssignClassRep(ctx context.Context, email string) error
	ListClassReps(ctx context.Context) ([]model.Student, error)
	ListStudents(ctx context.Context) (*StudentsOverview, error)
	CreateAdmin(ctx context.Context, in CreateAdminInput) (*model.Admin, error)
	DeleteEntity(ctx context.Context, entity string, id uint) error
	FeedbackSummary(ctx context.Context) (*FeedbackSummary, error)
}

type superadminService struct {
	accountRepo  repository.AccountRepository
	resourceRepo repository.ResourceRepository
	messageRepo  repository.MessageRepository
	mailer       mail.Queue
}

// NewSuperadminService creates a new superadmin service.
func NewSuperadminService(
	accountRepo repository.AccountRepository,
	resourceRepo repository.ResourceRepository,
	messageRepo repository.MessageRepository,
	mailer mail.Queue,
) SuperadminService {
	return &superadminService{
		accountRepo:  accountRepo,
		resourceRepo: resourceRepo,
		messageRepo:  messageRepo,
		mailer:       mailer,
	}
}

// AssignClassRep promotes the student with email and notifies them.
func (s *superadminService) AssignClassRep(ctx context.Context, email string) error {
	student, err := s.accountRepo.FindStudentByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find student: %w", err)
	}
	if err := s.accountRepo.PromoteToClassRep(ctx, student); err != nil {
		return fmt.Errorf("promote student: %w", err)
	}
	s.mailer.Enqueue(mail.ClassRepAssigned(student.Email))
	return nil
}

func (s *superadminService) ListClassReps(ctx context.Context) ([]model.Student, error) {
	reps, err := s.accountRepo.ListClassReps(ctx)
	if err != nil {
		return nil, fmt.Errorf("list class reps: %w", err)
	}
	return reps, nil
}

func (s *superadminService) ListStudents(ctx context.Context) (*StudentsOverview, error) {
	counts, err := s.accountRepo.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	students, err := s.accountRepo.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return &StudentsOverview{GenderCounts: counts, Students: students}, nil
}

func (s *superadminService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*model.Admin, error) {
	email := strings.TrimSpace(in.Email)
	taken, err := s.accountRepo.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.accountRepo.CreateAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// DeleteEntity removes one row of the named kind. A class rep id is the
// promoted student's id; deleting it demotes the student.
func (s *superadminService) DeleteEntity(ctx context.Context, entity string, id uint) error {
	var (
		n        int64
		err      error
		notFound error
	)
	switch strings.ToLower(entity) {
	case EntityClassReps:
		n, err = s.accountRepo.DemoteClassRep(ctx, id)
		notFound = apperrors.ErrUserNotFound
	case EntityStudents:
		n, err = s.accountRepo.DeleteStudent(ctx, id)
		notFound = apperrors.ErrUserNotFound
	case EntityAdmins:
		n, err = s.accountRepo.DeleteAdmin(ctx, id)
		notFound = apperrors.ErrUserNotFound
	case EntityResources:
		n, err = s.resourceRepo.Delete(ctx, id)
		notFound = apperrors.ErrResourceNotFound
	default:
		return apperrors.ErrInvalidEntity
	}
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", entity, id, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// FeedbackSummary returns the feedback count and mean rating to two places.
func (s *superadminService) FeedbackSummary(ctx context.Context) (*FeedbackSummary, error) {
	totals, err := s.messageRepo.FeedbackTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("feedback totals: %w", err)
	}
	avg := decimal.Zero
	if totals.Count > 0 {
		avg = decimal.NewFromInt(totals.RatingSum).
			DivRound(decimal.NewFromInt(totals.Count), 2)
	}
	return &FeedbackSummary{TotalFeedback: totals.Count, AverageRating: avg}, nil
}
