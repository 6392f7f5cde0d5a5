package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"eduhub/internal/mail"
	"eduhub/internal/model"
	"eduhub/internal/repository"
	"eduhub/internal/storage"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) CreateStudent(ctx context.Context, student *model.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockAccountRepository) FindStudentByID(ctx context.Context, id uint) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockAccountRepository) FindStudentByEmail(ctx context.Context, email string) (*model.Student, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockAccountRepository) ListStudents(ctx context.Context) ([]model.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Student), args.Error(1)
}

func (m *MockAccountRepository) CountStudents(ctx context.Context) (model.GenderCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.GenderCounts), args.Error(1)
}

func (m *MockAccountRepository) ListClassReps(ctx context.Context) ([]model.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Student), args.Error(1)
}

func (m *MockAccountRepository) DeleteStudent(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAdminByID(ctx context.Context, id uint) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAccountRepository) FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAccountRepository) DeleteAdmin(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) UpdateStudentProfile(ctx context.Context, id uint, p model.StudentProfile) (int64, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) UpdateAdminProfile(ctx context.Context, id uint, p model.AdminProfile) (int64, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) PromoteToClassRep(ctx context.Context, student *model.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockAccountRepository) DemoteClassRep(ctx context.Context, studentID uint) (int64, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, studentID uint, hash string) error {
	args := m.Called(ctx, studentID, hash)
	return args.Error(0)
}

func (m *MockAccountRepository) SetResetToken(ctx context.Context, studentID uint, token string, expiry time.Time) error {
	args := m.Called(ctx, studentID, token, expiry)
	return args.Error(0)
}

func (m *MockAccountRepository) FindStudentByResetToken(ctx context.Context, token string) (*model.Student, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockAccountRepository) FindStudentByValidResetTokenForUpdate(ctx context.Context, token string, now time.Time) (*model.Student, error) {
	args := m.Called(ctx, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockAccountRepository) ResetPassword(ctx context.Context, studentID uint, hash string) (int64, error) {
	args := m.Called(ctx, studentID, hash)
	return args.Get(0).(int64), args.Error(1)
}

// WithTransaction runs fn against the mock itself.
func (m *MockAccountRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.AccountRepository) error) error {
	return fn(ctx, m)
}

// MockCourseRepository is a mock implementation of CourseRepository.
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) List(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByName(ctx context.Context, name string) (*model.Course, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseRepository) Create(ctx context.Context, course *model.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Rename(ctx context.Context, id uint, name string) (int64, error) {
	args := m.Called(ctx, id, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourseRepository) FirstOrCreate(ctx context.Context, name string) (*model.Course, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*model.Course), args.Bool(1), args.Error(2)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	args := m.Called(ctx, tokenID)
	return args.Bool(0)
}

// recordingQueue collects enqueued mail.
type recordingQueue struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (q *recordingQueue) Enqueue(msg mail.Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
	return true
}

func (q *recordingQueue) messages() []mail.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]mail.Message(nil), q.sent...)
}

// memoryUploader stores objects in a map and returns fake URLs.
type memoryUploader struct {
	mu      sync.Mutex
	objects map[string]storage.Object
	err     error
}

func (u *memoryUploader) Upload(ctx context.Context, obj storage.Object) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = make(map[string]storage.Object)
	}
	key := storage.ObjectKey(obj.Folder, obj.Name)
	u.objects[key] = obj
	return "https://files.test/" + key, nil
}
