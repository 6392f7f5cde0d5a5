package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) List(ctx context.Context) ([]model.Resource, int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Resource), args.Get(1).(int64), args.Error(2)
}

func (m *MockResourceRepository) ListByUnit(ctx context.Context, unitID uint) ([]model.Resource, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Resource), args.Error(1)
}

func (m *MockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	args := m.Called(ctx, resource)
	return args.Error(0)
}

func (m *MockResourceRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) CreateSupportMessage(ctx context.Context, msg *model.SupportMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *MockMessageRepository) FeedbackTotals(ctx context.Context) (repository.FeedbackTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(repository.FeedbackTotals), args.Error(1)
}

func TestSuperadminService_DeleteEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		setup   func(accounts *MockAccountRepository, resources *MockResourceRepository)
		wantErr error
	}{
		{
			name:   "class rep is demoted",
			entity: "classreps",
			setup: func(accounts *MockAccountRepository, _ *MockResourceRepository) {
				accounts.On("DemoteClassRep", mock.Anything, uint(7)).Return(int64(1), nil)
			},
		},
		{
			name:   "entity name is case-insensitive",
			entity: "Students",
			setup: func(accounts *MockAccountRepository, _ *MockResourceRepository) {
				accounts.On("DeleteStudent", mock.Anything, uint(7)).Return(int64(1), nil)
			},
		},
		{
			name:   "missing admin",
			entity: "admins",
			setup: func(accounts *MockAccountRepository, _ *MockResourceRepository) {
				accounts.On("DeleteAdmin", mock.Anything, uint(7)).Return(int64(0), nil)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
		{
			name:   "missing resource",
			entity: "RESOURCES",
			setup: func(_ *MockAccountRepository, resources *MockResourceRepository) {
				resources.On("Delete", mock.Anything, uint(7)).Return(int64(0), nil)
			},
			wantErr: apperrors.ErrResourceNotFound,
		},
		{
			name:    "unknown entity",
			entity:  "courses",
			setup:   func(*MockAccountRepository, *MockResourceRepository) {},
			wantErr: apperrors.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(MockAccountRepository)
			resources := new(MockResourceRepository)
			tt.setup(accounts, resources)

			service := NewSuperadminService(accounts, resources, new(MockMessageRepository), &recordingQueue{})
			err := service.DeleteEntity(context.Background(), tt.entity, 7)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			accounts.AssertExpectations(t)
			resources.AssertExpectations(t)
		})
	}
}

func TestSuperadminService_DeleteEntityStoreFailure(t *testing.T) {
	accounts := new(MockAccountRepository)
	accounts.On("DeleteStudent", mock.Anything, uint(3)).Return(int64(0), errors.New("connection reset"))

	service := NewSuperadminService(accounts, new(MockResourceRepository), new(MockMessageRepository), &recordingQueue{})
	err := service.DeleteEntity(context.Background(), EntityStudents, 3)

	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
}

func TestSuperadminService_AssignClassRep(t *testing.T) {
	t.Run("promotes and notifies", func(t *testing.T) {
		student := &model.Student{ID: 4, Email: "jane@uni.test", UserRole: model.RoleStudent}
		accounts := new(MockAccountRepository)
		accounts.On("FindStudentByEmail", mock.Anything, "jane@uni.test").Return(student, nil)
		accounts.On("PromoteToClassRep", mock.Anything, student).Return(nil)
		queue := &recordingQueue{}

		service := NewSuperadminService(accounts, new(MockResourceRepository), new(MockMessageRepository), queue)
		require.NoError(t, service.AssignClassRep(context.Background(), " jane@uni.test "))

		sent := queue.messages()
		require.Len(t, sent, 1)
		assert.Equal(t, "jane@uni.test", sent[0].To)
		assert.Equal(t, "Class Representative Assignment", sent[0].Subject)
		accounts.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindStudentByEmail", mock.Anything, "ghost@uni.test").Return(nil, gorm.ErrRecordNotFound)
		queue := &recordingQueue{}

		service := NewSuperadminService(accounts, new(MockResourceRepository), new(MockMessageRepository), queue)
		err := service.AssignClassRep(context.Background(), "ghost@uni.test")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Empty(t, queue.messages())
		accounts.AssertNotCalled(t, "PromoteToClassRep", mock.Anything, mock.Anything)
	})
}

func TestSuperadminService_ListStudents(t *testing.T) {
	accounts := new(MockAccountRepository)
	accounts.On("CountStudents", mock.Anything).Return(model.GenderCounts{Total: 3, Female: 2, Male: 1}, nil)
	accounts.On("ListStudents", mock.Anything).Return([]model.Student{{ID: 1}, {ID: 2}, {ID: 3}}, nil)

	service := NewSuperadminService(accounts, new(MockResourceRepository), new(MockMessageRepository), &recordingQueue{})
	overview, err := service.ListStudents(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.Total)
	assert.Equal(t, int64(2), overview.Female)
	assert.Len(t, overview.Students, 3)
}

func TestSuperadminService_CreateAdmin(t *testing.T) {
	t.Run("email taken", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("EmailTaken", mock.Anything, "ops@uni.test").Return(true, nil)

		service := NewSuperadminService(accounts, new(MockResourceRepository), new(MockMessageRepository), &recordingQueue{})
		_, err := service.CreateAdmin(context.Background(), CreateAdminInput{Email: "ops@uni.test", Password: "secret1"})

		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
		accounts.AssertNotCalled(t, "CreateAdmin", mock.Anything, mock.Anything)
	})

	t.Run("stores a hashed password", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("EmailTaken", mock.Anything, "ops@uni.test").Return(false, nil)
		accounts.On("CreateAdmin", mock.Anything, mock.AnythingOfType("*model.Admin")).Return(nil)

		service := NewSuperadminService(accounts, new(MockResourceRepository), new(MockMessageRepository), &recordingQueue{})
		admin, err := service.CreateAdmin(context.Background(), CreateAdminInput{
			Email: "ops@uni.test", Password: "secret1", FirstName: "Ops", LastName: "Team",
		})

		require.NoError(t, err)
		assert.NotEqual(t, "secret1", admin.PasswordHash)
		assert.True(t, checkPassword(admin.PasswordHash, "secret1"))
	})
}

func TestSuperadminService_FeedbackSummary(t *testing.T) {
	tests := []struct {
		name   string
		totals repository.FeedbackTotals
		want   string
	}{
		{"no feedback", repository.FeedbackTotals{}, "0"},
		{"rounds to two places", repository.FeedbackTotals{Count: 3, RatingSum: 14}, "4.67"},
		{"whole number", repository.FeedbackTotals{Count: 2, RatingSum: 8}, "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := new(MockMessageRepository)
			messages.On("FeedbackTotals", mock.Anything).Return(tt.totals, nil)

			service := NewSuperadminService(new(MockAccountRepository), new(MockResourceRepository), messages, &recordingQueue{})
			summary, err := service.FeedbackSummary(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.totals.Count, summary.TotalFeedback)
			assert.Equal(t, tt.want, summary.AverageRating.String())
		})
	}
}
