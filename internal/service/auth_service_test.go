package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eduhub/internal/auth"
	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
)

const testSecret = "test-secret"

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestAuthService(repo *MockAccountRepository, courses *MockCourseRepository, tokens *MockTokenStore, queue *recordingQueue) AuthService {
	return NewAuthService(repo, courses, auth.NewJWTService(testSecret, time.Hour), tokens, queue, AuthConfig{
		SuperUser:     "root@eduhub.test",
		SuperPassword: "super-secret",
		ResetLinkBase: "http://app.test/reset-password/",
		ResetTokenTTL: 5 * time.Minute,
	})
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockAccountRepository, *MockCourseRepository)
		expectedError error
	}{
		{
			name: "successful registration",
			setupMock: func(m *MockAccountRepository, c *MockCourseRepository) {
				m.On("EmailTaken", mock.Anything, "amina@example.com").Return(false, nil)
				c.On("FindByName", mock.Anything, "Computer Science").Return(&model.Course{ID: 3, Name: "Computer Science"}, nil)
				m.On("CreateStudent", mock.Anything, mock.AnythingOfType("*model.Student")).Return(nil)
			},
		},
		{
			name: "email already in use",
			setupMock: func(m *MockAccountRepository, c *MockCourseRepository) {
				m.On("EmailTaken", mock.Anything, "amina@example.com").Return(true, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name: "unknown course",
			setupMock: func(m *MockAccountRepository, c *MockCourseRepository) {
				m.On("EmailTaken", mock.Anything, "amina@example.com").Return(false, nil)
				c.On("FindByName", mock.Anything, "Computer Science").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrCourseNotFound,
		},
		{
			name: "duplicate key on insert",
			setupMock: func(m *MockAccountRepository, c *MockCourseRepository) {
				m.On("EmailTaken", mock.Anything, "amina@example.com").Return(false, nil)
				c.On("FindByName", mock.Anything, "Computer Science").Return(&model.Course{ID: 3, Name: "Computer Science"}, nil)
				m.On("CreateStudent", mock.Anything, mock.AnythingOfType("*model.Student")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAccountRepository)
			mockCourses := new(MockCourseRepository)
			tt.setupMock(mockRepo, mockCourses)

			service := newTestAuthService(mockRepo, mockCourses, new(MockTokenStore), &recordingQueue{})
			student, err := service.Register(context.Background(), RegisterInput{
				Email:     "amina@example.com",
				Password:  "password123",
				FirstName: "Amina",
				LastName:  "Otieno",
				Course:    "Computer Science",
				Year:      2,
				Semester:  1,
				Gender:    "Female",
			})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, student)
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.RoleStudent, student.UserRole)
				assert.Equal(t, uint(3), student.CourseID)
				assert.Equal(t, "Computer Science", student.CourseName)
				assert.NotEqual(t, "password123", student.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("password123")))
			}

			mockRepo.AssertExpectations(t)
			mockCourses.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	student := &model.Student{
		ID:           7,
		Email:        "amina@example.com",
		FirstName:    "Amina",
		LastName:     "Otieno",
		CourseID:     3,
		CourseName:   "Computer Science",
		Year:         2,
		Semester:     1,
		UserRole:     model.RoleClassRep,
		PasswordHash: hashed(t, "password123"),
	}
	admin := &model.Admin{ID: 2, Email: "admin@example.com", FirstName: "Grace", PasswordHash: hashed(t, "adminpass")}

	tests := []struct {
		name           string
		email          string
		password       string
		setupMock      func(*MockAccountRepository)
		expectedError  error
		expectedRole   model.Role
		expectedTarget string
	}{
		{
			name:           "superadmin pair matches",
			email:          "root@eduhub.test",
			password:       "super-secret",
			setupMock:      func(m *MockAccountRepository) {},
			expectedRole:   model.RoleSuperadmin,
			expectedTarget: "/superadmin",
		},
		{
			name:     "wrong superadmin password falls through to not found",
			email:    "root@eduhub.test",
			password: "guess",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindStudentByEmail", mock.Anything, "root@eduhub.test").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindAdminByEmail", mock.Anything, "root@eduhub.test").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:     "student keeps stored role",
			email:    "amina@example.com",
			password: "password123",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindStudentByEmail", mock.Anything, "amina@example.com").Return(student, nil)
			},
			expectedRole:   model.RoleClassRep,
			expectedTarget: "/dashboard",
		},
		{
			name:     "wrong student password",
			email:    "amina@example.com",
			password: "nope",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindStudentByEmail", mock.Anything, "amina@example.com").Return(student, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "admin login",
			email:    "admin@example.com",
			password: "adminpass",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindStudentByEmail", mock.Anything, "admin@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindAdminByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
			},
			expectedRole:   model.RoleAdmin,
			expectedTarget: "/admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAccountRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), &recordingQueue{})
			result, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, result.Token)
				assert.Equal(t, tt.expectedTarget, result.RedirectTo)

				claims, err := auth.NewJWTService(testSecret, time.Hour).Verify(result.Token)
				require.NoError(t, err)
				assert.Equal(t, tt.expectedRole, claims.Role)
				assert.Equal(t, tt.email, claims.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginSnapshot(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindStudentByEmail", mock.Anything, "amina@example.com").Return(&model.Student{
		ID:           7,
		Email:        "amina@example.com",
		FirstName:    "Amina",
		LastName:     "Otieno",
		CourseID:     3,
		CourseName:   "Computer Science",
		Year:         2,
		Semester:     1,
		UserRole:     model.RoleStudent,
		PasswordHash: hashed(t, "password123"),
	}, nil)

	service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), &recordingQueue{})
	result, err := service.Login(context.Background(), "amina@example.com", "password123")
	require.NoError(t, err)

	c := result.Claims
	assert.Equal(t, uint(7), c.ID)
	assert.Equal(t, "Amina", c.FirstName)
	assert.Equal(t, "Otieno", c.LastName)
	assert.Equal(t, uint(3), c.CourseID)
	assert.Equal(t, "Computer Science", c.Course)
	assert.Equal(t, 2, c.Year)
	assert.Equal(t, 1, c.Semester)
	assert.NotEmpty(t, c.TokenID())
}

func TestAuthService_Logout(t *testing.T) {
	tokens := new(MockTokenStore)
	service := newTestAuthService(new(MockAccountRepository), new(MockCourseRepository), tokens, &recordingQueue{})

	_, claims, err := auth.NewJWTService(testSecret, time.Hour).Issue(auth.Identity{ID: 1, Role: model.RoleStudent})
	require.NoError(t, err)
	tokens.On("Revoke", mock.Anything, claims.TokenID(), mock.AnythingOfType("time.Duration")).Return(nil)

	assert.NoError(t, service.Logout(context.Background(), claims))
	assert.ErrorIs(t, service.Logout(context.Background(), nil), apperrors.ErrUnauthorized)
	tokens.AssertExpectations(t)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindStudentByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
		queue := &recordingQueue{}

		service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), queue)
		err := service.ForgotPassword(context.Background(), "ghost@example.com")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Empty(t, queue.messages())
	})

	t.Run("stores token and mails link", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindStudentByEmail", mock.Anything, "amina@example.com").Return(&model.Student{ID: 7, Email: "amina@example.com"}, nil)

		var stored string
		mockRepo.On("SetResetToken", mock.Anything, uint(7), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) {
				stored = args.String(2)
				expiry := args.Get(3).(time.Time)
				assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiry, 5*time.Second)
			}).
			Return(nil)
		queue := &recordingQueue{}

		service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), queue)
		require.NoError(t, service.ForgotPassword(context.Background(), "amina@example.com"))

		assert.Len(t, stored, 64)
		msgs := queue.messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "amina@example.com", msgs[0].To)
		assert.True(t, strings.Contains(msgs[0].Text, "http://app.test/reset-password/"+stored))
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_ResetPasswordIsSingleUse(t *testing.T) {
	var storedHash string
	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindStudentByValidResetTokenForUpdate", mock.Anything, "tok", mock.AnythingOfType("time.Time")).
		Return(&model.Student{ID: 7, Email: "amina@example.com"}, nil).Once()
	mockRepo.On("ResetPassword", mock.Anything, uint(7), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			storedHash = args.String(2)
		}).
		Return(int64(1), nil).Once()
	mockRepo.On("FindStudentByValidResetTokenForUpdate", mock.Anything, "tok", mock.AnythingOfType("time.Time")).
		Return(nil, gorm.ErrRecordNotFound)
	queue := &recordingQueue{}

	service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), queue)

	require.NoError(t, service.ResetPassword(context.Background(), "tok", "newpass1"))
	err := service.ResetPassword(context.Background(), "tok", "another1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	msgs := queue.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Password Reset", msgs[0].Subject)
	mockRepo.AssertExpectations(t)

	// The stored hash must let the student sign in with the new password.
	require.NotEmpty(t, storedHash)
	mockRepo.On("FindStudentByEmail", mock.Anything, "amina@example.com").Return(&model.Student{
		ID: 7, Email: "amina@example.com", PasswordHash: storedHash,
		CourseID: 3, CourseName: "Computer Science", UserRole: model.RoleStudent,
	}, nil)

	result, err := service.Login(context.Background(), "amina@example.com", "newpass1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = service.Login(context.Background(), "amina@example.com", "another1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_ResendResetLink(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindStudentByResetToken", mock.Anything, "stale").Return(nil, gorm.ErrRecordNotFound)

		service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), &recordingQueue{})
		err := service.ResendResetLink(context.Background(), "stale")

		assert.ErrorIs(t, err, apperrors.ErrResetTokenNotFound)
		assert.Equal(t, 404, apperrors.MapErrorToHTTP(err).StatusCode)
	})

	t.Run("expired token still yields a fresh one", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		old := "old"
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindStudentByResetToken", mock.Anything, "old").
			Return(&model.Student{ID: 7, Email: "amina@example.com", ResetToken: &old, ResetTokenExpiry: &expired}, nil)
		mockRepo.On("SetResetToken", mock.Anything, uint(7), mock.MatchedBy(func(tok string) bool { return tok != "old" }), mock.AnythingOfType("time.Time")).
			Return(nil)
		queue := &recordingQueue{}

		service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), queue)
		require.NoError(t, service.ResendResetLink(context.Background(), "old"))
		assert.Len(t, queue.messages(), 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	caller := &auth.Claims{ID: 7, Role: model.RoleStudent}

	t.Run("other student is forbidden", func(t *testing.T) {
		service := newTestAuthService(new(MockAccountRepository), new(MockCourseRepository), new(MockTokenStore), &recordingQueue{})
		err := service.ChangePassword(context.Background(), caller, 8, "a", "b")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("admin with a colliding id is forbidden", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), &recordingQueue{})
		admin := &auth.Claims{ID: 7, Role: model.RoleAdmin}

		err := service.ChangePassword(context.Background(), admin, 7, "right", "newpass1")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "FindStudentByID", mock.Anything, mock.Anything)
	})

	t.Run("superadmin may change any student", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindStudentByID", mock.Anything, uint(8)).Return(&model.Student{ID: 8, PasswordHash: hashed(t, "right")}, nil)
		mockRepo.On("UpdatePassword", mock.Anything, uint(8), mock.AnythingOfType("string")).Return(nil)

		service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), &recordingQueue{})
		root := &auth.Claims{Role: model.RoleSuperadmin}
		assert.NoError(t, service.ChangePassword(context.Background(), root, 8, "right", "newpass1"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindStudentByID", mock.Anything, uint(7)).Return(&model.Student{ID: 7, PasswordHash: hashed(t, "right")}, nil)

		service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), &recordingQueue{})
		err := service.ChangePassword(context.Background(), caller, 7, "wrong", "newpass1")
		assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindStudentByID", mock.Anything, uint(7)).Return(&model.Student{ID: 7, PasswordHash: hashed(t, "right")}, nil)
		mockRepo.On("UpdatePassword", mock.Anything, uint(7), mock.AnythingOfType("string")).Return(nil)

		service := newTestAuthService(mockRepo, new(MockCourseRepository), new(MockTokenStore), &recordingQueue{})
		assert.NoError(t, service.ChangePassword(context.Background(), caller, 7, "right", "newpass1"))
		mockRepo.AssertExpectations(t)
	})
}
