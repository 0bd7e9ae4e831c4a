package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-media/internal/domain/entities"
	"course-media/pkg/constants"
	apperrors "course-media/pkg/errors"
)

func TestCanAccess(t *testing.T) {
	mentorID := uuid.New()
	learnerID := uuid.New()
	strangerID := uuid.New()

	courses := newFakeCourseRepo()
	orders := newFakeOrderRepo()

	course := &entities.Course{MentorID: mentorID, Title: "Go Basics"}
	require.NoError(t, courses.Create(context.Background(), course))
	require.NoError(t, orders.Create(context.Background(), &entities.Order{
		UserID:   learnerID,
		CourseID: course.ID,
		Status:   constants.StatusCompleted,
	}))

	service := NewAccessService(courses, orders)

	tests := []struct {
		name        string
		userID      uuid.UUID
		courseID    uuid.UUID
		wantAllowed bool
		wantRole    string
		wantCode    string
	}{
		{
			name:        "mentor owns the course",
			userID:      mentorID,
			courseID:    course.ID,
			wantAllowed: true,
			wantRole:    constants.RoleOwner,
		},
		{
			name:        "learner with completed order is enrolled",
			userID:      learnerID,
			courseID:    course.ID,
			wantAllowed: true,
			wantRole:    constants.RoleEnrolled,
		},
		{
			name:        "stranger is denied",
			userID:      strangerID,
			courseID:    course.ID,
			wantAllowed: false,
			wantRole:    constants.RoleNone,
		},
		{
			name:        "anonymous is denied",
			userID:      uuid.Nil,
			courseID:    course.ID,
			wantAllowed: false,
			wantRole:    constants.RoleNone,
		},
		{
			name:     "missing course is not found",
			userID:   mentorID,
			courseID: uuid.New(),
			wantCode: "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := service.CanAccess(context.Background(), tt.userID, tt.courseID)
			if tt.wantCode != "" {
				var mediaErr *apperrors.MediaError
				require.ErrorAs(t, err, &mediaErr)
				assert.Equal(t, tt.wantCode, mediaErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			assert.Equal(t, tt.wantRole, decision.Role)
		})
	}
}

func TestCanAccessOrderWithoutCompletionDoesNotEnroll(t *testing.T) {
	mentorID := uuid.New()
	learnerID := uuid.New()

	courses := newFakeCourseRepo()
	orders := newFakeOrderRepo()

	course := &entities.Course{MentorID: mentorID}
	require.NoError(t, courses.Create(context.Background(), course))
	require.NoError(t, orders.Create(context.Background(), &entities.Order{
		UserID:   learnerID,
		CourseID: course.ID,
		Status:   constants.StatusPending,
	}))

	decision, err := NewAccessService(courses, orders).
		CanAccess(context.Background(), learnerID, course.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, constants.RoleNone, decision.Role)
}
