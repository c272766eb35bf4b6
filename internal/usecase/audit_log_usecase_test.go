package usecase_test

import (
	"context"
	"errors"
	"testing"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"
	"tableorder/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditLogList_PassesFilterWithDefaultLimit(t *testing.T) {
	logs := &AuditRepoMock{}
	uc := usecase.NewAuditLogUsecase(logs)

	actor := int64(7)
	action := model.AuditActionDeleteOrder
	logs.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.ActorAdminID != nil && *f.ActorAdminID == 7 &&
			f.Action != nil && *f.Action == model.AuditActionDeleteOrder &&
			f.Limit == 50 && f.Offset == 0
	})).Return([]model.AuditLog{{ID: 2, ActorAdminID: 7, Action: action}}, nil)

	got, err := uc.List(context.Background(), usecase.AuditLogQuery{ActorAdminID: &actor, Action: &action})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	logs.AssertExpectations(t)
}

func TestAuditLogList_LimitIsCapped(t *testing.T) {
	logs := &AuditRepoMock{}
	uc := usecase.NewAuditLogUsecase(logs)

	logs.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.Limit == 200 && f.Offset == 400
	})).Return(nil, nil)

	got, err := uc.List(context.Background(), usecase.AuditLogQuery{Limit: 1000, Offset: 400})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAuditLogList_InvalidQuery(t *testing.T) {
	badAction := model.AuditAction("DROP_TABLE")
	badResource := model.AuditResourceType("user")
	later := testNow
	earlier := testNow.Add(-1)

	cases := []struct {
		name string
		q    usecase.AuditLogQuery
	}{
		{name: "unknown action", q: usecase.AuditLogQuery{Action: &badAction}},
		{name: "unknown resource", q: usecase.AuditLogQuery{ResourceType: &badResource}},
		{name: "from after to", q: usecase.AuditLogQuery{From: &later, To: &earlier}},
		{name: "negative limit", q: usecase.AuditLogQuery{Limit: -1}},
		{name: "negative offset", q: usecase.AuditLogQuery{Offset: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := &AuditRepoMock{}
			uc := usecase.NewAuditLogUsecase(logs)

			_, err := uc.List(context.Background(), tc.q)

			assert.ErrorIs(t, err, usecase.ErrInvalidInput)
			logs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestAuditLogList_RepositoryFailureIsInternal(t *testing.T) {
	logs := &AuditRepoMock{}
	uc := usecase.NewAuditLogUsecase(logs)
	logs.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := uc.List(context.Background(), usecase.AuditLogQuery{})

	assert.ErrorIs(t, err, usecase.ErrInternal)
}
