package waste

import (
	"context"

	"greensteps/internal/reward"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) Create(ctx context.Context, userID int, e Entry) (int, error) {
	args := m.Called(ctx, userID, e)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, recordID, userID int) (*Record, error) {
	args := m.Called(ctx, recordID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockRepository) ListForUser(ctx context.Context, userID, limit, offset int) ([]Record, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockRepository) Recent(ctx context.Context, userID, limit int) ([]Record, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, recordID, userID int, e Entry) error {
	return m.Called(ctx, recordID, userID, e).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, recordID, userID int) error {
	return m.Called(ctx, recordID, userID).Error(0)
}

func (m *MockRepository) ListAll(ctx context.Context, limit, offset int) ([]Record, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockRepository) Categories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func (m *MockRepository) CategoryByID(ctx context.Context, id int) (*Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockRepository) CategoryExists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockRewarder struct{ mock.Mock }

func (m *MockRewarder) AwardForEntry(ctx context.Context, userID, recordID int, quantity float64) (*reward.Award, error) {
	args := m.Called(ctx, userID, recordID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reward.Award), args.Error(1)
}

type MockService struct{ mock.Mock }

func (m *MockService) AddEntry(ctx context.Context, userID int, e Entry) (*AddResult, error) {
	args := m.Called(ctx, userID, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AddResult), args.Error(1)
}

func (m *MockService) List(ctx context.Context, userID, page, limit int) ([]Record, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, recordID, userID int, e Entry) error {
	return m.Called(ctx, recordID, userID, e).Error(0)
}

func (m *MockService) Delete(ctx context.Context, recordID, userID int) error {
	return m.Called(ctx, recordID, userID).Error(0)
}

func (m *MockService) Categories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func (m *MockService) ListAll(ctx context.Context, limit, offset int) ([]Record, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}
