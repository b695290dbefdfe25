package app_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"memoboard/internal/memos/app"
	"memoboard/internal/memos/domain/entities"
)

func memoOrNil(v any) *entities.Memo {
	if v == nil {
		return nil
	}
	return v.(*entities.Memo)
}

func memosOrNil(v any) []*entities.Memo {
	if v == nil {
		return nil
	}
	return v.([]*entities.Memo)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context) ([]*entities.Memo, error) {
	args := m.Called(ctx)
	return memosOrNil(args.Get(0)), args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, memoID string) (*entities.Memo, error) {
	args := m.Called(ctx, memoID)
	return memoOrNil(args.Get(0)), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	args := m.Called(ctx, memo)
	return memoOrNil(args.Get(0)), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, memo *entities.Memo) (*entities.Memo, error) {
	args := m.Called(ctx, memo)
	return memoOrNil(args.Get(0)), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, memoID string) error {
	return m.Called(ctx, memoID).Error(0)
}

func (m *mockStore) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) AttachSummary(ctx context.Context, memoID, summary string) error {
	return m.Called(ctx, memoID, summary).Error(0)
}

func (m *mockStore) Search(ctx context.Context, query string) ([]*entities.Memo, error) {
	args := m.Called(ctx, query)
	return memosOrNil(args.Get(0)), args.Error(1)
}

func (m *mockStore) ListByCategory(ctx context.Context, category string) ([]*entities.Memo, error) {
	args := m.Called(ctx, category)
	return memosOrNil(args.Get(0)), args.Error(1)
}

func (m *mockStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) StorageKind() app.StoreKind {
	return m.Called().Get(0).(app.StoreKind)
}

func (m *mockGateway) List(ctx context.Context) ([]*entities.Memo, error) {
	args := m.Called(ctx)
	return memosOrNil(args.Get(0)), args.Error(1)
}

func (m *mockGateway) Get(ctx context.Context, memoID string) (*entities.Memo, error) {
	args := m.Called(ctx, memoID)
	return memoOrNil(args.Get(0)), args.Error(1)
}

func (m *mockGateway) Create(ctx context.Context, draft entities.Draft) (*entities.Memo, error) {
	args := m.Called(ctx, draft)
	return memoOrNil(args.Get(0)), args.Error(1)
}

func (m *mockGateway) Update(ctx context.Context, memoID string, draft entities.Draft) (*entities.Memo, error) {
	args := m.Called(ctx, memoID, draft)
	return memoOrNil(args.Get(0)), args.Error(1)
}

func (m *mockGateway) Delete(ctx context.Context, memoID string) error {
	return m.Called(ctx, memoID).Error(0)
}

func (m *mockGateway) ClearAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockGateway) AttachSummary(ctx context.Context, memoID, summary string) error {
	return m.Called(ctx, memoID, summary).Error(0)
}

func (m *mockGateway) Search(ctx context.Context, query string) ([]*entities.Memo, error) {
	args := m.Called(ctx, query)
	return memosOrNil(args.Get(0)), args.Error(1)
}

func (m *mockGateway) ListByCategory(ctx context.Context, category string) ([]*entities.Memo, error) {
	args := m.Called(ctx, category)
	return memosOrNil(args.Get(0)), args.Error(1)
}

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}
