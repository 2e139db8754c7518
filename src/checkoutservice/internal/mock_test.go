package internal

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Name() GatewayName {
	args := m.Called()
	return args.Get(0).(GatewayName)
}

func (m *MockGateway) ReadyPolicy() ReadyPolicy {
	args := m.Called()
	return args.Get(0).(ReadyPolicy)
}

func (m *MockGateway) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockGateway) Confirm(ctx context.Context, approval *Approval, csrfToken string) (*Payment, error) {
	args := m.Called(ctx, approval, csrfToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Issue(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) Token(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}
