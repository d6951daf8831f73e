package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Save(ctx context.Context, cr *Credit) error {
	ret := _m.Called(ctx, cr)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Credit) error); ok {
		r0 = rf(ctx, cr)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) FindByID(ctx context.Context, creditID int64) (*Credit, error) {
	ret := _m.Called(ctx, creditID)

	var r0 *Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Credit)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]*Credit, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Credit)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByCreditCode(ctx context.Context, code uuid.UUID) (*Credit, error) {
	ret := _m.Called(ctx, code)

	var r0 *Credit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Credit)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	ret := _m.Called(ctx, status)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockRepository) CountFirstInstallmentsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ret := _m.Called(ctx, from, to)
	return ret.Get(0).(int64), ret.Error(1)
}
