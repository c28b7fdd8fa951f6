// Package mocks provides shared test doubles for the store and auth interfaces.
//
// Each mock keeps an in-memory default implementation and exposes function
// fields that override a single method:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id int64) (*domain.User, error) {
//	    return nil, errors.New("boom")
//	}
package mocks
