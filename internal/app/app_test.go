package app

import (
	"context"
	"io"
	"sync"

	"github.com/nabin216/ZotPot/internal/services/identity"
	"github.com/nabin216/ZotPot/internal/services/payment"
	"github.com/nabin216/ZotPot/internal/store"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore() *store.Store {
	return store.New(store.WithLogger(testLogger()))
}

type fakeIdentity struct {
	signIn  func(ctx context.Context, email, password string) (*identity.Session, error)
	signUp  func(ctx context.Context, email, password string) (string, error)
	signOut func(ctx context.Context) error

	mu       sync.Mutex
	signOuts int
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	return f.signIn(ctx, email, password)
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (string, error) {
	return f.signUp(ctx, email, password)
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signOuts++
	f.mu.Unlock()
	if f.signOut != nil {
		return f.signOut(ctx)
	}
	return nil
}

func (f *fakeIdentity) CurrentUser() (string, bool) { return "", false }

type fakeUploader struct {
	upload func(ctx context.Context, path string, data []byte) (string, error)
}

func (f *fakeUploader) Upload(ctx context.Context, path string, data []byte) (string, error) {
	return f.upload(ctx, path, data)
}

type fakePayments struct {
	initiate func(ctx context.Context, req payment.Request) (*payment.Initiation, error)
	verify   func(v payment.Verification) error
}

func (f *fakePayments) Initiate(ctx context.Context, req payment.Request) (*payment.Initiation, error) {
	return f.initiate(ctx, req)
}

func (f *fakePayments) Verify(v payment.Verification) error {
	return f.verify(v)
}
