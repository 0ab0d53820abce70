package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nabin216/ZotPot/internal/domain/auth"
	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/infrastructure/docstore"
	"github.com/nabin216/ZotPot/internal/pkg/money"
	"github.com/nabin216/ZotPot/internal/services/identity"
	"github.com/nabin216/ZotPot/internal/services/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedInIdentity(uid string) *fakeIdentity {
	return &fakeIdentity{
		signIn: func(ctx context.Context, email, password string) (*identity.Session, error) {
			return &identity.Session{UserID: uid, Email: email, IDToken: "token-" + uid}, nil
		},
	}
}

func TestSession_SignInLoadsProfileAndOrders(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	docs := docstore.NewMemory()

	require.NoError(t, docs.Set(ctx, docstore.CollectionUsers, "u1", docstore.Document{
		"name": "Asha",
		"role": "delivery_agent",
	}))
	history, err := docstore.Encode(orderHistory{Orders: []order.Order{
		{ID: "o1", Status: order.OrderStatusDelivered, Total: money.New(12.5)},
	}})
	require.NoError(t, err)
	require.NoError(t, docs.Set(ctx, docstore.CollectionOrderHistory, "u1", history))

	orders := NewOrders(st, docs, testLogger())
	s := NewSession(st, signedInIdentity("u1"), docs, nil, orders, testLogger())

	user, sess, err := s.SignIn(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "token-u1", sess.IDToken)

	snap := st.Snapshot()
	assert.True(t, snap.Auth.IsAuthenticated())
	assert.Equal(t, "token-u1", snap.Auth.Token())
	assert.Equal(t, auth.RoleDeliveryAgent, snap.Auth.User().Role)
	assert.Equal(t, auth.RouteDeliveryAgent, snap.Route)
	require.Equal(t, 1, snap.Order.Len())
	assert.False(t, snap.Order.IsLoading())
}

func TestSession_SignInWithoutProfileUsesDefaults(t *testing.T) {
	st := newTestStore()
	s := NewSession(st, signedInIdentity("u2"), docstore.NewMemory(), nil, nil, testLogger())

	user, _, err := s.SignIn(context.Background(), "new@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, auth.RoleCustomer, user.Role)
	assert.Equal(t, auth.RouteCustomer, st.Snapshot().Route)
}

func TestSession_SignInFailureLeavesStoreUntouched(t *testing.T) {
	st := newTestStore()
	provider := &fakeIdentity{
		signIn: func(ctx context.Context, email, password string) (*identity.Session, error) {
			return nil, identity.ErrInvalidCredentials
		},
	}
	s := NewSession(st, provider, docstore.NewMemory(), nil, nil, testLogger())

	_, _, err := s.SignIn(context.Background(), "a@b.co", "wrong")
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Equal(t, "Incorrect password", identity.LoginMessage(err))
	assert.False(t, st.Snapshot().Auth.IsAuthenticated())
	assert.Zero(t, st.Snapshot().Revisions.Auth)
}

func TestSession_SignInCancelledSkipsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := newTestStore()
	provider := &fakeIdentity{
		signIn: func(context.Context, string, string) (*identity.Session, error) {
			cancel()
			return &identity.Session{UserID: "u1", IDToken: "t"}, nil
		},
	}
	s := NewSession(st, provider, docstore.NewMemory(), nil, nil, testLogger())

	_, _, err := s.SignIn(ctx, "a@b.co", "secret1")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, st.Snapshot().Auth.IsAuthenticated())
	assert.Equal(t, 1, provider.signOuts)
}

func TestSession_SignUp(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemory()
	provider := &fakeIdentity{
		signUp: func(ctx context.Context, email, password string) (string, error) {
			return "u9", nil
		},
	}
	s := NewSession(newTestStore(), provider, docs, nil, nil, testLogger())

	uid, err := s.SignUp(ctx, SignUpRequest{Name: " Ravi ", Email: "Ravi@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u9", uid)

	doc, ok, err := docs.Get(ctx, docstore.CollectionUsers, "u9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ravi", doc["name"])
	assert.Equal(t, "ravi@example.com", doc["email"])
	assert.Equal(t, "customer", doc["role"])
	assert.NotEmpty(t, doc["created_at"])
}

func TestSession_SignUpValidation(t *testing.T) {
	provider := &fakeIdentity{
		signUp: func(context.Context, string, string) (string, error) {
			t.Error("identity provider must not be called")
			return "", nil
		},
	}
	s := NewSession(newTestStore(), provider, docstore.NewMemory(), nil, nil, testLogger())

	_, err := s.SignUp(context.Background(), SignUpRequest{Name: "  ", Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = s.SignUp(context.Background(), SignUpRequest{Name: "A", Email: "a@b.co", Password: "secret1", Role: "chef"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSession_SignOutResetsSlices(t *testing.T) {
	st := newTestStore()
	s := NewSession(st, signedInIdentity("u1"), docstore.NewMemory(), nil, nil, testLogger())

	_, _, err := s.SignIn(context.Background(), "a@b.co", "secret1")
	require.NoError(t, err)
	st.Dispatch(cart.AddOrUpdateItem{Item: cart.Item{ID: "p1", Name: "Dosa", Price: money.New(3), Quantity: 1}})
	st.Dispatch(order.AddOrder{Order: order.Order{ID: "o1", Status: order.OrderStatusPending}})
	st.Dispatch(order.SetCurrentOrder{Order: &order.Order{ID: "o1", Status: order.OrderStatusPending}})
	st.Dispatch(order.ErrorMessage("boom"))

	require.NoError(t, s.SignOut(context.Background()))

	snap := st.Snapshot()
	assert.False(t, snap.Auth.IsAuthenticated())
	assert.Equal(t, auth.RouteAuth, snap.Route)
	assert.True(t, snap.Cart.Empty())
	assert.Zero(t, snap.Order.Len())
	assert.Nil(t, snap.Order.CurrentOrder())
	assert.Nil(t, snap.Order.Error())
}

func TestSession_SignOutError(t *testing.T) {
	st := newTestStore()
	provider := signedInIdentity("u1")
	provider.signOut = func(context.Context) error { return errors.New("network down") }
	s := NewSession(st, provider, docstore.NewMemory(), nil, nil, testLogger())

	_, _, err := s.SignIn(context.Background(), "a@b.co", "secret1")
	require.NoError(t, err)

	require.Error(t, s.SignOut(context.Background()))
	assert.True(t, st.Snapshot().Auth.IsAuthenticated())
}

func TestSession_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	docs := docstore.NewMemory()
	s := NewSession(st, signedInIdentity("u1"), docs, nil, nil, testLogger())

	assert.ErrorIs(t, s.UpdateProfile(ctx, auth.NameUpdate{Name: "X"}), ErrNotSignedIn)

	_, _, err := s.SignIn(ctx, "a@b.co", "secret1")
	require.NoError(t, err)

	// no profile document yet, so the update creates one
	require.NoError(t, s.UpdateProfile(ctx, auth.NameUpdate{Name: "Meera"}, auth.PhoneUpdate{Phone: "98450 12345"}))

	doc, ok, err := docs.Get(ctx, docstore.CollectionUsers, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Meera", doc["name"])
	assert.Equal(t, "98450 12345", doc["phone"])

	user := st.Snapshot().Auth.User()
	assert.Equal(t, "Meera", user.Name)
	assert.Equal(t, "98450 12345", user.Phone)

	require.NoError(t, s.UpdateProfile(ctx, auth.NameUpdate{Name: "Meera K"}))
	doc, _, err = docs.Get(ctx, docstore.CollectionUsers, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Meera K", doc["name"])
	assert.Equal(t, "98450 12345", doc["phone"])

	// nil updates are skipped, not dereferenced
	require.NoError(t, s.UpdateProfile(ctx, nil))
	require.NoError(t, s.UpdateProfile(ctx, nil, auth.PhoneUpdate{Phone: "98450 99999"}))
	doc, _, err = docs.Get(ctx, docstore.CollectionUsers, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Meera K", doc["name"])
	assert.Equal(t, "98450 99999", doc["phone"])
	assert.Equal(t, "98450 99999", st.Snapshot().Auth.User().Phone)
}

func TestSession_UploadAvatar(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	docs := docstore.NewMemory()

	var uploadedPath string
	uploader := &fakeUploader{
		upload: func(ctx context.Context, path string, data []byte) (string, error) {
			uploadedPath = path
			return "https://cdn.example.com/" + path, nil
		},
	}
	s := NewSession(st, signedInIdentity("u1"), docs, uploader, nil, testLogger())
	_, _, err := s.SignIn(ctx, "a@b.co", "secret1")
	require.NoError(t, err)

	url, err := s.UploadAvatar(ctx, "Me.PNG", []byte("png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(uploadedPath, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(uploadedPath, ".png"))
	assert.Equal(t, url, st.Snapshot().Auth.User().Avatar)

	doc, _, err := docs.Get(ctx, docstore.CollectionUsers, "u1")
	require.NoError(t, err)
	assert.Equal(t, url, doc["avatar"])
}

func TestSession_UploadAvatarFailure(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	uploader := &fakeUploader{
		upload: func(context.Context, string, []byte) (string, error) {
			return "", errors.New("disk full")
		},
	}
	s := NewSession(st, signedInIdentity("u1"), docstore.NewMemory(), uploader, nil, testLogger())
	_, _, err := s.SignIn(ctx, "a@b.co", "secret1")
	require.NoError(t, err)

	_, err = s.UploadAvatar(ctx, "me.png", []byte("png"))
	require.Error(t, err)
	assert.Empty(t, st.Snapshot().Auth.User().Avatar)
}

func TestSession_RegisterDevice(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	docs := docstore.NewMemory()
	require.NoError(t, docs.Set(ctx, docstore.CollectionUsers, "u1", docstore.Document{"name": "Asha"}))

	s := NewSession(st, signedInIdentity("u1"), docs, nil, nil, testLogger())
	assert.ErrorIs(t, s.RegisterDevice(ctx, push.Reported{Status: push.PermissionGranted, PushToken: "tok"}), ErrNotSignedIn)

	_, _, err := s.SignIn(ctx, "a@b.co", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.RegisterDevice(ctx, push.Reported{Status: push.PermissionGranted, PushToken: "fcm-123"}))
	doc, _, err := docs.Get(ctx, docstore.CollectionUsers, "u1")
	require.NoError(t, err)
	assert.Equal(t, "fcm-123", doc["fcm_token"])
	assert.Equal(t, "Asha", doc["name"])

	err = s.RegisterDevice(ctx, push.Reported{Status: push.PermissionDenied})
	assert.ErrorIs(t, err, push.ErrPermissionDenied)
}
