// internal/app/session.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nabin216/ZotPot/internal/domain/auth"
	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/infrastructure/docstore"
	"github.com/nabin216/ZotPot/internal/infrastructure/storage"
	"github.com/nabin216/ZotPot/internal/services/identity"
	"github.com/nabin216/ZotPot/internal/services/push"
	"github.com/sirupsen/logrus"
)

const defaultDisplayName = "User"

// profile is the users/{uid} document
type profile struct {
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      auth.Role       `json:"role"`
	Phone     string          `json:"phone,omitempty"`
	Avatar    string          `json:"avatar,omitempty"`
	Address   *order.Location `json:"address,omitempty"`
	FCMToken  string          `json:"fcm_token,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// SignUpRequest is what the register screen collects
type SignUpRequest struct {
	Name     string
	Email    string
	Password string
	Role     auth.Role
}

// Session runs sign-in, sign-up, sign-out and profile edits
type Session struct {
	store    Store
	identity identity.Provider
	docs     docstore.Store
	uploader storage.Uploader
	orders   *Orders
	logger   logrus.FieldLogger
}

// NewSession creates a new session workflow. orders may be nil, in which
// case history is not loaded on sign-in.
func NewSession(st Store, provider identity.Provider, docs docstore.Store, uploader storage.Uploader, orders *Orders, logger logrus.FieldLogger) *Session {
	return &Session{
		store:    st,
		identity: provider,
		docs:     docs,
		uploader: uploader,
		orders:   orders,
		logger:   logger,
	}
}

// SignUp creates the account and its profile document
func (s *Session) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", ErrNameRequired
	}
	role := req.Role
	if role == "" {
		role = auth.RoleCustomer
	}
	if !role.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	userID, err := s.identity.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return "", err
	}

	doc, err := docstore.Encode(profile{
		Name:      name,
		Email:     identity.NormalizeEmail(req.Email),
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	if err := s.docs.Set(ctx, docstore.CollectionUsers, userID, doc); err != nil {
		return "", fmt.Errorf("failed to create user profile: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "role": role}).Info("User registered")
	return userID, nil
}

// SignIn authenticates, loads the profile into the store and then the
// order history
func (s *Session) SignIn(ctx context.Context, email, password string) (*auth.User, *identity.Session, error) {
	sess, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.loadUser(ctx, sess)
	if err != nil {
		_ = s.identity.SignOut(ctx)
		return nil, nil, err
	}
	if ctx.Err() != nil {
		_ = s.identity.SignOut(ctx)
		return nil, nil, ctx.Err()
	}

	s.store.Dispatch(auth.SetCredentials{User: user, Token: sess.IDToken})

	if s.orders != nil {
		if err := s.orders.Refresh(ctx); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Warn("Order history not loaded after sign-in")
		}
	}

	return &user, sess, nil
}

func (s *Session) loadUser(ctx context.Context, sess *identity.Session) (auth.User, error) {
	user := auth.User{
		ID:    sess.UserID,
		Email: sess.Email,
		Name:  defaultDisplayName,
		Role:  auth.RoleCustomer,
	}

	doc, ok, err := s.docs.Get(ctx, docstore.CollectionUsers, sess.UserID)
	if err != nil {
		return auth.User{}, fmt.Errorf("failed to load user profile: %w", err)
	}
	if !ok {
		return user, nil
	}

	var p profile
	if err := docstore.Decode(doc, &p); err != nil {
		return auth.User{}, err
	}
	if p.Name != "" {
		user.Name = p.Name
	}
	if p.Role.IsValid() {
		user.Role = p.Role
	}
	user.Phone = p.Phone
	user.Avatar = p.Avatar
	user.Address = p.Address
	return user, nil
}

// SignOut ends the session and resets every user-owned slice
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.identity.SignOut(ctx); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	s.store.Dispatch(auth.Logout{})
	s.store.Dispatch(cart.Clear{})
	s.store.Dispatch(order.SetCurrentOrder{})
	s.store.Dispatch(order.SetOrders{})
	s.store.Dispatch(order.ClearError())
	s.store.Dispatch(order.SetLoading{Loading: false})
	return nil
}

// UpdateProfile writes the changed fields to the profile document and then
// applies them to the store
func (s *Session) UpdateProfile(ctx context.Context, updates ...auth.FieldUpdate) error {
	userID := s.store.Snapshot().Auth.UserID()
	if userID == "" {
		return ErrNotSignedIn
	}
	fields := auth.Fields(updates...)
	if len(fields) == 0 {
		return nil
	}

	if err := s.updateUser(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.store.Dispatch(auth.UpdateProfile{Updates: updates})
	return nil
}

// UploadAvatar stores the image and points the profile at it
func (s *Session) UploadAvatar(ctx context.Context, filename string, data []byte) (string, error) {
	userID := s.store.Snapshot().Auth.UserID()
	if userID == "" {
		return "", ErrNotSignedIn
	}

	url, err := s.uploader.Upload(ctx, storage.UniqueName("avatars/"+userID, filename), data)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.UpdateProfile(ctx, auth.AvatarUpdate{URL: url}); err != nil {
		return "", err
	}
	return url, nil
}

// RegisterDevice obtains the push token and stores it on the profile, where
// the notification tasks pick it up
func (s *Session) RegisterDevice(ctx context.Context, registrar push.Registrar) error {
	userID := s.store.Snapshot().Auth.UserID()
	if userID == "" {
		return ErrNotSignedIn
	}

	token, err := push.Register(ctx, registrar, s.logger)
	if err != nil {
		return err
	}

	if err := s.updateUser(ctx, userID, map[string]interface{}{"fcm_token": token}); err != nil {
		return fmt.Errorf("failed to save push token: %w", err)
	}
	return nil
}

// updateUser merges fields into users/{uid}, creating the document when the
// account predates its profile
func (s *Session) updateUser(ctx context.Context, userID string, fields map[string]interface{}) error {
	err := s.docs.Update(ctx, docstore.CollectionUsers, userID, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		err = s.docs.Set(ctx, docstore.CollectionUsers, userID, docstore.Document(fields))
	}
	return err
}
