package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
)

// IdentityService re-resolves a token subject against the credential store on
// every request. Nothing is cached.
type IdentityService struct {
	Store store.Store
}

// ResolveIdentity implements httpx.IdentityResolver. A subject with no
// credential record reports found=false.
func (s *IdentityService) ResolveIdentity(ctx context.Context, subject string) (httpx.Identity, bool, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, subject)
	if errors.Is(err, store.ErrNotFound) {
		return httpx.Identity{}, false, nil
	}
	if err != nil {
		return httpx.Identity{}, false, err
	}
	return httpx.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}, true, nil
}
