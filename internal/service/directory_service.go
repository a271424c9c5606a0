package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scholara/scholara-api/internal/models"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type directoryRepository interface {
	ResolveIdentity(ctx context.Context, id string) (*models.Identity, error)
	SearchIdentities(ctx context.Context, term, excludeID string) ([]models.Identity, error)
	Contacts(ctx context.Context, callerID string, role models.UserRole) ([]models.ContactUser, error)
}

// DirectoryService resolves identities across the role tables and serves
// the messaging contact directory. The directory is cached per caller in
// Redis since it only changes on enrollment events.
type DirectoryService struct {
	repo     directoryRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDirectoryService constructs a DirectoryService instance. A nil
// Redis client disables caching.
func NewDirectoryService(repo directoryRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DirectoryService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// UserInfo resolves any user id to its display-name projection.
func (s *DirectoryService) UserInfo(ctx context.Context, id string) (*models.Identity, error) {
	identity, err := s.repo.ResolveIdentity(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve user")
	}
	return identity, nil
}

// SearchUsers matches identities by name or username, excluding the
// caller.
func (s *DirectoryService) SearchUsers(ctx context.Context, claims *models.JWTClaims, term string) ([]models.Identity, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Identity{}, nil
	}

	identities, err := s.repo.SearchIdentities(ctx, term, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search users")
	}
	return identities, nil
}

// Contacts returns the caller's role-scoped messaging directory.
func (s *DirectoryService) Contacts(ctx context.Context, claims *models.JWTClaims) ([]models.ContactUser, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	cacheKey := "contacts:" + claims.UserID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var contacts []models.ContactUser
			if err := json.Unmarshal(cached, &contacts); err == nil {
				return contacts, nil
			}
		}
	}

	contacts, err := s.repo.Contacts(ctx, claims.UserID, claims.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contacts")
	}
	if contacts == nil {
		contacts = []models.ContactUser{}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(contacts); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Debug("failed to cache contacts", zap.Error(err))
			}
		}
	}
	return contacts, nil
}
