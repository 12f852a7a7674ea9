package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"circulation/internal/assets/validator"
	"circulation/internal/store"
	"circulation/pkg/config"
	apperrors "circulation/pkg/errors"
	"circulation/pkg/model"
	"circulation/pkg/sanitizer"
)

type AssetService interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Asset, int64, error)
	GetCatalogEntry(ctx context.Context, id string) (*model.CatalogEntry, error)
	GetStatuses(ctx context.Context) ([]*model.Status, error)

	GetTitle(ctx context.Context, id string) (string, error)
	GetType(ctx context.Context, id string) (model.AssetKind, error)
	GetAuthorOrDirector(ctx context.Context, id string) (string, error)
	GetDeweyIndex(ctx context.Context, id string) (string, error)
	GetISBN(ctx context.Context, id string) (string, error)
	GetCurrentLocation(ctx context.Context, id string) (*model.Branch, error)
}

type assetService struct {
	store     store.Store
	validator *validator.AssetValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewAssetService(
	st store.Store,
	validator *validator.AssetValidator,
	cfg *config.Config,
) AssetService {
	return &assetService{
		store:     st,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create registers a new asset as available. The Available status must be
// in the registry.
func (s *assetService) Create(ctx context.Context, asset *model.Asset) error {
	s.sanitize(asset)

	if err := s.validator.Validate(asset); err != nil {
		s.cfg.Log.Warn("Asset validation failed",
			"title", asset.Title,
			"kind", asset.Kind,
			"error", err,
		)
		return apperrors.Validation("Asset validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err := s.store.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		status, err := s.store.Statuses().FindByName(txCtx, model.StatusAvailable)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.InvalidState("Status " + model.StatusAvailable + " is not registered")
			}
			return fmt.Errorf("failed to look up status: %w", err)
		}

		asset.ID = ""
		asset.Status = status.Name
		asset.Revision = 0
		asset.CreatedAt = s.now().UTC()

		if err := s.store.Assets().Create(txCtx, asset); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperrors.Conflict("Asset already exists")
			}
			return fmt.Errorf("failed to create asset: %w", err)
		}
		return nil
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			s.cfg.Log.Warn("Asset creation rejected",
				"title", asset.Title,
				"error", err,
			)
			return err
		}
		s.cfg.Log.Error("Failed to create asset",
			"title", asset.Title,
			"error", err,
		)
		return apperrors.TransactionFailure("Failed to create asset", err)
	}

	s.cfg.Log.Info("Asset created successfully",
		"id", asset.ID,
		"title", asset.Title,
		"kind", asset.Kind,
		"branch", asset.Location.ID,
	)

	return nil
}

func (s *assetService) GetByID(ctx context.Context, id string) (*model.Asset, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Asset ID cannot be empty")
	}

	asset, err := s.store.Assets().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Asset", id)
		}
		s.cfg.Log.Error("Failed to get asset by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.TransactionFailure("Failed to retrieve asset", err)
	}

	return asset, nil
}

func (s *assetService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Asset, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var assets []*model.Asset
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		count, err = s.store.Assets().Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count assets", "error", err)
			errCount = apperrors.TransactionFailure("Failed to count assets", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		assets, err = s.store.Assets().FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all assets",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.TransactionFailure("Failed to retrieve assets", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return assets, count, nil
}

func (s *assetService) GetCatalogEntry(ctx context.Context, id string) (*model.CatalogEntry, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.NewCatalogEntry(asset), nil
}

func (s *assetService) GetStatuses(ctx context.Context) ([]*model.Status, error) {
	statuses, err := s.store.Statuses().FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list statuses", "error", err)
		return nil, apperrors.TransactionFailure("Failed to retrieve statuses", err)
	}
	return statuses, nil
}

func (s *assetService) GetTitle(ctx context.Context, id string) (string, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return asset.Title, nil
}

func (s *assetService) GetType(ctx context.Context, id string) (model.AssetKind, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return asset.Kind, nil
}

func (s *assetService) GetAuthorOrDirector(ctx context.Context, id string) (string, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return asset.AuthorOrDirector(), nil
}

// GetDeweyIndex is empty for videos.
func (s *assetService) GetDeweyIndex(ctx context.Context, id string) (string, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return asset.DeweyIndex(), nil
}

// GetISBN is empty for videos.
func (s *assetService) GetISBN(ctx context.Context, id string) (string, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return asset.ISBN(), nil
}

func (s *assetService) GetCurrentLocation(ctx context.Context, id string) (*model.Branch, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	location := asset.Location
	return &location, nil
}

func (s *assetService) sanitize(asset *model.Asset) {
	asset.Title = sanitizer.SanitizeTitle(asset.Title)
	asset.Year = sanitizer.NormalizeYear(asset.Year)
	asset.Cost = sanitizer.NormalizeCost(asset.Cost)
	asset.ImageURL = sanitizer.SanitizeURL(asset.ImageURL)
	asset.Location.ID = sanitizer.TrimAndNormalize(asset.Location.ID)
	asset.Location.Name = sanitizer.NormalizeName(asset.Location.Name)

	if asset.Book != nil {
		asset.Book.Author = sanitizer.NormalizeName(asset.Book.Author)
		asset.Book.ISBN = sanitizer.SanitizeISBN(asset.Book.ISBN)
		asset.Book.DeweyIndex = sanitizer.SanitizeDeweyIndex(asset.Book.DeweyIndex)
	}
	if asset.Video != nil {
		asset.Video.Director = sanitizer.NormalizeName(asset.Video.Director)
	}
}
