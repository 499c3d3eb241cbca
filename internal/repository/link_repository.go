package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
	"github.com/axellelanca/quickurl/internal/models"
)

// LinkRepository est une interface qui définit les méthodes d'accès aux liens.
// C'est le seul composant autorisé à modifier la table.
type LinkRepository interface {
	Exists(ctx context.Context, hash string) (bool, error)
	Insert(ctx context.Context, link *models.Link) error
	Lookup(ctx context.Context, hash string) (string, error)
	OwnerOf(ctx context.Context, hash string) (string, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Link, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, owner, hash string) (bool, error)
	DeleteOwned(ctx context.Context, requester, hash string) error
	All(ctx context.Context) ([]models.Link, error)
}

// GormLinkRepository est l'implémentation de LinkRepository utilisant GORM.
// Toutes les requêtes sont paramétrées : les guillemets et points-virgules d'une URL
// sont stockés tels quels.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository crée et retourne une nouvelle instance de GormLinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// Exists indique si un lien utilise déjà ce hash.
func (r *GormLinkRepository) Exists(ctx context.Context, hash string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Link{}).Where("hash = ?", hash).Count(&count).Error; err != nil {
		return false, customerrors.NewStorageError("exists", err)
	}
	return count > 0, nil
}

// Insert insère un nouveau lien. La clé primaire est le contrôle d'unicité qui fait foi :
// un hash déjà présent donne ErrDuplicateHash, même si l'appelant l'a vérifié avant.
func (r *GormLinkRepository) Insert(ctx context.Context, link *models.Link) error {
	if err := link.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return customerrors.ErrDuplicateHash
		}
		return customerrors.NewStorageError("insert", result.Error)
	}
	if result.RowsAffected == 0 {
		return customerrors.ErrDuplicateHash
	}
	return nil
}

// Lookup récupère l'URL associée à un hash.
func (r *GormLinkRepository) Lookup(ctx context.Context, hash string) (string, error) {
	link, err := r.find(ctx, "lookup", "url", hash)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

// OwnerOf récupère le propriétaire d'un lien.
func (r *GormLinkRepository) OwnerOf(ctx context.Context, hash string) (string, error) {
	link, err := r.find(ctx, "owner lookup", "user", hash)
	if err != nil {
		return "", err
	}
	return link.Owner, nil
}

func (r *GormLinkRepository) find(ctx context.Context, op, column, hash string) (*models.Link, error) {
	var link models.Link
	err := r.db.WithContext(ctx).Select(column).Where("hash = ?", hash).Take(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrNotFound
		}
		return nil, customerrors.NewStorageError(op, err)
	}
	return &link, nil
}

// ListByOwner récupère les liens d'un propriétaire dans leur ordre d'insertion.
func (r *GormLinkRepository) ListByOwner(ctx context.Context, owner string) ([]models.Link, error) {
	links := make([]models.Link, 0)
	if err := r.db.WithContext(ctx).Where("user = ?", owner).Order("rowid").Find(&links).Error; err != nil {
		return nil, customerrors.NewStorageError("list", err)
	}
	return links, nil
}

// Count compte le nombre total de liens.
func (r *GormLinkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Link{}).Count(&count).Error; err != nil {
		return 0, customerrors.NewStorageError("count", err)
	}
	return count, nil
}

// Delete supprime la ligne correspondant exactement au couple (owner, hash).
// Aucune vérification de propriété ici ; l'absence de ligne n'est pas une erreur.
// Le booléen indique si une ligne a été supprimée.
func (r *GormLinkRepository) Delete(ctx context.Context, owner, hash string) (bool, error) {
	result := r.db.WithContext(ctx).Where("hash = ? AND user = ?", hash, owner).Delete(&models.Link{})
	if result.Error != nil {
		return false, customerrors.NewStorageError("delete", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteOwned résout le propriétaire, le compare au demandeur puis supprime,
// le tout dans une seule transaction.
func (r *GormLinkRepository) DeleteOwned(ctx context.Context, requester, hash string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.Link
		if err := tx.Select("user").Where("hash = ?", hash).Take(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customerrors.ErrNotFound
			}
			return customerrors.NewStorageError("owner lookup", err)
		}

		if link.Owner != requester {
			return customerrors.ErrNotOwner
		}

		result := tx.Where("hash = ? AND user = ?", hash, requester).Delete(&models.Link{})
		if result.Error != nil {
			return customerrors.NewStorageError("delete", result.Error)
		}
		if result.RowsAffected == 0 {
			return customerrors.ErrNotFound
		}
		return nil
	})
	if err == nil || isDomainError(err) {
		return err
	}
	// Begin or commit failure.
	return customerrors.NewStorageError("delete", err)
}

// All récupère tous les liens de la base de données.
func (r *GormLinkRepository) All(ctx context.Context) ([]models.Link, error) {
	var links []models.Link
	if err := r.db.WithContext(ctx).Order("rowid").Find(&links).Error; err != nil {
		return nil, customerrors.NewStorageError("list all", err)
	}
	return links, nil
}

func isDomainError(err error) bool {
	return errors.Is(err, customerrors.ErrNotFound) ||
		errors.Is(err, customerrors.ErrNotOwner) ||
		errors.Is(err, customerrors.ErrStorageUnavailable)
}
