package implementation

import (
	"context"
	"errors"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/mapper"
	"creation-workshop-be/internal/model"
	"creation-workshop-be/internal/repository/contract"
	"creation-workshop-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreationSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewCreationSessionRepository(db *gorm.DB) contract.CreationSessionRepository {
	return &CreationSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *CreationSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CreationSessionRepositoryImpl) Create(ctx context.Context, session *entity.CreationSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	session.Id = m.Id
	session.CreatedAt = m.CreatedAt
	session.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CreationSessionRepositoryImpl) Update(ctx context.Context, session *entity.CreationSession) error {
	m := r.mapper.ToModel(session)
	// Save writes every column so a transition is all-or-nothing for
	// the row.
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	session.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CreationSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CreationSession{}, "id = ?", id).Error
}

func (r *CreationSessionRepositoryImpl) DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	db := r.applySpecifications(r.db.WithContext(ctx), specs...)
	result := db.Delete(&model.CreationSession{})
	return result.RowsAffected, result.Error
}

func (r *CreationSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreationSession, error) {
	var m model.CreationSession
	db := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CreationSession{}), specs...)
	if err := db.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CreationSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreationSession, error) {
	var models []model.CreationSession
	db := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CreationSession{}), specs...)
	if err := db.Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*entity.CreationSession, len(models))
	for i := range models {
		sessions[i] = r.mapper.ToEntity(&models[i])
	}
	return sessions, nil
}

func (r *CreationSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	db := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CreationSession{}), specs...)
	err := db.Count(&count).Error
	return count, err
}
