package sqlstore

import (
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"context"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// WithTx 返回一个使用事务的 userRepository 实例
func (r *userRepository) WithTx(tx *gorm.DB) *userRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	row := userRow{
		Username: user.Username,
		Email:    user.Email,
		Password: user.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	user.ID = formatID(row.ID)
	user.CreatedAt = row.CreatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "id = ?", uid)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		return nil, translate(err) // 没找到也是错误，翻译成ErrNotFound
	}
	return row.toModel(), nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&userRow{}, uid)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
