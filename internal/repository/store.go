package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/burbuqebeqiraj/PlusAPI/pkg/errors"
)

// QueryOption 查询条件构造器，作用于一次查询的 *gorm.DB
type QueryOption func(db *gorm.DB) *gorm.DB

// Where 过滤条件
func Where(query interface{}, args ...interface{}) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

// Order 排序
func Order(value interface{}) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Order(value) }
}

// Preload 预加载关联（独立查询）
func Preload(name string, args ...interface{}) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(name, args...) }
}

// Joins 关联连接查询，name 为 belongs-to 关联字段名时生成 LEFT JOIN
func Joins(name string, args ...interface{}) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Joins(name, args...) }
}

// Limit 限制返回条数，n <= 0 时不限制
func Limit(n int) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Limit(n)
	}
}

// Store 通用数据访问接口
// 不包含任何业务校验；查不到记录时 SelectByID / SelectSingle / Update / Delete 返回 (nil, nil)
type Store[T any] interface {
	SelectAll(ctx context.Context) ([]T, error)
	SelectAllByClause(ctx context.Context, opts ...QueryOption) ([]T, error)
	SelectByID(ctx context.Context, id interface{}, opts ...QueryOption) (*T, error)
	SelectSingle(ctx context.Context, opts ...QueryOption) (*T, error)
	Count(ctx context.Context, opts ...QueryOption) (int64, error)
	Insert(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, entity *T) (*T, error)
	Delete(ctx context.Context, id interface{}) (*T, error)
}

// store Store 的 GORM 实现
type store[T any] struct {
	db *gorm.DB
	pk string
}

// NewStore 创建 Store，pk 为主键列名
func NewStore[T any](db *gorm.DB, pk string) Store[T] {
	return &store[T]{db: db, pk: pk}
}

func (s *store[T]) query(ctx context.Context, opts []QueryOption) *gorm.DB {
	db := s.db.WithContext(ctx).Model(new(T))
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

func (s *store[T]) byPK(id interface{}) clause.Eq {
	return clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: s.pk},
		Value:  id,
	}
}

func (s *store[T]) SelectAll(ctx context.Context) ([]T, error) {
	return s.SelectAllByClause(ctx)
}

func (s *store[T]) SelectAllByClause(ctx context.Context, opts ...QueryOption) ([]T, error) {
	items := make([]T, 0)
	if err := s.query(ctx, opts).Find(&items).Error; err != nil {
		return nil, pkgerrors.Wrap("select", err)
	}
	return items, nil
}

func (s *store[T]) SelectByID(ctx context.Context, id interface{}, opts ...QueryOption) (*T, error) {
	return s.first(ctx, append(opts, func(db *gorm.DB) *gorm.DB {
		return db.Where(s.byPK(id))
	}))
}

func (s *store[T]) SelectSingle(ctx context.Context, opts ...QueryOption) (*T, error) {
	return s.first(ctx, opts)
}

func (s *store[T]) first(ctx context.Context, opts []QueryOption) (*T, error) {
	var entity T
	err := s.query(ctx, opts).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap("select", err)
	}
	return &entity, nil
}

func (s *store[T]) Count(ctx context.Context, opts ...QueryOption) (int64, error) {
	var n int64
	if err := s.query(ctx, opts).Count(&n).Error; err != nil {
		return 0, pkgerrors.Wrap("count", err)
	}
	return n, nil
}

func (s *store[T]) Insert(ctx context.Context, entity *T) (*T, error) {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return nil, pkgerrors.Wrap("insert", err)
	}
	return entity, nil
}

// Update 按主键整行覆盖写入，记录已不存在时返回 (nil, nil)，不会补插
func (s *store[T]) Update(ctx context.Context, entity *T) (*T, error) {
	result := s.db.WithContext(ctx).
		Model(entity).
		Select("*").
		Omit(clause.Associations).
		Updates(entity)
	if result.Error != nil {
		return nil, pkgerrors.Wrap("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return entity, nil
}

func (s *store[T]) Delete(ctx context.Context, id interface{}) (*T, error) {
	entity, err := s.SelectByID(ctx, id)
	if err != nil || entity == nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where(s.byPK(id)).Delete(new(T)).Error; err != nil {
		return nil, pkgerrors.Wrap("delete", err)
	}
	return entity, nil
}
