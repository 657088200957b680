package option

import "gorm.io/gorm"

// QueryOption customizes a gorm query built by the generic store.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type optionFunc func(db *gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

func WithOrderBy(order string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	})
}

func WithLimit(limit int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit)
	})
}

func WithGt(column string, value any) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" > ?", value)
	})
}

func WithLike(column, keyword string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" LIKE ?", "%"+keyword+"%")
	})
}
