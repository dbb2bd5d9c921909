package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgLockNotAvailable PostgreSQL 的 lock_not_available
const pgLockNotAvailable = "55P03"

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrStateChanged 条件更新时状态已被其他请求修改
	ErrStateChanged = errors.New("state changed concurrently")
)

// Store 数据访问层，负责事务和行锁
type Store struct {
	db       *gorm.DB
	locker   *Locker
	rowLocks bool
}

// NewStore 创建数据访问层。PostgreSQL 使用 FOR UPDATE NOWAIT 行锁，
// SQLite 没有行锁，只依赖进程内的键锁。
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		locker:   NewLocker(),
		rowLocks: db.Dialector.Name() == "postgres",
	}
}

// DB 底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithDonationLock 在事务中独占锁定捐赠并执行 fn。
// 锁被占用时立即返回 event.ErrLockContention，不排队等待；fn 返回错误时整个事务回滚。
func (s *Store) WithDonationLock(ctx context.Context, id int64, fn func(tx *gorm.DB, d *model.Donation) error) error {
	release, ok := s.TryLockDonation(id)
	if !ok {
		return fmt.Errorf("%w: donation %d", event.ErrLockContention, id)
	}
	defer release()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if s.rowLocks {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"})
		}

		var d model.Donation
		if err := q.First(&d, id).Error; err != nil {
			return translate(err, "donation", id)
		}
		return fn(tx, &d)
	})
}

// TryLockDonation 只获取进程内的捐赠锁，不开启事务
func (s *Store) TryLockDonation(id int64) (release func(), ok bool) {
	return s.locker.TryLock(donationKey(id))
}

// DonationLocked 当前进程内是否有请求持有该捐赠的锁
func (s *Store) DonationLocked(id int64) bool {
	return s.locker.Held(donationKey(id))
}

func donationKey(id int64) string {
	return fmt.Sprintf("donation:%d", id)
}

// translate 转换数据库错误
func translate(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return fmt.Errorf("%w: %s %d", event.ErrLockContention, entity, id)
	}
	return fmt.Errorf("failed to load %s %d: %w", entity, id, err)
}
