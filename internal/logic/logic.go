package logic

import (
	"time"

	"github.com/shared-tw/backend/internal/repository"
)

// Options 业务逻辑配置
type Options struct {
	CascadeWorkers int              // 级联取消的并发数
	Now            func() time.Time // 时钟，测试时可替换
}

// New 创建捐赠和需求物资业务逻辑。
// 捐赠变更后会重算需求物资，需求物资取消时会逐个取消捐赠，因此两者互相引用。
func New(store *repository.Store, opts Options) (*DonationLogic, *RequiredItemLogic) {
	if opts.CascadeWorkers <= 0 {
		opts.CascadeWorkers = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	donations := &DonationLogic{store: store, now: opts.Now}
	items := &RequiredItemLogic{
		store:     store,
		donations: donations,
		workers:   opts.CascadeWorkers,
		now:       opts.Now,
	}
	donations.items = items
	return donations, items
}
