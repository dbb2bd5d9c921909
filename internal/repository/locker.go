package repository

import "sync"

// Locker 进程内的非阻塞键锁，拿不到锁立即返回
type Locker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocker 创建键锁
func NewLocker() *Locker {
	return &Locker{held: make(map[string]struct{})}
}

// TryLock 尝试获取 key 的锁，成功时返回释放函数
func (l *Locker) TryLock(key string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[key]; busy {
		return nil, false
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, true
}

// Held 当前是否有人持有 key
func (l *Locker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, busy := l.held[key]
	return busy
}
