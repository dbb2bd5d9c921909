package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shared-tw/backend/internal/config"
	"github.com/shared-tw/backend/internal/database"
	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/model"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.SetDefaultLogger(logger.NewWithWriter(logger.ERROR, io.Discard))
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "store.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	return NewStore(db)
}

func seedDonation(t *testing.T, s *Store) (*model.RequiredItem, *model.Donation) {
	t.Helper()
	ctx := context.Background()

	user := &model.User{Username: "org", Organization: &model.Organization{
		Type: model.OrganizationHospital, Name: "医院", City: "TPE",
	}}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	item := &model.RequiredItem{
		OrganizationId: user.Organization.Id,
		Name:           "口罩",
		Amount:         10,
		Unit:           model.UnitPiece,
		EndedDate:      model.DateOf(time.Now().AddDate(0, 0, 7)),
		State:          event.ItemCollecting,
	}
	if err := s.CreateRequiredItem(ctx, item); err != nil {
		t.Fatalf("CreateRequiredItem: %v", err)
	}
	d := model.NewDonation(item.Id, user.Id, 3, 2)
	if err := s.CreateDonation(ctx, d); err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	return item, d
}

func TestLockerTryLock(t *testing.T) {
	l := NewLocker()

	release, ok := l.TryLock("a")
	if !ok {
		t.Fatal("first TryLock failed")
	}
	if _, ok := l.TryLock("a"); ok {
		t.Fatal("second TryLock on held key succeeded")
	}
	if _, ok := l.TryLock("b"); !ok {
		t.Fatal("TryLock on other key failed")
	}

	release()
	release() // 重复释放无副作用
	if l.Held("a") {
		t.Fatal("key still held after release")
	}
	if _, ok := l.TryLock("a"); !ok {
		t.Fatal("TryLock after release failed")
	}
}

func TestLockerExclusive(t *testing.T) {
	l := NewLocker()
	var inside, acquired int32

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			release, ok := l.TryLock("k")
			if !ok {
				return nil
			}
			defer release()
			atomic.AddInt32(&acquired, 1)
			if atomic.AddInt32(&inside, 1) > 1 {
				return errors.New("two holders inside the critical section")
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if acquired == 0 {
		t.Fatal("nobody acquired the lock")
	}
}

func TestWithDonationLockRollsBack(t *testing.T) {
	s := newTestStore(t)
	_, d := seedDonation(t, s)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithDonationLock(ctx, d.Id, func(tx *gorm.DB, locked *model.Donation) error {
		if err := locked.Append(event.New(event.KindDonationApproved, ""), time.Now()); err != nil {
			return err
		}
		if err := s.SaveDonation(tx, locked); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	got, err := s.GetDonation(ctx, d.Id)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if got.State != event.DonationPendingApproval || len(got.Events) != 0 {
		t.Fatalf("rolled back donation = %s with %d events", got.State, len(got.Events))
	}
	if s.DonationLocked(d.Id) {
		t.Fatal("lock leaked after rollback")
	}
}

func TestWithDonationLockContention(t *testing.T) {
	s := newTestStore(t)
	_, d := seedDonation(t, s)

	release, ok := s.TryLockDonation(d.Id)
	if !ok {
		t.Fatal("TryLockDonation failed")
	}
	defer release()

	called := false
	err := s.WithDonationLock(context.Background(), d.Id, func(*gorm.DB, *model.Donation) error {
		called = true
		return nil
	})
	if !errors.Is(err, event.ErrLockContention) || called {
		t.Fatalf("err = %v called = %v, want ErrLockContention without calling fn", err, called)
	}
}

func TestWithDonationLockNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.WithDonationLock(context.Background(), 77, func(*gorm.DB, *model.Donation) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTransitionItemConditional(t *testing.T) {
	s := newTestStore(t)
	item, _ := seedDonation(t, s)
	ctx := context.Background()

	if err := s.TransitionItem(ctx, item.Id, event.ItemCollecting, event.ItemDone); err != nil {
		t.Fatalf("TransitionItem: %v", err)
	}
	err := s.TransitionItem(ctx, item.Id, event.ItemCollecting, event.ItemCancelled)
	if !errors.Is(err, ErrStateChanged) {
		t.Fatalf("second transition err = %v, want ErrStateChanged", err)
	}

	got, err := s.GetRequiredItem(ctx, item.Id)
	if err != nil {
		t.Fatalf("GetRequiredItem: %v", err)
	}
	if got.State != event.ItemDone || got.Organization == nil {
		t.Fatalf("item = %s, organization %v", got.State, got.Organization)
	}
}

func TestListOpenDonations(t *testing.T) {
	s := newTestStore(t)
	item, first := seedDonation(t, s)
	ctx := context.Background()

	second := model.NewDonation(item.Id, first.CreatedBy, 1, 0)
	second.State = event.DonationCancelled
	if err := s.CreateDonation(ctx, second); err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	third := model.NewDonation(item.Id, first.CreatedBy, 1, 0)
	if err := s.CreateDonation(ctx, third); err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}

	open, err := s.ListOpenDonations(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListOpenDonations: %v", err)
	}
	if len(open) != 2 || open[0].Id != first.Id || open[1].Id != third.Id {
		t.Fatalf("open donations = %+v", open)
	}

	open, err = s.ListOpenDonations(ctx, first.Id, 10)
	if err != nil || len(open) != 1 {
		t.Fatalf("after %d: %v, %d donations", first.Id, err, len(open))
	}
}
