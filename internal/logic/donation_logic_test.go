package logic

import (
	"errors"
	"testing"
	"time"

	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/model"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func TestDonationLifecycle(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, 10, 7)

	d := f.pledge(t, item, 6)
	if d.State != event.DonationPendingApproval {
		t.Fatalf("new donation state = %s, want %s", d.State, event.DonationPendingApproval)
	}

	d = f.submit(t, f.org, d.Id, event.KindDonationApproved)
	if d.State != event.DonationPendingDispatch {
		t.Fatalf("state after approval = %s", d.State)
	}
	want := model.AddDays(model.DateOf(f.clock.Now()), 3)
	if d.ExceptedDeliveryDate == nil || !time.Time(*d.ExceptedDeliveryDate).Equal(time.Time(want)) {
		t.Fatalf("excepted delivery date = %v, want %v", d.ExceptedDeliveryDate, want)
	}

	f.clock.Advance(24 * time.Hour)
	d = f.submit(t, f.donor, d.Id, event.KindDonationDispatched)
	if d.State != event.DonationDone {
		t.Fatalf("state after dispatch = %s", d.State)
	}
	if len(d.Events) != 2 || d.ProcessedEvents != 2 {
		t.Fatalf("events = %d processed = %d, want 2/2", len(d.Events), d.ProcessedEvents)
	}
	// 寄出不会重新计算日期
	if !time.Time(*d.ExceptedDeliveryDate).Equal(time.Time(want)) {
		t.Fatalf("excepted delivery date moved to %v", d.ExceptedDeliveryDate)
	}

	stored, err := f.donations.GetDonation(f.ctx, d.Id)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if stored.Replayed() != stored.State {
		t.Fatalf("replayed %s != cached %s", stored.Replayed(), stored.State)
	}

	got, err := f.items.GetRequiredItem(f.ctx, item.Id)
	if err != nil {
		t.Fatalf("GetRequiredItem: %v", err)
	}
	if got.State != event.ItemCollecting || got.DeliveredAmount != 6 {
		t.Fatalf("item = %s delivered %d, want collecting/6", got.State, got.DeliveredAmount)
	}
}

func TestDonationsFulfillRequiredItem(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, 10, 7)

	for i := 0; i < 2; i++ {
		d := f.pledge(t, item, 6)
		f.submit(t, f.org, d.Id, event.KindDonationApproved)
		f.submit(t, f.donor, d.Id, event.KindDonationDispatched)
	}

	got, err := f.items.GetRequiredItem(f.ctx, item.Id)
	if err != nil {
		t.Fatalf("GetRequiredItem: %v", err)
	}
	if got.State != event.ItemDone {
		t.Fatalf("item state = %s, want %s", got.State, event.ItemDone)
	}
	if got.DeliveredAmount != 12 || got.ApprovedAmount != 12 {
		t.Fatalf("approved/delivered = %d/%d, want 12/12", got.ApprovedAmount, got.DeliveredAmount)
	}

	// 已完成的需求物资不再接受捐赠
	_, err = f.donations.CreateDonation(f.ctx, f.donor, item.Id, CreateDonationRequest{Amount: 1})
	if !errors.Is(err, ErrItemClosed) {
		t.Fatalf("pledge on done item: err = %v, want ErrItemClosed", err)
	}
}

func TestSubmitEventRoles(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, 10, 7)
	d := f.pledge(t, item, 4)

	otherOrg := f.registerOrganization(t, "fire")
	otherDonor := f.registerDonor(t, "bob")
	nobody := &model.User{Id: 999, Username: "nobody"}

	tests := []struct {
		name string
		user *model.User
		kind event.Kind
		want error
	}{
		{"donor approves", f.donor, event.KindDonationApproved, event.ErrForbiddenEvent},
		{"organization dispatches", f.org, event.KindDonationDispatched, event.ErrForbiddenEvent},
		{"user without profile", nobody, event.KindDonationCancelled, event.ErrInvalidUser},
		{"other donor cancels", otherDonor, event.KindDonationCancelled, event.ErrForbiddenEvent},
		{"other organization approves", otherOrg, event.KindDonationApproved, event.ErrForbiddenEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.donations.SubmitEvent(f.ctx, tt.user, d.Id, event.Raw{Name: string(tt.kind)})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	stored, err := f.donations.GetDonation(f.ctx, d.Id)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if len(stored.Events) != 0 || stored.State != event.DonationPendingApproval {
		t.Fatalf("rejected events changed donation: %d events, state %s", len(stored.Events), stored.State)
	}
}

func TestSubmitEventUnknownName(t *testing.T) {
	f := newFixture(t)
	d := f.pledge(t, f.newItem(t, 10, 7), 1)

	_, err := f.donations.SubmitEvent(f.ctx, f.org, d.Id, event.Raw{Name: "DonationRefunded"})
	if !errors.Is(err, event.ErrUnknownEvent) {
		t.Fatalf("err = %v, want ErrUnknownEvent", err)
	}
}

func TestSubmitEventInvalidTransition(t *testing.T) {
	f := newFixture(t)
	d := f.pledge(t, f.newItem(t, 10, 7), 1)

	_, err := f.donations.SubmitEvent(f.ctx, f.donor, d.Id, event.Raw{Name: string(event.KindDonationDispatched)})
	if !errors.Is(err, event.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	stored, err := f.donations.GetDonation(f.ctx, d.Id)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if len(stored.Events) != 0 || stored.State != event.DonationPendingApproval {
		t.Fatalf("invalid event was persisted: %d events, state %s", len(stored.Events), stored.State)
	}
}

func TestSubmitEventTerminalState(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, 10, 7)

	cancelled := f.pledge(t, item, 1)
	f.submit(t, f.donor, cancelled.Id, event.KindDonationCancelled)

	done := f.pledge(t, item, 1)
	f.submit(t, f.org, done.Id, event.KindDonationApproved)
	f.submit(t, f.donor, done.Id, event.KindDonationDispatched)

	for _, id := range []int64{cancelled.Id, done.Id} {
		_, err := f.donations.SubmitEvent(f.ctx, f.org, id, event.Raw{Name: string(event.KindDonationCancelled)})
		if !errors.Is(err, event.ErrTerminalState) {
			t.Fatalf("donation %d: err = %v, want ErrTerminalState", id, err)
		}
	}

	stored, err := f.donations.GetDonation(f.ctx, cancelled.Id)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if len(stored.Events) != 1 {
		t.Fatalf("terminal donation log grew to %d events", len(stored.Events))
	}
}

func TestSubmitEventLockContention(t *testing.T) {
	f := newFixture(t)
	d := f.pledge(t, f.newItem(t, 10, 7), 2)

	err := f.store.WithDonationLock(f.ctx, d.Id, func(_ *gorm.DB, _ *model.Donation) error {
		_, err := f.donations.SubmitEvent(f.ctx, f.org, d.Id, event.Raw{Name: string(event.KindDonationApproved)})
		if !errors.Is(err, event.ErrLockContention) {
			t.Errorf("submit while locked: err = %v, want ErrLockContention", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithDonationLock: %v", err)
	}
	if f.store.DonationLocked(d.Id) {
		t.Fatal("lock not released")
	}

	// 锁释放后可以正常提交
	got := f.submit(t, f.org, d.Id, event.KindDonationApproved)
	if got.State != event.DonationPendingDispatch || len(got.Events) != 1 {
		t.Fatalf("after release: state %s, %d events", got.State, len(got.Events))
	}
}

func TestConcurrentSubmitsSerialize(t *testing.T) {
	f := newFixture(t)
	d := f.pledge(t, f.newItem(t, 10, 7), 2)

	const n = 8
	results := make([]error, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			_, results[i] = f.donations.SubmitEvent(f.ctx, f.donor, d.Id, event.Raw{Name: string(event.KindDonationCancelled)})
			return nil
		})
	}
	_ = g.Wait()

	var ok int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, event.ErrLockContention), errors.Is(err, event.ErrTerminalState):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("%d submissions succeeded, want exactly 1", ok)
	}

	stored, err := f.donations.GetDonation(f.ctx, d.Id)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if len(stored.Events) != 1 || stored.State != event.DonationCancelled {
		t.Fatalf("log = %d events, state %s", len(stored.Events), stored.State)
	}
}

func TestCreateDonationValidation(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, 10, 7)
	past := model.AddDays(model.DateOf(f.clock.Now().AddDate(0, 0, -2)), 0)

	tests := []struct {
		name string
		user *model.User
		req  CreateDonationRequest
		want error
	}{
		{"organization pledges", f.org, CreateDonationRequest{Amount: 1}, ErrPermissionDenied},
		{"no profile", &model.User{Id: 42}, CreateDonationRequest{Amount: 1}, event.ErrInvalidUser},
		{"zero amount", f.donor, CreateDonationRequest{}, ErrInvalidArgument},
		{"past delivery date", f.donor, CreateDonationRequest{Amount: 1, ExceptedDeliveryDate: &past}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.donations.CreateDonation(f.ctx, tt.user, item.Id, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := f.donations.CreateDonation(f.ctx, f.donor, 12345, CreateDonationRequest{Amount: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing item: err = %v, want ErrNotFound", err)
	}
}

func TestCreateDonationDerivesDeliveryDays(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, 10, 7)
	date := model.AddDays(model.DateOf(f.clock.Now()), 5)

	d, err := f.donations.CreateDonation(f.ctx, f.donor, item.Id, CreateDonationRequest{
		Amount:               3,
		ExceptedDeliveryDate: &date,
	})
	if err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	if d.EstimatedDeliveryDays != 5 {
		t.Fatalf("estimated delivery days = %d, want 5", d.EstimatedDeliveryDays)
	}
}

func TestGetUserDonations(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, 10, 7)
	for i := 0; i < 3; i++ {
		f.pledge(t, item, 1)
	}

	donations, total, err := f.donations.GetUserDonations(f.ctx, f.donor, 1, 2)
	if err != nil {
		t.Fatalf("GetUserDonations: %v", err)
	}
	if total != 3 || len(donations) != 2 {
		t.Fatalf("total = %d, page = %d, want 3/2", total, len(donations))
	}

	if _, _, err := f.donations.GetUserDonations(f.ctx, f.org, 1, 10); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("organization listing: err = %v, want ErrPermissionDenied", err)
	}
}
