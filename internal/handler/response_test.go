package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shared-tw/backend/internal/event"
	"github.com/shared-tw/backend/internal/logic"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{event.ErrInvalidUser, http.StatusUnauthorized},
		{fmt.Errorf("%w: donor cannot submit DonationApproved", event.ErrForbiddenEvent), http.StatusForbidden},
		{logic.ErrPermissionDenied, http.StatusForbidden},
		{fmt.Errorf("%w: donation 1", logic.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: donation 1", event.ErrLockContention), http.StatusConflict},
		{event.ErrUnknownEvent, http.StatusUnprocessableEntity},
		{event.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{event.ErrTerminalState, http.StatusUnprocessableEntity},
		{logic.ErrItemClosed, http.StatusUnprocessableEntity},
		{logic.ErrInvalidArgument, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, 20},
		{"?page=3&page_size=5", 3, 5},
		{"?page=-1&page_size=0", 1, 20},
		{"?page=abc&page_size=1000", 1, maxPageSize},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)

		page, size := pageParams(c, 20)
		if page != tt.page || size != tt.size {
			t.Errorf("pageParams(%q) = %d/%d, want %d/%d", tt.query, page, size, tt.page, tt.size)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2026-02-30"); err == nil {
		t.Fatal("expected error for impossible date")
	}
	d, err := parseDate("2026-03-01")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if got := time.Time(d); got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("parseDate = %v", got)
	}
}
