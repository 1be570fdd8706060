package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"caseboard/api/internal/repository"
	"caseboard/api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorMapping(t *testing.T) {
	h := HandlerSet{}

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"card not found", repository.ErrCardNotFound, http.StatusNotFound},
		{"lookup not found", repository.ErrLookupNotFound, http.StatusNotFound},
		{"cross board move", service.ErrCrossBoardMove, http.StatusUnprocessableEntity},
		{"payment required", service.ErrPaymentRequired, http.StatusUnprocessableEntity},
		{"dependant payment required", service.ErrDependantPaymentRequired, http.StatusUnprocessableEntity},
		{"duplicate lookup name", repository.ErrDuplicateLookup, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			h.respondError(c, tc.err, tc.name)
			if rec.Code != tc.want {
				t.Errorf("respondError(%v) status = %d, want %d", tc.err, rec.Code, tc.want)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"?perPage=20", 20, 0},
		{"?perPage=20&page=3", 20, 40},
		{"?page=2", 50, 50},
		{"?perPage=500", 50, 0},  // over the clamp
		{"?perPage=-5", 50, 0},   // nonsense ignored
		{"?page=0", 50, 0},       // first page
		{"?perPage=abc", 50, 0},  // non-numeric ignored
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/"+tc.query, nil)

			limit, offset := pagination(c)
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("pagination(%q) = (%d, %d), want (%d, %d)",
					tc.query, limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
