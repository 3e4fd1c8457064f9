package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testCtx(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestUserID_Resolution(t *testing.T) {
	// Fallback when nothing identifies the caller.
	c := testCtx(t, "/")
	if got := userID(c); got != "demo-user" {
		t.Fatalf("userID fallback = %q", got)
	}

	// Header wins over the fallback.
	c = testCtx(t, "/")
	c.Request.Header.Set("X-User-ID", "header-user")
	if got := userID(c); got != "header-user" {
		t.Fatalf("userID from header = %q", got)
	}

	// Context value wins over the header.
	c.Set("userID", "ctx-user")
	if got := userID(c); got != "ctx-user" {
		t.Fatalf("userID from context = %q", got)
	}

	// A non-string context value is ignored.
	c = testCtx(t, "/")
	c.Set("userID", 42)
	if got := userID(c); got != "demo-user" {
		t.Fatalf("userID with bad context value = %q", got)
	}
}

func TestClampPagination(t *testing.T) {
	cases := []struct {
		target       string
		wantPage     int
		wantPageSize int
	}{
		{"/?page=3&page_size=50", 3, 50},
		{"/", 1, 20},
		{"/?page=0&page_size=0", 1, 1},
		{"/?page=-2&page_size=-5", 1, 1},
		{"/?page_size=1000", 1, 100},
		{"/?page=abc&page_size=xyz", 1, 20},
	}
	for _, tc := range cases {
		c := testCtx(t, tc.target)
		page, pageSize := clampPagination(c)
		if page != tc.wantPage || pageSize != tc.wantPageSize {
			t.Errorf("clampPagination(%q) = (%d, %d), want (%d, %d)",
				tc.target, page, pageSize, tc.wantPage, tc.wantPageSize)
		}
	}
}

func TestPaginationFor(t *testing.T) {
	p := paginationFor(1, 20, 45)
	if p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("page 1 of 45/20: %+v", p)
	}

	p = paginationFor(3, 20, 45)
	if p.TotalPages != 3 || p.HasNext {
		t.Fatalf("last page should have no next: %+v", p)
	}

	p = paginationFor(1, 20, 0)
	if p.TotalPages != 0 || p.HasNext {
		t.Fatalf("empty result: %+v", p)
	}
}
