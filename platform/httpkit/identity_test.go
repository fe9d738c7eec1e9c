package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, rec
}

func TestGetIdentityAuthenticated(t *testing.T) {
	c, _ := newTestContext()
	userID := uuid.New()
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextRolesKey, []string{"manager"})

	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		t.Fatal("expected authenticated identity")
	}
	if id.UserID() != userID {
		t.Fatalf("userID = %s, want %s", id.UserID(), userID)
	}
	if !id.HasRole("manager") {
		t.Fatal("expected manager role")
	}
	if id.HasRole("admin") {
		t.Fatal("unexpected admin role")
	}
}

func TestGetIdentityMissingUser(t *testing.T) {
	c, _ := newTestContext()

	id := GetIdentity(c)
	if id.IsAuthenticated() {
		t.Fatal("expected unauthenticated identity")
	}
	if id.UserID() != uuid.Nil {
		t.Fatalf("userID = %s, want nil uuid", id.UserID())
	}
}

func TestGetIdentityWrongUserIDType(t *testing.T) {
	c, _ := newTestContext()
	c.Set(ContextUserIDKey, "not-a-uuid")

	if GetIdentity(c).IsAuthenticated() {
		t.Fatal("expected unauthenticated identity for non-uuid user id")
	}
}

func TestMustGetIdentityAbortsUnauthenticated(t *testing.T) {
	c, rec := newTestContext()

	id := MustGetIdentity(c)
	if id != nil {
		t.Fatalf("identity = %v, want nil", id)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !c.IsAborted() {
		t.Fatal("expected aborted context")
	}
}

func TestMustGetIdentityPassesThrough(t *testing.T) {
	c, rec := newTestContext()
	userID := uuid.New()
	c.Set(ContextUserIDKey, userID)

	id := MustGetIdentity(c)
	if id == nil || id.UserID() != userID {
		t.Fatalf("identity = %v, want user %s", id, userID)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
