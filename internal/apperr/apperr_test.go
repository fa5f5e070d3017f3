package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("nope"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{Internal("boom", nil), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.err.StatusCode(); got != c.want {
			t.Fatalf("%s: status %d, want %d", c.err.Code, got, c.want)
		}
	}
}

func TestAs_WrapsForeignErrors(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NotFound("company 7 not found"))
	if e := As(wrapped); e.Kind != KindNotFound {
		t.Fatalf("kind = %v, want not found", e.Kind)
	}
	plain := errors.New("socket closed")
	e := As(plain)
	if e.Kind != KindInternal || !errors.Is(e, plain) {
		t.Fatalf("plain error not wrapped as internal: %+v", e)
	}
}

func TestFromDB(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "companies_ticker_key"}
	if err := FromDB(unique, "insert"); !Is(err, KindConflict) {
		t.Fatalf("unique violation -> %v", err)
	}
	fk := &pq.Error{Code: "23503"}
	if err := FromDB(fmt.Errorf("exec: %w", fk), "insert"); !Is(err, KindNotFound) {
		t.Fatalf("fk violation -> %v", err)
	}
	if err := FromDB(errors.New("conn reset"), "insert"); !Is(err, KindInternal) {
		t.Fatalf("generic -> %v", err)
	}
	if FromDB(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	v := Validation("bad")
	if err := FromDB(v, "x"); err != v {
		t.Fatalf("taxonomy errors pass through")
	}
}

func TestError_MessageHidesNothingInternally(t *testing.T) {
	e := Internal("failed", errors.New("cause"))
	if e.Error() != "INTERNAL_ERROR: failed: cause" {
		t.Fatalf("got %q", e.Error())
	}
	if Validation("x").Error() != "VALIDATION_ERROR: x" {
		t.Fatalf("got %q", Validation("x").Error())
	}
}
