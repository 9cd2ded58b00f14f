package domain

import (
	"strings"
	"testing"
	"time"
)

func strp(s string) *string { return &s }

func validUser() *User {
	return &User{FirstName: "Ada", LastName: "Lovelace", EmailID: "ada@example.com", Phone: strp("9876543210")}
}

func TestUser_Validate(t *testing.T) {
	if p := validUser().Validate(); len(p) != 0 {
		t.Fatalf("valid user: %v", p)
	}

	u := validUser()
	u.FirstName = ""
	u.EmailID = "not-an-email"
	u.Phone = strp("12ab")
	p := u.Validate()
	if len(p) != 3 {
		t.Fatalf("want 3 problems, got %v", p)
	}

	u = validUser()
	u.LastName = strings.Repeat("x", 31)
	if p := u.Validate(); len(p) != 1 || !strings.Contains(p[0], "last_name") {
		t.Fatalf("long last name: %v", p)
	}

	u = validUser()
	u.Phone = nil
	if p := u.Validate(); len(p) != 0 {
		t.Fatalf("nil phone is allowed: %v", p)
	}
}

func TestPatch_ApplyOnlyProvided(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := validUser()
	u.ModifiedAt = base

	Patch{FirstName: strp("X"), LastName: strp(""), EmailID: nil}.Apply(u, base.Add(time.Minute))

	if u.FirstName != "X" {
		t.Errorf("FirstName = %q, want X", u.FirstName)
	}
	if u.LastName != "Lovelace" || u.EmailID != "ada@example.com" || u.PhoneValue() != "9876543210" {
		t.Errorf("untouched fields changed: %+v", u)
	}
	if !u.ModifiedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("ModifiedAt = %v", u.ModifiedAt)
	}
}

func TestPatch_ModifiedAtMonotonic(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := validUser()
	u.ModifiedAt = base

	Patch{}.Apply(u, base.Add(-time.Hour))
	if !u.ModifiedAt.After(base) {
		t.Errorf("ModifiedAt should advance past %v, got %v", base, u.ModifiedAt)
	}
}

func TestPatch_Validate(t *testing.T) {
	if p := (Patch{EmailID: strp("bad")}).Validate(); len(p) != 1 {
		t.Errorf("bad email: %v", p)
	}
	if p := (Patch{LastName: strp("")}).Validate(); len(p) != 0 {
		t.Errorf("empty fields are skipped, got %v", p)
	}
}
