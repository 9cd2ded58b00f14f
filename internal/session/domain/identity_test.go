package domain

import (
	"encoding/json"
	"testing"
	"time"

	userdomain "movie-booking-admin/backend/internal/user/domain"
)

func TestNewIdentity(t *testing.T) {
	phone := "9876543210"
	last := time.Date(2024, 3, 9, 14, 5, 7, 0, time.FixedZone("IST", 5*3600+1800))
	u := &userdomain.User{
		ID: "u1", FirstName: "Ada", LastName: "Lovelace", EmailID: "ada@example.com",
		Phone: &phone, IsActive: true, EmailVerified: true, LastLogin: &last,
	}
	id := NewIdentity("rk", u)

	if id.SessionKey != "rk" || id.ID != "u1" || id.Phone != phone || !id.IsVerified {
		t.Errorf("identity = %+v", id)
	}
	if id.LastLogin != "2024-03-09 08:35:07" {
		t.Errorf("LastLogin = %q, want UTC formatted", id.LastLogin)
	}
}

func TestNewIdentity_FirstLogin(t *testing.T) {
	id := NewIdentity("rk", &userdomain.User{ID: "u1"})
	if id.LastLogin != "" || id.Phone != "" {
		t.Errorf("identity = %+v", id)
	}
}

func TestIdentity_PublicOmitsSessionKey(t *testing.T) {
	id := &Identity{SessionKey: "rk", ID: "u1"}
	b, err := json.Marshal(id.Public())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if _, ok := m["r_key"]; ok {
		t.Error("public identity must not carry r_key")
	}
	if id.SessionKey != "rk" {
		t.Error("Public must not mutate the receiver")
	}

	full, _ := json.Marshal(id)
	_ = json.Unmarshal(full, &m)
	if m["r_key"] != "rk" {
		t.Error("cached identity must carry r_key")
	}
}
