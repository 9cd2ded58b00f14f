package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
)

// Column widths of the users table.
const (
	MaxNameLen  = 30
	MaxEmailLen = 70
	PhoneLen    = 10
)

// User is the core user entity. Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID            string     `db:"id"`
	FirstName     string     `db:"first_name"`
	LastName      string     `db:"last_name"`
	EmailID       string     `db:"email_id"`
	Password      string     `db:"password"`
	Phone         *string    `db:"phone"`
	EmailVerified bool       `db:"email_verified"`
	IsActive      bool       `db:"is_active"`
	IsDeleted     bool       `db:"is_deleted"`
	LastLogin     *time.Time `db:"last_login"`
	CreatedAt     time.Time  `db:"created_at"`
	ModifiedAt    time.Time  `db:"modified_at"`
}

// PhoneValue returns the phone or "" when unset.
func (u *User) PhoneValue() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}

// Validate checks the profile fields for persistence. It returns every failure so the
// caller can report them together.
func (u *User) Validate() []string {
	var problems []string
	problems = append(problems, checkName("first_name", u.FirstName)...)
	problems = append(problems, checkName("last_name", u.LastName)...)
	problems = append(problems, checkEmail(u.EmailID)...)
	if u.Phone != nil {
		problems = append(problems, checkPhone(*u.Phone)...)
	}
	return problems
}

// Patch is a partial profile update. Nil or empty fields are left untouched.
type Patch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	EmailID   *string `json:"email_id"`
	Phone     *string `json:"phone"`
}

// Validate checks only the fields the patch would apply.
func (p Patch) Validate() []string {
	var problems []string
	if v, ok := provided(p.FirstName); ok {
		problems = append(problems, checkName("first_name", v)...)
	}
	if v, ok := provided(p.LastName); ok {
		problems = append(problems, checkName("last_name", v)...)
	}
	if v, ok := provided(p.EmailID); ok {
		problems = append(problems, checkEmail(v)...)
	}
	if v, ok := provided(p.Phone); ok {
		problems = append(problems, checkPhone(v)...)
	}
	return problems
}

// Apply copies the provided fields onto u and stamps ModifiedAt with now.
// ModifiedAt advances even when no field is provided.
func (p Patch) Apply(u *User, now time.Time) {
	if v, ok := provided(p.FirstName); ok {
		u.FirstName = v
	}
	if v, ok := provided(p.LastName); ok {
		u.LastName = v
	}
	if v, ok := provided(p.EmailID); ok {
		u.EmailID = v
	}
	if v, ok := provided(p.Phone); ok {
		u.Phone = &v
	}
	if !now.After(u.ModifiedAt) {
		now = u.ModifiedAt.Add(time.Microsecond)
	}
	u.ModifiedAt = now
}

func provided(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

func checkName(field, v string) []string {
	switch {
	case strings.TrimSpace(v) == "":
		return []string{field + " is required"}
	case len(v) > MaxNameLen:
		return []string{field + " must be at most 30 characters"}
	}
	return nil
}

func checkEmail(v string) []string {
	if v == "" {
		return []string{"email_id is required"}
	}
	if len(v) > MaxEmailLen {
		return []string{"email_id must be at most 70 characters"}
	}
	if a, err := mail.ParseAddress(v); err != nil || a.Address != v {
		return []string{"email_id is not a valid email address"}
	}
	return nil
}

func checkPhone(v string) []string {
	if len(v) != PhoneLen {
		return []string{"phone must be 10 digits"}
	}
	for _, r := range v {
		if !unicode.IsDigit(r) {
			return []string{"phone must be 10 digits"}
		}
	}
	return nil
}
