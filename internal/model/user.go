package model

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/go-openapi/strfmt"
	"golang.org/x/crypto/bcrypt"

	"simpleorm/internal/errors"
	"simpleorm/internal/orm"
)

// Column names of the users table
const (
	UserName         = "name"
	UserEmail        = "email"
	UserPasswordHash = "password_hash"
	UserIsActive     = "is_active"
	UserCreatedAt    = "created_at"
)

// User is one row of the users table
type User struct {
	orm.Record
}

// Name returns the display name
func (u *User) Name() string {
	return u.Text(UserName)
}

// Email returns the e-mail address
func (u *User) Email() string {
	return u.Text(UserEmail)
}

// Active reports the is_active flag; drivers return it as a bool or an integer
func (u *User) Active() bool {
	switch v := u.Get(UserIsActive).(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		return v == "1" || strings.EqualFold(v, "true") || v == "t"
	}
	return false
}

// CreatedAt returns the creation stamp, false when unset or unparseable
func (u *User) CreatedAt() (strfmt.DateTime, bool) {
	return dateTime(u.Get(UserCreatedAt))
}

// CheckPassword reports whether plain matches the stored hash
func (u *User) CheckPassword(plain string) bool {
	hash := u.Text(UserPasswordHash)
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (u *User) String() string {
	return fmt.Sprintf("%s (%s)", u.Name(), u.Email())
}

// Users binds User to the users table. A nil engine resolves the process
// default on every call; a nil logger uses slog.Default.
func Users(eng *orm.Engine, logger *slog.Logger) *orm.Model[*User] {
	if logger == nil {
		logger = slog.Default()
	}

	return orm.NewModel(
		func() *User { return &User{} },
		orm.Binding{Table: "users", Engine: eng},
		orm.WithOutputFilter(titleCaseName),
		orm.WithOutputFilter(func(u *User) { normalizeCreatedAt(&u.Record) }),
		orm.WithInputFilter(validateEmail),
		orm.WithInputFilter(hashPassword),
		orm.WithPreInsert(func(u *User, f orm.Fields) { stampCreatedAt(f) }),
		orm.WithPostInsert(func(u *User) {
			logger.Info("user created", "id", u.ID(), "email", u.Email())
		}),
	)
}

// titleCaseName upper-cases the first letter of every word of the name
func titleCaseName(u *User) {
	name, ok := u.Get(UserName).(string)
	if !ok || name == "" {
		return
	}
	u.Assign(UserName, titleCase(name))
}

func titleCase(s string) string {
	runes := []rune(s)
	start := true
	for i, r := range runes {
		if unicode.IsSpace(r) {
			start = true
			continue
		}
		if start {
			runes[i] = unicode.ToUpper(r)
			start = false
		}
	}
	return string(runes)
}

// validateEmail rejects writes whose e-mail is present but malformed
func validateEmail(u *User, f orm.Fields) (orm.Fields, error) {
	v, ok := f[UserEmail]
	if !ok || v == nil {
		return f, nil
	}
	email := strings.TrimSpace(fmt.Sprint(v))
	if !strfmt.IsEmail(email) {
		return nil, errors.NewInvalidArgumentError(UserEmail, fmt.Sprintf("%q is not a valid e-mail address", email))
	}
	f[UserEmail] = email
	return f, nil
}

// hashPassword replaces a plain-text password_hash with its bcrypt hash.
// Values that already are bcrypt hashes are left alone so that updates do
// not hash twice.
func hashPassword(u *User, f orm.Fields) (orm.Fields, error) {
	plain, ok := f[UserPasswordHash].(string)
	if !ok || plain == "" {
		return f, nil
	}
	if _, err := bcrypt.Cost([]byte(plain)); err == nil {
		return f, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	f[UserPasswordHash] = string(hash)
	return f, nil
}
