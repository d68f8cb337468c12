// Package auth provides the credential store backing HTTP Basic
// authentication. The store is an interface so the static in-memory set can
// later be swapped for a real identity provider without touching call sites.
package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role names used by the authorization middleware.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an authenticated identity with its granted roles.
type User struct {
	Name  string
	Roles []string
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CredentialStore verifies a username/password pair and yields the identity.
type CredentialStore interface {
	// Authenticate returns the user for valid credentials; ok is false for
	// unknown users and wrong passwords alike.
	Authenticate(username, password string) (user *User, ok bool)
}

// Entry is one plaintext credential used to seed a StaticStore. Passwords
// are hashed on construction and never kept around.
type Entry struct {
	Username string
	Password string
	Roles    []string
}

// DefaultEntries is the built-in credential set: two regular users and an
// admin who also holds the USER role.
func DefaultEntries() []Entry {
	return []Entry{
		{Username: "user1", Password: "user1", Roles: []string{RoleUser}},
		{Username: "user2", Password: "user2", Roles: []string{RoleUser}},
		{Username: "admin", Password: "admin", Roles: []string{RoleUser, RoleAdmin}},
	}
}

// ParseEntries parses a credential spec of the form
// "user:pass:ROLE|ROLE,user:pass:ROLE". An empty spec yields nil.
func ParseEntries(spec string) ([]Entry, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var entries []Entry
	for _, part := range strings.Split(spec, ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
			return nil, fmt.Errorf("auth: malformed credential entry %q", part)
		}
		entries = append(entries, Entry{
			Username: fields[0],
			Password: fields[1],
			Roles:    strings.Split(strings.ToUpper(fields[2]), "|"),
		})
	}
	return entries, nil
}

type staticUser struct {
	hash  []byte
	roles []string
}

// StaticStore is an in-memory CredentialStore with bcrypt-hashed passwords.
// It is read-only after construction and safe for concurrent use.
type StaticStore struct {
	users map[string]staticUser
}

// NewStaticStore hashes the given entries into a StaticStore.
func NewStaticStore(entries []Entry) (*StaticStore, error) {
	users := make(map[string]staticUser, len(entries))
	for _, e := range entries {
		hash, err := bcrypt.GenerateFromPassword([]byte(e.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hashing password for %q: %w", e.Username, err)
		}
		users[e.Username] = staticUser{hash: hash, roles: e.Roles}
	}
	return &StaticStore{users: users}, nil
}

// Authenticate implements CredentialStore.
func (s *StaticStore) Authenticate(username, password string) (*User, bool) {
	u, ok := s.users[username]
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return nil, false
	}
	return &User{Name: username, Roles: u.roles}, true
}
