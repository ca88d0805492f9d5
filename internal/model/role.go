package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleFirst  Role = "first"
	RoleSecond Role = "second"
)

// ParseRole also understands the legacy user1/user2 names.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "user1":
		return RoleFirst, nil
	case "second", "user2":
		return RoleSecond, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	return r == RoleFirst || r == RoleSecond
}
