// Package password checks signup passwords and hashes them for storage.
package password

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

const MinLength = 8

var ErrMismatch = errors.New("password: mismatch")

// Warning is one rule line shown under the password field.
type Warning struct {
	Text    string `json:"text"`
	IsValid bool   `json:"isValid"`
}

// Check evaluates pw against every rule, in display order. name and email
// belong to the person signing up; either may be empty.
func Check(pw, name, email string) []Warning {
	return []Warning{
		{Text: "비밀번호에 본인 이름이나 이메일 주소를 포함할 수 없습니다.", IsValid: !containsIdentity(pw, name, email)},
		{Text: fmt.Sprintf("최소 %d자", MinLength), IsValid: utf8.RuneCountInString(pw) >= MinLength},
		{Text: "숫자나 기호를 포함하세요.", IsValid: hasNumberOrSymbol(pw)},
	}
}

// Valid reports whether every warning is satisfied.
func Valid(warnings []Warning) bool {
	return lo.EveryBy(warnings, func(w Warning) bool { return w.IsValid })
}

func containsIdentity(pw, name, email string) bool {
	if pw == "" {
		return false
	}
	lower := strings.ToLower(pw)
	local, _, _ := strings.Cut(email, "@")
	for _, part := range []string{name, local} {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" && strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

func hasNumberOrSymbol(pw string) bool {
	return strings.ContainsFunc(pw, func(r rune) bool {
		return unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("password.Hash: %w", err)
	}
	return string(b), nil
}

// Compare returns ErrMismatch when pw does not produce hash.
func Compare(hash, pw string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	if err != nil {
		return fmt.Errorf("password.Compare: %w", err)
	}
	return nil
}
