package model

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const MaxUsernameLength = 32

var (
	ErrUsernameEmpty   = errors.New("username cannot be empty")
	ErrUsernameTooLong = errors.New("username is too long")
	ErrUsernameSpace   = errors.New("username cannot contain whitespace")
)

var folder = cases.Fold()

// UsernameKey 返回用于唯一性与比较的大小写折叠用户名
func UsernameKey(username string) string {
	return folder.String(strings.TrimSpace(username))
}

// ValidateUsername 校验已去除首尾空白的用户名
func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameEmpty
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if strings.IndexFunc(username, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return ErrUsernameSpace
	}
	return nil
}

// Models 返回需要迁移的全部模型
func Models() []interface{} {
	return []interface{}{&User{}, &Post{}, &Like{}, &Reaction{}}
}
