package security

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StringValidator 字符串长度验证器，只校验不清洗
type StringValidator struct {
	Field     string
	MinLength int
	MaxLength int
	// RejectBlank 为 true 时，只包含空白字符的值视为空
	RejectBlank bool
}

// NewStringValidator 创建字符串验证器
func NewStringValidator(field string, minLength, maxLength int) *StringValidator {
	return &StringValidator{
		Field:       field,
		MinLength:   minLength,
		MaxLength:   maxLength,
		RejectBlank: true,
	}
}

// 常用验证器
var (
	PostContent  = NewStringValidator("content", 1, 300)
	ReportReason = NewStringValidator("reason", 1, 500)
	Nickname     = NewStringValidator("nickname", 1, 32)
)

// Validate 验证字符串，长度按字符计算
func (sv *StringValidator) Validate(value string) error {
	if sv.RejectBlank && strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", sv.Field)
	}

	length := utf8.RuneCountInString(value)
	if length < sv.MinLength {
		return fmt.Errorf("%s too short, minimum length is %d", sv.Field, sv.MinLength)
	}
	if length > sv.MaxLength {
		return fmt.Errorf("%s too long, maximum length is %d", sv.Field, sv.MaxLength)
	}

	if strings.IndexFunc(value, isForbiddenControl) >= 0 {
		return fmt.Errorf("%s contains control characters", sv.Field)
	}
	return nil
}

func isForbiddenControl(r rune) bool {
	return unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r'
}
