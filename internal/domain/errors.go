package domain

import (
	"errors"
	"fmt"
)

const (
	ErrCodeConfigNotFound    = "config_not_found"
	ErrCodeConfigInvalid     = "config_invalid"
	ErrCodeMissingInput      = "missing_input"
	ErrCodeInvalidPattern    = "invalid_pattern"
	ErrCodeNoMatch           = "no_match"
	ErrCodeTypeInference     = "type_inference_failed"
	ErrCodeUnsupportedType   = "unsupported_type"
	ErrCodeCompilationFailed = "compilation_failed"
	ErrCodeIOFailed          = "io_failed"
)

// ItemError 是单个定义/job 范围内的失败（带 error_code）。
// 上层据此决定打印为 warning 还是 error，并记入 RunReport。
type ItemError struct {
	Code string
	Msg  string
	Err  error
}

func (e *ItemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：%s：%v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s：%s", e.Code, e.Msg)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Warning 表示该失败只需以 warning 级别报告（丢弃条目但不算错误）。
func (e *ItemError) Warning() bool {
	switch e.Code {
	case ErrCodeNoMatch, ErrCodeMissingInput:
		return true
	default:
		return false
	}
}

// ErrorCode 从 error 中提取 error_code；若不是 *ItemError 则返回空串。
func ErrorCode(err error) string {
	var e *ItemError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
