package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAllProvidersExhausted は、すべてのプロバイダがスキップまたは失敗したことを示します。
var ErrAllProvidersExhausted = errors.New("すべての画像生成プロバイダが失敗しました")

// ProviderError は1つのプロバイダの最終的な失敗を表します。
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string { return e.Provider + ": " + e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// AllProvidersExhaustedError は各プロバイダの失敗を集約したエラーです。
// errors.Is(err, ErrAllProvidersExhausted) で判定できます。
type AllProvidersExhaustedError struct {
	Failures []*ProviderError
	Skipped  []string
}

func (e *AllProvidersExhaustedError) Error() string {
	if len(e.Failures) == 0 {
		return fmt.Sprintf("%s (利用可能なプロバイダがありません, skipped=%s)", ErrAllProvidersExhausted, strings.Join(e.Skipped, ","))
	}
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%s: %s", ErrAllProvidersExhausted, strings.Join(msgs, "; "))
}

func (e *AllProvidersExhaustedError) Is(target error) bool {
	return target == ErrAllProvidersExhausted
}

func (e *AllProvidersExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// StatusError は HTTP ステータスが 2xx 以外だった応答を表します。
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
}
