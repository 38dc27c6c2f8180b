// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/gogama/wasihttp/host"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	testCases := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with cause",
			err:      newError(ErrTransport, "POST", "https://h/p", &host.ErrorCode{Kind: host.DNSError, Detail: "no such host"}),
			expected: `wasihttp: Post "https://h/p": transport error: DNS-error: no such host`,
		},
		{
			name:     "without cause",
			err:      newError(ErrBodyRead, "GET", "http://h/", nil),
			expected: `wasihttp: Get "http://h/": body read error`,
		},
		{
			name:     "extension method",
			err:      newError(ErrTransportSetup, "PROPFIND", "http://h/", host.ErrInvalid),
			expected: `wasihttp: Propfind "http://h/": transport setup error: wasihttp/host: invalid value`,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.EqualError(t, testCase.err, testCase.expected)
		})
	}
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := &host.ErrorCode{Kind: host.ConnectionRefused}
	err := fmt.Errorf("wrapped: %w", newError(ErrTransport, "GET", "http://h/", cause))

	assert.True(t, errors.Is(err, ErrTransport))
	assert.False(t, errors.Is(err, ErrTransportSetup))
	assert.False(t, errors.Is(err, ErrBodyRead))

	var code *host.ErrorCode
	assert.True(t, errors.As(err, &code))
	assert.Same(t, cause, code)

	var wErr *Error
	assert.True(t, errors.As(err, &wErr))
	assert.Same(t, cause, wErr.Unwrap())
}

func TestError_Timeout(t *testing.T) {
	testCases := []struct {
		name     string
		cause    error
		expected bool
	}{
		{"nil", nil, false},
		{"connection timeout", &host.ErrorCode{Kind: host.ConnectionTimeout}, true},
		{"read timeout", &host.ErrorCode{Kind: host.ConnectionReadTimeout}, true},
		{"DNS timeout", &host.ErrorCode{Kind: host.DNSTimeout}, true},
		{"refused", &host.ErrorCode{Kind: host.ConnectionRefused}, false},
		{"wrapped timeout", fmt.Errorf("x: %w", syscall.ETIMEDOUT), true},
		{"other", errors.New("boom"), false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := newError(ErrTransport, "GET", "http://h/", testCase.cause)
			assert.Equal(t, testCase.expected, err.Timeout())
		})
	}
}

func TestURLErrorOp(t *testing.T) {
	testCases := []struct {
		method   string
		expected string
	}{
		{"", "Get"},
		{"GET", "Get"},
		{"POST", "Post"},
		{"delete", "delete"},
		{"Fake", "Fake"},
		{"M-SEARCH", "M-search"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.method, func(t *testing.T) {
			assert.Equal(t, testCase.expected, urlErrorOp(testCase.method))
		})
	}
}
