// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"fmt"
	"net/url"
	"syscall"
	"testing"

	"github.com/gogama/wasihttp/host"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	assert.Equal(t, Not, Categorize(nil))
	assert.Equal(t, Not, Categorize(errors.New("foo")))
	assert.Equal(t, Not, Categorize(wrapper{}))
	assert.Equal(t, Not, Categorize(wrapper{errors.New("bar")}))
	assert.Equal(t, Timeout, Categorize(syscall.ETIMEDOUT))
	assert.Equal(t, Timeout, Categorize(timeout{}))
	assert.Equal(t, Timeout, Categorize(&url.Error{Err: syscall.ETIMEDOUT}))
	assert.Equal(t, Timeout, Categorize(&url.Error{Err: timeout{}}))
	assert.Equal(t, Timeout, Categorize(wrapper{&url.Error{Err: syscall.ETIMEDOUT}}))
	assert.Equal(t, Timeout, Categorize(wrapper{wrapper{timeout{}}}))
	assert.Equal(t, Timeout, Categorize(timeoutWrapper{true, syscall.ECONNRESET}))
	assert.Equal(t, Timeout, Categorize(wrapper{timeoutWrapper{true, syscall.ECONNREFUSED}}))
	assert.Equal(t, ConnReset, Categorize(syscall.ECONNRESET))
	assert.Equal(t, ConnReset, Categorize(wrapper{syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Categorize(timeoutWrapper{false, syscall.ECONNRESET}))
	assert.Equal(t, ConnRefused, Categorize(syscall.ECONNREFUSED))
	assert.Equal(t, ConnRefused, Categorize(wrapper{syscall.ECONNREFUSED}))
	assert.Equal(t, ConnRefused, Categorize(&url.Error{Err: wrapper{timeoutWrapper{false, syscall.ECONNREFUSED}}}))
}

func TestCategorize_ErrorCode(t *testing.T) {
	testCases := []struct {
		kind     host.ErrorKind
		expected Category
	}{
		{host.InternalError, Not},
		{host.DNSTimeout, Timeout},
		{host.DNSError, DNS},
		{host.DestinationUnavailable, Not},
		{host.ConnectionRefused, ConnRefused},
		{host.ConnectionTerminated, ConnReset},
		{host.ConnectionTimeout, Timeout},
		{host.ConnectionReadTimeout, Timeout},
		{host.TLSProtocolError, Not},
		{host.TLSCertificateError, Not},
		{host.HTTPProtocolError, Not},
		{host.HTTPResponseIncomplete, ConnReset},
		{host.ConfigurationError, Not},
	}
	for _, testCase := range testCases {
		t.Run(testCase.kind.String(), func(t *testing.T) {
			code := &host.ErrorCode{Kind: testCase.kind}
			assert.Equal(t, testCase.expected, Categorize(code))
			assert.Equal(t, testCase.expected, Categorize(wrapper{code}))
		})
	}
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "not", Not.String())
	assert.Equal(t, "timeout", Timeout.String())
	assert.Equal(t, "conn-refused", ConnRefused.String())
	assert.Equal(t, "conn-reset", ConnReset.String())
	assert.Equal(t, "dns", DNS.String())
	assert.Equal(t, "unknown", Category(99).String())
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (_ timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
