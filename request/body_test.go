// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPlan_BodyOwnership(t *testing.T) {
	t.Run("byte slice is copied", func(t *testing.T) {
		b := []byte("payload")
		p, err := NewPlan("PUT", "http://h/", b)
		require.NoError(t, err)
		b[0] = 'X'
		assert.Equal(t, "payload", string(p.Body))
	})
	t.Run("nil byte slice", func(t *testing.T) {
		p, err := NewPlan("PUT", "http://h/", []byte(nil))
		require.NoError(t, err)
		assert.Nil(t, p.Body)
	})
	t.Run("plans do not share a body", func(t *testing.T) {
		b := []byte("same")
		p1, err := NewPlan("PUT", "http://h/1", b)
		require.NoError(t, err)
		p2, err := NewPlan("PUT", "http://h/2", b)
		require.NoError(t, err)
		p1.Body[0] = 'S'
		assert.Equal(t, "same", string(p2.Body))
	})
}

func TestNewPlan_BodyError(t *testing.T) {
	testCases := []struct {
		name     string
		body     func(t *testing.T) interface{}
		typ      string
		cause    error
		expected string
	}{
		{
			name:     "unsupported type",
			body:     func(*testing.T) interface{} { return map[string]int{} },
			typ:      "map[string]int",
			expected: "wasihttp/request: unsupported body type map[string]int (use nil, string, []byte or io.Reader)",
		},
		{
			name: "read fails",
			body: func(t *testing.T) interface{} {
				m := &mockReadCloser{}
				m.Test(t)
				m.On("Read", mock.Anything).Return(0, syscall.ECONNRESET).Once()
				m.On("Close").Return(nil).Once()
				return m
			},
			typ:      "*request.mockReadCloser",
			cause:    syscall.ECONNRESET,
			expected: "wasihttp/request: reading *request.mockReadCloser body: " + syscall.ECONNRESET.Error(),
		},
		{
			name: "close fails",
			body: func(t *testing.T) interface{} {
				m := &mockReadCloser{}
				m.Test(t)
				m.On("Read", mock.Anything).Return(0, io.EOF).Once()
				m.On("Close").Return(io.ErrClosedPipe).Once()
				return m
			},
			typ:      "*request.mockReadCloser",
			cause:    io.ErrClosedPipe,
			expected: "wasihttp/request: reading *request.mockReadCloser body: io: read/write on closed pipe",
		},
		{
			name: "read error wins over close error",
			body: func(t *testing.T) interface{} {
				m := &mockReadCloser{}
				m.Test(t)
				m.On("Read", mock.Anything).Return(0, io.ErrUnexpectedEOF).Once()
				m.On("Close").Return(io.ErrClosedPipe).Once()
				return m
			},
			typ:      "*request.mockReadCloser",
			cause:    io.ErrUnexpectedEOF,
			expected: "wasihttp/request: reading *request.mockReadCloser body: unexpected EOF",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			body := testCase.body(t)
			p, err := NewPlan("POST", "http://h/upload", body)
			assert.Nil(t, p)
			var bodyErr *BodyError
			require.True(t, errors.As(err, &bodyErr))
			assert.Equal(t, testCase.typ, bodyErr.Type)
			assert.EqualError(t, err, testCase.expected)
			if testCase.cause != nil {
				assert.True(t, errors.Is(err, testCase.cause))
			} else {
				assert.NoError(t, errors.Unwrap(err))
			}
			if m, ok := body.(*mockReadCloser); ok {
				m.AssertExpectations(t)
			}
		})
	}
}

func TestNewPlan_PlainReader(t *testing.T) {
	p, err := NewPlan("POST", "http://h/", io.LimitReader(strings.NewReader("truncated body"), 9))
	require.NoError(t, err)
	assert.Equal(t, "truncated", string(p.Body))
}

type mockReadCloser struct {
	mock.Mock
}

func (m *mockReadCloser) Read(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
