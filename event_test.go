// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	assert.Len(t, eventNames, numEvents)
	assert.Len(t, Events(), numEvents)
	events := Events()
	assert.Equal(t, BeforeExecutionStart, events[BeforeExecutionStart])
	assert.Equal(t, BeforeSubmit, events[BeforeSubmit])
	assert.Equal(t, BeforeWait, events[BeforeWait])
	assert.Equal(t, AfterResponse, events[AfterResponse])
	assert.Equal(t, AfterExecutionEnd, events[AfterExecutionEnd])
}

func TestEvent_Name(t *testing.T) {
	assert.Equal(t, "BeforeExecutionStart", BeforeExecutionStart.Name())
	assert.Equal(t, "BeforeSubmit", BeforeSubmit.Name())
	assert.Equal(t, "BeforeWait", BeforeWait.Name())
	assert.Equal(t, "AfterResponse", AfterResponse.Name())
	assert.Equal(t, "AfterExecutionEnd", AfterExecutionEnd.Name())
	assert.Equal(t, "AfterResponse", AfterResponse.String())
}
