// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestRegistry_Counters verifies that the recording methods reach their collectors.
*/
func TestRegistry_Counters(t *testing.T) {
	registry := New()

	registry.AuthEvent(EventLogin, OutcomeSuccess)
	registry.AuthEvent(EventLogin, OutcomeSuccess)
	registry.AuthEvent(EventLogin, OutcomeFailure)
	registry.RevocationsReaped(3)
	registry.RevocationsReaped(0)
	registry.ObserveRequest(http.MethodGet, "/api/v1/issues/{issueID}", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(registry.authEvents.WithLabelValues(EventLogin, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.authEvents.WithLabelValues(EventLogin, OutcomeFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(registry.revocationsReaped))
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/issues/{issueID}", "200")))

	done := registry.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.httpInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(registry.httpInFlight))
}

/*
TestRegistry_Nil verifies that a nil registry is a no-op.
*/
func TestRegistry_Nil(t *testing.T) {
	var registry *Registry
	assert.NotPanics(t, func() {
		registry.AuthEvent(EventRefresh, OutcomeFailure)
		registry.RevocationsReaped(1)
		registry.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		registry.SetBuildInfo("dev")
		registry.RequestStarted()()
	})
}

/*
TestRegistry_Handler serves the exposition format.
*/
func TestRegistry_Handler(t *testing.T) {
	registry := New()
	registry.SetBuildInfo("1.2.3")

	recorder := httptest.NewRecorder()
	registry.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `bugtrack_build_info{version="1.2.3"} 1`)
}
