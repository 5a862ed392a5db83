/*
guard_test.go - In-flight run guard tests

White-box: holds a claim on a composite key directly and asserts a
concurrent reconciliation request is rejected instead of interleaving.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/worktime-engine/review"
	"github.com/shiftwise/worktime-engine/store/sqlite"
)

func TestReconcile_RunInFlightIs409(t *testing.T) {
	// GIVEN: A run already holding the claim for (emp-1, br-gangnam, 2026-01)
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := NewHandler(store)
	router := NewRouter(handler)

	key := review.Key{EmployeeID: "emp-1", BranchID: "br-gangnam", Month: "2026-01"}
	require.True(t, handler.claimRun(key))

	post := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(ReconcileRequest{Month: "2026-01"}))
		req := httptest.NewRequest(http.MethodPost,
			"/api/branches/br-gangnam/employees/emp-1/reconcile", &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// WHEN: A second run arrives for the same key
	// THEN: Rejected with 409 before touching the review status or any row
	rec := post()
	assert.Equal(t, http.StatusConflict, rec.Code)

	status, err := store.Reviews().Get(context.Background(), key)
	require.NoError(t, err)
	assert.Nil(t, status)

	// A sibling key is unaffected by the claim
	require.True(t, handler.claimRun(review.Key{EmployeeID: "emp-2", BranchID: "br-gangnam", Month: "2026-01"}))

	// Releasing the claim lets the key run again
	handler.releaseRun(key)
	rec = post()
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestClaimRun_SecondClaimFailsUntilRelease(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	handler := NewHandler(store)

	key := review.Key{EmployeeID: "emp-1", BranchID: "br-gangnam", Month: "2026-01"}
	require.True(t, handler.claimRun(key))
	assert.False(t, handler.claimRun(key))

	handler.releaseRun(key)
	assert.True(t, handler.claimRun(key))
}
