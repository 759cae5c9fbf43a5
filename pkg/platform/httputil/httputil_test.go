package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/testutil"
)

func TestWriteErrorEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, dErrors.New(dErrors.CodeConflict, "group still contains passports"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, "conflict", resp["error"])
	assert.Equal(t, "group still contains passports", resp["error_description"])
}

func TestWriteErrorSuppressesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, dErrors.Wrap(errors.New("pq: relation does not exist"), dErrors.CodeInternal, "failed to list passports"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, "internal_error", resp["error"])
	assert.Empty(t, resp["error_description"])
	assert.NotContains(t, rr.Body.String(), "pq:")
}

func TestWriteErrorDefaultsUncodedToInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("bare failure"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "bare failure")
}

func TestDecodeRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()

	_, ok := Decode[struct{}](rr, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
