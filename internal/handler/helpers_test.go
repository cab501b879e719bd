package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// envelopeBody mirrors the JSON envelope every endpoint writes.
type envelopeBody struct {
	Status     string                     `json:"status"`
	Message    string                     `json:"message"`
	Results    *int                       `json:"results"`
	Total      *int64                     `json:"total"`
	Page       int                        `json:"page"`
	TotalPages *int                       `json:"totalPages"`
	Data       map[string]json.RawMessage `json:"data"`
}

// do sends one request through h. A string body is sent verbatim; any other
// non-nil body is JSON encoded.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// dataField decodes env.Data[key] into dst.
func dataField(t *testing.T, env envelopeBody, key string, dst any) {
	t.Helper()
	raw, ok := env.Data[key]
	require.True(t, ok, "data has no %q key", key)
	require.NoError(t, json.Unmarshal(raw, dst))
}
