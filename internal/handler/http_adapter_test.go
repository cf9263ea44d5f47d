package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triggerBody(t *testing.T, method, url, body string, query map[string]string) *bytes.Buffer {
	t.Helper()
	var req HTTPTriggerRequest
	req.Data.Req.Method = method
	req.Data.Req.URL = url
	req.Data.Req.Body = body
	req.Data.Req.Query = query
	req.Data.Req.Headers = map[string][]string{"Content-Type": {"application/json"}}
	buf, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewBuffer(buf)
}

func TestHandleHttpTrigger(t *testing.T) {
	var gotBody, gotID, gotType string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transactions", r.URL.Path)
		gotID = r.URL.Query().Get("id")
		gotType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		WriteJSON(w, http.StatusCreated, map[string]string{"ok": "yes"})
	})

	deps := &Dependencies{}
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"id":1}`))
	req := httptest.NewRequest(http.MethodPost, "/HttpTrigger",
		triggerBody(t, http.MethodPost, "http://localhost:7071/api/transactions", encoded, map[string]string{"id": "5"}))
	w := httptest.NewRecorder()

	deps.HandleHttpTrigger(next)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"id":1}`, gotBody)
	assert.Equal(t, "5", gotID)
	assert.Equal(t, "application/json", gotType)

	var resp HTTPTriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusCreated, resp.Outputs.Res.StatusCode)
	assert.Equal(t, "application/json", resp.Outputs.Res.Headers["Content-Type"])
	assert.JSONEq(t, `{"ok":"yes"}`, resp.Outputs.Res.Body)
}

func TestHandleHttpTrigger_PlainBody(t *testing.T) {
	var gotBody string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
	})

	deps := &Dependencies{}
	req := httptest.NewRequest(http.MethodPost, "/HttpTrigger",
		triggerBody(t, http.MethodPost, "http://localhost:7071/api/transactions/import", `{"transactions":[]}`, nil))
	w := httptest.NewRecorder()

	deps.HandleHttpTrigger(next)(w, req)

	assert.Equal(t, `{"transactions":[]}`, gotBody)
}

func TestHandleHttpTrigger_BadEnvelope(t *testing.T) {
	deps := &Dependencies{}
	w := httptest.NewRecorder()
	deps.HandleHttpTrigger(http.NotFoundHandler())(w, httptest.NewRequest(http.MethodPost, "/HttpTrigger", bytes.NewBufferString("nope")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
