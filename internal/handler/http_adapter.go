package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/rocjay1/finance-tracker/internal/logging"
)

// HTTPTriggerRequest is the Functions host envelope for an HTTP trigger.
type HTTPTriggerRequest struct {
	Data struct {
		Req struct {
			URL             string              `json:"Url"`
			Method          string              `json:"Method"`
			Query           map[string]string   `json:"Query"`
			Headers         map[string][]string `json:"Headers"`
			Params          map[string]string   `json:"Params"`
			Body            string              `json:"Body"`
			IsBase64Encoded bool                `json:"isBase64Encoded"`
		} `json:"req"`
	} `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// HTTPTriggerResponse is the envelope the host expects back.
type HTTPTriggerResponse struct {
	Outputs struct {
		Res struct {
			StatusCode int               `json:"statusCode"`
			Headers    map[string]string `json:"headers"`
			Body       string            `json:"body"`
		} `json:"res"`
	} `json:"Outputs"`
	Logs        []string `json:"Logs,omitempty"`
	ReturnValue any      `json:"ReturnValue,omitempty"`
}

// decodeBody returns the request body. Some hosts send base64 without
// setting isBase64Encoded, so a clean decode is taken either way.
func decodeBody(body string, isBase64 bool) []byte {
	if decoded, err := base64.StdEncoding.DecodeString(body); err == nil {
		return decoded
	} else if isBase64 {
		slog.Debug("body flagged base64 but did not decode", "error", err)
	}
	return []byte(body)
}

// HandleHttpTrigger unwraps the host envelope into a plain request, serves it
// with next and wraps the recorded response.
func (d *Dependencies) HandleHttpTrigger(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		var invokeReq HTTPTriggerRequest
		if err := json.NewDecoder(r.Body).Decode(&invokeReq); err != nil {
			logger.Error("failed to unmarshal HTTP trigger request", "error", err)
			http.Error(w, "Failed to unmarshal request", http.StatusBadRequest)
			return
		}

		reqData := invokeReq.Data.Req
		var bodyReader io.Reader = http.NoBody
		if reqData.Body != "" {
			bodyReader = bytes.NewReader(decodeBody(reqData.Body, reqData.IsBase64Encoded))
		}

		target, err := url.Parse(reqData.URL)
		if err != nil {
			logger.Error("invalid wrapped request url", "url", reqData.URL, "error", err)
			http.Error(w, "Invalid request url", http.StatusBadRequest)
			return
		}
		if len(reqData.Query) > 0 {
			q := target.Query()
			for k, v := range reqData.Query {
				if !q.Has(k) {
					q.Set(k, v)
				}
			}
			target.RawQuery = q.Encode()
		}

		newReq, err := http.NewRequestWithContext(r.Context(), reqData.Method, target.String(), bodyReader)
		if err != nil {
			logger.Error("failed to create internal request", "error", err)
			http.Error(w, "Failed to create internal request", http.StatusInternalServerError)
			return
		}
		for k, v := range reqData.Headers {
			for _, val := range v {
				newReq.Header.Add(k, val)
			}
		}

		logger.Info("serving wrapped request", "method", newReq.Method, "path", newReq.URL.Path)

		recorder := httptest.NewRecorder()
		next.ServeHTTP(recorder, newReq)

		res := recorder.Result()
		respBody, _ := io.ReadAll(res.Body)
		res.Body.Close()

		headers := make(map[string]string, len(res.Header))
		for k, v := range res.Header {
			headers[k] = strings.Join(v, ", ")
		}

		var out HTTPTriggerResponse
		out.Outputs.Res.StatusCode = res.StatusCode
		out.Outputs.Res.Headers = headers
		out.Outputs.Res.Body = string(respBody)

		WriteJSON(w, http.StatusOK, out)
	}
}
