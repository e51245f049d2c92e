package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilder(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/1").
		Body(map[string]int{"n": 1}).
		Write(rec)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Location") != "/api/transactions/1" {
		t.Error("custom header missing")
	}
	if rec.Header().Get("Content-Type") != contentTypeJSON {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != "{\"n\":1}\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestJSONResponseWithoutBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(rec)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Errorf("status=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "" {
		t.Error("no content type expected for empty body")
	}
}

func TestJSONResponseEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().Body(map[string]any{"ch": make(chan int)}).Write(rec)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name      string
		builder   *JSONResponseBuilder
		wantCode  int
		wantField string
	}{
		{"bad request", BadRequestError("nope"), http.StatusBadRequest, ""},
		{"unprocessable", UnprocessableEntityError("amount: invalid amount", "amount"), http.StatusUnprocessableEntity, "amount"},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, ""},
		{"unavailable", ServiceUnavailableError("later"), http.StatusServiceUnavailable, ""},
		{"rate limited", TooManyRequestsError(), http.StatusTooManyRequests, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.builder.Write(rec)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error == "" || body.Field != tt.wantField {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
