package api

import (
	"encoding/json"
	"net/http/httptest"
)

func decodeBody(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}
