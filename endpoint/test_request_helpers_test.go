package endpoint

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// requestSpec describes one request against a test router. registerPath and
// handler are only used by doRequestWithHandler.
type requestSpec struct {
	method       string
	registerPath string
	requestPath  string
	handler      gin.HandlerFunc
	body         interface{}
	clientIP     string
}

func requestBody(body interface{}) (io.Reader, bool, error) {
	switch v := body.(type) {
	case nil:
		return http.NoBody, false, nil
	case string:
		return bytes.NewBufferString(v), true, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false, err
		}
		return bytes.NewReader(b), true, nil
	}
}

// performRequest serves spec on r and decodes the JSON envelope, if any.
func performRequest(r *gin.Engine, spec requestSpec) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	body, isJSON, err := requestBody(spec.body)
	if err != nil {
		return nil, nil, err
	}

	req := httptest.NewRequest(spec.method, spec.requestPath, body)
	if isJSON {
		req.Header.Set("Content-Type", "application/json")
	}
	if spec.clientIP != "" {
		req.RemoteAddr = spec.clientIP + ":40000"
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			return w, nil, err
		}
	}
	return w, response, nil
}

// doRequestWithHandler mounts spec.handler on r and then performs the request.
func doRequestWithHandler(r *gin.Engine, spec requestSpec) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	r.Handle(spec.method, spec.registerPath, spec.handler)
	return performRequest(r, spec)
}
