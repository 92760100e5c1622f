package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

var client = http.Client{
	Timeout: 10 * time.Second,
}

// errorResponse mirrors the error document returned by the oracle.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// call performs the request against the oracle and decodes the response
// into resp. Any status other than 200 is returned as an error.
func call(method string, url string, body any, resp any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	r, err := client.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	if r.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(r.Body).Decode(&er); err != nil {
			return fmt.Errorf("status %d", r.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("status %d: %s: %v", r.StatusCode, er.Error, er.Fields)
		}
		return fmt.Errorf("status %d: %s", r.StatusCode, er.Error)
	}

	return json.NewDecoder(r.Body).Decode(resp)
}
