package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var client = http.Client{
	Timeout: 5 * time.Minute,
}

// errorResponse mirrors the error document returned by the node.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// send performs the request against the node and decodes the response
// document into resp when the node answers with the expected status.
func send(method string, path string, body any, status int, resp any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != status {
		var er errorResponse
		if err := json.NewDecoder(res.Body).Decode(&er); err != nil || er.Error == "" {
			return fmt.Errorf("node responded with status %d", res.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("node responded with status %d: %s: %v", res.StatusCode, er.Error, er.Fields)
		}
		return fmt.Errorf("node responded with status %d: %s", res.StatusCode, er.Error)
	}

	if resp == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(resp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
