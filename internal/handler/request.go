package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sumire/issuetracker/internal/domain"
)

// MaxBodySize caps request bodies; larger ones are rejected with 413.
const MaxBodySize = "1M"

// requestFields reads the request body as a flat set of string values.
// JSON and urlencoded bodies are both accepted; for JSON, numbers and
// booleans are rendered in their literal form and null or nested values
// are treated as absent.
func requestFields(c echo.Context) (map[domain.Field]string, error) {
	req := c.Request()
	if req.Body == nil {
		return map[domain.Field]string{}, nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return nil, httpErr
		}
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[domain.Field]string{}, nil
	}

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	switch mediaType {
	case echo.MIMEApplicationJSON:
		return jsonFields(body)
	case echo.MIMEMultipartForm:
		req.Body = io.NopCloser(bytes.NewReader(body))
		form, err := c.FormParams()
		if err != nil {
			return nil, fmt.Errorf("%w: parse form: %v", domain.ErrInvalidInput, err)
		}
		return formFields(form), nil
	default:
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: parse form: %v", domain.ErrInvalidInput, err)
		}
		return formFields(form), nil
	}
}

func jsonFields(body []byte) (map[domain.Field]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", domain.ErrInvalidInput, err)
	}

	fields := make(map[domain.Field]string, len(raw))
	for key, value := range raw {
		if domain.Field(key) == domain.FieldID && isFalsy(value) {
			continue
		}
		switch v := value.(type) {
		case string:
			fields[domain.Field(key)] = v
		case bool:
			fields[domain.Field(key)] = strconv.FormatBool(v)
		case json.Number:
			fields[domain.Field(key)] = v.String()
		}
	}
	return fields, nil
}

// isFalsy reports JSON scalars that clients use to mean "no value": false and zero.
func isFalsy(value any) bool {
	switch v := value.(type) {
	case bool:
		return !v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	}
	return false
}

func formFields(form url.Values) map[domain.Field]string {
	fields := make(map[domain.Field]string, len(form))
	for key, values := range form {
		if len(values) > 0 {
			fields[domain.Field(key)] = values[0]
		}
	}
	return fields
}
