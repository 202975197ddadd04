package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
)

const (
	maxBodyLogLength   = 500   // Maximum characters to log for body
	maxBodyStoreLength = 10000 // Maximum characters persisted per API log body
)

var base64Pattern = regexp.MustCompile(`"([A-Za-z0-9+/=]{100,})"`)

type HTTPClient interface {
	// Get performs a GET and decodes the JSON body into result
	Get(ctx context.Context, sess *entity.Session, url string, result interface{}) error
	// GetText performs a GET and returns the body as text
	GetText(ctx context.Context, sess *entity.Session, url string) (string, error)
	// Post performs a JSON POST
	Post(ctx context.Context, sess *entity.Session, url string, body interface{}, result interface{}) error
	// PostMultipart performs a multipart/form-data POST
	PostMultipart(ctx context.Context, sess *entity.Session, url string, fields map[string]string, files map[string]FileUpload, result interface{}) error
	// Put performs a JSON PUT
	Put(ctx context.Context, sess *entity.Session, url string, body interface{}, result interface{}) error
	// Delete performs a DELETE
	Delete(ctx context.Context, sess *entity.Session, url string, result interface{}) error
}

// FileUpload represents a file to be uploaded
type FileUpload struct {
	Filename string
	Content  []byte
}

// APILogSaver interface for saving API logs
type APILogSaver interface {
	Save(ctx context.Context, log *entity.APILog) error
}

type httpClient struct {
	client *http.Client
	// applied only to calls whose context carries no deadline of its own
	defaultTimeout time.Duration
	apiLogSaver    APILogSaver
	logger         *zap.Logger
}

// request is one prepared exchange; body is the log summary, never raw file bytes
type request struct {
	method      string
	url         string
	payload     io.Reader
	contentType string
	logBody     []byte
}

func NewHTTPClient(cfg *config.Config, apiLogSaver APILogSaver, logger *zap.Logger) HTTPClient {
	dialer := &net.Dialer{
		Timeout:   cfg.Signing.RequestTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = cfg.Signing.RequestTimeout

	return &httpClient{
		client:         &http.Client{Transport: transport},
		defaultTimeout: cfg.Signing.RequestTimeout,
		apiLogSaver:    apiLogSaver,
		logger:         logger,
	}
}

// truncateString truncates a string if it exceeds maxLength
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + fmt.Sprintf("... [truncated, total %d chars]", len(s))
}

// truncateBase64InJSON truncates base64-like values in JSON string
func truncateBase64InJSON(jsonStr string, maxLength int) string {
	return base64Pattern.ReplaceAllStringFunc(jsonStr, func(match string) string {
		content := match[1 : len(match)-1]
		if len(content) > maxLength {
			return fmt.Sprintf(`"%s... [base64 truncated, total %d chars]"`, content[:maxLength], len(content))
		}
		return match
	})
}

// formatHeadersForLog formats HTTP headers for logging, hiding credentials
func formatHeadersForLog(headers http.Header) string {
	var sb strings.Builder
	for key, values := range headers {
		for _, value := range values {
			if strings.EqualFold(key, "Authorization") {
				value = "Bearer ***"
			} else if len(value) > 100 {
				value = value[:100] + "..."
			}
			sb.WriteString(fmt.Sprintf("Header %s=%s\n", key, value))
		}
	}
	return sb.String()
}

func (c *httpClient) logRequest(method, url string, headers http.Header, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [WEBCLIENT-REQ]\n")
	logBuilder.WriteString(fmt.Sprintf("Method: %s\n", method))
	logBuilder.WriteString(fmt.Sprintf("URL: %s\n", url))
	logBuilder.WriteString(formatHeadersForLog(headers))

	if len(body) > 0 {
		bodyStr := truncateBase64InJSON(string(body), 100)
		bodyStr = truncateString(bodyStr, maxBodyLogLength)
		logBuilder.WriteString(fmt.Sprintf("REQUEST BODY: %s\n", bodyStr))
	}

	c.logger.Debug(logBuilder.String())
}

func (c *httpClient) logResponse(statusCode int, statusText string, duration time.Duration, body []byte) {
	var logBuilder strings.Builder

	logBuilder.WriteString("\n>>> [WEBCLIENT-RESPONSE]\n")
	logBuilder.WriteString(fmt.Sprintf("Status: %d %s\n", statusCode, statusText))
	logBuilder.WriteString(fmt.Sprintf("Duration: %s\n", duration))

	bodyStr := truncateBase64InJSON(string(body), 100)
	logBuilder.WriteString(fmt.Sprintf("Body: %s\n", truncateString(bodyStr, maxBodyLogLength)))

	c.logger.Debug(logBuilder.String())
}

// saveAPILog persists the exchange without blocking the caller
func (c *httpClient) saveAPILog(req *request, responseBody []byte, statusCode int, duration time.Duration, userID string) {
	if c.apiLogSaver == nil {
		return
	}

	reqBodyStr := ""
	if len(req.logBody) > 0 {
		reqBodyStr = truncateString(truncateBase64InJSON(string(req.logBody), 100), maxBodyStoreLength)
	}
	respBodyStr := truncateString(truncateBase64InJSON(string(responseBody), 100), maxBodyStoreLength)

	apiLog := &entity.APILog{
		Endpoint:     req.url,
		Method:       req.method,
		RequestBody:  reqBodyStr,
		ResponseBody: respBodyStr,
		StatusCode:   statusCode,
		Duration:     duration.Milliseconds(),
		UserID:       userID,
		CreatedAt:    time.Now(),
	}

	go func() {
		if err := c.apiLogSaver.Save(context.Background(), apiLog); err != nil {
			c.logger.Warn("Failed to save API log to database",
				zap.String("endpoint", req.url),
				zap.Error(err),
			)
		}
	}()
}

// setAuthHeaders attaches the bearer credential. A nil session means an
// unauthenticated call (login, signup); an empty one is an AuthError.
func setAuthHeaders(req *http.Request, sess *entity.Session) error {
	if sess == nil {
		return nil
	}
	if !sess.Valid() {
		return &entity.AuthError{Message: "no credential available, please sign in"}
	}
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	return nil
}

// do executes the exchange and returns the raw response body of a 2xx answer
func (c *httpClient) do(ctx context.Context, sess *entity.Session, r *request) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && c.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.defaultTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")

	if err := setAuthHeaders(req, sess); err != nil {
		return nil, err
	}

	c.logRequest(r.method, r.url, req.Header, r.logBody)

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, r.method+" "+r.url, err)
	}
	defer resp.Body.Close()

	duration := time.Since(startTime)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, r.method+" "+r.url, err)
	}

	c.logResponse(resp.StatusCode, resp.Status, duration, respBody)

	userID := ""
	if sess != nil {
		userID = sess.UserID
	}
	c.saveAPILog(r, respBody, resp.StatusCode, duration, userID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

func decodeInto(body []byte, result interface{}) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *httpClient) doJSON(ctx context.Context, sess *entity.Session, method, url string, body interface{}, result interface{}) error {
	r := &request{method: method, url: url}
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		r.payload = bytes.NewReader(jsonBody)
		r.contentType = "application/json"
		r.logBody = redactSecrets(jsonBody)
	}

	respBody, err := c.do(ctx, sess, r)
	if err != nil {
		return err
	}
	return decodeInto(respBody, result)
}

func (c *httpClient) Get(ctx context.Context, sess *entity.Session, url string, result interface{}) error {
	return c.doJSON(ctx, sess, http.MethodGet, url, nil, result)
}

func (c *httpClient) GetText(ctx context.Context, sess *entity.Session, url string) (string, error) {
	respBody, err := c.do(ctx, sess, &request{method: http.MethodGet, url: url})
	if err != nil {
		return "", err
	}
	return string(respBody), nil
}

func (c *httpClient) Post(ctx context.Context, sess *entity.Session, url string, body interface{}, result interface{}) error {
	return c.doJSON(ctx, sess, http.MethodPost, url, body, result)
}

func (c *httpClient) Put(ctx context.Context, sess *entity.Session, url string, body interface{}, result interface{}) error {
	return c.doJSON(ctx, sess, http.MethodPut, url, body, result)
}

func (c *httpClient) Delete(ctx context.Context, sess *entity.Session, url string, result interface{}) error {
	return c.doJSON(ctx, sess, http.MethodDelete, url, nil, result)
}

// PostMultipart sends a multipart/form-data POST request
func (c *httpClient) PostMultipart(ctx context.Context, sess *entity.Session, url string, fields map[string]string, files map[string]FileUpload, result interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	for fieldName, file := range files {
		part, err := writer.CreateFormFile(fieldName, file.Filename)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", fieldName, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("failed to write file content %s: %w", fieldName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	r := &request{
		method:      http.MethodPost,
		url:         url,
		payload:     &buf,
		contentType: writer.FormDataContentType(),
		logBody:     []byte(multipartSummary(fields, files)),
	}

	respBody, err := c.do(ctx, sess, r)
	if err != nil {
		return err
	}
	return decodeInto(respBody, result)
}

// multipartSummary describes a multipart body by field names and file sizes only
func multipartSummary(fields map[string]string, files map[string]FileUpload) string {
	fieldKeys := make([]string, 0, len(fields))
	for k := range fields {
		fieldKeys = append(fieldKeys, k)
	}
	sort.Strings(fieldKeys)

	fileKeys := make([]string, 0, len(files))
	for k, f := range files {
		fileKeys = append(fileKeys, fmt.Sprintf("%s(%s, %d bytes)", k, f.Filename, len(f.Content)))
	}
	sort.Strings(fileKeys)

	return fmt.Sprintf("{fields: [%s], files: [%s]}", strings.Join(fieldKeys, ", "), strings.Join(fileKeys, ", "))
}

// redactSecrets blanks password fields before a JSON body is logged or stored
func redactSecrets(body []byte) []byte {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}
	changed := false
	for _, key := range []string{"password", "refresh_token", "access_token"} {
		if _, ok := fields[key]; ok {
			fields[key] = "***"
			changed = true
		}
	}
	if !changed {
		return body
	}
	redacted, err := json.Marshal(fields)
	if err != nil {
		return body
	}
	return redacted
}

// transportError separates timeouts from connectivity failures. A caller
// cancellation is passed through untouched so it is never reported as a failure.
func transportError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", op, context.Canceled)
	}

	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}

	return &entity.TransportError{Op: op, Timeout: timeout, Err: err}
}

// errorBody covers FastAPI-style {detail} and envelope-style {message} bodies
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func statusError(statusCode int, body []byte) error {
	message := serverMessage(body)
	if message == "" {
		message = http.StatusText(statusCode)
	}

	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return &entity.AuthError{StatusCode: statusCode, Message: message}
	}
	return &entity.ServerError{StatusCode: statusCode, Message: message}
}

func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	if len(eb.Detail) > 0 && string(eb.Detail) != "null" {
		var detail string
		if err := json.Unmarshal(eb.Detail, &detail); err == nil {
			return detail
		}
		return string(eb.Detail)
	}

	return eb.Message
}
