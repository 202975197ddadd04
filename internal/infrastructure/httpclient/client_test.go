package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
)

type recordingSaver struct {
	mu   sync.Mutex
	logs []*entity.APILog
	done chan struct{}
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{done: make(chan struct{}, 8)}
}

func (s *recordingSaver) Save(ctx context.Context, log *entity.APILog) error {
	s.mu.Lock()
	s.logs = append(s.logs, log)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func newTestClient(t *testing.T, saver APILogSaver, timeout time.Duration) HTTPClient {
	t.Helper()
	cfg := &config.Config{Signing: config.SigningConfig{RequestTimeout: timeout}}
	return NewHTTPClient(cfg, saver, zap.NewNop())
}

func TestGetAttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, nil, time.Second)

	var out entity.MessageResponse
	err := client.Get(context.Background(), &entity.Session{AccessToken: "tok-1", UserID: "u1"}, srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Message)
}

func TestEmptySessionIsAuthErrorWithoutNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := newTestClient(t, nil, time.Second)
	err := client.Get(context.Background(), &entity.Session{}, srv.URL, nil)

	var authErr *entity.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, 0, calls)
}

func TestStatusErrorsAreTyped(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantAuth    bool
		wantMessage string
	}{
		{"detail string", http.StatusBadRequest, `{"detail":"Empty PDF file"}`, false, "Empty PDF file"},
		{"message field", http.StatusInternalServerError, `{"message":"boom"}`, false, "boom"},
		{"no body", http.StatusBadGateway, ``, false, "Bad Gateway"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, false, `[{"msg":"field required"}]`},
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`, true, "Could not validate credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client := newTestClient(t, nil, time.Second)
			err := client.Post(context.Background(), &entity.Session{AccessToken: "t"}, srv.URL, map[string]string{"a": "b"}, nil)
			require.Error(t, err)

			if tt.wantAuth {
				var authErr *entity.AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, tt.wantMessage, authErr.Message)
				return
			}

			var serverErr *entity.ServerError
			require.True(t, errors.As(err, &serverErr))
			assert.Equal(t, tt.status, serverErr.StatusCode)
			assert.Equal(t, tt.wantMessage, serverErr.Message)
		})
	}
}

func TestTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := newTestClient(t, nil, 50*time.Millisecond)
	err := client.Get(context.Background(), &entity.Session{AccessToken: "t"}, srv.URL, nil)

	var transportErr *entity.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, transportErr.Timeout)
}

func TestCallDeadlineOverridesRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"signed"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, nil, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var out entity.MessageResponse
	require.NoError(t, client.Post(ctx, &entity.Session{AccessToken: "t"}, srv.URL, map[string]string{}, &out))
	assert.Equal(t, "signed", out.Message)
}

func TestUnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := newTestClient(t, nil, time.Second)
	err := client.Get(context.Background(), &entity.Session{AccessToken: "t"}, url, nil)

	var transportErr *entity.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.False(t, transportErr.Timeout)
}

func TestCanceledContextIsNotTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	client := newTestClient(t, nil, time.Second)
	err := client.Get(ctx, &entity.Session{AccessToken: "t"}, srv.URL, nil)

	assert.True(t, errors.Is(err, context.Canceled))
	var transportErr *entity.TransportError
	assert.False(t, errors.As(err, &transportErr))
}

func TestPostMultipartSendsFieldsAndFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, `{"page":1}`, r.FormValue("position"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "contract.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(content))

		_, _ = io.WriteString(w, `{"message":"stored"}`)
	}))
	defer srv.Close()

	saver := newRecordingSaver()
	client := newTestClient(t, saver, time.Second)

	var out entity.MessageResponse
	err := client.PostMultipart(context.Background(), &entity.Session{AccessToken: "t", UserID: "user-9"}, srv.URL,
		map[string]string{"position": `{"page":1}`},
		map[string]FileUpload{"file": {Filename: "contract.pdf", Content: []byte("%PDF-1.4")}},
		&out,
	)
	require.NoError(t, err)
	assert.Equal(t, "stored", out.Message)

	select {
	case <-saver.done:
	case <-time.After(time.Second):
		t.Fatal("api log was not saved")
	}

	saver.mu.Lock()
	defer saver.mu.Unlock()
	require.Len(t, saver.logs, 1)
	assert.Equal(t, "user-9", saver.logs[0].UserID)
	assert.Equal(t, "{fields: [position], files: [file(contract.pdf, 8 bytes)]}", saver.logs[0].RequestBody)
}

func TestRedactSecrets(t *testing.T) {
	out := redactSecrets([]byte(`{"email":"a@b.c","password":"hunter2"}`))
	assert.JSONEq(t, `{"email":"a@b.c","password":"***"}`, string(out))

	assert.Equal(t, `not json`, string(redactSecrets([]byte(`not json`))))
}
