package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/card-scanner/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{Endpoint: srv.URL, APIKey: "secret"}, srv.Client(), nil)
	require.NoError(t, err)
	return c
}

func TestRecognize_TextFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"text", `{"text":"JOHN DOE"}`, "JOHN DOE"},
		{"ocr", `{"ocr":"from ocr"}`, "from ocr"},
		{"result", `{"result":"from result"}`, "from result"},
		{"nested data", `{"data":{"text":"nested"}}`, "nested"},
		{"text wins", `{"text":"first","ocr":"second"}`, "first"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})
			text, _, err := c.Recognize(context.Background(), []byte("img"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestRecognize_SendsKeyAndBase64Image(t *testing.T) {
	var gotKey string
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"text":"ok","confidence":87}`))
	})

	text, conf, err := c.Recognize(context.Background(), []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.InDelta(t, 0.87, conf, 0.0001)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}), gotBody["image"])
}

func TestRecognize_Non2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	})

	_, _, err := c.Recognize(context.Background(), []byte("img"))
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Contains(t, se.Body, "upstream down")
	assert.True(t, errors.Is(err, common.ErrOCR))
}

func TestRecognize_BadResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"no text field", `{"status":"ok"}`},
		{"wrong type", `{"text":42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			_, _, err := c.Recognize(context.Background(), []byte("img"))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrOCR)
		})
	}
}

func TestRecognize_EmptyImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not be called")
	})
	_, _, err := c.Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{}, nil, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
