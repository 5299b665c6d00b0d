package imagehost

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUpload_NotConfigured(t *testing.T) {
	c := New("", "")
	if c.UploadURL != DefaultUploadURL {
		t.Fatalf("UploadURL = %q", c.UploadURL)
	}
	if _, err := c.Upload(context.Background(), []byte("x"), "x.png"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

func TestUpload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("key") != "secret" {
			t.Errorf("key = %q", r.FormValue("key"))
		}
		img, _ := base64.StdEncoding.DecodeString(r.FormValue("image"))
		if string(img) != "PNGDATA" {
			t.Errorf("image = %q", img)
		}
		if r.FormValue("name") != "door.png" {
			t.Errorf("name = %q", r.FormValue("name"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/abc/door.png"}}`))
	}))
	defer srv.Close()

	url, err := New("secret", srv.URL).Upload(context.Background(), []byte("PNGDATA"), "door.png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://i.ibb.co/abc/door.png" {
		t.Fatalf("url = %q", url)
	}
}

func TestUpload_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"success false", http.StatusOK, `{"success":false,"error":{"message":"invalid key"}}`},
		{"missing url", http.StatusOK, `{"success":true,"data":{}}`},
		{"garbage", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			if _, err := New("k", srv.URL).Upload(context.Background(), []byte("x"), ""); !errors.Is(err, ErrUploadFailed) {
				t.Fatalf("want ErrUploadFailed, got %v", err)
			}
		})
	}
}
