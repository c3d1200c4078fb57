package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"wishlist/api/internal/session"
	"wishlist/api/internal/wishlist"
)

type fakeJudge struct {
	reply      string
	panelReply wishlist.PanelReply
	err        error
}

func (f *fakeJudge) Chat(context.Context, wishlist.Persona, string, string) (string, error) {
	return f.reply, f.err
}

func (f *fakeJudge) Panel(context.Context, string, string) (wishlist.PanelReply, error) {
	return f.panelReply, f.err
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(context.Context, []byte) (string, error) {
	return f.text, f.err
}

func newTestServer(t *testing.T, judge *fakeJudge, extractor *fakeExtractor, leases session.LeaseStore) *HTTPServer {
	t.Helper()
	if leases == nil {
		leases = session.NewMemoryStore()
	}
	factory := func(id string) (*wishlist.Session, error) {
		return wishlist.Init(wishlist.Options{
			ID:        id,
			Assigner:  wishlist.NewSeededVerdictAssigner(1, 0),
			Judge:     judge,
			Extractor: extractor,
		})
	}
	registry := session.NewRegistry(leases, factory, time.Hour, nil)
	svc := NewService(registry, judge, extractor, nil)
	return NewHTTPServer(svc, "*", 1<<20, nil)
}

func doJSON(t *testing.T, server *HTTPServer, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func doUpload(t *testing.T, server *HTTPServer, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	return doUploadAs(t, server, path, filename, "application/octet-stream", data)
}

// doUploadAs sends data as the "file" part with an explicit part Content-Type.
func doUploadAs(t *testing.T, server *HTTPServer, path, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) wishlist.View {
	t.Helper()
	var view wishlist.View
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v (body %s)", err, rr.Body.String())
	}
	return view
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return payload.Code
}

var errBackend = errors.New("backend down")
