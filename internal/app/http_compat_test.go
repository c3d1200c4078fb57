package app

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist/api/internal/wishlist"
)

func TestStatelessChat(t *testing.T) {
	server := newTestServer(t, &fakeJudge{reply: "Ho ho!"}, &fakeExtractor{}, nil)

	rr := doJSON(t, server, http.MethodPost, "/api/chat", map[string]string{"message": "hi", "character": "devil", "cv_context": "cv"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"reply":"Ho ho!"}`, rr.Body.String())

	rr = doJSON(t, server, http.MethodPost, "/api/chat", map[string]string{"message": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestStatelessChatBlankReplyFallsBack(t *testing.T) {
	server := newTestServer(t, &fakeJudge{reply: " "}, &fakeExtractor{}, nil)

	rr := doJSON(t, server, http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"reply":"`+wishlist.ChatFallback+`"}`, rr.Body.String())
}

func TestStatelessChatBackendFailure(t *testing.T) {
	server := newTestServer(t, &fakeJudge{err: errBackend}, &fakeExtractor{}, nil)

	rr := doJSON(t, server, http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errorCode(t, rr))
}

func TestStatelessPanel(t *testing.T) {
	judge := &fakeJudge{panelReply: wishlist.PanelReply{Angel: "a", Devil: "d", Nicholas: "n"}}
	server := newTestServer(t, judge, &fakeExtractor{}, nil)

	rr := doJSON(t, server, http.MethodPost, "/api/chat/panel", map[string]string{"message": "should I?"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"angel":"a","devil":"d","nicholas":"n"}`, rr.Body.String())
}

func TestStatelessUpload(t *testing.T) {
	server := newTestServer(t, &fakeJudge{}, &fakeExtractor{text: "Elf, 300 years"}, nil)

	rr := doUpload(t, server, "/api/upload-cv", "resume.PDF", []byte("%PDF-1.7"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"cv_text":"Elf, 300 years"}`, rr.Body.String())

	rr = doUpload(t, server, "/api/upload-cv", "resume.docx", []byte("PK\x03\x04"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestStatelessUploadEmptyText(t *testing.T) {
	server := newTestServer(t, &fakeJudge{}, &fakeExtractor{text: "   "}, nil)

	rr := doUpload(t, server, "/api/upload-cv", "scan.pdf", []byte("%PDF-1.7"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "EMPTY_DOCUMENT", errorCode(t, rr))
}

func TestUploadTrustsFilenameExtensionOnly(t *testing.T) {
	server := newTestServer(t, &fakeJudge{}, &fakeExtractor{text: "Elf, 300 years"}, nil)

	cases := []struct {
		name        string
		filename    string
		contentType string
		status      int
	}{
		{"pdf extension", "cv.pdf", "application/octet-stream", http.StatusOK},
		{"docx declared as pdf", "resume.docx", "application/pdf", http.StatusUnsupportedMediaType},
		{"no extension sniffing as pdf", "resume", "application/pdf", http.StatusUnsupportedMediaType},
		{"text file", "cv.txt", "text/plain", http.StatusUnsupportedMediaType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doUploadAs(t, server, "/api/upload-cv", tc.filename, tc.contentType, []byte("%PDF-1.7"))
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}
}

func TestUploadMediaType(t *testing.T) {
	assert.Equal(t, wishlist.MIMEPDF, uploadMediaType("CV.PDF"))
	assert.NotEqual(t, wishlist.MIMEPDF, uploadMediaType("cv.docx"))
	assert.Equal(t, "application/octet-stream", uploadMediaType("cv"))
	assert.Equal(t, "application/octet-stream", uploadMediaType("cv.nothing-registered"))
}
