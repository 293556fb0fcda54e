package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/egaotan/anchor-memo/client"
	"github.com/egaotan/anchor-memo/store"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	err      error
	simulate *svm.Receipt
}

func (f *fakeSender) Player() solana.PublicKey {
	return solana.PublicKey{1}
}

func (f *fakeSender) SendMemo(ctx context.Context, memo string) (*client.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &client.Receipt{
		Signature: solana.Signature{9},
		URL:       client.ExplorerURL(solana.Signature{9}, "devnet"),
		Fee:       client.Fee(1),
		Signers:   []solana.PublicKey{{2}},
	}, nil
}

func (f *fakeSender) Simulate(memo string) (*svm.Receipt, error) {
	return f.simulate, f.err
}

type fakeFinder struct {
	rows []*store.SentMemo
}

func (f *fakeFinder) GetSentMemo(signature string) ([]*store.SentMemo, error) {
	found := make([]*store.SentMemo, 0)
	for _, row := range f.rows {
		if row.Signature == signature {
			found = append(found, row)
		}
	}
	return found, nil
}

func (f *fakeFinder) GetRecentSentMemo(limit int) ([]*store.SentMemo, error) {
	if limit > len(f.rows) {
		limit = len(f.rows)
	}
	return f.rows[:limit], nil
}

type fakeNotifier struct {
	calls int
}

func (f *fakeNotifier) NotifyFailure(payer, memo string, cause error) error {
	f.calls++
	return nil
}

func newServer(t *testing.T, sender MemoSender) *Server {
	gin.SetMode(gin.TestMode)
	s, err := NewServer(context.Background(), "127.0.0.1:0", sender, nil)
	require.NoError(t, err)
	return s
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_SendMemo(t *testing.T) {
	s := newServer(t, &fakeSender{})
	w := do(s, http.MethodPost, "/api/sendmemo", `{"memo":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp SendMemoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, solana.Signature{9}.String(), resp.Signature)
	assert.Equal(t, "0.000005", resp.Fee)
	assert.Equal(t, []string{solana.PublicKey{2}.String()}, resp.Signers)

	metrics := do(s, http.MethodGet, "/metrics", "")
	assert.Contains(t, metrics.Body.String(), "memorelay_sent_total 1")
}

func TestServer_SendMemoErrors(t *testing.T) {
	notifier := &fakeNotifier{}
	sender := &fakeSender{err: client.ErrEmptyMemo}
	s := newServer(t, sender)
	s.SetNotifier(notifier)

	w := do(s, http.MethodPost, "/api/sendmemo", `{"memo":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, notifier.calls)

	sender.err = errors.Wrap(client.ErrInsufficientFunds, "send transaction")
	w = do(s, http.MethodPost, "/api/sendmemo", `{"memo":"hello"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Retriable)
	assert.Equal(t, 1, notifier.calls)

	w = do(s, http.MethodPost, "/api/sendmemo", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	metrics := do(s, http.MethodGet, "/metrics", "")
	assert.Contains(t, metrics.Body.String(), "memorelay_failed_total 2")
}

func TestServer_Simulate(t *testing.T) {
	sender := &fakeSender{
		simulate: &svm.Receipt{Logs: []string{"Program log: Instruction: SendMemo"}},
		err:      &svm.InstructionError{Index: 0, Err: svm.ErrPrivilegeEscalation},
	}
	s := newServer(t, sender)
	w := do(s, http.MethodPost, "/api/simulate", `{"memo":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Program log: Instruction: SendMemo"}, resp.Logs)
	assert.Contains(t, resp.Error, "Error processing Instruction 0")

	sender.simulate = nil
	sender.err = client.ErrMemoTooLong
	w = do(s, http.MethodPost, "/api/simulate", `{"memo":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_GetMemo(t *testing.T) {
	s := newServer(t, &fakeSender{})
	w := do(s, http.MethodGet, "/api/memo/abc", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	s.SetFinder(&fakeFinder{rows: []*store.SentMemo{
		{Id: 1, Signature: "abc", Memo: "hello", Status: store.StatusSent},
		{Id: 2, Signature: "def", Memo: "world", Status: store.StatusSent},
	}})
	w = do(s, http.MethodGet, "/api/memo/abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sent store.SentMemo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	assert.Equal(t, "hello", sent.Memo)

	w = do(s, http.MethodGet, "/api/memo/zzz", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(s, http.MethodGet, "/api/memos?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var recent []*store.SentMemo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recent))
	assert.Len(t, recent, 1)

	w = do(s, http.MethodGet, "/api/memos?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
