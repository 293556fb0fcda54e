package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/egaotan/anchor-memo/client"
	"github.com/egaotan/anchor-memo/store"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const maxRecent = 100

type MemoRequest struct {
	Memo string `json:"memo"`
}

type SendMemoResponse struct {
	Signature string   `json:"signature"`
	URL       string   `json:"url"`
	Fee       string   `json:"fee"`
	Signers   []string `json:"signers"`
}

type SimulateResponse struct {
	Logs  []string `json:"logs"`
	Memos int      `json:"memos"`
	Error string   `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Retriable bool   `json:"retriable"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, client.ErrEmptyMemo), errors.Is(err, client.ErrMemoTooLong), errors.Is(err, svm.ErrInvalidInstructionData):
		return http.StatusBadRequest
	case errors.Is(err, client.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, client.ErrNoWallet):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func (s *Server) sendMemo(c *gin.Context) {
	var req MemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}
	start := time.Now()
	receipt, err := s.sender.SendMemo(c.Request.Context(), req.Memo)
	s.metrics.latency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.failed.Inc()
		s.logger.Infof("send memo err: %s", err)
		status := statusOf(err)
		if status != http.StatusBadRequest && s.notifier != nil {
			if nerr := s.notifier.NotifyFailure(s.sender.Player().String(), req.Memo, err); nerr != nil {
				s.logger.Infof("notify err: %s", nerr)
			}
		}
		c.JSON(status, &ErrorResponse{Error: err.Error(), Retriable: client.Retriable(err)})
		return
	}
	s.metrics.sent.Inc()
	signers := make([]string, 0, len(receipt.Signers))
	for _, signer := range receipt.Signers {
		signers = append(signers, signer.String())
	}
	c.JSON(http.StatusOK, &SendMemoResponse{
		Signature: receipt.Signature.String(),
		URL:       receipt.URL,
		Fee:       receipt.Fee.String(),
		Signers:   signers,
	})
}

func (s *Server) simulate(c *gin.Context) {
	var req MemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}
	s.metrics.simulated.Inc()
	receipt, err := s.sender.Simulate(req.Memo)
	if receipt == nil {
		if err == nil {
			err = errors.New("no simulation result")
		}
		c.JSON(statusOf(err), &ErrorResponse{Error: err.Error()})
		return
	}
	resp := &SimulateResponse{
		Logs:  receipt.Logs,
		Memos: len(receipt.Memos),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getMemo(c *gin.Context) {
	if s.finder == nil {
		c.JSON(http.StatusServiceUnavailable, &ErrorResponse{Error: "store is disabled"})
		return
	}
	sent, err := s.finder.GetSentMemo(c.Param("signature"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	if len(sent) == 0 {
		c.JSON(http.StatusNotFound, &ErrorResponse{Error: "memo not found"})
		return
	}
	c.JSON(http.StatusOK, sent[0])
}

func (s *Server) recentMemos(c *gin.Context) {
	if s.finder == nil {
		c.JSON(http.StatusServiceUnavailable, &ErrorResponse{Error: "store is disabled"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: "limit is invalid"})
		return
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	sent, err := s.finder.GetRecentSentMemo(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		return
	}
	if sent == nil {
		sent = []*store.SentMemo{}
	}
	c.JSON(http.StatusOK, sent)
}
