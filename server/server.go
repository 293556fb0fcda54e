package server

import (
	"context"
	"net/http"
	"time"

	"github.com/egaotan/anchor-memo/client"
	"github.com/egaotan/anchor-memo/store"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type MemoSender interface {
	Player() solana.PublicKey
	SendMemo(ctx context.Context, memo string) (*client.Receipt, error)
	Simulate(memo string) (*svm.Receipt, error)
}

type MemoFinder interface {
	GetSentMemo(signature string) ([]*store.SentMemo, error)
	GetRecentSentMemo(limit int) ([]*store.SentMemo, error)
}

type FailureNotifier interface {
	NotifyFailure(payer, memo string, cause error) error
}

type Server struct {
	ctx        context.Context
	logger     *zap.SugaredLogger
	listen     string
	sender     MemoSender
	finder     MemoFinder
	notifier   FailureNotifier
	registry   *prometheus.Registry
	metrics    *metrics
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(ctx context.Context, listen string, sender MemoSender, logger *zap.SugaredLogger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	registry := prometheus.NewRegistry()
	m, err := newMetrics(registry)
	if err != nil {
		return nil, errors.Wrap(err, "register metrics")
	}
	s := &Server{
		ctx:      ctx,
		logger:   logger,
		listen:   listen,
		sender:   sender,
		registry: registry,
		metrics:  m,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) SetFinder(finder MemoFinder) {
	s.finder = finder
}

func (s *Server) SetNotifier(notifier FailureNotifier) {
	s.notifier = notifier
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	g := router.Group("/api")
	g.POST("/sendmemo", s.sendMemo)
	g.POST("/simulate", s.simulate)
	g.GET("/memo/:signature", s.getMemo)
	g.GET("/memos", s.recentMemos)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Service() {
	s.StartRPC()
	<-s.ctx.Done()
	s.StopRPC()
}

func (s *Server) StartRPC() {
	s.httpServer = &http.Server{
		Addr:    s.listen,
		Handler: s.router,
	}
	s.logger.Infof("start rpc server on %s......", s.listen)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Infof("ListenAndServe: %s", err.Error())
		}
	}()
}

func (s *Server) StopRPC() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Infof("shutdown rpc server err: %s", err)
	}
	s.logger.Infof("rpc server has stopped......")
}
