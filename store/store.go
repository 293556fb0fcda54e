package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Saver interface {
	SaveSentMemo(sent *SentMemo) error
	SelectSentMemo(signature string) ([]*SentMemo, error)
	SelectRecentSentMemo(limit int) ([]*SentMemo, error)
}

// Store writes sent memos on its own goroutine so senders never wait on the db.
type Store struct {
	ctx      context.Context
	wg       sync.WaitGroup
	logger   *zap.SugaredLogger
	sentChan chan *SentMemo
	dao      Saver
}

func NewStore(ctx context.Context, dao Saver, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Store{
		ctx:      ctx,
		logger:   logger,
		sentChan: make(chan *SentMemo, 32),
		dao:      dao,
	}
	return s
}

func (s *Store) Start() {
	s.wg.Add(1)
	go s.store()
}

// Stop waits for the writer, which exits once ctx is done and the queue is drained.
func (s *Store) Stop() {
	s.wg.Wait()
}

func (s *Store) store() {
	defer s.wg.Done()
	for {
		select {
		case sent := <-s.sentChan:
			s.save(sent)
		case <-s.ctx.Done():
			for {
				select {
				case sent := <-s.sentChan:
					s.save(sent)
				default:
					return
				}
			}
		}
	}
}

func (s *Store) save(sent *SentMemo) {
	if err := s.dao.SaveSentMemo(sent); err != nil {
		s.logger.Infof("save sent memo(%s) err: %s", sent.Signature, err)
	}
}

func (s *Store) StoreSentMemo(sent *SentMemo) {
	select {
	case s.sentChan <- sent:
	case <-s.ctx.Done():
		s.logger.Infof("store is closed, drop sent memo: %s", sent.Signature)
	}
}

func (s *Store) GetSentMemo(signature string) ([]*SentMemo, error) {
	return s.dao.SelectSentMemo(signature)
}

func (s *Store) GetRecentSentMemo(limit int) ([]*SentMemo, error) {
	return s.dao.SelectRecentSentMemo(limit)
}
