package store

import (
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Dao struct {
	db *gorm.DB
}

func DSN(url, scheme, user, passwd string) string {
	return user + ":" + passwd + "@tcp(" + url + ")/" + scheme + "?charset=utf8mb4&parseTime=True"
}

func NewDao(url, scheme, user, passwd string) (*Dao, error) {
	db, err := gorm.Open(mysql.Open(DSN(url, scheme, user, passwd)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	return NewDaoWithDB(db)
}

// NewDaoWithDB migrates the schema on an already opened connection.
func NewDaoWithDB(db *gorm.DB) (*Dao, error) {
	if err := db.AutoMigrate(&SentMemo{}); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return &Dao{db: db}, nil
}

func (dao *Dao) SaveSentMemo(sent *SentMemo) error {
	return dao.db.Create(sent).Error
}

func (dao *Dao) SelectSentMemo(signature string) ([]*SentMemo, error) {
	sent := make([]*SentMemo, 0)
	res := dao.db.Where("signature = ?", signature).Find(&sent)
	return sent, res.Error
}

func (dao *Dao) SelectRecentSentMemo(limit int) ([]*SentMemo, error) {
	sent := make([]*SentMemo, 0)
	res := dao.db.Order("id desc").Limit(limit).Find(&sent)
	return sent, res.Error
}
