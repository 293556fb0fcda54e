package store

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

type SentMemo struct {
	Id           uint64 `gorm:"primaryKey;autoIncrement;type:bigint(20);not null"`
	Signature    string `gorm:"index;type:varchar(120);not null"`
	Payer        string `gorm:"type:varchar(48);not null"`
	Signers      string `gorm:"type:text"`
	Memo         string `gorm:"type:text"`
	Fee          string `gorm:"type:varchar(32)"`
	Status       string `gorm:"type:varchar(16);not null"`
	Error        string `gorm:"type:text"`
	SendTime     uint64 `gorm:"type:bigint(20);not null"`
	ResponseTime uint64 `gorm:"type:bigint(20);not null"`
}
