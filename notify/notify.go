package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type DingContent struct {
	Content string `json:"content"`
}

type DingAt struct {
	IsAtAll bool `json:"isAtAll"`
}

type DingNotify struct {
	MsgType string      `json:"msgtype"`
	Text    DingContent `json:"text"`
	At      DingAt      `json:"at"`
}

type DingResult struct {
	ErrCode int64  `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Notifier posts text messages to a DingTalk robot webhook.
type Notifier struct {
	url    string
	client *http.Client
}

func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *Notifier) Notify(content string) error {
	notify := &DingNotify{
		MsgType: "text",
		Text:    DingContent{Content: content},
	}
	body, err := json.Marshal(notify)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accepts", "application/json")
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post notify")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("response status code: %d", resp.StatusCode)
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	result := new(DingResult)
	if err := json.Unmarshal(respBody, result); err != nil {
		return err
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("code: %d, err: %s", result.ErrCode, result.ErrMsg)
	}
	return nil
}

// NotifyFailure reports a memo that could not be sent.
func (n *Notifier) NotifyFailure(payer, memo string, cause error) error {
	return n.Notify(fmt.Sprintf("memo relay send failed;\npayer: %s;\nmemo: %q;\nerr: %s;\ntime: %s;",
		payer, memo, cause, time.Now().Format("2006-01-02 15:04:05")))
}
