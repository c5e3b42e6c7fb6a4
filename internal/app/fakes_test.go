package app

import (
	"context"
	"encoding/json"

	"gopkg.in/telebot.v3"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeTelegramClient struct {
	sent []sentMessage
	err  error
}

func (f *fakeTelegramClient) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fetchResult struct {
	raw json.RawMessage
	err error
}

type fakeFetcher struct {
	results []fetchResult
	calls   []int64
}

func (f *fakeFetcher) Fetch(_ context.Context, fromDate int64) (json.RawMessage, error) {
	f.calls = append(f.calls, fromDate)
	if len(f.results) == 0 {
		return json.RawMessage(`{"homeworks": []}`), nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.raw, r.err
}

func (f *fakeFetcher) respond(body string) *fakeFetcher {
	f.results = append(f.results, fetchResult{raw: json.RawMessage(body)})
	return f
}

func (f *fakeFetcher) fail(err error) *fakeFetcher {
	f.results = append(f.results, fetchResult{err: err})
	return f
}
