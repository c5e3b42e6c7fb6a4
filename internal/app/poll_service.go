// internal/app/poll_service.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"homework_status_bot/internal/domain/homework"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fetcher returns the raw API answer for homeworks changed since fromDate.
type Fetcher interface {
	Fetch(ctx context.Context, fromDate int64) (json.RawMessage, error)
}

// CycleOutcome tells how a single poll cycle ended.
type CycleOutcome int

const (
	OutcomeNoChange CycleOutcome = iota
	OutcomeNotified
	OutcomeFailed
)

func (o CycleOutcome) String() string {
	switch o {
	case OutcomeNoChange:
		return "no_change"
	case OutcomeNotified:
		return "notified"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PollService runs poll cycles and owns the time cursor between them.
type PollService interface {
	// RunCycle performs one fetch-check-notify cycle. Failures are already
	// reported to the chat when RunCycle returns them.
	RunCycle(ctx context.Context) (CycleOutcome, error)
	// Cursor returns the from_date the next cycle will use.
	Cursor() int64
}

// HomeworkPollService implements the PollService interface.
type HomeworkPollService struct {
	fetcher  Fetcher
	notifier *Notifier
	logger   *logrus.Logger

	mu     sync.Mutex
	cursor int64
}

func NewHomeworkPollService(f Fetcher, n *Notifier, logger *logrus.Logger, startCursor int64) *HomeworkPollService {
	return &HomeworkPollService{
		fetcher:  f,
		notifier: n,
		logger:   logger,
		cursor:   startCursor,
	}
}

func (s *HomeworkPollService) Cursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *HomeworkPollService) RunCycle(ctx context.Context) (CycleOutcome, error) {
	cursor := s.Cursor()
	log := s.logger.WithFields(logrus.Fields{
		"cycle_id":  uuid.NewString(),
		"from_date": cursor,
	})

	outcome, currentDate, err := s.process(ctx, cursor, log)
	if err != nil {
		s.reportFailure(log, err)
		return OutcomeFailed, err
	}

	// The cursor moves on any successful response, whether or not it
	// carried a change.
	if currentDate != nil {
		s.mu.Lock()
		s.cursor = *currentDate
		s.mu.Unlock()
		log.WithField("current_date", *currentDate).Debug("Cursor advanced")
	}
	log.WithField("outcome", outcome.String()).Debug("Cycle finished")
	return outcome, nil
}

func (s *HomeworkPollService) process(ctx context.Context, cursor int64, log *logrus.Entry) (CycleOutcome, *int64, error) {
	raw, err := s.fetcher.Fetch(ctx, cursor)
	if err != nil {
		return OutcomeFailed, nil, err
	}

	resp, err := homework.CheckResponse(raw)
	if err != nil {
		return OutcomeFailed, nil, err
	}

	if len(resp.Homeworks) == 0 {
		log.Debug("Нет изменения статуса домашней работы")
		return OutcomeNoChange, resp.CurrentDate, nil
	}

	// Only the most recent homework is reported.
	message, err := homework.ParseStatus(resp.Homeworks[0])
	if err != nil {
		return OutcomeFailed, nil, err
	}

	s.notifier.notify(log.WithField("component", "notifier"), message)
	return OutcomeNotified, resp.CurrentDate, nil
}

// reportFailure logs the failure by kind and forwards it to the chat, which
// is the operator's only signal source.
func (s *HomeworkPollService) reportFailure(cycleLog *logrus.Entry, err error) {
	log := cycleLog.WithError(err)

	switch kind := homework.KindOf(err); kind {
	case homework.KindTransport:
		log.Error("Ошибка при запросе к API")
	case homework.KindUnexpectedStatus, homework.KindMalformedBody:
		entry := log.WithField("kind", kind.String())
		var he *homework.Error
		if errors.As(err, &he) {
			entry = entry.WithField("status_code", he.StatusCode)
		}
		entry.Error("API вернул неожиданный ответ")
	case homework.KindShape:
		log.Error("Данные не соответствуют ожидаемым")
	case homework.KindMissingField, homework.KindUnknownStatus:
		log.WithField("kind", kind.String()).Error("Ошибка при получении статуса домашней работы")
	default:
		log.Error("Непредвиденная ошибка в цикле опроса")
	}

	s.notifier.notify(cycleLog.WithField("component", "notifier"), fmt.Sprintf("Сбой в работе программы: %v", err))
}
