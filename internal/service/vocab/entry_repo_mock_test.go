package vocab

import (
	"context"
	"sync"

	"github.com/heartmarshall/lumen/internal/domain"
)

var _ entryRepo = &entryRepoMock{}

type entryRepoMock struct {
	EntriesFunc func(ctx context.Context, language string) ([]domain.VocabEntry, error)

	calls struct {
		Entries []struct {
			Ctx      context.Context
			Language string
		}
	}
	lockEntries sync.RWMutex
}

func (mock *entryRepoMock) Entries(ctx context.Context, language string) ([]domain.VocabEntry, error) {
	if mock.EntriesFunc == nil {
		panic("entryRepoMock.EntriesFunc: method is nil but entryRepo.Entries was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Language string
	}{Ctx: ctx, Language: language}
	mock.lockEntries.Lock()
	mock.calls.Entries = append(mock.calls.Entries, callInfo)
	mock.lockEntries.Unlock()
	return mock.EntriesFunc(ctx, language)
}

func (mock *entryRepoMock) EntriesCalls() []struct {
	Ctx      context.Context
	Language string
} {
	mock.lockEntries.RLock()
	calls := mock.calls.Entries
	mock.lockEntries.RUnlock()
	return calls
}
