package deck

import (
	"context"
	"sync"
)

var _ deckClient = &deckClientMock{}

type deckClientMock struct {
	CreateDeckFunc func(ctx context.Context, deck string) (int64, error)
	AddNoteFunc    func(ctx context.Context, deck string, front string, back string, tags []string) (int64, error)

	calls struct {
		CreateDeck []struct {
			Ctx  context.Context
			Deck string
		}
		AddNote []struct {
			Ctx   context.Context
			Deck  string
			Front string
			Back  string
			Tags  []string
		}
	}
	lockCreateDeck sync.RWMutex
	lockAddNote    sync.RWMutex
}

func (mock *deckClientMock) CreateDeck(ctx context.Context, deck string) (int64, error) {
	if mock.CreateDeckFunc == nil {
		panic("deckClientMock.CreateDeckFunc: method is nil but deckClient.CreateDeck was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Deck string
	}{Ctx: ctx, Deck: deck}
	mock.lockCreateDeck.Lock()
	mock.calls.CreateDeck = append(mock.calls.CreateDeck, callInfo)
	mock.lockCreateDeck.Unlock()
	return mock.CreateDeckFunc(ctx, deck)
}

func (mock *deckClientMock) CreateDeckCalls() []struct {
	Ctx  context.Context
	Deck string
} {
	mock.lockCreateDeck.RLock()
	calls := mock.calls.CreateDeck
	mock.lockCreateDeck.RUnlock()
	return calls
}

func (mock *deckClientMock) AddNote(ctx context.Context, deck string, front string, back string, tags []string) (int64, error) {
	if mock.AddNoteFunc == nil {
		panic("deckClientMock.AddNoteFunc: method is nil but deckClient.AddNote was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Deck  string
		Front string
		Back  string
		Tags  []string
	}{Ctx: ctx, Deck: deck, Front: front, Back: back, Tags: tags}
	mock.lockAddNote.Lock()
	mock.calls.AddNote = append(mock.calls.AddNote, callInfo)
	mock.lockAddNote.Unlock()
	return mock.AddNoteFunc(ctx, deck, front, back, tags)
}

func (mock *deckClientMock) AddNoteCalls() []struct {
	Ctx   context.Context
	Deck  string
	Front string
	Back  string
	Tags  []string
} {
	mock.lockAddNote.RLock()
	calls := mock.calls.AddNote
	mock.lockAddNote.RUnlock()
	return calls
}
