package card_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/store"
)

func TestCreateDeck(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, snapshots := newTestStore(t)
	savesBefore := snapshots.SaveCalls

	deck, err := s.CreateDeck(context.Background(), "  Dieren  ")
	require.NoError(t, err)
	assert.Equal(t, "Dieren", deck.Name, "deck name should be trimmed")
	assert.False(t, deck.IsSubDeck())
	assert.Equal(t, savesBefore+1, snapshots.SaveCalls, "creating a deck should persist a snapshot")

	_, err = s.CreateDeck(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateSubDeck(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, _ := newTestStore(t)

	parent, err := s.CreateDeck(context.Background(), "Dieren")
	require.NoError(t, err)

	sub, err := s.CreateSubDeck(context.Background(), "Vogels", parent.ID)
	require.NoError(t, err)
	assert.True(t, sub.IsSubDeck())
	require.NotNil(t, sub.ParentID)
	assert.Equal(t, parent.ID, *sub.ParentID)

	t.Run("unknown parent", func(t *testing.T) {
		_, err := s.CreateSubDeck(context.Background(), "Zoogdieren", uuid.New())
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})

	t.Run("nesting under a sub-deck", func(t *testing.T) {
		_, err := s.CreateSubDeck(context.Background(), "Roofvogels", sub.ID)
		assert.ErrorIs(t, err, domain.ErrDeckTooDeep)
	})
}

func TestRenameDeck(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, _ := newTestStore(t)

	deck, err := s.CreateDeck(context.Background(), "Dieren")
	require.NoError(t, err)

	renamed, err := s.RenameDeck(context.Background(), deck.ID, "Wilde dieren")
	require.NoError(t, err)
	assert.Equal(t, "Wilde dieren", renamed.Name)

	got, err := s.GetDeck(deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wilde dieren", got.Name)

	_, err = s.RenameDeck(context.Background(), uuid.New(), "Nergens")
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestDeleteDefaultDeckFailsStoreUnchanged(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, snapshots := newTestStore(t)

	_, _, err := s.AddCard(context.Background(), domain.CardDraft{
		Word: "huis", Definition: "house",
	})
	require.NoError(t, err)

	decksBefore := len(s.TopLevelDecks())
	cardsBefore := len(s.AllCards())
	savesBefore := snapshots.SaveCalls

	err = s.DeleteDeck(context.Background(), domain.DefaultDeckID)
	assert.ErrorIs(t, err, store.ErrDefaultDeck)

	// The failed delete must leave the store untouched
	assert.Len(t, s.TopLevelDecks(), decksBefore)
	assert.Len(t, s.AllCards(), cardsBefore)
	assert.Equal(t, savesBefore, snapshots.SaveCalls, "a rejected delete should not persist")
}

func TestDeleteDeckFallsBackCards(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, _ := newTestStore(t)
	ctx := context.Background()

	dieren, err := s.CreateDeck(ctx, "Dieren")
	require.NoError(t, err)
	eten, err := s.CreateDeck(ctx, "Eten")
	require.NoError(t, err)

	onlyDieren, _, err := s.AddCard(ctx, domain.CardDraft{
		Word: "hond", Definition: "dog", DeckIDs: []uuid.UUID{dieren.ID},
	})
	require.NoError(t, err)
	both, _, err := s.AddCard(ctx, domain.CardDraft{
		Word: "kip", Definition: "chicken", DeckIDs: []uuid.UUID{dieren.ID, eten.ID},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteDeck(ctx, dieren.ID))

	_, err = s.GetDeck(dieren.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)

	// A card whose only deck vanished falls back to the default deck
	got, err := s.GetCard(onlyDieren.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{domain.DefaultDeckID}, got.DeckIDs)

	// A card with another membership keeps it and gains nothing
	got, err = s.GetCard(both.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{eten.ID}, got.DeckIDs)
}

func TestDeleteDeckPromotesSubDecks(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, _ := newTestStore(t)
	ctx := context.Background()

	parent, err := s.CreateDeck(ctx, "Dieren")
	require.NoError(t, err)
	sub, err := s.CreateSubDeck(ctx, "Vogels", parent.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteDeck(ctx, parent.ID))

	got, err := s.GetDeck(sub.ID)
	require.NoError(t, err)
	assert.False(t, got.IsSubDeck(), "sub-decks of a deleted parent surface as top-level")
}

func TestSelectableDecksOrdering(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, _ := newTestStore(t)
	ctx := context.Background()

	// Created interleaved on purpose; listing groups sub-decks under parents
	dieren, err := s.CreateDeck(ctx, "Dieren")
	require.NoError(t, err)
	eten, err := s.CreateDeck(ctx, "Eten")
	require.NoError(t, err)
	vogels, err := s.CreateSubDeck(ctx, "Vogels", dieren.ID)
	require.NoError(t, err)
	fruit, err := s.CreateSubDeck(ctx, "Fruit", eten.ID)
	require.NoError(t, err)
	vissen, err := s.CreateSubDeck(ctx, "Vissen", dieren.ID)
	require.NoError(t, err)

	got := s.SelectableDecks()
	ids := make([]uuid.UUID, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}

	want := []uuid.UUID{
		domain.DefaultDeckID,
		dieren.ID, vogels.ID, vissen.ID,
		eten.ID, fruit.ID,
	}
	assert.Equal(t, want, ids)
}

func TestSubDecks(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, _ := newTestStore(t)
	ctx := context.Background()

	parent, err := s.CreateDeck(ctx, "Dieren")
	require.NoError(t, err)
	sub, err := s.CreateSubDeck(ctx, "Vogels", parent.ID)
	require.NoError(t, err)

	subs := s.SubDecks(parent.ID)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)

	assert.Empty(t, s.SubDecks(sub.ID))

	tops := s.TopLevelDecks()
	require.Len(t, tops, 2) // default deck + Dieren
	for _, d := range tops {
		assert.False(t, d.IsSubDeck())
	}
}

func TestDeckCards(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, _ := newTestStore(t)
	ctx := context.Background()

	dieren, err := s.CreateDeck(ctx, "Dieren")
	require.NoError(t, err)

	inDeck, _, err := s.AddCard(ctx, domain.CardDraft{
		Word: "hond", Definition: "dog", DeckIDs: []uuid.UUID{dieren.ID},
	})
	require.NoError(t, err)
	_, _, err = s.AddCard(ctx, domain.CardDraft{
		Word: "brood", Definition: "bread",
	})
	require.NoError(t, err)

	cards, err := s.DeckCards(dieren.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, inDeck.ID, cards[0].ID)

	_, err = s.DeckCards(uuid.New())
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}
