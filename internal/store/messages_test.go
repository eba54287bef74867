package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivienda/bienesraices/internal/model"
)

func TestMessagesListByProperty(t *testing.T) {
	f := newPropsFixture(t)
	msgs := NewMessages(f.db)
	users := NewUsers(f.db)
	ctx := context.Background()

	sender := newTestUser("comprador@example.com")
	require.NoError(t, users.Create(ctx, sender))

	prop := f.create(t, "Casa con mensajes")

	first := &model.Message{Body: "Me interesa la propiedad", PropertyID: prop.ID, SenderID: sender.ID}
	second := &model.Message{Body: "Sigue disponible?", PropertyID: prop.ID, SenderID: sender.ID}
	require.NoError(t, msgs.Create(ctx, first))
	require.NoError(t, msgs.Create(ctx, second))

	got, err := msgs.ListByProperty(ctx, prop.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	bodies := []string{got[0].Body, got[1].Body}
	assert.ElementsMatch(t, []string{"Me interesa la propiedad", "Sigue disponible?"}, bodies)
	require.NotNil(t, got[0].Sender)
	assert.Equal(t, "comprador@example.com", got[0].Sender.Email)
	assert.Equal(t, "", got[0].Sender.Password, "sender projection must not carry credentials")
	assert.Nil(t, got[0].Sender.Token)
}
