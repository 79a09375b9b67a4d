package services

import (
	"testing"

	"stockgrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsNewestFirst(t *testing.T) {
	s := NewSupportService(newTestStore(t))

	first, err := s.PublishNews("Welcome", "Platform is live", models.NewsInfo)
	require.NoError(t, err)
	second, err := s.PublishNews("Bonus weekend", "Double referral payouts", models.NewsBonus)
	require.NoError(t, err)

	items := s.News()
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestDeleteNews(t *testing.T) {
	s := NewSupportService(newTestStore(t))

	item, err := s.PublishNews("Welcome", "Platform is live", models.NewsInfo)
	require.NoError(t, err)

	require.NoError(t, s.DeleteNews(item.ID))
	assert.Empty(t, s.News())

	// Unknown id is a no-op.
	require.NoError(t, s.DeleteNews("news_nothere"))
}

func TestTicketLifecycle(t *testing.T) {
	store := newTestStore(t)
	ledger := NewLedgerService(store)
	s := NewSupportService(store)

	user, err := ledger.Register("Ali", "03001234567", "secret123", "")
	require.NoError(t, err)

	ticket, err := s.SubmitTicket(user.ID, "My deposit is stuck")
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	assert.Equal(t, "Ali", ticket.UserName)
	assert.Equal(t, "03001234567", ticket.UserMobile)

	require.NoError(t, s.ReplyTicket(ticket.ID, "Approved just now"))

	mine := s.TicketsForUser(user.ID)
	require.Len(t, mine, 1)
	assert.Equal(t, models.TicketResolved, mine[0].Status)
	assert.Equal(t, "Approved just now", mine[0].AdminReply)

	assert.Len(t, s.AllTickets(), 1)
}

func TestSubmitTicketUnknownUser(t *testing.T) {
	s := NewSupportService(newTestStore(t))

	_, err := s.SubmitTicket("user_nothere", "hello")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestReplyTicketUnknownID(t *testing.T) {
	s := NewSupportService(newTestStore(t))
	assert.NoError(t, s.ReplyTicket("tkt_nothere", "reply"))
}
