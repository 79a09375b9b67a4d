package services

import (
	"stockgrow/database"
	"stockgrow/models"

	"github.com/google/uuid"
)

// SupportService covers news publishing and support tickets. Both live in
// the same snapshot as the ledger so an export carries everything.
type SupportService struct {
	store *database.Store
}

func NewSupportService(store *database.Store) *SupportService {
	return &SupportService{store: store}
}

// News returns items newest first.
func (s *SupportService) News() []models.NewsItem {
	items := []models.NewsItem{}
	s.store.View(func(snap *models.Snapshot) {
		for i := len(snap.News) - 1; i >= 0; i-- {
			items = append(items, snap.News[i])
		}
	})
	return items
}

func (s *SupportService) PublishNews(title, content string, newsType models.NewsType) (models.NewsItem, error) {
	item := models.NewsItem{
		ID:      "news_" + uuid.NewString(),
		Title:   title,
		Content: content,
		Date:    nowISO(),
		Type:    newsType,
	}
	err := s.store.Update(func(snap *models.Snapshot) error {
		snap.News = append(snap.News, item)
		return nil
	})
	return item, err
}

func (s *SupportService) DeleteNews(id string) error {
	return s.store.Update(func(snap *models.Snapshot) error {
		filtered := snap.News[:0]
		for _, n := range snap.News {
			if n.ID != id {
				filtered = append(filtered, n)
			}
		}
		snap.News = filtered
		return nil
	})
}

// SubmitTicket opens a ticket on behalf of the given user.
func (s *SupportService) SubmitTicket(userID, message string) (models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := s.store.Update(func(snap *models.Snapshot) error {
		user := findUserByID(snap, userID)
		if user == nil {
			return ErrAccountNotFound
		}
		ticket = models.SupportTicket{
			ID:         "tkt_" + uuid.NewString(),
			UserID:     user.ID,
			UserName:   user.Name,
			UserMobile: user.Mobile,
			Message:    message,
			Status:     models.TicketOpen,
			Date:       nowISO(),
		}
		snap.Tickets = append(snap.Tickets, ticket)
		return nil
	})
	return ticket, err
}

// TicketsForUser returns the user's tickets newest first.
func (s *SupportService) TicketsForUser(userID string) []models.SupportTicket {
	tickets := []models.SupportTicket{}
	s.store.View(func(snap *models.Snapshot) {
		for i := len(snap.Tickets) - 1; i >= 0; i-- {
			if snap.Tickets[i].UserID == userID {
				tickets = append(tickets, snap.Tickets[i])
			}
		}
	})
	return tickets
}

// AllTickets returns every ticket newest first for the admin inbox.
func (s *SupportService) AllTickets() []models.SupportTicket {
	tickets := []models.SupportTicket{}
	s.store.View(func(snap *models.Snapshot) {
		for i := len(snap.Tickets) - 1; i >= 0; i-- {
			tickets = append(tickets, snap.Tickets[i])
		}
	})
	return tickets
}

// ReplyTicket stores the admin reply and resolves the ticket. Unknown ids
// are a no-op, matching the forgiving admin UI.
func (s *SupportService) ReplyTicket(ticketID, reply string) error {
	return s.store.Update(func(snap *models.Snapshot) error {
		for i := range snap.Tickets {
			if snap.Tickets[i].ID == ticketID {
				snap.Tickets[i].AdminReply = reply
				snap.Tickets[i].Status = models.TicketResolved
				return nil
			}
		}
		return nil
	})
}
