package service

import (
	"sort"
	"time"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// partnerActivity is one ranked counterpart before profile resolution.
type partnerActivity struct {
	PartnerID      string
	LastActivityAt time.Time
}

// rankPartners derives the viewer's conversation partners ordered by most
// recent activity. It is a deliberate two-phase pass: first the maximum
// creation time per counterpart, then a sort of the counterparts by that
// time. Sorting the raw messages alone does not suffice when the store makes
// no guarantee about its scan order. Partners with identical timestamps keep
// the order in which the scan first encountered them.
func rankPartners(viewerID string, messages []*domain.Message) []partnerActivity {
	latest := make(map[string]time.Time)
	order := make([]string, 0)

	for _, m := range messages {
		partner := m.Counterpart(viewerID)
		if partner == viewerID {
			continue
		}
		seen, ok := latest[partner]
		if !ok {
			order = append(order, partner)
			latest[partner] = m.CreatedAt
		} else if m.CreatedAt.After(seen) {
			latest[partner] = m.CreatedAt
		}
	}

	entries := make([]partnerActivity, len(order))
	for i, partner := range order {
		entries[i] = partnerActivity{PartnerID: partner, LastActivityAt: latest[partner]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastActivityAt.After(entries[j].LastActivityAt)
	})
	return entries
}
