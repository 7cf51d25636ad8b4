package email

import (
	"context"
	"fmt"
	"strings"

	"greensteps/internal/reward"
	"greensteps/internal/user"
)

type UserFinder interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// BadgeNotifier queues a congratulation mail when a user reaches a new badge.
type BadgeNotifier struct {
	users UserFinder
	mail  *Service
}

func NewBadgeNotifier(users UserFinder, mail *Service) *BadgeNotifier {
	return &BadgeNotifier{users: users, mail: mail}
}

func (n *BadgeNotifier) BadgeEarned(ctx context.Context, userID int, badge reward.Badge, points int) error {
	u, err := n.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", userID, err)
	}
	return n.mail.SendBadgeEarned(ctx, u.Email, u.Name, string(badge), points)
}

// BadgeTitle turns GREEN_HERO into "Green Hero".
func BadgeTitle(badge string) string {
	words := strings.Split(strings.ToLower(badge), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
